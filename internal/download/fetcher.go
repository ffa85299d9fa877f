package download

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/internal/extractor"
	"github.com/pavelc4/aether-fetch/internal/messaging"
	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/internal/scrape"
	"github.com/pavelc4/aether-fetch/internal/workspace"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

// OutputTemplate is handed to yt-dlp inside the request scope. The numeric
// suffix keeps carousel entries distinct and ordered.
const OutputTemplate = "%(title).80s-%(autonumber)03d.%(ext)s"

// Result is what a successful fetch left in the holding directory.
type Result struct {
	Family provider.Family
	Items  []messaging.Item
	Title  string
}

func (r *Result) Bytes() int64 {
	var n int64
	for _, it := range r.Items {
		n += it.Size
	}
	return n
}

type Fetcher struct {
	workspace *workspace.Workspace
	registry  *provider.Registry
	creds     provider.Credentials
	executor  *extractor.Executor
	scraper   *scrape.Scraper
}

// NewFetcher wires the fetch pipeline. Nil collaborators fall back to defaults;
// creds may stay nil, in which case no cookies are passed anywhere.
func NewFetcher(ws *workspace.Workspace, registry *provider.Registry, creds provider.Credentials, executor *extractor.Executor, scraper *scrape.Scraper) *Fetcher {
	if registry == nil {
		registry = provider.DefaultRegistry()
	}
	if executor == nil {
		executor = extractor.NewExecutor("", nil)
	}
	if scraper == nil {
		scraper = scrape.New(nil, "")
	}
	return &Fetcher{
		workspace: ws,
		registry:  registry,
		creds:     creds,
		executor:  executor,
		scraper:   scraper,
	}
}

func (f *Fetcher) Workspace() *workspace.Workspace {
	return f.workspace
}

// Fetch downloads req.URL into the holding directory. On error nothing owned by
// req.ID is left behind.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Result, error) {
	family := provider.Classify(req.URL)
	if family == provider.Unsupported {
		return nil, ErrUnsupportedHost
	}
	log := logger.With("request", req.ID, "family", family.String())

	scope, err := f.workspace.Scope()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := scope.Close(); err != nil {
			log.Warn("Failed to remove scoped dir", "dir", scope.Dir(), "error", err)
		}
	}()

	attempts, norm, err := f.registry.BuildAttempts(req.URL, scope.Path(OutputTemplate), f.creds)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log.Info("Fetch started", "url", norm, "attempts", len(attempts))

	outcome := f.executor.Run(ctx, attempts, log)
	if !outcome.Succeeded() {
		if family == provider.Instagram && errors.Is(outcome.Err, ErrExtractionFailed) {
			res, err := f.scrapeFallback(ctx, req, norm, scope, log)
			if err == nil {
				logger.InfoWithDuration("Fetch finished via scrape", start, "request", req.ID, "items", 1)
				return res, nil
			}
			log.Warn("Instagram scrape failed", "error", err)
		}
		log.Error("All fetch attempts failed", "url", norm, "executed", outcome.Executed())
		return nil, outcome.Err
	}

	files, err := scope.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFilesProduced
	}

	title := workspace.DeriveTitle(files[0])
	items, err := f.relocate(files, req.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithDuration("Fetch finished", start, "request", req.ID, "items", len(items), "title", title)
	return &Result{Family: family, Items: items, Title: title}, nil
}

func (f *Fetcher) scrapeFallback(ctx context.Context, req Request, norm string, scope *workspace.Scope, log *slog.Logger) (*Result, error) {
	var cookies string
	if f.creds != nil {
		cookies = f.creds.CookiesFor(norm)
	}
	log.Info("Falling back to Instagram page scrape")

	found, err := f.scraper.Scrape(ctx, req.URL, cookies, scope, log)
	if err != nil {
		return nil, err
	}
	items, err := f.relocate([]string{found.Path}, req.ID)
	if err != nil {
		return nil, err
	}
	items[0].Kind = found.Kind

	return &Result{
		Family: provider.Instagram,
		Items:  items,
		Title:  workspace.SanitizeName(found.Title),
	}, nil
}

// relocate moves files into the holding directory in order. A failure releases
// whatever was already moved.
func (f *Fetcher) relocate(files []string, owner string) ([]messaging.Item, error) {
	items := make([]messaging.Item, 0, len(files))
	for _, src := range files {
		dst, err := f.workspace.Relocate(src, owner)
		if err != nil {
			f.workspace.Release(owner)
			return nil, err
		}
		items = append(items, messaging.NewItem(dst))
	}
	return items, nil
}
