package scrape

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/internal/credentials"
	"github.com/pavelc4/aether-fetch/internal/messaging"
	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/internal/workspace"
	"github.com/pavelc4/aether-fetch/pkg/buffer"
	pkghttp "github.com/pavelc4/aether-fetch/pkg/http"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

const (
	PageTimeout  = 25 * time.Second
	AssetTimeout = 60 * time.Second

	maxPageSize = 8 << 20
	apiHint     = "?__a=1&__d=dis"
)

var (
	ErrScrapeExhausted = errors.New("scrape exhausted")

	postPathRegex = regexp.MustCompile(`/p/([A-Za-z0-9_-]+)/`)
	reelPathRegex = regexp.MustCompile(`/reel/([A-Za-z0-9_-]+)/`)
)

// Variants lists the page URLs probed for a post, in order. Duplicates are kept.
func Variants(url string) []string {
	norm := provider.NormalizeInstagram(url)
	mobile := strings.ReplaceAll(norm, "www.instagram.com", "m.instagram.com")
	return []string{
		norm,
		mobile,
		strings.ReplaceAll(norm, "m.instagram.com", "www.instagram.com"),
		postPathRegex.ReplaceAllString(norm, "/reel/$1/"),
		reelPathRegex.ReplaceAllString(norm, "/p/$1/"),
		norm + apiHint,
		mobile + apiHint,
	}
}

type Scraper struct {
	client    *http.Client
	userAgent string
}

func New(client *http.Client, userAgent string) *Scraper {
	if client == nil {
		client = pkghttp.GetScrapeClient()
	}
	if userAgent == "" {
		userAgent = provider.DefaultInstagramUA
	}
	return &Scraper{client: client, userAgent: userAgent}
}

// Result is a downloaded asset that still lives in the caller's scope.
type Result struct {
	Media
	Path string
}

// Scrape finds the post's og:video or og:image and downloads it into scope.
// cookiesPath may be empty.
func (s *Scraper) Scrape(ctx context.Context, url, cookiesPath string, scope *workspace.Scope, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = logger.Log
	}
	norm := provider.NormalizeInstagram(url)
	headers := s.headers(norm, cookiesPath, log)

	page, variant, err := s.fetchPage(ctx, Variants(url), headers, log)
	if err != nil {
		return nil, err
	}

	media, err := ParseMeta(page)
	if err != nil {
		return nil, errors.Wrap(ErrScrapeExhausted, err.Error())
	}
	if media == nil {
		return nil, errors.Wrapf(ErrScrapeExhausted, "no og:video or og:image on %s", variant)
	}
	log.Info("Scrape found media", "kind", media.Kind, "variant", variant)

	path, err := s.download(ctx, media, headers, scope)
	if err != nil {
		return nil, err
	}
	return &Result{Media: *media, Path: path}, nil
}

func (s *Scraper) headers(referer, cookiesPath string, log *slog.Logger) map[string]string {
	h := map[string]string{
		"User-Agent":      s.userAgent,
		"Referer":         referer,
		"Accept":          "*/*",
		"Accept-Language": "en-US,en;q=0.9",
	}
	if cookiesPath == "" {
		return h
	}
	jar, err := credentials.LoadCookieFile(cookiesPath)
	if err != nil {
		log.Warn("Cookie jar unreadable, scraping without cookies", "path", cookiesPath, "error", err)
	}
	if c := credentials.CookieHeader(jar); c != "" {
		h["Cookie"] = c
	}
	return h
}

// fetchPage stops at the first variant that answers 2xx, whatever the body holds.
func (s *Scraper) fetchPage(ctx context.Context, variants []string, headers map[string]string, log *slog.Logger) ([]byte, string, error) {
	for i, u := range variants {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		log.Debug("Scrape GET", "variant", i+1, "url", u)

		page, err := s.getPage(ctx, u, headers)
		if err != nil {
			log.Warn("Scrape variant failed", "variant", i+1, "url", u, "error", err)
			continue
		}
		return page, u, nil
	}
	return nil, "", errors.Wrapf(ErrScrapeExhausted, "all %d variants failed", len(variants))
}

func (s *Scraper) getPage(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, PageTimeout)
	defer cancel()
	return pkghttp.ReadPage(ctx, s.client, url, headers, maxPageSize)
}

func (s *Scraper) download(ctx context.Context, media *Media, headers map[string]string, scope *workspace.Scope) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, AssetTimeout)
	defer cancel()

	assetHeaders := map[string]string{
		"User-Agent": headers["User-Agent"],
		"Referer":    headers["Referer"],
		"Accept":     "*/*",
		"Cookie":     headers["Cookie"],
	}
	body, _, _, err := pkghttp.StreamRequest(ctx, s.client, media.URL, assetHeaders)
	if err != nil {
		return "", errors.Wrap(err, "download asset")
	}
	defer body.Close()

	ext := "mp4"
	if media.Kind == messaging.Photo {
		ext = "jpg"
	}
	path := scope.Path("ig." + ext)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create asset file")
	}
	if _, err := buffer.Copy(f, body); err != nil {
		f.Close()
		return "", errors.Wrap(err, "write asset")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close asset")
	}
	return path, nil
}
