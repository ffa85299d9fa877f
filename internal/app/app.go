package app

import (
	"context"
	"os"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-fetch/config"
	"github.com/pavelc4/aether-fetch/internal/bot"
	"github.com/pavelc4/aether-fetch/internal/credentials"
	"github.com/pavelc4/aether-fetch/internal/download"
	"github.com/pavelc4/aether-fetch/internal/extractor"
	"github.com/pavelc4/aether-fetch/internal/handler"
	"github.com/pavelc4/aether-fetch/internal/middleware"
	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/internal/scrape"
	"github.com/pavelc4/aether-fetch/internal/stats"
	"github.com/pavelc4/aether-fetch/internal/telegram"
	"github.com/pavelc4/aether-fetch/internal/workspace"
	"github.com/pavelc4/aether-fetch/pkg/logger"
	"github.com/pavelc4/aether-fetch/pkg/utils"
	"github.com/pavelc4/aether-fetch/pkg/worker"
)

// holdingPatterns matches files a previous run left in the holding directory.
var holdingPatterns = []string{"*-*"}

type App struct {
	Bot  *bot.Bot
	Cfg  *config.Config
	pool *worker.Pool
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.LogLevel)

	ws, err := workspace.New(cfg.Fetch.HoldingDir)
	if err != nil {
		return nil, err
	}
	utils.CleanupTempFilesByPattern(ctx, os.TempDir(), utils.TempFilePatterns)
	utils.CleanupTempFilesByPattern(ctx, ws.HoldingDir(), holdingPatterns)

	resolver := credentials.NewResolver(cfg.Cookies)
	fetcher := download.NewFetcher(ws,
		provider.DefaultRegistry(),
		resolver,
		extractor.NewExecutor(cfg.Fetch.YtdlpBin, nil),
		scrape.New(nil, resolver.UserAgentFor(provider.Instagram)),
	)

	counters := stats.NewCounters()
	service := download.NewService(fetcher, counters)
	probe := stats.NewProbe(ws.HoldingDir(), counters.StartTime())

	pool := worker.NewPool(ctx, cfg.MaxConcurrentFetches)
	logger.Info("Fetch workers started", "workers", pool.Size(), "holding_dir", ws.HoldingDir(), "ytdlp", cfg.Fetch.YtdlpBin)

	dispatcher := tg.NewUpdateDispatcher()

	client, err := telegram.NewClient(cfg, dispatcher)
	if err != nil {
		pool.Stop()
		return nil, err
	}

	dlHandler := handler.NewDownloadHandler(client, service, pool)
	adminHandler := handler.NewAdminHandler(client, cfg, counters, probe, pool)
	basicHandler := handler.NewBasicHandler(client)

	router := bot.NewRouter(dlHandler, adminHandler, basicHandler)

	dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
		handle := func() {
			if err := router.OnMessage(ctx, e, update); err != nil {
				logger.Error("OnMessage failed", "error", err)
			}
		}
		go middleware.Chain(handle, middleware.Recover, middleware.Named("OnNewMessage"))()
		return nil
	})

	dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateNewChannelMessage) error {
		handle := func() {
			if err := router.OnChannelMessage(ctx, e, update); err != nil {
				logger.Error("OnChannelMessage failed", "error", err)
			}
		}
		go middleware.Chain(handle, middleware.Recover, middleware.Named("OnNewChannelMessage"))()
		return nil
	})

	logger.Info("Application initialized successfully")
	return &App{
		Bot:  bot.New(client, router),
		Cfg:  cfg,
		pool: pool,
	}, nil
}

// Start blocks until ctx is done, then waits for in-flight fetches to stop.
func (a *App) Start(ctx context.Context) error {
	defer a.pool.Stop()
	return a.Bot.Run(ctx, a.Cfg.BotToken)
}
