package telegram

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-faster/errors"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pavelc4/aether-fetch/config"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

type Client struct {
	appID      int
	appHash    string
	session    string
	dispatcher tg.UpdateDispatcher
	log        *zap.Logger

	mu     sync.RWMutex
	client *telegram.Client
	api    *tg.Client
	me     *tg.User
}

func NewClient(cfg *config.Config, dispatcher tg.UpdateDispatcher) (*Client, error) {
	log, err := NewZapLogger(logger.Level())
	if err != nil {
		return nil, errors.Wrap(err, "build mtproto logger")
	}

	c := &Client{
		appID:      cfg.AppID,
		appHash:    cfg.AppHash,
		session:    filepath.Join(cfg.SessionDir, "session.json"),
		dispatcher: dispatcher,
		log:        log,
	}
	c.client = c.newTelegramClient()
	c.api = c.client.API()
	return c, nil
}

// NewZapLogger builds the logger handed to gotd, at the same level as the app logger.
func NewZapLogger(level slog.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func (c *Client) newTelegramClient() *telegram.Client {
	return telegram.NewClient(c.appID, c.appHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: c.session},
		UpdateHandler:  c.dispatcher,
		Logger:         c.log.Named("mtproto"),
	})
}

// Start runs the MTProto session until ctx is done. Dropped connections are
// re-established with exponential backoff; login failures are not retried.
func (c *Client) Start(ctx context.Context, botToken string) error {
	defer func() { _ = c.log.Sync() }()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 2 * time.Second
	policy.MaxInterval = 2 * time.Minute
	policy.MaxElapsedTime = 0

	first := true
	run := func() error {
		if !first {
			c.reset()
		}
		first = false

		err := c.run(ctx, botToken)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("session closed")
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("Telegram session dropped, reconnecting", "error", err, "in", next.Round(time.Second))
	}

	err := backoff.RetryNotify(run, backoff.WithContext(policy, ctx), notify)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Client) run(ctx context.Context, botToken string) error {
	client := c.current()
	return client.Run(ctx, func(ctx context.Context) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return errors.Wrap(err, "auth status")
		}

		if !status.Authorized {
			if _, err := client.Auth().Bot(ctx, botToken); err != nil {
				return backoff.Permanent(errors.Wrap(err, "bot login"))
			}
		}

		me, err := client.Self(ctx)
		if err != nil {
			return errors.Wrap(err, "get self")
		}
		c.mu.Lock()
		c.me = me
		c.mu.Unlock()

		logger.Info("Telegram client connected", "username", me.Username, "id", me.ID)

		<-ctx.Done()
		return ctx.Err()
	})
}

func (c *Client) reset() {
	client := c.newTelegramClient()
	c.mu.Lock()
	c.client = client
	c.api = client.API()
	c.mu.Unlock()
}

func (c *Client) current() *telegram.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *Client) API() *tg.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api
}

func (c *Client) Me() *tg.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.me
}
