package bot

import (
	"context"

	"github.com/pavelc4/aether-fetch/internal/telegram"
)

type Bot struct {
	client *telegram.Client
	router *Router
}

func New(client *telegram.Client, router *Router) *Bot {
	return &Bot{
		client: client,
		router: router,
	}
}

// Run blocks until ctx is done or the session fails permanently.
func (b *Bot) Run(ctx context.Context, token string) error {
	return b.client.Start(ctx, token)
}

func (b *Bot) Router() *Router {
	return b.router
}
