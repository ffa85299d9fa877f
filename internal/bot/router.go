package bot

import (
	"context"
	"strings"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-fetch/internal/handler"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

type Router struct {
	download *handler.DownloadHandler
	admin    *handler.AdminHandler
	basic    *handler.BasicHandler
}

func NewRouter(dl *handler.DownloadHandler, adm *handler.AdminHandler, basic *handler.BasicHandler) *Router {
	return &Router{
		download: dl,
		admin:    adm,
		basic:    basic,
	}
}

// OnMessage is the main entry point for updates
func (r *Router) OnMessage(ctx context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
	msg, ok := update.Message.(*tg.Message)
	if !ok {
		return nil
	}
	if err := r.HandleMessage(ctx, e, msg); err != nil {
		logger.Error("HandleMessage (Private/Group) failed", "error", err)
		return err
	}
	return nil
}

func (r *Router) OnChannelMessage(ctx context.Context, e tg.Entities, update *tg.UpdateNewChannelMessage) error {
	msg, ok := update.Message.(*tg.Message)
	if !ok {
		return nil
	}
	if err := r.HandleMessage(ctx, e, msg); err != nil {
		logger.Error("HandleMessage (Channel) failed", "error", err)
		return err
	}
	return nil
}

// HandleMessage routes commands; any other text or media caption is scanned for links.
func (r *Router) HandleMessage(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	if msg.Out {
		return nil
	}
	logger.Debug("HandleMessage called", "id", msg.ID, "text", msg.Message)

	cmd, args, ok := ParseCommand(msg.Message)
	if !ok {
		return r.download.HandleURLs(ctx, e, msg, handler.MessageURLs(msg.Message, msg.Entities))
	}

	switch cmd {
	case "start":
		return r.basic.HandleStart(ctx, e, msg)
	case "help":
		return r.basic.HandleHelp(ctx, e, msg)
	case "ping":
		return r.basic.HandlePing(ctx, e, msg)
	case "id":
		return r.basic.HandleID(ctx, e, msg)
	case "stats":
		return r.admin.HandleStats(ctx, e, msg)
	case "get":
		return r.download.HandleGet(ctx, e, msg, args)
	}
	return nil
}

// ParseCommand splits "/cmd@bot args" into a lowercase command name and the rest.
func ParseCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest, _ := strings.Cut(text[1:], " ")
	if i := strings.IndexAny(head, "\n\t"); i >= 0 {
		rest = head[i:] + " " + rest
		head = head[:i]
	}
	if i := strings.Index(head, "@"); i >= 0 {
		head = head[:i]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}
