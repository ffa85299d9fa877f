package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/html"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-fetch/internal/download"
	"github.com/pavelc4/aether-fetch/internal/messaging"
	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/internal/telegram"
	"github.com/pavelc4/aether-fetch/pkg/logger"
	"github.com/pavelc4/aether-fetch/pkg/worker"
)

const (
	UsageText     = "Usage: /get <url>"
	SupportedText = "Supported: YouTube, TikTok, Instagram (public)."
	FetchingText  = "⏳ Fetching…"
	AutoFailText  = "❌ Couldn't fetch the media. Try another link."
	ShutdownText  = "⚠️ The bot is restarting, send the link again in a minute."
)

type DownloadHandler struct {
	client  *telegram.Client
	service *download.Service
	pool    *worker.Pool
}

func NewDownloadHandler(cli *telegram.Client, svc *download.Service, pool *worker.Pool) *DownloadHandler {
	return &DownloadHandler{
		client:  cli,
		service: svc,
		pool:    pool,
	}
}

// HandleGet serves "/get <url>". Failures are reported with their diagnostic.
func (h *DownloadHandler) HandleGet(ctx context.Context, e tg.Entities, msg *tg.Message, args string) error {
	peer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return errors.Wrap(err, "resolve peer")
	}
	reply := message.NewSender(h.client.API()).To(peer).Reply(msg.ID)

	url := firstArg(args)
	if url == "" {
		_, err = reply.Text(ctx, UsageText)
		return err
	}
	if !provider.IsSupported(url) {
		_, err = reply.Text(ctx, SupportedText)
		return err
	}
	return h.enqueue(ctx, peer, msg, url, true)
}

// HandleURLs fetches every supported link found in a plain message. Unsupported
// links are ignored and failures get a short generic notice.
func (h *DownloadHandler) HandleURLs(ctx context.Context, e tg.Entities, msg *tg.Message, urls []string) error {
	var supported []string
	for _, u := range urls {
		if provider.IsSupported(u) {
			supported = append(supported, u)
		}
	}
	if len(supported) == 0 {
		return nil
	}

	peer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return errors.Wrap(err, "resolve peer")
	}
	for _, u := range supported {
		if err := h.enqueue(ctx, peer, msg, u, false); err != nil {
			return err
		}
	}
	return nil
}

func (h *DownloadHandler) enqueue(ctx context.Context, peer tg.InputPeerClass, msg *tg.Message, url string, verbose bool) error {
	sender := message.NewSender(h.client.API())
	updates, err := sender.To(peer).Reply(msg.ID).Text(ctx, FetchingText)
	if err != nil {
		return errors.Wrap(err, "send status")
	}
	status := getMsgID(updates)

	req := download.NewRequest(chatID(msg.PeerID), url)
	logger.Info("Fetch queued", "request", req.ID, "chat", req.ChatID, "url", url, "pending", h.pool.Pending())

	err = h.pool.Submit(func(jobCtx context.Context) error {
		return h.deliver(jobCtx, peer, msg.ID, status, req, verbose)
	})
	if err != nil {
		h.report(ctx, peer, msg.ID, status, ShutdownText)
		return errors.Wrap(err, "queue fetch")
	}
	return nil
}

func (h *DownloadHandler) deliver(ctx context.Context, peer tg.InputPeerClass, replyTo, status int, req download.Request, verbose bool) error {
	api := h.client.API()
	report, err := h.service.Deliver(ctx, telegram.NewSink(api, peer, replyTo), req)

	switch {
	case err == nil:
		deleteMessage(ctx, api, peer, status)
	case report.Delivered() > 0:
		h.report(ctx, peer, replyTo, status, fmt.Sprintf("⚠️ Sent %d of %d files.", report.Delivered(), len(report.Deliveries)))
	case verbose:
		h.report(ctx, peer, replyTo, status, messaging.FormatFailure(err))
	default:
		h.report(ctx, peer, replyTo, status, AutoFailText)
	}

	if err != nil {
		return errors.Wrapf(err, "request %s", req.ID)
	}
	return nil
}

// report replaces the status message with text, or replies when there is no status to edit.
func (h *DownloadHandler) report(ctx context.Context, peer tg.InputPeerClass, replyTo, status int, text string) {
	sender := message.NewSender(h.client.API())

	var err error
	if status != 0 {
		_, err = sender.To(peer).Edit(status).StyledText(ctx, html.String(nil, text))
	} else {
		_, err = sender.To(peer).Reply(replyTo).StyledText(ctx, html.String(nil, text))
	}
	if err != nil {
		logger.Error("Failed to report fetch result", "msg_id", status, "error", err)
	}
}

func firstArg(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return provider.CleanURL(fields[0])
}
