package handler

import (
	"context"
	"fmt"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/html"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-fetch/internal/telegram"
)

const helpText = `<b>Aether Fetch</b>

Send a link and I'll fetch the media into this chat.

<b>Commands</b>
• /get &lt;url&gt; - Fetch a link
• /id - Show this chat's id
• /ping - Check the bot is alive
• /start - Start the bot
• /help - Show this help message
• /stats - Show bot statistics (owner only)

<b>Supported</b>
YouTube, TikTok, Instagram (public posts and reels).

Links in plain messages and media captions are picked up automatically.
Large files arrive as documents; carousels arrive as albums of up to 10.`

type BasicHandler struct {
	client *telegram.Client
}

func NewBasicHandler(cli *telegram.Client) *BasicHandler {
	return &BasicHandler{client: cli}
}

func (h *BasicHandler) HandleStart(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}

	sender := message.NewSender(h.client.API())
	_, err = sender.To(peer).Text(ctx, "👋 Welcome to Aether Fetch!\n\nSend me a YouTube, TikTok or Instagram link and I'll bring the media here.")
	return err
}

func (h *BasicHandler) HandleHelp(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}

	sender := message.NewSender(h.client.API())
	markup := tg.ReplyInlineMarkup{
		Rows: []tg.KeyboardButtonRow{
			{
				Buttons: []tg.KeyboardButtonClass{
					&tg.KeyboardButtonURL{
						Text: "Source",
						URL:  "https://github.com/pavelc4/aether-fetch",
					},
				},
			},
		},
	}

	_, err = sender.To(peer).Markup(&markup).StyledText(ctx, html.String(nil, helpText))
	return err
}

func (h *BasicHandler) HandlePing(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}
	_, err = message.NewSender(h.client.API()).To(peer).Reply(msg.ID).Text(ctx, "pong")
	return err
}

func (h *BasicHandler) HandleID(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("chat_id: <code>%d</code>", chatID(msg.PeerID))
	_, err = message.NewSender(h.client.API()).To(peer).Reply(msg.ID).StyledText(ctx, html.String(nil, text))
	return err
}
