package handler

import (
	"context"
	"unicode/utf16"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

// resolvePeer converts a PeerClass to InputPeerClass using the provided entities.
func resolvePeer(peer tg.PeerClass, entities tg.Entities) (tg.InputPeerClass, error) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		user, ok := entities.Users[p.UserID]
		if !ok {
			return nil, errors.Errorf("user %d not found in entities", p.UserID)
		}
		return &tg.InputPeerUser{
			UserID:     user.ID,
			AccessHash: user.AccessHash,
		}, nil
	case *tg.PeerChat:
		chat, ok := entities.Chats[p.ChatID]
		if !ok {
			return nil, errors.Errorf("chat %d not found in entities", p.ChatID)
		}
		return &tg.InputPeerChat{
			ChatID: chat.ID,
		}, nil
	case *tg.PeerChannel:
		channel, ok := entities.Channels[p.ChannelID]
		if !ok {
			return nil, errors.Errorf("channel %d not found in entities", p.ChannelID)
		}
		return &tg.InputPeerChannel{
			ChannelID:  channel.ID,
			AccessHash: channel.AccessHash,
		}, nil
	default:
		return nil, errors.Errorf("unknown peer type: %T", peer)
	}
}

// chatID is the bare identifier of the chat a message lives in.
func chatID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return p.ChatID
	case *tg.PeerChannel:
		return p.ChannelID
	}
	return 0
}

func getSenderID(msg *tg.Message) int64 {
	if from, ok := msg.GetFromID(); ok {
		if user, ok := from.(*tg.PeerUser); ok {
			return user.UserID
		}
	}
	if peer, ok := msg.PeerID.(*tg.PeerUser); ok {
		return peer.UserID
	}
	return 0
}

func getMsgID(updates tg.UpdatesClass) int {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID
	case *tg.Updates:
		for _, update := range u.Updates {
			if msg, ok := update.(*tg.UpdateNewMessage); ok {
				if m, ok := msg.Message.(*tg.Message); ok {
					return m.ID
				}
			}
			if msg, ok := update.(*tg.UpdateNewChannelMessage); ok {
				if m, ok := msg.Message.(*tg.Message); ok {
					return m.ID
				}
			}
			if id, ok := update.(*tg.UpdateMessageID); ok {
				return id.ID
			}
		}
	}
	return 0
}

func deleteMessage(ctx context.Context, api *tg.Client, peer tg.InputPeerClass, id int) {
	if id == 0 {
		return
	}

	var err error
	if channel, ok := peer.(*tg.InputPeerChannel); ok {
		_, err = api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: &tg.InputChannel{
				ChannelID:  channel.ChannelID,
				AccessHash: channel.AccessHash,
			},
			ID: []int{id},
		})
	} else {
		_, err = api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
			ID:     []int{id},
			Revoke: true,
		})
	}
	if err != nil {
		logger.Warn("Failed to delete status message", "msg_id", id, "error", err)
	}
}

// MessageURLs collects links from text-link entities, URL entities and the bare
// text, cleaned and de-duplicated in that order.
func MessageURLs(text string, entities []tg.MessageEntityClass) []string {
	var raw []string
	units := utf16.Encode([]rune(text))

	for _, e := range entities {
		switch ent := e.(type) {
		case *tg.MessageEntityTextURL:
			raw = append(raw, ent.URL)
		case *tg.MessageEntityURL:
			if s := utf16Slice(units, ent.Offset, ent.Length); s != "" {
				raw = append(raw, s)
			}
		}
	}
	raw = append(raw, provider.ExtractURLs(text)...)
	return provider.UniqueURLs(raw)
}

// utf16Slice cuts text by Telegram entity offsets, which count UTF-16 code units.
func utf16Slice(units []uint16, offset, length int) string {
	if offset < 0 || length <= 0 || offset+length > len(units) {
		return ""
	}
	return string(utf16.Decode(units[offset : offset+length]))
}
