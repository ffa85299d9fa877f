package download

import (
	"strings"

	"github.com/google/uuid"
)

// Request asks for the media behind URL to be delivered to ChatID.
// ID tags every file the request leaves in the holding directory.
type Request struct {
	ID     string
	ChatID int64
	URL    string
}

func NewRequest(chatID int64, url string) Request {
	return Request{
		ID:     strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		ChatID: chatID,
		URL:    strings.TrimSpace(url),
	}
}
