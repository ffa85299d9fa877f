package messaging

import (
	"fmt"
	"html"
	"strings"

	"github.com/pavelc4/aether-fetch/pkg/utils"
)

const (
	maxErrorLength   = 1500
	maxCaptionLength = 1024
)

// FormatFailure renders a terminal fetch error as HTML for the chat.
func FormatFailure(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	return fmt.Sprintf("❌ Failed to download: <code>%s</code>", html.EscapeString(utils.Truncate(msg, maxErrorLength)))
}

// Caption trims a title to Telegram's caption limit.
func Caption(title string) string {
	return utils.Truncate(strings.TrimSpace(title), maxCaptionLength)
}
