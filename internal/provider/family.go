package provider

import (
	"strings"

	"github.com/go-faster/errors"
)

var ErrUnsupportedHost = errors.New("unsupported host")

// Family groups hosts that share an extraction strategy and credentials.
type Family int

const (
	Unsupported Family = iota
	YouTube
	TikTok
	Instagram
)

func (f Family) String() string {
	switch f {
	case YouTube:
		return "YouTube"
	case TikTok:
		return "TikTok"
	case Instagram:
		return "Instagram"
	default:
		return "Unsupported"
	}
}

// Checked in order, so a URL mentioning several hosts resolves the same way every time.
var hostAllowlist = []struct {
	host   string
	family Family
}{
	{"instagram.com", Instagram},
	{"www.instagram.com", Instagram},
	{"m.instagram.com", Instagram},
	{"tiktok.com", TikTok},
	{"vm.tiktok.com", TikTok},
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
}

// Classify matches the URL against the host allowlist by case-insensitive substring.
// Scheme and path are not validated.
func Classify(url string) Family {
	u := strings.ToLower(url)
	for _, h := range hostAllowlist {
		if strings.Contains(u, h.host) {
			return h.family
		}
	}
	return Unsupported
}

func IsSupported(url string) bool {
	return Classify(url) != Unsupported
}
