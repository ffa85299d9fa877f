package credentials

import (
	"github.com/mitchellh/go-homedir"

	"github.com/pavelc4/aether-fetch/config"
	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

// Resolver picks cookie bundles and user agents per host family. It is read-only
// after construction and safe for concurrent use.
type Resolver struct {
	cookies config.CookieConfig
}

func NewResolver(cfg config.CookieConfig) *Resolver {
	return &Resolver{cookies: cfg}
}

// CookiesFor returns the cookie file for the URL's family, or "" when none is configured.
func (r *Resolver) CookiesFor(url string) string {
	c := r.cookies
	var path string
	switch provider.Classify(url) {
	case provider.Instagram:
		path = firstNonEmpty(c.Instagram, c.InstagramAlias, c.Global)
	case provider.TikTok:
		path = firstNonEmpty(c.TikTok, c.TikTokAlias, c.Global)
	case provider.YouTube:
		path = firstNonEmpty(c.YouTube, c.YouTubeAlias, c.Global)
	default:
		path = c.Global
	}
	return expand(path)
}

func (r *Resolver) UserAgentFor(family provider.Family) string {
	if family != provider.Instagram {
		return ""
	}
	if r.cookies.InstagramUA != "" {
		return r.cookies.InstagramUA
	}
	return provider.DefaultInstagramUA
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func expand(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		logger.Warn("Cannot expand cookies path", "path", path, "error", err)
		return path
	}
	return expanded
}
