package credentials

import (
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/aether-fetch/config"
	"github.com/pavelc4/aether-fetch/internal/provider"
)

func TestCookiesForResolutionOrder(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.CookieConfig
		url  string
		want string
	}{
		{"instagram primary", config.CookieConfig{Instagram: "/a", InstagramAlias: "/b", Global: "/g"}, "https://www.instagram.com/p/ABCDE/", "/a"},
		{"instagram alias", config.CookieConfig{InstagramAlias: "/b", Global: "/g"}, "https://instagram.com/reel/ABCDE/", "/b"},
		{"tiktok global", config.CookieConfig{Global: "/g"}, "https://vm.tiktok.com/x", "/g"},
		{"tiktok alias", config.CookieConfig{TikTokAlias: "/tt"}, "https://www.tiktok.com/@a/video/1", "/tt"},
		{"youtube primary", config.CookieConfig{YouTube: "/yt", YouTubeAlias: "/y"}, "https://youtu.be/abc", "/yt"},
		{"youtube alias", config.CookieConfig{YouTubeAlias: "/y"}, "https://youtube.com/watch?v=1", "/y"},
		{"unsupported uses global", config.CookieConfig{Instagram: "/a", Global: "/g"}, "https://example.com", "/g"},
		{"nothing configured", config.CookieConfig{}, "https://youtu.be/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewResolver(tt.cfg).CookiesFor(tt.url))
		})
	}
}

func TestCookiesForExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	r := NewResolver(config.CookieConfig{Global: "~/cookies.txt"})
	assert.Equal(t, home+"/cookies.txt", r.CookiesFor("https://youtu.be/abc"))
}

func TestUserAgentFor(t *testing.T) {
	r := NewResolver(config.CookieConfig{})
	assert.Equal(t, provider.DefaultInstagramUA, r.UserAgentFor(provider.Instagram))
	assert.Empty(t, r.UserAgentFor(provider.YouTube))

	r = NewResolver(config.CookieConfig{InstagramUA: "custom"})
	assert.Equal(t, "custom", r.UserAgentFor(provider.Instagram))
	assert.Empty(t, r.UserAgentFor(provider.TikTok))
}
