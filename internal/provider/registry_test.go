package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCreds struct {
	cookies string
	ua      string
}

func (c staticCreds) CookiesFor(string) string { return c.cookies }
func (c staticCreds) UserAgentFor(Family) string { return c.ua }

const tmpl = "/tmp/w/%(title).80s-%(autonumber)03d.%(ext)s"

func TestBuildAttemptsYouTube(t *testing.T) {
	attempts, target, err := DefaultRegistry().BuildAttempts("https://youtu.be/abc123", tmpl, staticCreds{})
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "https://youtu.be/abc123", target)

	base := []string{
		"--no-progress", "-o", tmpl, "https://youtu.be/abc123",
		"--merge-output-format", "mp4",
		"--add-header", "Referer:https://youtu.be/abc123",
	}
	assert.Equal(t, base, attempts[0].Args)
	assert.Equal(t, append(append([]string{}, base...), "-f", youtubeFallbackFormat), attempts[1].Args)

	for i, a := range attempts {
		assert.Equal(t, i+1, a.Ordinal)
		assert.Equal(t, AttemptTimeout, a.Timeout)
	}
}

func TestBuildAttemptsTikTokWithCookies(t *testing.T) {
	cookies := filepath.Join(t.TempDir(), "tt.txt")
	require.NoError(t, os.WriteFile(cookies, []byte("# jar\n"), 0o600))

	attempts, _, err := DefaultRegistry().BuildAttempts("https://vm.tiktok.com/ZMabc/", tmpl, staticCreds{cookies: cookies})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, []string{"--cookies", cookies}, attempts[0].Args[len(attempts[0].Args)-2:])
}

func TestBuildAttemptsSkipsMissingCookieFile(t *testing.T) {
	attempts, _, err := DefaultRegistry().BuildAttempts("https://youtu.be/abc123", tmpl, staticCreds{cookies: "/nonexistent/cookies.txt"})
	require.NoError(t, err)
	for _, a := range attempts {
		assert.NotContains(t, a.Args, "--cookies")
	}
}

func TestBuildAttemptsInstagram(t *testing.T) {
	attempts, target, err := DefaultRegistry().BuildAttempts("https://m.instagram.com/reel/Reel01234?utm=1", tmpl, staticCreds{})
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.Equal(t, "https://www.instagram.com/reel/Reel01234/", target)

	for _, a := range attempts {
		assert.Equal(t, target, a.Args[3])
		assert.Contains(t, a.Args, "Referer:"+target)
		assert.Contains(t, a.Args, DefaultInstagramUA)
		assert.Contains(t, a.Args, instagramExtractorArgs)
		assert.Equal(t, []string{"--merge-output-format", "mp4"}, a.Args[len(a.Args)-2:])
	}
	assert.Contains(t, attempts[0].Args, instagramMergeFormat)
	assert.NotContains(t, attempts[1].Args, "-f")
	assert.Contains(t, attempts[2].Args, "--force-generic-extractor")

	// attempts must not share backing arrays
	attempts[0].Args[0] = "mutated"
	assert.Equal(t, "--no-progress", attempts[1].Args[0])
}

func TestBuildAttemptsInstagramCustomUA(t *testing.T) {
	attempts, _, err := DefaultRegistry().BuildAttempts("https://www.instagram.com/p/ABCDEF/", tmpl, staticCreds{ua: "ua/1.0"})
	require.NoError(t, err)
	assert.Contains(t, attempts[0].Args, "ua/1.0")
	assert.NotContains(t, attempts[0].Args, DefaultInstagramUA)
}

func TestBuildAttemptsUnsupported(t *testing.T) {
	attempts, _, err := DefaultRegistry().BuildAttempts("https://example.com/video", tmpl, nil)
	assert.ErrorIs(t, err, ErrUnsupportedHost)
	assert.Empty(t, attempts)
}

func TestBuildAttemptsMissingProvider(t *testing.T) {
	_, _, err := NewRegistry(NewYouTube()).BuildAttempts("https://vm.tiktok.com/x", tmpl, nil)
	assert.ErrorIs(t, err, ErrUnsupportedHost)
}
