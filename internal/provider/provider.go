package provider

import (
	"slices"
	"time"
)

// AttemptTimeout bounds a single yt-dlp invocation.
const AttemptTimeout = 340 * time.Second

// Attempt is one complete yt-dlp invocation. Args excludes the binary name.
type Attempt struct {
	Ordinal int
	Args    []string
	Timeout time.Duration
}

// Target carries everything a provider needs to render its attempts.
type Target struct {
	URL            string // normalized
	OutputTemplate string
	Cookies        string // cookie file path, empty when none
	UserAgent      string
}

// Credentials resolves per-host authentication material.
type Credentials interface {
	CookiesFor(url string) string
	UserAgentFor(family Family) string
}

type Provider interface {
	Name() string
	Family() Family
	Attempts(t Target) [][]string
}

func referer(url string) []string {
	return []string{"--add-header", "Referer:" + url}
}

func withCookies(args []string, cookies string) []string {
	if cookies == "" {
		return args
	}
	return append(args, "--cookies", cookies)
}

// variant copies base before appending, so every attempt owns its argv.
func variant(base []string, extra ...string) []string {
	return append(slices.Clone(base), extra...)
}
