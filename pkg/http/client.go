package http

import (
	"net/http"
	"time"
)

var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          50,
	MaxIdleConnsPerHost:   10,
	MaxConnsPerHost:       30,
	IdleConnTimeout:       120 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ResponseHeaderTimeout: 25 * time.Second,
	ForceAttemptHTTP2:     true,
}

var scrapeClient = NewClient(defaultTransport)

// NewClient returns a client without a global timeout; every call is bounded by its
// context instead. Redirects are followed (up to ten hops).
func NewClient(rt http.RoundTripper) *http.Client {
	if rt == nil {
		rt = defaultTransport
	}
	return &http.Client{Transport: rt}
}

// GetScrapeClient returns the shared client for page and asset downloads.
func GetScrapeClient() *http.Client {
	return scrapeClient
}
