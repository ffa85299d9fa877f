package provider

import (
	"os"
	"sync"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/pkg/logger"
)

type Registry struct {
	mu        sync.RWMutex
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// DefaultRegistry knows every supported family.
func DefaultRegistry() *Registry {
	return NewRegistry(NewInstagram(), NewTikTok(), NewYouTube())
}

func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

func (r *Registry) Lookup(family Family) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.Family() == family {
			return p, true
		}
	}
	return nil, false
}

// BuildAttempts classifies url and renders the ordered attempt list for its family.
// The returned URL is the normalized one the attempts point at.
func (r *Registry) BuildAttempts(url, outputTemplate string, creds Credentials) ([]Attempt, string, error) {
	family := Classify(url)
	if family == Unsupported {
		return nil, url, ErrUnsupportedHost
	}
	p, ok := r.Lookup(family)
	if !ok {
		return nil, url, errors.Wrapf(ErrUnsupportedHost, "no provider for %s", family)
	}

	target := Target{
		URL:            Normalize(url, family),
		OutputTemplate: outputTemplate,
	}
	if creds != nil {
		target.Cookies = existingFile(creds.CookiesFor(target.URL))
		target.UserAgent = creds.UserAgentFor(family)
	}

	argvs := p.Attempts(target)
	attempts := make([]Attempt, 0, len(argvs))
	for i, args := range argvs {
		attempts = append(attempts, Attempt{
			Ordinal: i + 1,
			Args:    args,
			Timeout: AttemptTimeout,
		})
	}
	return attempts, target.URL, nil
}

func existingFile(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("Cookies file not found, continuing without it", "path", path)
		return ""
	}
	logger.Debug("Using yt-dlp cookies", "path", path)
	return path
}
