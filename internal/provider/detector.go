package provider

import (
	"regexp"
	"strings"
)

var (
	urlRegex = regexp.MustCompile(`(?i)https?://\S+`)

	zeroWidth = strings.NewReplacer("\u200b", "", "\u2060", "")
)

// ExtractURLs returns cleaned, de-duplicated links found in text, in order of appearance.
func ExtractURLs(text string) []string {
	return UniqueURLs(urlRegex.FindAllString(text, -1))
}

// CleanURL drops trailing punctuation picked up from prose and zero-width characters.
func CleanURL(u string) string {
	u = strings.TrimSpace(zeroWidth.Replace(u))
	u = strings.Trim(u, ".,);]")
	return strings.TrimSpace(u)
}

func UniqueURLs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		u := CleanURL(r)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
