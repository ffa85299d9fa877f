package provider

import (
	"fmt"
	"regexp"
	"strings"
)

var igCodeRegex = regexp.MustCompile(`(?i)https?://(?:www\.|m\.)?instagram\.com/(p|reel)/([A-Za-z0-9_-]{5,})`)

// Normalize rewrites Instagram post and reel links to
// https://www.instagram.com/{p|reel}/<code>/. Other families pass through.
func Normalize(url string, family Family) string {
	if family != Instagram {
		return url
	}
	return NormalizeInstagram(url)
}

func NormalizeInstagram(url string) string {
	m := igCodeRegex.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	return fmt.Sprintf("https://www.instagram.com/%s/%s/", strings.ToLower(m[1]), m[2])
}
