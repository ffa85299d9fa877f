package workspace

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	maxNameLength = 80
	defaultName   = "file"
)

var unsafeNameRegex = regexp.MustCompile(`[^a-zA-Z0-9.\-_ ]+`)

// DeriveTitle turns "Some title-001.mp4" into "Some title".
func DeriveTitle(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if i := strings.LastIndex(stem, "-"); i >= 0 && isDigits(stem[i+1:]) {
		stem = stem[:i]
	}
	if stem == "" {
		stem = defaultName
	}
	return SanitizeName(stem)
}

func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("\n", " ", "\r", " ").Replace(name)
	name = unsafeNameRegex.ReplaceAllString(name, "_")
	if name == "" {
		name = defaultName
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
