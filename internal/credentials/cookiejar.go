package credentials

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

// ParseCookies reads a tab-separated cookie jar. Comment and blank lines are skipped;
// the last two fields of every other line are the cookie name and value.
func ParseCookies(r io.Reader) (map[string]string, error) {
	jar := make(map[string]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(strings.TrimSpace(line), "\t")
		if len(fields) < 2 {
			continue
		}
		jar[fields[len(fields)-2]] = fields[len(fields)-1]
	}
	if err := sc.Err(); err != nil {
		return jar, errors.Wrap(err, "scan cookie jar")
	}
	return jar, nil
}

func LoadCookieFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return map[string]string{}, errors.Wrap(err, "open cookie jar")
	}
	defer f.Close()
	return ParseCookies(f)
}

// CookieHeader renders a jar as a Cookie header value with names in sorted order.
// Values are sent exactly as stored in the jar.
func CookieHeader(jar map[string]string) string {
	if len(jar) == 0 {
		return ""
	}
	names := make([]string, 0, len(jar))
	for name := range jar {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		parts = append(parts, name+"="+jar[name])
	}
	return strings.Join(parts, "; ")
}
