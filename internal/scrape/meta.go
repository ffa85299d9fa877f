package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/internal/messaging"
)

const DefaultTitle = "instagram"

var (
	videoProps = []string{"og:video:secure_url", "og:video"}
	imageProps = []string{"og:image:secure_url", "og:image"}
)

// Media is the canonical asset advertised by a page's Open Graph tags.
type Media struct {
	URL   string
	Kind  messaging.Kind
	Title string
}

// ParseMeta prefers og:video over og:image. It returns nil when neither is present.
func ParseMeta(page []byte) (*Media, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	doc := goquery.NewDocumentFromNode(root)

	title := metaContent(doc, "og:title")
	if title == "" {
		title = DefaultTitle
	}

	if u := metaContent(doc, videoProps...); u != "" {
		return &Media{URL: u, Kind: messaging.Video, Title: title}, nil
	}
	if u := metaContent(doc, imageProps...); u != "" {
		return &Media{URL: u, Kind: messaging.Photo, Title: title}, nil
	}
	return nil, nil
}

// metaContent returns the first non-empty content among the given properties,
// in document order. The parser has already decoded HTML entities.
func metaContent(doc *goquery.Document, props ...string) string {
	var found string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		prop, _ := s.Attr("property")
		prop = strings.ToLower(strings.TrimSpace(prop))
		for _, p := range props {
			if prop != p {
				continue
			}
			if content := strings.TrimSpace(s.AttrOr("content", "")); content != "" {
				found = content
				return false
			}
		}
		return true
	})
	return found
}
