package messaging

import (
	"os"
	"path/filepath"
	"strings"
)

// Telegram upload limits for inline delivery.
const (
	MaxPhotoSize = 10 * 1024 * 1024
	MaxVideoSize = 49 * 1024 * 1024
	MaxAlbumSize = 10
)

type Kind int

const (
	Video Kind = iota
	Photo
)

func (k Kind) String() string {
	if k == Photo {
		return "photo"
	}
	return "video"
}

var photoExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// KindOf classifies a file by extension alone.
func KindOf(path string) Kind {
	if _, ok := photoExts[strings.ToLower(filepath.Ext(path))]; ok {
		return Photo
	}
	return Video
}

// Item is one fetched file waiting for delivery.
type Item struct {
	Path string
	Kind Kind
	Size int64
}

// NewItem stats path; an unreadable size counts as zero.
func NewItem(path string) Item {
	it := Item{Path: path, Kind: KindOf(path)}
	if info, err := os.Stat(path); err == nil {
		it.Size = info.Size()
	}
	return it
}

func (it Item) Name() string {
	return filepath.Base(it.Path)
}

// Oversized reports whether the item exceeds the inline cap for its kind.
func (it Item) Oversized() bool {
	if it.Kind == Photo {
		return it.Size > MaxPhotoSize
	}
	return it.Size > MaxVideoSize
}

// Plan splits items into disjoint delivery groups. Exactly one of Album or Single
// is used when there is anything deliverable inline.
type Plan struct {
	Caption   string
	Album     []Item
	Single    *Item
	Overflow  []Item
	Documents []Item
}

func BuildPlan(items []Item, title string) Plan {
	plan := Plan{Caption: title}

	var photos, videos []Item
	for _, it := range items {
		switch {
		case it.Oversized():
			plan.Documents = append(plan.Documents, it)
		case it.Kind == Photo:
			photos = append(photos, it)
		default:
			videos = append(videos, it)
		}
	}

	eligible := append(photos, videos...)
	switch {
	case len(eligible) > 1:
		n := min(len(eligible), MaxAlbumSize)
		plan.Album = eligible[:n:n]
		plan.Overflow = eligible[n:]
	case len(eligible) == 1:
		single := eligible[0]
		plan.Single = &single
	}
	return plan
}

// Items returns every planned item in delivery order.
func (p Plan) Items() []Item {
	out := make([]Item, 0, p.Len())
	out = append(out, p.Album...)
	if p.Single != nil {
		out = append(out, *p.Single)
	}
	out = append(out, p.Overflow...)
	return append(out, p.Documents...)
}

func (p Plan) Len() int {
	n := len(p.Album) + len(p.Overflow) + len(p.Documents)
	if p.Single != nil {
		n++
	}
	return n
}

func (p Plan) Paths() []string {
	items := p.Items()
	paths := make([]string, len(items))
	for i, it := range items {
		paths[i] = it.Path
	}
	return paths
}
