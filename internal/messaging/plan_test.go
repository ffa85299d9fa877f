package messaging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photo(name string, size int64) Item { return Item{Path: "/hold/" + name, Kind: Photo, Size: size} }
func video(name string, size int64) Item { return Item{Path: "/hold/" + name, Kind: Video, Size: size} }

func TestKindOf(t *testing.T) {
	for _, p := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp"} {
		assert.Equal(t, Photo, KindOf(p), p)
	}
	for _, p := range []string{"a.mp4", "b.webm", "c", "d.gif"} {
		assert.Equal(t, Video, KindOf(p), p)
	}
}

func TestNewItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x-001.jpg")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	it := NewItem(path)
	assert.Equal(t, Photo, it.Kind)
	assert.EqualValues(t, 5, it.Size)
	assert.Equal(t, "x-001.jpg", it.Name())

	assert.EqualValues(t, 0, NewItem(filepath.Join(t.TempDir(), "missing.mp4")).Size)
}

func TestBuildPlanSingleEligible(t *testing.T) {
	v := video("a.mp4", 5<<20)
	plan := BuildPlan([]Item{v}, "title")

	require.NotNil(t, plan.Single)
	assert.Equal(t, v, *plan.Single)
	assert.Empty(t, plan.Album)
	assert.Empty(t, plan.Overflow)
	assert.Empty(t, plan.Documents)
	assert.Equal(t, "title", plan.Caption)
}

func TestBuildPlanAlbumOrdersPhotosFirst(t *testing.T) {
	items := []Item{video("v1.mp4", 1), photo("p1.jpg", 1), video("v2.mp4", 1), photo("p2.jpg", 1)}

	plan := BuildPlan(items, "t")

	assert.Nil(t, plan.Single)
	assert.Equal(t, []Item{items[1], items[3], items[0], items[2]}, plan.Album)
	assert.Empty(t, plan.Overflow)
}

func TestBuildPlanAlbumSizes(t *testing.T) {
	for _, n := range []int{2, 9, 10, 11, 23} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			items := make([]Item, n)
			for i := range items {
				items[i] = photo(fmt.Sprintf("p%02d.jpg", i), 1024)
			}

			plan := BuildPlan(items, "t")

			assert.Len(t, plan.Album, min(n, MaxAlbumSize))
			assert.Len(t, plan.Overflow, max(n-MaxAlbumSize, 0))
			assert.Equal(t, items, append(append([]Item{}, plan.Album...), plan.Overflow...), "discovery order kept")
			assert.Equal(t, n, plan.Len())
		})
	}
}

func TestBuildPlanOversizedAlwaysDocuments(t *testing.T) {
	bigPhoto := photo("big.jpg", MaxPhotoSize+1)
	bigVideo := video("big.mp4", MaxVideoSize+1)
	edgePhoto := photo("edge.jpg", MaxPhotoSize)
	edgeVideo := video("edge.mp4", MaxVideoSize)

	plan := BuildPlan([]Item{bigPhoto}, "t")
	assert.Nil(t, plan.Single)
	assert.Equal(t, []Item{bigPhoto}, plan.Documents)

	plan = BuildPlan([]Item{bigVideo, edgePhoto, bigPhoto, edgeVideo}, "t")
	assert.Equal(t, []Item{bigVideo, bigPhoto}, plan.Documents)
	assert.Equal(t, []Item{edgePhoto, edgeVideo}, plan.Album)

	plan = BuildPlan([]Item{bigVideo, edgeVideo}, "t")
	require.NotNil(t, plan.Single)
	assert.Equal(t, edgeVideo, *plan.Single)
	assert.Equal(t, []Item{bigVideo}, plan.Documents)
}

func TestPlanItemsAppearOnce(t *testing.T) {
	var items []Item
	for i := 0; i < 12; i++ {
		items = append(items, photo(fmt.Sprintf("p%d.jpg", i), 1))
	}
	items = append(items, video("huge.mp4", MaxVideoSize*2))

	plan := BuildPlan(items, "t")

	seen := map[string]int{}
	for _, p := range plan.Paths() {
		seen[p]++
	}
	assert.Len(t, seen, len(items))
	for p, c := range seen {
		assert.Equal(t, 1, c, p)
	}
}

func TestBuildPlanEmpty(t *testing.T) {
	plan := BuildPlan(nil, "t")
	assert.Zero(t, plan.Len())
	assert.Empty(t, plan.Paths())
}
