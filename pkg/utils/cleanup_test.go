package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp4")
	b := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	n := RemoveFiles([]string{a, "", b, filepath.Join(dir, "gone.mp4")})

	assert.Equal(t, 2, n)
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
}

func TestCleanupTempFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "aether-fetch-123")
	keep := filepath.Join(dir, "other-dir")
	foreign := filepath.Join(dir, "aether-scrape-1")
	require.NoError(t, os.MkdirAll(filepath.Join(stale, "nested"), 0o755))
	require.NoError(t, os.MkdirAll(keep, 0o755))
	require.NoError(t, os.MkdirAll(foreign, 0o755))

	n := CleanupTempFilesByPattern(context.Background(), dir, TempFilePatterns)

	assert.Equal(t, 1, n)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, keep)
	assert.DirExists(t, foreign)
}

func TestCleanupTempFilesByPatternCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "aether-fetch-1"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 0, CleanupTempFilesByPattern(ctx, dir, TempFilePatterns))
	assert.DirExists(t, filepath.Join(dir, "aether-fetch-1"))
}
