package hotreload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, w *Watcher, want string) []string {
	t.Helper()
	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Poll()...)
		for _, g := range got {
			if filepath.Base(g) == want {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
	return got
}

func TestWatcherReportsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, ".fs", ".VS")
	require.NoError(t, err)
	defer w.Close()

	assert.Empty(t, w.Poll())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hdr.fs"), []byte("x"), 0o644))

	got := collect(t, w, "hdr.fs")
	for _, g := range got {
		assert.NotEqual(t, "notes.txt", filepath.Base(g))
	}
}

func TestWatcherExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, ".VS")
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "object.vs"), []byte("x"), 0o644))
	collect(t, w, "object.vs")
}

func TestPollDeduplicates(t *testing.T) {
	w := &Watcher{changed: make(chan string, queueSize)}
	w.changed <- "a.fs"
	w.changed <- "b.fs"
	w.changed <- "a.fs"
	assert.Equal(t, []string{"a.fs", "b.fs"}, w.Poll())
	assert.Empty(t, w.Poll())
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestMatchesWithoutExtensions(t *testing.T) {
	w := &Watcher{exts: map[string]bool{}}
	assert.True(t, w.matches("anything.png"))
}
