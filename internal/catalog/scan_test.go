package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// untagged is long enough to hold an ID3 header check.
const untagged = "untagged audio bytes"

func writeFile(t *testing.T, root, rel string, data string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func songsByPath(t *testing.T, s *Store) map[string]Song {
	t.Helper()
	songs, err := s.Songs(context.Background())
	require.NoError(t, err)
	m := make(map[string]Song, len(songs))
	for _, song := range songs {
		m[song.FilePath] = song
	}
	return m
}

func TestScan_AddsSongsAndMarksPremium(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeFile(t, root, "free/intro.mp3", untagged)
	writeFile(t, root, "premium/exclusive.mp3", untagged)
	writeFile(t, root, "static/upsell.mp3", "clip")
	writeFile(t, root, ".hidden/skip.mp3", "x")
	writeFile(t, root, "cover.jpg", "not audio")

	report, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added)

	songs := songsByPath(t, s)
	require.Len(t, songs, 2)

	intro := songs["free/intro.mp3"]
	assert.Equal(t, "intro", intro.Title, "untagged files are titled by name")
	assert.False(t, intro.IsPremium)
	assert.True(t, songs["premium/exclusive.mp3"].IsPremium)
}

func TestScan_SkipsUnchangedAndRemovesMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	root := t.TempDir()
	keep := writeFile(t, root, "keep.mp3", untagged)
	gone := writeFile(t, root, "gone.mp3", untagged)

	_, err := s.Scan(ctx, root)
	require.NoError(t, err)
	before := songsByPath(t, s)["keep.mp3"]

	require.NoError(t, os.Remove(gone))
	report, err := s.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Removed)
	assert.Zero(t, report.Added)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(keep, later, later))
	report, err = s.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	songs := songsByPath(t, s)
	require.Len(t, songs, 1)
	assert.Equal(t, before.ID, songs["keep.mp3"].ID)
}

func TestScan_ReportsUnreadableFiles(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeFile(t, root, "broken.flac", "not a flac stream")

	report, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"broken.flac"}, report.Failed)
	assert.Zero(t, report.Added)
}

func TestScan_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeFile(t, root, "a.mp3", untagged)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanReport_String(t *testing.T) {
	r := ScanReport{Added: 1200, Updated: 3, Bytes: 5_000_000, Failed: []string{"x"}}
	assert.Equal(t, "1,200 added, 3 updated, 0 removed, 0 unchanged (5.0 MB read), 1 failed", r.String())
}

func TestSplitSingers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Alice", []string{"Alice"}},
		{"Alice; Bob", []string{"Alice", "Bob"}},
		{"AC/DC", []string{"AC/DC"}},
		{" ; ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitSingers(tt.in), tt.in)
	}
}
