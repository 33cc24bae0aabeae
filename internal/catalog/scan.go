package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavecast/internal/playlist"
)

const (
	// PremiumDir is the top-level media directory whose songs are premium.
	PremiumDir = "premium"
	// StaticDir holds clips such as the upsell that are not songs.
	StaticDir = "static"
)

// ScanReport summarizes a completed scan.
type ScanReport struct {
	Added   int
	Updated int
	Removed int
	Skipped int   // unchanged files
	Failed  []string
	Bytes   uint64 // size of added and updated files
}

func (r ScanReport) String() string {
	s := fmt.Sprintf("%s added, %s updated, %s removed, %s unchanged (%s read)",
		humanize.Comma(int64(r.Added)),
		humanize.Comma(int64(r.Updated)),
		humanize.Comma(int64(r.Removed)),
		humanize.Comma(int64(r.Skipped)),
		humanize.Bytes(r.Bytes),
	)
	if len(r.Failed) > 0 {
		s += fmt.Sprintf(", %d failed", len(r.Failed))
	}
	return s
}

// Scan walks root for audio files and brings the catalog in line with it.
// File paths are stored relative to root with forward slashes. Files
// whose modification time is unchanged are not read again, and songs
// whose file disappeared are removed. The static directory is skipped.
func (s *Store) Scan(ctx context.Context, root string) (ScanReport, error) {
	var report ScanReport

	known, err := s.fileTimes(ctx)
	if err != nil {
		return report, err
	}
	seen := make(map[string]bool)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || filepath.Join(root, StaticDir) == path {
				return filepath.SkipDir
			}
			return nil
		}
		if !supported(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		seen[rel] = true

		info, err := d.Info()
		if err != nil {
			return err
		}
		mtime := info.ModTime().Unix()
		prev, exists := known[rel]
		if exists && prev == mtime {
			report.Skipped++
			return nil
		}

		t, err := readTags(path)
		if err != nil {
			report.Failed = append(report.Failed, rel)
			return nil //nolint:nilerr // unreadable files are reported, not fatal
		}
		song := playlist.Song{
			Title:     t.Title,
			Singers:   t.Singers,
			FilePath:  rel,
			IsPremium: isPremiumPath(rel),
		}
		if _, err := s.upsertSong(ctx, song, mtime); err != nil {
			return fmt.Errorf("store %s: %w", rel, err)
		}
		report.Bytes += uint64(max(info.Size(), 0))
		if exists {
			report.Updated++
		} else {
			report.Added++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	for path := range known {
		if seen[path] {
			continue
		}
		if err := s.deleteByPath(ctx, path); err != nil {
			return report, err
		}
		report.Removed++
	}
	return report, nil
}

func isPremiumPath(rel string) bool {
	first, _, found := strings.Cut(rel, "/")
	return found && strings.EqualFold(first, PremiumDir)
}
