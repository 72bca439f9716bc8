package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/llehouerou/undertow/internal/playback"
)

// CollectTracks expands paths into a play list. Files are kept in argument
// order; directories contribute their music files recursively, sorted by
// path.
func CollectTracks(paths []string) ([]string, error) {
	var tracks []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !playback.IsMusicFile(p) {
				return nil, fmt.Errorf("%s: %w", p, playback.ErrUnsupportedFormat)
			}
			tracks = append(tracks, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				// Skip unreadable entries, continue walking
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if !d.IsDir() && playback.IsMusicFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		tracks = append(tracks, found...)
	}
	return tracks, nil
}
