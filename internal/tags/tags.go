// Package tags reads the display metadata of audio files.
package tags

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// File extensions with a dedicated fallback reader.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
)

// Info is the metadata shown for a playing track.
type Info struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Year        int
}

// Fallback returns the Info used when a file has no readable tags: the
// title is the file name without its extension.
func Fallback(path string) *Info {
	base := filepath.Base(path)
	return &Info{Path: path, Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

// Line returns "Artist - Title", or just the title when the artist is unknown.
func (i *Info) Line() string {
	if i.Artist == "" {
		return i.Title
	}
	return i.Artist + " - " + i.Title
}

// Read reads the tags of path. Files dhowden/tag cannot parse are retried
// with a format specific reader for MP3 and FLAC.
func Read(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case ExtMP3:
			// dhowden/tag rejects some UTF-16 ID3 frames
			return readMP3(path)
		case ExtFLAC:
			return readFLAC(path)
		}
		return nil, err
	}

	track, _ := m.Track()
	info := &Info{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		Album:       m.Album(),
		TrackNumber: track,
		Year:        m.Year(),
	}
	if info.Artist == "" {
		info.Artist = m.AlbumArtist()
	}
	return info.normalize(), nil
}

// ReadOrFallback never fails; unreadable files get Fallback.
func ReadOrFallback(path string) *Info {
	info, err := Read(path)
	if err != nil {
		return Fallback(path)
	}
	return info
}

func (i *Info) normalize() *Info {
	i.Title = strings.TrimSpace(i.Title)
	i.Artist = strings.TrimSpace(i.Artist)
	i.Album = strings.TrimSpace(i.Album)
	if i.Title == "" {
		i.Title = Fallback(i.Path).Title
	}
	return i
}

// leadingInt parses "3/12" as 3 and "2024-05-01" as 2024.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
