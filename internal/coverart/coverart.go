// Package coverart finds the cover image of an audio file.
package coverart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"
)

// ErrNoArt is returned when a track has neither embedded nor folder art.
var ErrNoArt = errors.New("no cover art")

// folderNames are looked up, case-insensitively, next to the track.
var folderNames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
	"artwork.jpg", "artwork.jpeg", "artwork.png",
}

// Extract returns the raw bytes of the track's cover: the embedded picture
// if there is one, otherwise a well-known image file in the same folder.
// The bytes are not validated; decoding is the caller's job.
func Extract(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Missing or unreadable tags fall back to the folder.
	if data, err := embedded(f); err == nil {
		return data, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".flac") {
		if data, err := embeddedFLAC(path); err == nil {
			return data, nil
		}
	}
	return Folder(filepath.Dir(path))
}

// Embedded reads the picture stored in the file's tags.
func Embedded(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return embedded(f)
}

func embedded(r io.ReadSeeker) ([]byte, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, ErrNoArt
	}
	return pic.Data, nil
}

// embeddedFLAC reads PICTURE blocks directly, preferring the front cover.
func embeddedFLAC(path string) ([]byte, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var first []byte
	for _, meta := range f.Meta {
		if meta.Type != goflac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil || len(pic.ImageData) == 0 {
			continue
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
			return pic.ImageData, nil
		}
		if first == nil {
			first = pic.ImageData
		}
	}
	if first == nil {
		return nil, ErrNoArt
	}
	return first, nil
}

// Folder reads the first well-known cover file found in dir.
func Folder(dir string) ([]byte, error) {
	path, err := FolderPath(dir)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// FolderPath returns the path of the first well-known cover file in dir.
func FolderPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			byName[strings.ToLower(e.Name())] = e.Name()
		}
	}

	for _, name := range folderNames {
		if actual, ok := byName[name]; ok {
			return filepath.Join(dir, actual), nil
		}
	}
	return "", ErrNoArt
}
