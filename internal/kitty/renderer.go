package kitty

import (
	"sync"
	"sync/atomic"

	"github.com/llehouerou/undertow/internal/imagedata"
)

// Terminal cells are roughly 8x16 pixels.
const (
	cellWidth  = 8
	cellHeight = 16
	minPixels  = 64
)

var nextImageID atomic.Uint32

// Renderer keeps one image on screen for a fixed cell area. Bitmaps arrive
// already decoded; it only transmits, places and deletes them.
type Renderer struct {
	mu sync.RWMutex

	imageID uint32
	width   int
	height  int
}

// NewRenderer creates a renderer for an area of width x height cells.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// MaxPixels is the longest bitmap edge worth decoding for the area.
func (r *Renderer) MaxPixels() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return max(r.width*cellWidth, r.height*cellHeight, minPixels)
}

// Show replaces the current image with bm. It returns the sequences to
// write to the terminal once: deletion of the old image, then upload.
func (r *Renderer) Show(bm *imagedata.Bitmap) (string, error) {
	del := r.Clear()

	id := nextImageID.Add(1)
	cmd, err := Transmit(bm, id)
	if err != nil {
		return del, err
	}

	r.mu.Lock()
	r.imageID = id
	r.mu.Unlock()
	return del + cmd, nil
}

// Placement returns the sequence displaying the image at the 1-based
// (row, col) cell, or "" without an image.
func (r *Renderer) Placement(row, col int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.imageID == 0 {
		return ""
	}
	return Place(r.imageID, row, col, r.width, r.height)
}

// Placeholder returns blank cells covering the image area.
func (r *Renderer) Placeholder() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Placeholder(r.width, r.height)
}

// Clear forgets the current image and returns the sequence deleting it.
func (r *Renderer) Clear() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.imageID == 0 {
		return ""
	}
	cmd := Delete(r.imageID)
	r.imageID = 0
	return cmd
}
