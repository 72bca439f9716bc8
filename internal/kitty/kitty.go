// Package kitty displays decoded bitmaps with the Kitty graphics protocol.
package kitty

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/llehouerou/undertow/internal/imagedata"
)

const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"

	// chunkSize is the largest base64 payload per escape sequence.
	chunkSize = 4096
)

// Supported reports whether the terminal understands the Kitty graphics
// protocol. UNDERTOW_IMAGES=0 disables images, =1 forces them.
func Supported() bool {
	switch os.Getenv("UNDERTOW_IMAGES") {
	case "0":
		return false
	case "1":
		return true
	}

	// Contour can inherit Kitty-capable variables from a parent terminal.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	// KONSOLE_VERSION is like "220401" for 22.04.01.
	if v := os.Getenv("KONSOLE_VERSION"); len(v) >= 4 && v[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}

// Transmit returns the sequences that upload bm to the terminal under id
// without displaying it.
func Transmit(bm *imagedata.Bitmap, id uint32) (string, error) {
	if bm == nil || bm.Width == 0 || bm.Height == 0 {
		return "", fmt.Errorf("transmit image %d: empty bitmap", id)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, bm.Image()); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return transmitPNG(buf.Bytes(), id), nil
}

// transmitPNG splits the base64 payload into chunks. Only the first chunk
// carries the parameters: a=t transmit, f=100 PNG, q=2 quiet.
func transmitPNG(pngData []byte, id uint32) string {
	encoded := base64.StdEncoding.EncodeToString(pngData)

	var sb strings.Builder
	for i := 0; i < len(encoded); i += chunkSize {
		end := min(i+chunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		sb.WriteString(escStart)
		if i == 0 {
			fmt.Fprintf(&sb, "a=t,f=100,i=%d,q=2,m=%d;", id, more)
		} else {
			fmt.Fprintf(&sb, "m=%d;", more)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString(escEnd)
	}
	return sb.String()
}

// Place displays a transmitted image at the 1-based (row, col) cell, scaled
// to width x height cells. Placement ID 1 makes each call replace the last.
func Place(id uint32, row, col, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	fmt.Fprintf(&sb, "%sa=p,i=%d,p=1,c=%d,r=%d,C=1,q=2;%s", escStart, id, width, height, escEnd)
	sb.WriteString("\x1b[u")
	return sb.String()
}

// Delete removes an image and all its placements.
func Delete(id uint32) string {
	return fmt.Sprintf("%sa=d,d=i,i=%d,q=2;%s", escStart, id, escEnd)
}

// Placeholder returns blank cells reserving the image area in a layout.
func Placeholder(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
