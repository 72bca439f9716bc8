// Package playerbar renders the now-playing panel.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/undertow/internal/icons"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/tags"
	"github.com/llehouerou/undertow/internal/ui/render"
)

// Cover describes the decoded album art shown next to the track.
type Cover struct {
	Width, Height int   // decoded bitmap size in pixels
	Bytes         int64 // size of the encoded source image
}

// State holds everything needed to render the player bar.
type State struct {
	Status playback.Status
	Index  int // 0-based position in the play list
	Total  int
	Cover  *Cover
	Info   *tags.Info // nil until the tags of Status.Path are read
	Error  string

	// ArtPlaceholder reserves the cells the terminal image is drawn over.
	ArtPlaceholder string
}

// Render returns the player bar for the given terminal width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 10) // border and padding

	title := "Nothing playing"
	switch {
	case s.Status.Path == "":
	case s.Info != nil && s.Info.Path == s.Status.Path:
		title = s.Info.Line()
	default:
		title = tags.Fallback(s.Status.Path).Title
	}
	var right string
	if s.Total > 0 {
		right = fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	}
	titleWidth := innerWidth - lipgloss.Width(right) - 1

	lines := []string{
		render.Row(titleStyle.Render(render.Truncate(title, titleWidth)), metaStyle.Render(right), innerWidth),
		progressTimeStyle.Render(RenderProgressBar(statusSymbol(s.Status.State), s.Status.Position, s.Status.Duration, innerWidth)),
		metaStyle.Render(render.Row(coverLine(s.Cover), fmt.Sprintf("%s%3d%%", icons.Volume(), int(s.Status.Volume*100+0.5)), innerWidth)),
	}
	if s.Error != "" {
		lines = append(lines, errorStyle.Render(render.Truncate(s.Error, innerWidth)))
	}

	content := strings.Join(lines, "\n")
	if s.ArtPlaceholder != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, s.ArtPlaceholder, "  ", content)
	}
	return barStyle.Padding(0, 2).Render(content)
}

func statusSymbol(st playback.State) string {
	switch st {
	case playback.Playing:
		return icons.Play()
	case playback.Paused:
		return icons.Pause()
	case playback.Loading:
		return icons.Loading()
	default:
		return icons.Stop()
	}
}

func coverLine(c *Cover) string {
	if c == nil {
		return "no cover"
	}
	return fmt.Sprintf("cover %dx%d (%s)", c.Width, c.Height, humanize.IBytes(uint64(max(c.Bytes, 0)))) //nolint:gosec // clamped non-negative
}
