package app

import (
	"strings"

	"github.com/llehouerou/undertow/internal/ui/playerbar"
)

// Image cell inside the player bar: below the top border, after the left
// border and two columns of padding.
const (
	artRow = 2
	artCol = 4
)

// View renders the player bar, the help line and the cover image.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := playerbar.State{
		Status: m.status,
		Index:  m.index,
		Total:  len(m.tracks),
		Cover:  m.cover,
		Info:   m.info,
		Error:  m.err,
	}
	if m.art != nil {
		state.ArtPlaceholder = m.art.Placeholder()
	}

	var sb strings.Builder
	// The renderer skips unchanged lines, so the upload rides on the first
	// line and is resent only when that line changes.
	sb.WriteString(m.upload)
	sb.WriteString(playerbar.Render(state, m.width))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	if m.art != nil {
		sb.WriteString(m.art.Placement(artRow, artCol))
	}
	return sb.String()
}
