package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"

	// minBarCells is the narrowest bar worth drawing.
	minBarCells = 3
)

// RenderProgressBar lays out "▶  1:23  ▓▓▓░░░  4:56" in width cells. Below
// minBarCells of bar it degrades to "▶  1:23 / 4:56".
func RenderProgressBar(status string, position, duration time.Duration, width int) string {
	elapsed, total := formatDuration(position), formatDuration(duration)
	left := status + "  " + elapsed + "  "
	right := "  " + total

	cells := width - lipgloss.Width(left) - lipgloss.Width(right)
	if cells < minBarCells {
		return status + "  " + elapsed + " / " + total
	}
	return left + bar(position, duration, cells) + right
}

func bar(position, duration time.Duration, cells int) string {
	filled := 0
	if duration > 0 {
		filled = int(float64(cells) * float64(position) / float64(duration))
	}
	filled = max(0, min(filled, cells))
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, cells-filled)
}

// formatDuration renders m:ss; minutes are not wrapped into hours.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
