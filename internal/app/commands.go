package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/coverart"
	"github.com/llehouerou/undertow/internal/tags"
)

const tickInterval = 250 * time.Millisecond

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WaitDecodeCmd blocks on the next decode event. Each DecodeEventMsg must
// re-issue it to keep draining.
func WaitDecodeCmd(d Decoder) tea.Cmd {
	return func() tea.Msg {
		ev, ok := d.Wait()
		if !ok {
			return WorkerClosedMsg{Worker: "decode"}
		}
		return DecodeEventMsg{Event: ev}
	}
}

// WaitPlaybackCmd blocks on the next playback event.
func WaitPlaybackCmd(p Player) tea.Cmd {
	return func() tea.Msg {
		ev, ok := p.Wait()
		if !ok {
			return WorkerClosedMsg{Worker: "playback"}
		}
		return PlaybackEventMsg{Event: ev}
	}
}

// LoadCoverCmd reads the cover art of the track at path.
func LoadCoverCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := coverart.Extract(path)
		return CoverLoadedMsg{Path: path, Data: data, Err: err}
	}
}

// LoadInfoCmd reads the tags of path off the UI goroutine.
func LoadInfoCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return InfoLoadedMsg{Path: path, Info: tags.ReadOrFallback(path)}
	}
}

// announceCmd reports a started track. Failures are logged only.
func announceCmd(a Announcer, logger *zap.Logger, path string, index, total int) tea.Cmd {
	return func() tea.Msg {
		if err := a.Track(path, index, total); err != nil {
			logger.Debug("announce track", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
}
