package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/coverart"
	"github.com/llehouerou/undertow/internal/errmsg"
	"github.com/llehouerou/undertow/internal/imagedata"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/state"
	"github.com/llehouerou/undertow/internal/ui/playerbar"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		prev := m.status
		m.status = m.player.Status()
		if m.sessions != nil && sessionChanged(prev, m.status) {
			m.sessions.SaveSession(SessionOf(m.status))
		}
		return m, TickCmd()

	case NavigateMsg:
		return m, m.selectTrack(m.index + msg.Delta)

	case InfoLoadedMsg:
		if msg.Path == m.Current() {
			m.info = msg.Info
		}
		return m, nil

	case CoverLoadedMsg:
		return m.handleCoverLoaded(msg), nil

	case DecodeEventMsg:
		m = m.handleDecodeEvent(msg.Event)
		return m, WaitDecodeCmd(m.decoder)

	case PlaybackEventMsg:
		var cmd tea.Cmd
		m, cmd = m.handlePlaybackEvent(msg.Event)
		return m, tea.Batch(cmd, WaitPlaybackCmd(m.player))

	case WorkerClosedMsg:
		m.logger.Debug("worker event stream closed", zap.String("worker", msg.Worker))
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.player.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		if m.status.State == playback.Stopped {
			return m, m.selectTrack(m.index)
		}
		m.player.Toggle()
	case key.Matches(msg, m.keys.Stop):
		m.player.Stop()
	case key.Matches(msg, m.keys.Next):
		return m, m.selectTrack(m.index + 1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.selectTrack(m.index - 1)
	case key.Matches(msg, m.keys.SeekBack):
		m.player.Seek(-seekStep)
	case key.Matches(msg, m.keys.SeekFwd):
		m.player.Seek(seekStep)
	case key.Matches(msg, m.keys.VolumeUp):
		m.player.SetVolume(m.player.Status().Volume + volumeStep)
	case key.Matches(msg, m.keys.VolumeDown):
		m.player.SetVolume(m.player.Status().Volume - volumeStep)
	}
	return m, nil
}

// handleCoverLoaded queues the cover bytes for decoding. Covers of tracks
// that are no longer selected are dropped.
func (m Model) handleCoverLoaded(msg CoverLoadedMsg) Model {
	if msg.Path != m.Current() {
		return m
	}
	if msg.Err != nil {
		if !errors.Is(msg.Err, coverart.ErrNoArt) {
			m.logger.Warn("cover art", zap.String("path", msg.Path), zap.Error(msg.Err))
			m.err = errmsg.FormatWith(errmsg.OpCoverExtract, msg.Path, msg.Err)
		}
		return m
	}

	m.coverID = m.decoder.DecodeScaled(msg.Data, imagedata.AlbumArt, imagedata.RGB, m.decodeLimit())
	m.coverPending = true
	m.coverBytes = int64(len(msg.Data))
	return m
}

func (m Model) handleDecodeEvent(ev imagedata.Event) Model {
	id, typ := ev.Request()
	if !m.coverPending || id != m.coverID || typ != imagedata.AlbumArt {
		m.logger.Debug("stale decode event", zap.Uint64("id", uint64(id)))
		return m
	}
	m.coverPending = false

	switch ev := ev.(type) {
	case imagedata.ImageDecoded:
		m.cover = &playerbar.Cover{
			Width:  ev.Bitmap.Width,
			Height: ev.Bitmap.Height,
			Bytes:  m.coverBytes,
		}
		if m.art != nil {
			upload, err := m.art.Show(ev.Bitmap)
			m.upload = upload
			if err != nil {
				m.err = errmsg.Format(errmsg.OpImageDisplay, err)
			}
		}
	case imagedata.DecodeError:
		m.err = errmsg.FormatWith(errmsg.OpImageDecode, m.Current(), imagedata.ErrDecode)
	}
	return m
}

func (m Model) handlePlaybackEvent(ev playback.Event) (Model, tea.Cmd) {
	switch ev := ev.(type) {
	case playback.ErrorEvent:
		m.logger.Warn("playback error",
			zap.String("operation", ev.Operation),
			zap.String("path", ev.Path),
			zap.Error(ev.Err))
		m.err = errmsg.FormatWith(errmsg.PlaybackOp(ev.Operation), ev.Path, ev.Err)
	case playback.TrackFinished:
		if ev.Path == m.Current() && m.index+1 < len(m.tracks) {
			return m, m.selectTrack(m.index + 1)
		}
	}
	m.status = m.player.Status()
	return m, nil
}

func sessionChanged(prev, cur playback.Status) bool {
	return prev.Path != cur.Path || prev.State != cur.State || prev.Volume != cur.Volume
}

// SessionOf is the session to restore for st.
func SessionOf(st playback.Status) state.Session {
	return state.Session{Volume: st.Volume, Path: st.Path, Position: st.Position}
}
