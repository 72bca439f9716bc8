//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/undertow/internal/coverart"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/tags"
)

// Adapter exposes the playback worker as an MPRIS player over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter. navigate moves in the play
// list owned by the UI; a delta of 0 restarts the current track.
func New(c Controller, navigate func(delta int)) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("undertow", &rootAdapter{}, &playerAdapter{c: c, navigate: navigate}),
	}

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Undertow", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/opus", "audio/mp4", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	c        Controller
	navigate func(delta int)
}

func (p *playerAdapter) Next() error {
	p.navigate(1)
	return nil
}

func (p *playerAdapter) Previous() error {
	p.navigate(-1)
	return nil
}

func (p *playerAdapter) Pause() error {
	p.c.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if p.c.Status().State == playback.Stopped {
		return p.Play()
	}
	p.c.Toggle()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.c.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.c.Status().State == playback.Stopped {
		p.navigate(0)
		return nil
	}
	p.c.Resume()
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.c.Seek(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.c.SeekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.c.Status().State {
	case playback.Playing:
		return types.PlaybackStatusPlaying, nil
	case playback.Paused:
		return types.PlaybackStatusPaused, nil
	case playback.Stopped, playback.Loading:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	st := p.c.Status()
	if st.Path == "" {
		return types.Metadata{}, nil
	}

	info := tags.ReadOrFallback(st.Path)
	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(st.Path)),
		Length:      types.Microseconds(st.Duration.Microseconds()),
		Title:       info.Title,
		Album:       info.Album,
		TrackNumber: info.TrackNumber,
	}
	if info.Artist != "" {
		meta.Artist = []string{info.Artist}
	}
	if artPath, err := coverart.FolderPath(filepath.Dir(st.Path)); err == nil {
		meta.ArtUrl = "file://" + artPath
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.c.Status().Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.c.SetVolume(level)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.c.Status().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// The play list lives in the UI, which ignores moves past either end.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.c.Status().State.IsActive(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
