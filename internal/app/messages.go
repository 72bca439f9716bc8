// Package app is the terminal player: a bubbletea model over the playback
// and image decode workers.
package app

import (
	"time"

	"github.com/llehouerou/undertow/internal/imagedata"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/tags"
)

// TickMsg is sent periodically to refresh the playback status.
type TickMsg time.Time

// DecodeEventMsg carries one event from the decode worker.
type DecodeEventMsg struct {
	Event imagedata.Event
}

// PlaybackEventMsg carries one event from the playback worker.
type PlaybackEventMsg struct {
	Event playback.Event
}

// WorkerClosedMsg is sent when a worker's event stream ends.
type WorkerClosedMsg struct {
	Worker string
}

// CoverLoadedMsg is the result of reading a track's cover art bytes.
type CoverLoadedMsg struct {
	Path string
	Data []byte
	Err  error
}

// NavigateMsg moves Delta tracks in the play list; 0 restarts the current
// track. Sent by external controls such as MPRIS.
type NavigateMsg struct {
	Delta int
}

// InfoLoadedMsg carries the tags of a track.
type InfoLoadedMsg struct {
	Path string
	Info *tags.Info
}
