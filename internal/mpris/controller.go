// Package mpris publishes playback controls on the session D-Bus so desktop
// media keys and applets can drive the player.
package mpris

import (
	"time"

	"github.com/llehouerou/undertow/internal/playback"
)

// Controller is the part of the playback handle MPRIS drives.
type Controller interface {
	Pause()
	Resume()
	Toggle()
	Stop()
	Seek(delta time.Duration)
	SeekTo(position time.Duration)
	SetVolume(level float64)
	Status() playback.Status
}

var _ Controller = (*playback.Handle)(nil)
