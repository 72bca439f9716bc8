package playback

import "time"

// Command is sent from the UI to the playback worker.
type Command interface {
	command()
}

// Play loads and starts the file at Path, replacing the current track.
type Play struct{ Path string }

// Pause pauses a playing track.
type Pause struct{}

// Resume resumes a paused track.
type Resume struct{}

// Toggle switches between Playing and Paused.
type Toggle struct{}

// Stop stops playback and releases the track.
type Stop struct{}

// Seek moves the position by Delta. Seeking past the end finishes the track.
type Seek struct{ Delta time.Duration }

// SeekTo moves to an absolute position.
type SeekTo struct{ Position time.Duration }

// SetVolume sets the output level, from 0 to 1.
type SetVolume struct{ Level float64 }

// trackEnded is posted by the audio callback when a track runs out.
type trackEnded struct{ generation uint64 }

func (Play) command()       {}
func (Pause) command()      {}
func (Resume) command()     {}
func (Toggle) command()     {}
func (Stop) command()       {}
func (Seek) command()       {}
func (SeekTo) command()     {}
func (SetVolume) command()  {}
func (trackEnded) command() {}

// Event is sent from the playback worker to the UI. Playback state itself is
// not evented; read it from the handle.
type Event interface {
	event()
}

// ErrorEvent is emitted when a command fails.
type ErrorEvent struct {
	Operation string // e.g., "play", "seek"
	Path      string // track path if applicable
	Err       error
}

// TrackFinished is emitted when the current track reaches its end.
type TrackFinished struct {
	Path string
}

func (ErrorEvent) event()    {}
func (TrackFinished) event() {}

// operation names a command for error reporting.
func operation(cmd Command) string {
	switch cmd.(type) {
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case Toggle:
		return "toggle"
	case Stop:
		return "stop"
	case Seek, SeekTo:
		return "seek"
	case SetVolume:
		return "volume"
	default:
		return "playback"
	}
}
