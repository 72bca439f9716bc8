// internal/playback/state.go
package playback

import "time"

// State represents the playback state machine.
//
//	┌──────────┐  play   ┌─────────┐  decoded  ┌──────────┐
//	│ Stopped  │────────▶│ Loading │──────────▶│ Playing  │
//	└──────────┘         └─────────┘           └──────────┘
//	     ▲                    │ error            │     ▲
//	     │◀───────────────────┘            pause │     │ resume
//	     │                                       ▼     │
//	     │            stop / end of track    ┌──────────┐
//	     └───────────────────────────────────│  Paused  │
//	                                         └──────────┘
//
// Only the playback worker moves between states. Commands that do not apply
// to the current state are no-ops.
type State int32

const (
	Stopped State = iota
	Loading
	Playing
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Loading:
		return "Loading"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// Status is a consistent view of the playback state.
type Status struct {
	State    State
	Path     string
	Position time.Duration
	Duration time.Duration
	Volume   float64
}

// snapshot is published by the worker. Position is anchored at a point in
// time and extrapolated while playing so readers never touch the audio path.
type snapshot struct {
	state    State
	path     string
	anchor   time.Duration
	at       time.Time
	duration time.Duration
	volume   float64
}

func (s *snapshot) position(now time.Time) time.Duration {
	pos := s.anchor
	if s.state == Playing {
		pos += now.Sub(s.at)
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	return max(pos, 0)
}

func (s *snapshot) status(now time.Time) Status {
	return Status{
		State:    s.state,
		Path:     s.path,
		Position: s.position(now),
		Duration: s.duration,
		Volume:   s.volume,
	}
}
