// Package playback drives audio on a dedicated worker.
//
// Commands are fire-and-forget. Playback state, position and duration are
// published by the worker and read without blocking; only failures and the
// end of a track are sent as events.
package playback

import (
	"sync/atomic"
	"time"

	"github.com/llehouerou/undertow/internal/worker"
)

// Handle is the UI side of the playback worker.
type Handle struct {
	commands *worker.Sender[Command]
	events   *worker.Receiver[Event]
	done     <-chan struct{}
	status   *atomic.Pointer[snapshot]
}

// Start spawns a playback worker writing to out and returns its handle.
func Start(out Output, opts ...worker.Option) *Handle {
	p := newPlayer(out)
	opts = append([]worker.Option{worker.WithName("playback")}, opts...)
	h := worker.Start[Handle, Command, Event](p, opts...)
	h.status = &p.published
	return h
}

// Attach implements worker.Interface.
func (h *Handle) Attach(commands *worker.Sender[Command], events *worker.Receiver[Event], done <-chan struct{}) {
	h.commands = commands
	h.events = events
	h.done = done
}

// Play starts the file at path.
func (h *Handle) Play(path string) { h.commands.Send(Play{Path: path}) }

// Pause pauses playback.
func (h *Handle) Pause() { h.commands.Send(Pause{}) }

// Resume resumes paused playback.
func (h *Handle) Resume() { h.commands.Send(Resume{}) }

// Toggle toggles between playing and paused.
func (h *Handle) Toggle() { h.commands.Send(Toggle{}) }

// Stop stops playback.
func (h *Handle) Stop() { h.commands.Send(Stop{}) }

// Seek moves the position by delta.
func (h *Handle) Seek(delta time.Duration) { h.commands.Send(Seek{Delta: delta}) }

// SeekTo moves to an absolute position.
func (h *Handle) SeekTo(position time.Duration) { h.commands.Send(SeekTo{Position: position}) }

// SetVolume sets the output level (0.0 to 1.0).
func (h *Handle) SetVolume(level float64) { h.commands.Send(SetVolume{Level: level}) }

// State returns the last published state.
func (h *Handle) State() State {
	return h.status.Load().state
}

// Position returns the current playback position.
func (h *Handle) Position() time.Duration {
	return h.status.Load().position(time.Now())
}

// Duration returns the current track duration.
func (h *Handle) Duration() time.Duration {
	return h.status.Load().duration
}

// Status returns state, track, position and duration from one snapshot.
func (h *Handle) Status() Status {
	return h.status.Load().status(time.Now())
}

// Poll returns the next pending event without blocking.
func (h *Handle) Poll() (Event, bool) {
	return h.events.TryRecv()
}

// Drain returns all pending events without blocking.
func (h *Handle) Drain() []Event {
	return h.events.Drain()
}

// Wait blocks until the next event. It returns false once the worker is gone.
func (h *Handle) Wait() (Event, bool) {
	return h.events.Recv()
}

// Close stops accepting commands. The worker finishes what is queued, then exits.
func (h *Handle) Close() {
	h.commands.Close()
}

// Done is closed when the worker has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
