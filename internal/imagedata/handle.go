// Package imagedata decodes images off the UI goroutine.
//
// A Handle sends DecodeImage commands to a dedicated worker and receives one
// ImageDecoded or DecodeError event per command, in command order.
package imagedata

import (
	"sync/atomic"

	"github.com/llehouerou/undertow/internal/worker"
)

// Handle is the UI side of the decode worker.
type Handle struct {
	commands *worker.Sender[Command]
	events   *worker.Receiver[Event]
	done     <-chan struct{}
	lastID   atomic.Uint64
}

// Start spawns a decode worker with the DefaultMaxBytes limit and returns
// its handle.
func Start(opts ...worker.Option) *Handle {
	return StartLimited(DefaultMaxBytes, opts...)
}

// StartLimited is Start with sources claiming more than maxBytes of RGBA
// pixels answered by DecodeError.
func StartLimited(maxBytes int64, opts ...worker.Option) *Handle {
	opts = append([]worker.Option{worker.WithName("decode")}, opts...)
	return worker.Start[Handle, Command, Event](decoder{maxBytes: maxBytes}, opts...)
}

// Attach implements worker.Interface.
func (h *Handle) Attach(commands *worker.Sender[Command], events *worker.Receiver[Event], done <-chan struct{}) {
	h.commands = commands
	h.events = events
	h.done = done
}

// Decode queues data for decoding and returns the request ID echoed by the
// resulting event. The handle takes ownership of data.
func (h *Handle) Decode(data []byte, typ ImageType, layout Layout) RequestID {
	return h.DecodeScaled(data, typ, layout, 0)
}

// DecodeScaled is Decode with the result bounded to maxSize pixels on each side.
func (h *Handle) DecodeScaled(data []byte, typ ImageType, layout Layout, maxSize int) RequestID {
	id := RequestID(h.lastID.Add(1))
	h.commands.Send(DecodeImage{
		ID:      id,
		Data:    data,
		Type:    typ,
		Layout:  layout,
		MaxSize: maxSize,
	})
	return id
}

// Poll returns the next pending event without blocking.
func (h *Handle) Poll() (Event, bool) {
	return h.events.TryRecv()
}

// Drain returns all pending events without blocking.
func (h *Handle) Drain() []Event {
	return h.events.Drain()
}

// Wait blocks until the next event. It returns false after Close once every
// queued command has been answered.
func (h *Handle) Wait() (Event, bool) {
	return h.events.Recv()
}

// Close stops accepting commands. The worker answers what is queued, then exits.
func (h *Handle) Close() {
	h.commands.Close()
}

// Done is closed when the worker has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
