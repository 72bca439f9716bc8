// Package worker runs blocking media operations on a dedicated goroutine,
// locked to its own OS thread, that talks to the UI only through a command
// queue and an event queue.
//
// A worker processes one command at a time, in send order, and pauses
// briefly after each one. Failures inside a command are turned into events
// and never stop the loop. The worker exits when every command sender has
// been closed and the queue is drained.
package worker

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrPanic wraps a panic recovered while handling a command.
var ErrPanic = errors.New("worker: command panicked")

// Handler executes commands on the worker goroutine.
type Handler[C, E any] interface {
	// Handle processes cmd to completion. Events are pushed with l.Emit.
	Handle(l *Loop[C, E], cmd C) error

	// Failure converts a failed command into the event reported to the UI.
	// Returning false reports nothing.
	Failure(cmd C, err error) (E, bool)
}

// Loop owns the consuming end of the command queue and the producing end of
// the event queue. It only exists inside Start.
type Loop[C, E any] struct {
	name     string
	pause    time.Duration
	logger   *zap.Logger
	handler  Handler[C, E]
	commands *Receiver[C]
	events   *Sender[E]
	done     chan struct{}
}

// Emit pushes an event to the UI. It panics if the UI dropped its receiver.
func (l *Loop[C, E]) Emit(e E) {
	l.events.Send(e)
}

// Post queues a follow-up command behind the pending ones. It does not keep
// the queue open and returns false once the worker is shutting down.
func (l *Loop[C, E]) Post(cmd C) bool {
	return l.commands.post(cmd)
}

// Logger returns the worker logger.
func (l *Loop[C, E]) Logger() *zap.Logger {
	return l.logger
}

func (l *Loop[C, E]) run() {
	defer close(l.done)
	defer l.events.Close()

	l.logger.Debug("worker started", zap.Duration("pause", l.pause))
	for {
		cmd, ok := l.commands.Recv()
		if !ok {
			l.logger.Debug("worker stopped")
			return
		}

		l.dispatch(cmd)

		if l.pause > 0 {
			time.Sleep(l.pause)
		}
	}
}

func (l *Loop[C, E]) dispatch(cmd C) {
	err := l.call(cmd)
	if err == nil {
		return
	}

	l.logger.Warn("command failed",
		zap.String("command", fmt.Sprintf("%T", cmd)),
		zap.Error(err))

	if ev, ok := l.handler.Failure(cmd, err); ok {
		l.Emit(ev)
	}
}

// call runs the handler, turning panics into errors. A panic from emitting
// to a dropped receiver is re-raised: the UI must outlive its workers.
func (l *Loop[C, E]) call(cmd C) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && errors.Is(e, ErrReceiverClosed) {
			panic(r)
		}
		err = fmt.Errorf("%w: %v", ErrPanic, r)
	}()
	return l.handler.Handle(l, cmd)
}
