package worker

import (
	"context"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"
)

// Interface is implemented by UI-facing handles. A handle is built from the
// halves the UI keeps: the command producer, the event consumer and a
// channel closed when the worker exits.
type Interface[T, C, E any] interface {
	*T
	Attach(commands *Sender[C], events *Receiver[E], done <-chan struct{})
}

// Start spawns a worker running h and returns a handle of type T attached to
// it. The worker lives on its own OS thread until every command sender
// held by the handle is closed.
//
//	h := worker.Start[Handle, Command, Event](decoder{}, worker.WithName("decode"))
func Start[T, C, E any, PT Interface[T, C, E]](h Handler[C, E], opts ...Option) *T {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cmdTx, cmdRx := NewChannel[C]()
	evTx, evRx := NewChannel[E]()

	l := &Loop[C, E]{
		name:     o.name,
		pause:    o.pause,
		logger:   o.logger.With(zap.String("worker", o.name)),
		handler:  h,
		commands: cmdRx,
		events:   evTx,
		done:     make(chan struct{}),
	}

	go func() {
		// Never unlocked: the thread is torn down with the goroutine.
		runtime.LockOSThread()
		pprof.Do(context.Background(), pprof.Labels("worker", l.name), func(context.Context) {
			l.run()
		})
	}()

	handle := new(T)
	PT(handle).Attach(cmdTx, evRx, l.done)
	return handle
}
