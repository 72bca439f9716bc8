package worker

import (
	"time"

	"go.uber.org/zap"
)

// DefaultPause is the pause inserted after every processed command.
const DefaultPause = 10 * time.Millisecond

// Option configures a worker started with Start.
type Option func(*options)

type options struct {
	name   string
	pause  time.Duration
	logger *zap.Logger
}

func defaultOptions() options {
	return options{
		name:   "worker",
		pause:  DefaultPause,
		logger: zap.NewNop(),
	}
}

// WithName sets the worker name used in logs and profiler labels.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithPause sets the pause after each processed command. Zero or a negative
// value disables it.
func WithPause(d time.Duration) Option {
	return func(o *options) { o.pause = d }
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
