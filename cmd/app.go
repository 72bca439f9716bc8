// Package cmd holds the command line commands and their dependency graph.
package cmd

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/config"
	"github.com/llehouerou/undertow/internal/errmsg"
	"github.com/llehouerou/undertow/internal/imagedata"
	"github.com/llehouerou/undertow/internal/logging"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/state"
	"github.com/llehouerou/undertow/internal/worker"
)

// newApp builds the dependency graph and fills targets. Only the
// constructors the targets need are run.
func newApp(targets ...any) *fx.App {
	return fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Provide(
			loadConfig,
			newLogger,
			newDecoder,
			newPlayer,
			newState,
		),
		fx.Populate(targets...),
	)
}

// run starts app, calls fn, then stops app whatever fn returned.
func run(app *fx.App, fn func() error) error {
	if err := app.Start(context.Background()); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	runErr := fn()
	if err := app.Stop(context.Background()); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	return cfg, nil
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logCfg, err := cfg.GetLogConfig()
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return closer.Close()
		},
	})
	return logger, nil
}

func newDecoder(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *imagedata.Handle {
	dc := cfg.GetDecodeConfig()
	h := imagedata.StartLimited(dc.MaxBytes,
		worker.WithPause(dc.Pause),
		worker.WithLogger(logger),
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			h.Close()
			return waitDone(ctx, h.Done())
		},
	})
	return h
}

func newPlayer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *playback.Handle {
	h := playback.Start(playback.NewSpeakerOutput(),
		worker.WithPause(cfg.GetPlaybackConfig().Pause),
		worker.WithLogger(logger),
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			h.Stop()
			h.Close()
			return waitDone(ctx, h.Done())
		},
	})
	return h
}

func newState(lc fx.Lifecycle) (*state.Manager, error) {
	path, err := state.DefaultPath()
	if err != nil {
		return nil, err
	}
	m, err := state.Open(path)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return m.Close()
		},
	})
	return m, nil
}

func waitDone(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
