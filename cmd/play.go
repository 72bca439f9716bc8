package cmd

import (
	"errors"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/app"
	"github.com/llehouerou/undertow/internal/config"
	"github.com/llehouerou/undertow/internal/errmsg"
	"github.com/llehouerou/undertow/internal/icons"
	"github.com/llehouerou/undertow/internal/imagedata"
	"github.com/llehouerou/undertow/internal/kitty"
	"github.com/llehouerou/undertow/internal/mpris"
	"github.com/llehouerou/undertow/internal/notify"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/state"
	"github.com/llehouerou/undertow/internal/stderr"
)

// notifyTimeout is how long a track notification stays up, in ms.
const notifyTimeout = 5000

// PlayCmd plays files and folders in the terminal UI.
type PlayCmd struct {
	Paths    []string `arg:"" optional:"" name:"paths" help:"Files or folders to play (default: music_folder, then the current directory)" type:"path"`
	NoImages bool     `help:"Do not display cover art"`
	NoMPRIS  bool     `name:"no-mpris" help:"Do not publish media controls on D-Bus"`
	NoNotify bool     `help:"Do not show a desktop notification on track change"`
	Resume   bool     `short:"r" help:"Start from the track and position saved when the player last quit"`
}

// Run collects the tracks and runs the player until the user quits.
func (c *PlayCmd) Run() error {
	var (
		cfg     *config.Config
		logger  *zap.Logger
		player  *playback.Handle
		decoder *imagedata.Handle
		store   *state.Manager
	)
	fxApp := newApp(&cfg, &logger, &player, &decoder, &store)

	return run(fxApp, func() error {
		tracks, err := c.tracks(cfg)
		if err != nil {
			return err
		}
		logger.Info("starting player", zap.Int("tracks", len(tracks)))
		icons.Init(cfg.Icons)

		opts := app.Options{
			Tracks:  tracks,
			Images:  !c.NoImages && kitty.Supported(),
			MaxSize: cfg.GetDecodeConfig().MaxSize,
			Logger:  logger,
		}
		c.applySession(&opts, store, player, logger)
		opts.Sessions = store
		if !c.NoNotify {
			np := notify.NewNowPlaying(notify.New(), notifyTimeout)
			defer func() { _ = np.Dismiss() }()
			opts.Announcer = np
		}

		m := app.New(player, decoder, opts)
		program := tea.NewProgram(m, tea.WithAltScreen())

		if !c.NoMPRIS {
			adapter, err := mpris.New(player, func(delta int) {
				program.Send(app.NavigateMsg{Delta: delta})
			})
			if err != nil {
				logger.Warn("mpris unavailable", zap.Error(err))
			} else {
				defer adapter.Close()
			}
		}

		restore, err := stderr.Capture(logger)
		if err != nil {
			logger.Warn("stderr capture unavailable", zap.Error(err))
		} else {
			defer restore()
		}

		final, err := program.Run()
		if err != nil {
			return err
		}
		if fm, ok := final.(app.Model); ok {
			if err := store.SaveSessionNow(app.SessionOf(fm.Status())); err != nil {
				logger.Warn("save session", zap.Error(err))
			}
		}
		return nil
	})
}

// applySession applies the saved volume and, with --resume, the saved track.
func (c *PlayCmd) applySession(opts *app.Options, store *state.Manager, player *playback.Handle, logger *zap.Logger) {
	sess, err := store.Session()
	if err != nil {
		logger.Warn("read session", zap.Error(err))
		return
	}
	player.SetVolume(sess.Volume)
	if !c.Resume || sess.Path == "" {
		return
	}
	if i := slices.Index(opts.Tracks, sess.Path); i >= 0 {
		opts.Start = i
		opts.StartAt = sess.Position
	}
}

// tracks builds the play list from the arguments, else the music folder,
// else the working directory.
func (c *PlayCmd) tracks(cfg *config.Config) ([]string, error) {
	paths, err := c.paths(cfg)
	if err != nil {
		return nil, err
	}
	tracks, err := app.CollectTracks(paths)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpFolderScan, err))
	}
	return tracks, nil
}

func (c *PlayCmd) paths(cfg *config.Config) ([]string, error) {
	if len(c.Paths) > 0 {
		return c.Paths, nil
	}
	if cfg.MusicFolder != "" {
		return []string{cfg.MusicFolder}, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return []string{wd}, nil
}
