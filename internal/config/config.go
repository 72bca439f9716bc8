package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "undertow"

// Default worker pause after each command.
const defaultPause = 10 * time.Millisecond

// defaultMaxBytes is the largest RGBA buffer an image header may claim.
const defaultMaxBytes int64 = 512 << 20

type Config struct {
	MusicFolder string `koanf:"music_folder"` // starting folder for "play" without arguments
	Icons       string `koanf:"icons"`        // nerd, unicode or none

	Decode   DecodeConfig   `koanf:"decode"`
	Playback PlaybackConfig `koanf:"playback"`
	Log      LogConfig      `koanf:"log"`
}

// DecodeConfig tunes the image decode worker.
type DecodeConfig struct {
	Pause    time.Duration `koanf:"pause"`     // sleep after each command (default: 10ms, negative disables)
	MaxSize  int           `koanf:"max_size"`  // longest bitmap edge in pixels (default: 0, no limit)
	MaxBytes int64         `koanf:"max_bytes"` // largest RGBA buffer a source may claim (default: 512 MiB)
}

// PlaybackConfig tunes the playback worker.
type PlaybackConfig struct {
	Pause time.Duration `koanf:"pause"` // sleep after each command (default: 10ms, negative disables)
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/undertow/undertow.log
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.MusicFolder = expandPath(cfg.MusicFolder)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/undertow/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetDecodeConfig returns the decode configuration with defaults applied.
func (c *Config) GetDecodeConfig() DecodeConfig {
	cfg := c.Decode
	if cfg.Pause == 0 {
		cfg.Pause = defaultPause
	}
	if cfg.MaxSize < 0 {
		cfg.MaxSize = 0
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return cfg
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback
	if cfg.Pause == 0 {
		cfg.Pause = defaultPause
	}
	return cfg
}

// GetLogConfig returns the log configuration with defaults applied. The
// default file lives under the XDG state directory, which is created.
func (c *Config) GetLogConfig() (LogConfig, error) {
	cfg := c.Log
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
		cfg.Level = strings.ToLower(cfg.Level)
	default:
		cfg.Level = "info"
	}
	if cfg.File == "" {
		path, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
		if err != nil {
			return cfg, err
		}
		cfg.File = path
	}
	return cfg, nil
}
