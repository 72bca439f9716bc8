package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

// chdirTemp runs the test from an empty directory so ./config.toml is
// under its control.
func chdirTemp(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/music", filepath.Join(home, "music")},
		{"tilde with nested path", "~/music/library/albums", filepath.Join(home, "music", "library", "albums")},
		{"absolute path unchanged", "/usr/local/music", "/usr/local/music"},
		{"relative path unchanged", "music/albums", "music/albums"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := expandPath(tt.input); result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() = %v, want 2 paths", paths)
	}
	if want := filepath.Join(xdg.ConfigHome, "undertow", "config.toml"); paths[0] != want {
		t.Errorf("first config path = %q, want %q", paths[0], want)
	}
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}
}

func TestGetDecodeConfig(t *testing.T) {
	tests := []struct {
		name   string
		config DecodeConfig
		want   DecodeConfig
	}{
		{"defaults", DecodeConfig{}, DecodeConfig{Pause: 10 * time.Millisecond, MaxBytes: 512 << 20}},
		{"custom", DecodeConfig{Pause: time.Second, MaxSize: 512, MaxBytes: 1 << 20}, DecodeConfig{Pause: time.Second, MaxSize: 512, MaxBytes: 1 << 20}},
		{"negative pause kept", DecodeConfig{Pause: -1}, DecodeConfig{Pause: -1, MaxBytes: 512 << 20}},
		{"negative max size", DecodeConfig{MaxSize: -5}, DecodeConfig{Pause: 10 * time.Millisecond, MaxBytes: 512 << 20}},
		{"negative max bytes", DecodeConfig{MaxBytes: -1}, DecodeConfig{Pause: 10 * time.Millisecond, MaxBytes: 512 << 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{Decode: tt.config}
			if got := c.GetDecodeConfig(); got != tt.want {
				t.Errorf("GetDecodeConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetPlaybackConfig(t *testing.T) {
	c := Config{}
	if got := c.GetPlaybackConfig().Pause; got != 10*time.Millisecond {
		t.Errorf("default pause = %v, want 10ms", got)
	}
	c.Playback.Pause = 25 * time.Millisecond
	if got := c.GetPlaybackConfig().Pause; got != 25*time.Millisecond {
		t.Errorf("custom pause = %v, want 25ms", got)
	}
}

func TestGetLogConfig(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"", "info"},
		{"debug", "debug"},
		{"WARN", "warn"},
		{"verbose", "info"},
	}
	for _, tt := range tests {
		c := Config{Log: LogConfig{Level: tt.level, File: "/tmp/undertow.log"}}
		got, err := c.GetLogConfig()
		if err != nil {
			t.Fatalf("GetLogConfig() error = %v", err)
		}
		if got.Level != tt.want {
			t.Errorf("level %q -> %q, want %q", tt.level, got.Level, tt.want)
		}
		if got.File != "/tmp/undertow.log" {
			t.Errorf("File = %q, want explicit path kept", got.File)
		}
	}
}

func TestGetLogConfig_DefaultFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	got, err := (&Config{}).GetLogConfig()
	if err != nil {
		t.Fatalf("GetLogConfig() error = %v", err)
	}
	if want := filepath.Join(xdg.StateHome, "undertow", "undertow.log"); got.File != want {
		t.Errorf("File = %q, want %q", got.File, want)
	}
	if _, err := os.Stat(filepath.Dir(got.File)); err != nil {
		t.Errorf("state directory not created: %v", err)
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte(""), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	chdirTemp(t)

	configContent := `
music_folder = "~/music"
icons = "nerd"

[decode]
pause = "25ms"
max_size = 300
max_bytes = 1048576

[playback]
pause = "5ms"

[log]
level = "debug"
file = "/tmp/undertow-test.log"
`
	if err := os.WriteFile("config.toml", []byte(configContent), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "music"); cfg.MusicFolder != want {
		t.Errorf("MusicFolder = %q, want %q", cfg.MusicFolder, want)
	}
	if cfg.Icons != "nerd" {
		t.Errorf("Icons = %q, want nerd", cfg.Icons)
	}
	if cfg.Decode.Pause != 25*time.Millisecond {
		t.Errorf("Decode.Pause = %v, want 25ms", cfg.Decode.Pause)
	}
	if cfg.Decode.MaxSize != 300 {
		t.Errorf("Decode.MaxSize = %d, want 300", cfg.Decode.MaxSize)
	}
	if cfg.Decode.MaxBytes != 1<<20 {
		t.Errorf("Decode.MaxBytes = %d, want 1048576", cfg.Decode.MaxBytes)
	}
	if cfg.Playback.Pause != 5*time.Millisecond {
		t.Errorf("Playback.Pause = %v, want 5ms", cfg.Playback.Pause)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/undertow-test.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte("invalid = [[["), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}
