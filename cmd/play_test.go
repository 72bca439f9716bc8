package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/undertow/internal/config"
)

func TestPlayCmd_Tracks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.opus", "a.m4a", "cover.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	tests := []struct {
		name string
		cmd  PlayCmd
		cfg  config.Config
	}{
		{name: "arguments", cmd: PlayCmd{Paths: []string{dir}}},
		{name: "music folder", cfg: config.Config{MusicFolder: dir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.tracks(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, []string{filepath.Join(dir, "a.m4a"), filepath.Join(dir, "b.opus")}, got)
		})
	}
}

func TestPlayCmd_TracksScanFailure(t *testing.T) {
	c := PlayCmd{Paths: []string{filepath.Join(t.TempDir(), "missing")}}

	_, err := c.tracks(&config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to scan folder")
}
