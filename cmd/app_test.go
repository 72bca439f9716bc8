package cmd

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestLoadConfig_InvalidFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("config.toml", []byte("[decode\npause ="), 0o600))

	cfg, err := loadConfig()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load configuration")
}

func TestRun_StartFailure(t *testing.T) {
	errBoom := errors.New("boom")
	app := fx.New(
		fx.NopLogger,
		fx.Invoke(func() error { return errBoom }),
	)

	called := false
	err := run(app, func() error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to initialize application")
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, called, "fn runs only once the app started")
}

func TestRun_ReturnsCommandError(t *testing.T) {
	errCmd := errors.New("command failed")
	app := fx.New(fx.NopLogger)

	assert.Equal(t, errCmd, run(app, func() error { return errCmd }))
}
