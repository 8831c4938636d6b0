package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrview/config"
)

func TestParseFlagsDefaults(t *testing.T) {
	f, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "hdrview.toml", f.configPath)

	cfg := config.Default()
	want := *cfg
	f.apply(cfg)
	assert.Equal(t, want, *cfg, "unset flags leave the config alone")
}

func TestFlagsOverrideConfig(t *testing.T) {
	f, err := parseFlags([]string{
		"--config", "custom.toml",
		"--snapshot", "/tmp/state.txt",
		"--debug",
		"--hot-reload",
		"--shader-dir", "shaders",
	})
	require.NoError(t, err)
	assert.Equal(t, "custom.toml", f.configPath)

	cfg := config.Default()
	f.apply(cfg)
	assert.Equal(t, "/tmp/state.txt", cfg.Assets.Snapshot)
	assert.True(t, cfg.Log.Debug)
	assert.True(t, cfg.Dev.HotReload)
	assert.Equal(t, "shaders", cfg.Assets.ShaderDir)
}

func TestFlagsCanDisable(t *testing.T) {
	f, err := parseFlags([]string{"--debug=false"})
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Log.Debug = true
	f.apply(cfg)
	assert.False(t, cfg.Log.Debug)
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags([]string{"--nope"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"extra"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestHelpLines(t *testing.T) {
	lines := helpLines(config.Default().Keys)
	require.Len(t, lines, 5)
	assert.Equal(t, "WASD move camera, mouse look, scroll zoom", lines[0])
	assert.Equal(t, "F1 panel   H hdr   C mouse look", lines[1])
	assert.Equal(t, "UP/DOWN exposure", lines[2])
	assert.Equal(t, "JL IK UO move object   [ ] scale", lines[3])
	assert.Equal(t, "ESCAPE or Q quit", lines[4])
}
