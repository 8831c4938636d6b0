package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup maps single printable names to their byte value and rejects the
// rest, standing in for the window's key table.
func fakeLookup(name string) (int, error) {
	switch name {
	case "escape":
		return 256, nil
	case "f1":
		return 290, nil
	case "up":
		return 265, nil
	case "down":
		return 264, nil
	}
	if len(name) == 1 {
		return int(name[0]), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate(fakeLookup))
	assert.Equal(t, 1200, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height)
	assert.Equal(t, "resources/program_state.txt", cfg.Assets.Snapshot)
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, cfg.Camera.StartPosition())
	assert.Equal(t, float32(0.01), cfg.InputSettings().ExposureStep)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
width = 800

[pipeline]
skybox = false
far = 250.0

[keys]
toggle_hdr = "space"

[dev]
hot_reload = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height, "untouched keys keep defaults")
	assert.False(t, cfg.Pipeline.Skybox)
	assert.True(t, cfg.Pipeline.GroundPlate)
	assert.Equal(t, float32(250), cfg.Pipeline.Far)
	assert.Equal(t, "space", cfg.Keys.ToggleHDR)
	assert.True(t, cfg.Dev.HotReload)

	err = cfg.Validate(fakeLookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys.toggle_hdr")
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\nwidth = "), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRanges(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Pipeline.Near = 200
	err := cfg.Validate(fakeLookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "clip planes")
}

func TestBindingsResolved(t *testing.T) {
	b, err := Default().Keys.Bindings(fakeLookup)
	require.NoError(t, err)
	assert.Equal(t, int('w'), b.Forward)
	assert.Equal(t, 256, b.Exit)
	assert.Equal(t, int('q'), b.ExitAlt)
	assert.Equal(t, 290, b.ToggleUI)
	assert.Equal(t, int(']'), b.ScaleUp)
}

func TestBindingsRejectDuplicateKeys(t *testing.T) {
	cfg := Default()
	cfg.Keys.ToggleHDR = "f1"
	cfg.Keys.ScaleUp = "w"

	err := cfg.Validate(fakeLookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `keys.toggle_hdr: "f1" already bound to keys.toggle_ui`)
	assert.Contains(t, err.Error(), `keys.scale_up: "w" already bound to keys.forward`)
}
