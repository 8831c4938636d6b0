// Package config loads the viewer's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"hdrview/input"
)

type Config struct {
	Window   Window   `toml:"window"`
	Assets   Assets   `toml:"assets"`
	Pipeline Pipeline `toml:"pipeline"`
	Camera   Camera   `toml:"camera"`
	Input    Input    `toml:"input"`
	Keys     Keys     `toml:"keys"`
	Log      Log      `toml:"log"`
	Dev      Dev      `toml:"dev"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type Assets struct {
	// Model is an .obj, .gltf or .glb file. Empty draws a cube.
	Model        string    `toml:"model"`
	PlateTexture string    `toml:"plate_texture"`
	Skybox       [6]string `toml:"skybox"` // right, left, top, bottom, front, back
	// ShaderDir overrides the built-in shaders with files of the same name.
	ShaderDir    string `toml:"shader_dir"`
	Snapshot     string `toml:"snapshot"`
	FlipTextures bool   `toml:"flip_textures"`
}

type Pipeline struct {
	Skybox      bool    `toml:"skybox"`
	GroundPlate bool    `toml:"ground_plate"`
	Near        float32 `toml:"near"`
	Far         float32 `toml:"far"`
	// PlateY is the height of the ground plate.
	PlateY    float32 `toml:"plate_y"`
	PlateSize float32 `toml:"plate_size"`
}

type Camera struct {
	Position    [3]float32 `toml:"position"`
	Speed       float32    `toml:"speed"`
	Sensitivity float32    `toml:"sensitivity"`
}

type Input struct {
	ExposureStep float32 `toml:"exposure_step"`
	ObjectSpeed  float32 `toml:"object_speed"`
	ScaleSpeed   float32 `toml:"scale_speed"`
}

// Keys holds key names as accepted by core.KeyByName.
type Keys struct {
	Forward       string `toml:"forward"`
	Backward      string `toml:"backward"`
	Left          string `toml:"left"`
	Right         string `toml:"right"`
	Exit          string `toml:"exit"`
	ExitAlt       string `toml:"exit_alt"`
	ToggleUI      string `toml:"toggle_ui"`
	ToggleHDR     string `toml:"toggle_hdr"`
	ToggleCamera  string `toml:"toggle_camera"`
	ExposureUp    string `toml:"exposure_up"`
	ExposureDown  string `toml:"exposure_down"`
	ObjectLeft    string `toml:"object_left"`
	ObjectRight   string `toml:"object_right"`
	ObjectUp      string `toml:"object_up"`
	ObjectDown    string `toml:"object_down"`
	ObjectForward string `toml:"object_forward"`
	ObjectBack    string `toml:"object_back"`
	ScaleUp       string `toml:"scale_up"`
	ScaleDown     string `toml:"scale_down"`
}

type Log struct {
	Debug bool `toml:"debug"`
}

type Dev struct {
	// HotReload recompiles shaders from ShaderDir when they change on disk.
	HotReload bool `toml:"hot_reload"`
}

func Default() *Config {
	return &Config{
		Window: Window{Width: 1200, Height: 900, Title: "HDR Viewer", VSync: true},
		Assets: Assets{
			Model:        "resources/objects/backpack/backpack.obj",
			PlateTexture: "resources/textures/wood.png",
			Skybox: [6]string{
				"resources/textures/skybox/right.jpg",
				"resources/textures/skybox/left.jpg",
				"resources/textures/skybox/top.jpg",
				"resources/textures/skybox/bottom.jpg",
				"resources/textures/skybox/front.jpg",
				"resources/textures/skybox/back.jpg",
			},
			Snapshot:     "resources/program_state.txt",
			FlipTextures: true,
		},
		Pipeline: Pipeline{
			Skybox:      true,
			GroundPlate: true,
			Near:        0.1,
			Far:         100,
			PlateY:      -1.5,
			PlateSize:   20,
		},
		Camera: Camera{Position: [3]float32{0, 0, 3}, Speed: 2.5, Sensitivity: 0.1},
		Input:  Input{ExposureStep: 0.01, ObjectSpeed: 2, ScaleSpeed: 0.5},
		Keys: Keys{
			Forward: "w", Backward: "s", Left: "a", Right: "d",
			Exit: "escape", ExitAlt: "q",
			ToggleUI: "f1", ToggleHDR: "h", ToggleCamera: "c",
			ExposureUp: "up", ExposureDown: "down",
			ObjectLeft: "j", ObjectRight: "l",
			ObjectUp: "u", ObjectDown: "o",
			ObjectForward: "i", ObjectBack: "k",
			ScaleUp: "]", ScaleDown: "[",
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes. A missing file yields the defaults and no error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at render time.
func (c *Config) Validate(lookup func(string) (int, error)) error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Pipeline.Near <= 0 || c.Pipeline.Near >= c.Pipeline.Far {
		errs = append(errs, fmt.Errorf("clip planes near=%g far=%g: need 0 < near < far", c.Pipeline.Near, c.Pipeline.Far))
	}
	if c.Input.ExposureStep < 0 {
		errs = append(errs, fmt.Errorf("exposure_step %g must not be negative", c.Input.ExposureStep))
	}
	if _, err := c.Keys.Bindings(lookup); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Bindings resolves every key name with lookup. Each key may drive only one
// action since the controller tracks edge state per key code.
func (k Keys) Bindings(lookup func(string) (int, error)) (input.Bindings, error) {
	var b input.Bindings
	var errs []error
	owner := make(map[int]string)
	resolve := func(dst *int, field, name string) {
		code, err := lookup(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("keys.%s: %w", field, err))
			return
		}
		if prev, ok := owner[code]; ok {
			errs = append(errs, fmt.Errorf("keys.%s: %q already bound to keys.%s", field, name, prev))
			return
		}
		owner[code] = field
		*dst = code
	}
	resolve(&b.Forward, "forward", k.Forward)
	resolve(&b.Backward, "backward", k.Backward)
	resolve(&b.Left, "left", k.Left)
	resolve(&b.Right, "right", k.Right)
	resolve(&b.Exit, "exit", k.Exit)
	resolve(&b.ExitAlt, "exit_alt", k.ExitAlt)
	resolve(&b.ToggleUI, "toggle_ui", k.ToggleUI)
	resolve(&b.ToggleHDR, "toggle_hdr", k.ToggleHDR)
	resolve(&b.ToggleCamera, "toggle_camera", k.ToggleCamera)
	resolve(&b.ExposureUp, "exposure_up", k.ExposureUp)
	resolve(&b.ExposureDown, "exposure_down", k.ExposureDown)
	resolve(&b.ObjectLeft, "object_left", k.ObjectLeft)
	resolve(&b.ObjectRight, "object_right", k.ObjectRight)
	resolve(&b.ObjectUp, "object_up", k.ObjectUp)
	resolve(&b.ObjectDown, "object_down", k.ObjectDown)
	resolve(&b.ObjectForward, "object_forward", k.ObjectForward)
	resolve(&b.ObjectBack, "object_back", k.ObjectBack)
	resolve(&b.ScaleUp, "scale_up", k.ScaleUp)
	resolve(&b.ScaleDown, "scale_down", k.ScaleDown)
	return b, errors.Join(errs...)
}

func (c *Config) InputSettings() input.Settings {
	return input.Settings{
		ExposureStep: c.Input.ExposureStep,
		ObjectSpeed:  c.Input.ObjectSpeed,
		ScaleSpeed:   c.Input.ScaleSpeed,
	}
}

func (c Camera) StartPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Position)
}
