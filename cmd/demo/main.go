package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"hdrview/config"
	"hdrview/core"
	"hdrview/input"
	"hdrview/internal/hotreload"
	"hdrview/internal/opengl"
	"hdrview/logger"
	"hdrview/overlay"
	"hdrview/renderer"
	"hdrview/scene"
	"hdrview/state"
)

func main() {
	f, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	f.apply(cfg)

	if err := logger.Init(cfg.Log.Debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	if err := cfg.Validate(core.KeyByName); err != nil {
		log.Fatal("invalid config", zap.String("path", f.configPath), zap.Error(err))
	}
	bindings, _ := cfg.Keys.Bindings(core.KeyByName)

	printBanner(cfg.Keys)

	// ── Window ────────────────────────────────────────────────────────────────
	winCfg := core.DefaultWindowConfig()
	winCfg.Width = cfg.Window.Width
	winCfg.Height = cfg.Window.Height
	winCfg.Title = cfg.Window.Title
	winCfg.VSync = cfg.Window.VSync

	window, err := core.NewWindow(winCfg)
	if err != nil {
		log.Fatal("create window", zap.Error(err))
	}
	defer window.Destroy()

	// ── Assets ────────────────────────────────────────────────────────────────
	model, err := scene.LoadModel(cfg.Assets.Model, cfg.Assets.FlipTextures)
	if err != nil {
		log.Fatal("load model", zap.String("path", cfg.Assets.Model), zap.Error(err))
	}
	log.Info("model loaded", zap.String("path", cfg.Assets.Model), zap.Int("meshes", len(model.Meshes)))

	var plate *scene.Model
	if cfg.Pipeline.GroundPlate {
		plate = loadPlate(cfg)
	}
	var sky *scene.Cubemap
	if cfg.Pipeline.Skybox {
		sky, err = scene.LoadCubemap(cfg.Assets.Skybox)
		if err != nil {
			log.Warn("skybox faces missing", zap.Error(err))
		}
	}

	// ── Renderer ──────────────────────────────────────────────────────────────
	fbW, fbH := window.GetFramebufferSize()
	backend, err := opengl.NewRenderer(opengl.Config{
		Width:     fbW,
		Height:    fbH,
		ShaderDir: cfg.Assets.ShaderDir,
		Debug:     cfg.Log.Debug,
	}, opengl.Assets{Model: model, Plate: plate, Sky: sky})
	if err != nil {
		log.Fatal("create renderer", zap.Error(err))
	}
	defer backend.Destroy()

	opts := renderer.DefaultOptions()
	opts.Skybox = cfg.Pipeline.Skybox
	opts.GroundPlate = cfg.Pipeline.GroundPlate
	opts.Near = cfg.Pipeline.Near
	opts.Far = cfg.Pipeline.Far
	opts.PlateModel = mgl32.Translate3D(0, cfg.Pipeline.PlateY, 0)
	pipeline := renderer.NewPipeline(backend, opts, fbW, fbH)

	panel := &overlay.Panel{Help: helpLines(cfg.Keys)}
	text := backend.NewTextOverlay(panel)
	pipeline.SetOverlay(text)

	// ── State & input ─────────────────────────────────────────────────────────
	st := state.New()
	st.Camera = scene.NewCamera(cfg.Camera.StartPosition())
	st.Camera.MovementSpeed = cfg.Camera.Speed
	st.Camera.MouseSensitivity = cfg.Camera.Sensitivity
	if err := st.Load(cfg.Assets.Snapshot); err != nil {
		log.Warn("program state not restored", zap.String("path", cfg.Assets.Snapshot), zap.Error(err))
	}

	ctrl := input.NewController(window, st, bindings, cfg.InputSettings())
	ctrl.Sync()

	window.SetCursorPosCallback(ctrl.HandleCursorPos)
	window.SetScrollCallback(func(_, yoff float64) {
		ctrl.HandleScroll(yoff)
	})
	window.SetFramebufferSizeCallback(pipeline.Resize)

	var watcher *hotreload.Watcher
	if cfg.Dev.HotReload {
		watcher = startWatcher(cfg.Assets.ShaderDir)
		if watcher != nil {
			defer watcher.Close()
		}
	}

	// ── Main loop ─────────────────────────────────────────────────────────────
	timer := core.NewFrameTimer()
	for !window.ShouldClose() {
		dt := timer.Tick()
		text.AddFrameTime(dt)

		if watcher != nil {
			if changed := watcher.Poll(); len(changed) > 0 {
				if err := backend.ReloadShaders(); err != nil {
					log.Warn("shader reload failed", zap.Strings("changed", changed), zap.Error(err))
				} else {
					log.Info("shaders reloaded", zap.Strings("changed", changed))
				}
			}
		}

		ctrl.Update(dt)
		pipeline.RenderFrame(st)

		window.SwapBuffers()
		window.PollEvents()
	}

	if err := st.Save(cfg.Assets.Snapshot); err != nil {
		log.Error("save program state", zap.String("path", cfg.Assets.Snapshot), zap.Error(err))
	}
	log.Info("exiting")
}

// loadPlate builds the ground plate. A missing texture leaves the plate with
// the fallback material.
func loadPlate(cfg *config.Config) *scene.Model {
	size := cfg.Pipeline.PlateSize
	mesh := scene.CreatePlane(size, size, 1, size/2)
	mat := scene.DefaultMaterial()
	mat.Name = "plate"

	tex, err := scene.LoadTexture(cfg.Assets.PlateTexture)
	if err != nil {
		logger.Log.Warn("plate texture", zap.String("path", cfg.Assets.PlateTexture), zap.Error(err))
	} else {
		if cfg.Assets.FlipTextures {
			tex.FlipVertical()
		}
		mat.Diffuse = tex
	}
	mesh.Material = mat
	return &scene.Model{Path: "plate", Meshes: []*scene.Mesh{mesh}}
}

func startWatcher(dir string) *hotreload.Watcher {
	if dir == "" {
		logger.Log.Warn("hot reload needs assets.shader_dir; shaders are embedded")
		return nil
	}
	w, err := hotreload.New(dir, ".vs", ".fs")
	if err != nil {
		logger.Log.Warn("hot reload disabled", zap.Error(err))
		return nil
	}
	logger.Log.Info("watching shaders", zap.String("dir", dir))
	return w
}
