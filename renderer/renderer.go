// Package renderer sequences the passes of a frame. It owns no GPU state: the
// work of each step is done by a Backend.
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"hdrview/logger"
	"hdrview/state"
)

// DirLight is the directional light that shades the ground plate.
type DirLight struct {
	Direction mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
}

func DefaultDirLight() DirLight {
	return DirLight{
		Direction: mgl32.Vec3{-0.2, -1, -0.3},
		Ambient:   mgl32.Vec3{0.05, 0.05, 0.05},
		Diffuse:   mgl32.Vec3{0.4, 0.4, 0.4},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
	}
}

// SceneUniforms are the per-frame values shared by the lit programs.
type SceneUniforms struct {
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	ViewPosition mgl32.Vec3
	PointLight   state.PointLight
}

type PlateUniforms struct {
	Model mgl32.Mat4
	Light DirLight
}

type TonemapParams struct {
	HDR      bool
	Exposure float32
}

// Backend performs the GPU side of each pipeline step.
type Backend interface {
	// BeginScenePass binds the HDR target, sets the viewport and clears colour
	// and depth.
	BeginScenePass(clear mgl32.Vec3)
	UploadSceneUniforms(u SceneUniforms)
	DrawModel(model mgl32.Mat4)
	DrawGroundPlate(u PlateUniforms)
	// DrawSkybox draws the cube map at the far plane with LEQUAL depth and
	// restores LESS afterwards. view has no translation.
	DrawSkybox(view, projection mgl32.Mat4)
	// BeginTonemapPass binds the default framebuffer and clears it.
	BeginTonemapPass()
	DrawTonemapQuad(p TonemapParams)
	ResizeTargets(width, height int)
}

// Overlay draws into whatever target is bound when it is called.
type Overlay interface {
	Draw(st *state.ProgramState)
}

type Options struct {
	Skybox      bool
	GroundPlate bool
	Near, Far   float32
	// PlateModel places the ground plate.
	PlateModel mgl32.Mat4
	PlateLight DirLight
}

func DefaultOptions() Options {
	return Options{
		Skybox:      true,
		GroundPlate: true,
		Near:        0.1,
		Far:         100,
		PlateModel:  mgl32.Translate3D(0, -1.5, 0),
		PlateLight:  DefaultDirLight(),
	}
}

// Pipeline renders one frame as scene pass, optional overlay, tone map pass.
type Pipeline struct {
	backend Backend
	overlay Overlay
	opts    Options

	width, height int
	resizePending bool
}

func NewPipeline(backend Backend, opts Options, width, height int) *Pipeline {
	return &Pipeline{
		backend: backend,
		opts:    opts,
		width:   width,
		height:  height,
	}
}

func (p *Pipeline) SetOverlay(o Overlay) {
	p.overlay = o
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// Resize records a new framebuffer size. The render targets are rebuilt at
// the start of the next frame. A zero size (minimised window) is ignored.
func (p *Pipeline) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	p.resizePending = true
}

func (p *Pipeline) Size() (int, int) {
	return p.width, p.height
}

func (p *Pipeline) Aspect() float32 {
	if p.height == 0 {
		return 1
	}
	return float32(p.width) / float32(p.height)
}

// RenderFrame draws st. The order of backend calls is fixed.
func (p *Pipeline) RenderFrame(st *state.ProgramState) {
	if p.resizePending {
		p.backend.ResizeTargets(p.width, p.height)
		p.resizePending = false
		logger.Log.Debug("render targets resized", zap.Int("width", p.width), zap.Int("height", p.height))
	}

	cam := st.Camera
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(p.Aspect(), p.opts.Near, p.opts.Far)

	// scene pass
	p.backend.BeginScenePass(st.BackgroundColor)
	p.backend.UploadSceneUniforms(SceneUniforms{
		View:         view,
		Projection:   proj,
		ViewPosition: cam.Position,
		PointLight:   st.PointLight,
	})
	p.backend.DrawModel(st.ModelMatrix())
	if p.opts.GroundPlate {
		p.backend.DrawGroundPlate(PlateUniforms{Model: p.opts.PlateModel, Light: p.opts.PlateLight})
	}
	if p.opts.Skybox {
		p.backend.DrawSkybox(StripTranslation(view), proj)
	}

	if st.UIVisible && p.overlay != nil {
		p.overlay.Draw(st)
	}

	p.backend.BeginTonemapPass()
	exposure := st.Exposure
	if exposure < 0 {
		exposure = 0
	}
	p.backend.DrawTonemapQuad(TonemapParams{HDR: st.HDR, Exposure: exposure})
}

// StripTranslation keeps only the rotation of a view matrix so the skybox
// stays centred on the camera.
func StripTranslation(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}
