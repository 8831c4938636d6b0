// Package opengl is the OpenGL 4.1 core backend of the render pipeline.
// Everything here must run on the thread that owns the GL context.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"hdrview/logger"
	"hdrview/overlay"
	"hdrview/renderer"
	"hdrview/scene"
)

type Config struct {
	Width, Height int
	// ShaderDir overrides the embedded shaders file by file when set.
	ShaderDir string
	// Debug drains the GL error queue after every pass.
	Debug bool
}

// Assets are the CPU-side resources the renderer uploads once. Plate and Sky
// may be nil.
type Assets struct {
	Model *scene.Model
	Plate *scene.Model
	Sky   *scene.Cubemap
}

// Renderer implements renderer.Backend.
type Renderer struct {
	cfg     Config
	shaders map[string]*Shader

	hdr     *PostProcessFBO
	model   *Model
	plate   *Model
	sky     *scene.Cubemap
	skybox  *Skybox
	overlay *TextOverlay

	fallbacks Fallbacks

	viewportW, viewportH int32
}

var _ renderer.Backend = (*Renderer)(nil)

func NewRenderer(cfg Config, assets Assets) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Log.Info("opengl ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	shaders, err := LoadShaders(cfg.ShaderDir)
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		cfg:       cfg,
		shaders:   shaders,
		viewportW: int32(cfg.Width),
		viewportH: int32(cfg.Height),
		fallbacks: Fallbacks{
			Diffuse:  scene.NewSolidTexture("fallback-diffuse", 255, 255, 255, 255),
			Specular: scene.NewSolidTexture("fallback-specular", 0, 0, 0, 255),
		},
	}
	if err := UploadTexture(r.fallbacks.Diffuse); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := UploadTexture(r.fallbacks.Specular); err != nil {
		r.Destroy()
		return nil, err
	}

	r.hdr, err = NewPostProcessFBO(cfg.Width, cfg.Height)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	if assets.Model != nil {
		r.model = NewModel(assets.Model, r.fallbacks)
	}
	if assets.Plate != nil {
		r.plate = NewModel(assets.Plate, r.fallbacks)
	}
	if assets.Sky != nil {
		if err := UploadCubemap(assets.Sky); err != nil {
			logger.Log.Warn("skybox upload failed", zap.Error(err))
		} else {
			r.sky = assets.Sky
			r.skybox = NewSkybox(assets.Sky.GLID)
		}
	}

	CheckError("setup")
	return r, nil
}

// NewTextOverlay creates the panel overlay. The renderer owns it.
func (r *Renderer) NewTextOverlay(panel *overlay.Panel) *TextOverlay {
	if r.overlay != nil {
		r.overlay.Destroy()
	}
	r.overlay = newTextOverlay(r, panel)
	return r.overlay
}

// ReloadShaders recompiles every program. On failure the running programs
// are kept.
func (r *Renderer) ReloadShaders() error {
	shaders, err := LoadShaders(r.cfg.ShaderDir)
	if err != nil {
		return err
	}
	deleteShaders(r.shaders)
	r.shaders = shaders
	return nil
}

func (r *Renderer) check(op string) {
	if r.cfg.Debug {
		CheckError(op)
	}
}

func (r *Renderer) BeginScenePass(clear mgl32.Vec3) {
	r.hdr.Bind()
	gl.ClearColor(clear[0], clear[1], clear[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *Renderer) UploadSceneUniforms(u renderer.SceneUniforms) {
	obj := r.shaders[ProgramObject]
	obj.Use()
	obj.SetMat4("view", u.View)
	obj.SetMat4("projection", u.Projection)
	obj.SetVec3("viewPosition", u.ViewPosition)
	l := u.PointLight
	obj.SetVec3("pointLight.position", l.Position)
	obj.SetVec3("pointLight.ambient", l.Ambient)
	obj.SetVec3("pointLight.diffuse", l.Diffuse)
	obj.SetVec3("pointLight.specular", l.Specular)
	obj.SetFloat("pointLight.constant", l.Constant)
	obj.SetFloat("pointLight.linear", l.Linear)
	obj.SetFloat("pointLight.quadratic", l.Quadratic)

	plate := r.shaders[ProgramPlate]
	plate.Use()
	plate.SetMat4("view", u.View)
	plate.SetMat4("projection", u.Projection)
	plate.SetVec3("viewPosition", u.ViewPosition)
}

func (r *Renderer) DrawModel(model mgl32.Mat4) {
	if r.model == nil {
		return
	}
	s := r.shaders[ProgramObject]
	s.Use()
	s.SetMat4("model", model)
	r.model.Draw(s)
}

func (r *Renderer) DrawGroundPlate(u renderer.PlateUniforms) {
	if r.plate == nil {
		return
	}
	s := r.shaders[ProgramPlate]
	s.Use()
	s.SetMat4("model", u.Model)
	s.SetVec3("dirLight.direction", u.Light.Direction)
	s.SetVec3("dirLight.ambient", u.Light.Ambient)
	s.SetVec3("dirLight.diffuse", u.Light.Diffuse)
	s.SetVec3("dirLight.specular", u.Light.Specular)
	r.plate.Draw(s)
}

func (r *Renderer) DrawSkybox(view, projection mgl32.Mat4) {
	if r.skybox == nil {
		return
	}
	r.skybox.Draw(r.shaders[ProgramSkybox], view, projection)
}

func (r *Renderer) BeginTonemapPass() {
	r.check("scene pass")
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *Renderer) DrawTonemapQuad(p renderer.TonemapParams) {
	gl.Disable(gl.DEPTH_TEST)
	r.hdr.Resolve(r.shaders[ProgramHDR], p.HDR, p.Exposure)
	gl.Enable(gl.DEPTH_TEST)
	r.check("tonemap pass")
}

func (r *Renderer) ResizeTargets(width, height int) {
	r.viewportW, r.viewportH = int32(width), int32(height)
	r.hdr.Resize(width, height)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	if r.overlay != nil {
		r.overlay.Destroy()
		r.overlay = nil
	}
	if r.skybox != nil {
		r.skybox.Destroy()
		r.skybox = nil
	}
	DeleteCubemap(r.sky)
	if r.plate != nil {
		r.plate.Destroy()
		r.plate = nil
	}
	if r.model != nil {
		r.model.Destroy()
		r.model = nil
	}
	if r.hdr != nil {
		r.hdr.Destroy()
		r.hdr = nil
	}
	DeleteTexture(r.fallbacks.Diffuse)
	DeleteTexture(r.fallbacks.Specular)
	deleteShaders(r.shaders)
	r.shaders = nil
}
