package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrview/state"
)

type recorder struct {
	calls    []string
	clear    mgl32.Vec3
	uniforms SceneUniforms
	model    mgl32.Mat4
	skyView  mgl32.Mat4
	skyProj  mgl32.Mat4
	tonemap  TonemapParams
	resized  [][2]int
}

func (r *recorder) BeginScenePass(clear mgl32.Vec3) {
	r.calls = append(r.calls, "begin-scene")
	r.clear = clear
}
func (r *recorder) UploadSceneUniforms(u SceneUniforms) {
	r.calls = append(r.calls, "uniforms")
	r.uniforms = u
}
func (r *recorder) DrawModel(m mgl32.Mat4) {
	r.calls = append(r.calls, "model")
	r.model = m
}
func (r *recorder) DrawGroundPlate(PlateUniforms) { r.calls = append(r.calls, "plate") }
func (r *recorder) DrawSkybox(view, proj mgl32.Mat4) {
	r.calls = append(r.calls, "skybox")
	r.skyView, r.skyProj = view, proj
}
func (r *recorder) BeginTonemapPass() { r.calls = append(r.calls, "begin-tonemap") }
func (r *recorder) DrawTonemapQuad(p TonemapParams) {
	r.calls = append(r.calls, "tonemap")
	r.tonemap = p
}
func (r *recorder) ResizeTargets(w, h int) {
	r.calls = append(r.calls, "resize")
	r.resized = append(r.resized, [2]int{w, h})
}

type overlayFunc func(*state.ProgramState)

func (f overlayFunc) Draw(st *state.ProgramState) { f(st) }

func newTestPipeline(opts Options) (*Pipeline, *recorder) {
	rec := &recorder{}
	return NewPipeline(rec, opts, 1200, 900), rec
}

func TestRenderFramePassOrder(t *testing.T) {
	p, rec := newTestPipeline(DefaultOptions())
	st := state.New()
	st.UIVisible = true
	p.SetOverlay(overlayFunc(func(*state.ProgramState) { rec.calls = append(rec.calls, "overlay") }))

	p.RenderFrame(st)
	assert.Equal(t, []string{
		"begin-scene", "uniforms", "model", "plate", "skybox",
		"overlay",
		"begin-tonemap", "tonemap",
	}, rec.calls)
}

func TestRenderFrameRepeatsOrderEveryFrame(t *testing.T) {
	p, rec := newTestPipeline(DefaultOptions())
	st := state.New()
	p.RenderFrame(st)
	first := append([]string(nil), rec.calls...)
	rec.calls = nil
	p.RenderFrame(st)
	assert.Equal(t, first, rec.calls)
}

func TestOptionsDropSteps(t *testing.T) {
	opts := DefaultOptions()
	opts.Skybox = false
	opts.GroundPlate = false
	p, rec := newTestPipeline(opts)
	p.RenderFrame(state.New())
	assert.Equal(t, []string{"begin-scene", "uniforms", "model", "begin-tonemap", "tonemap"}, rec.calls)
}

func TestOverlayOnlyWhenPanelVisible(t *testing.T) {
	p, _ := newTestPipeline(DefaultOptions())
	drawn := 0
	p.SetOverlay(overlayFunc(func(*state.ProgramState) { drawn++ }))
	st := state.New()

	p.RenderFrame(st)
	assert.Equal(t, 0, drawn)

	st.UIVisible = true
	p.RenderFrame(st)
	assert.Equal(t, 1, drawn)
}

func TestSkyboxViewHasNoTranslation(t *testing.T) {
	p, rec := newTestPipeline(DefaultOptions())
	st := state.New()
	st.Camera.Position = mgl32.Vec3{10, -4, 7}
	st.Camera.ProcessMouseMovement(300, 100, true)
	p.RenderFrame(st)

	col := rec.skyView.Col(3)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, col)
	full := st.Camera.ViewMatrix()
	assert.Equal(t, full.Mat3(), rec.skyView.Mat3())
	assert.Equal(t, rec.uniforms.Projection, rec.skyProj)
}

func TestSceneInputsComeFromState(t *testing.T) {
	p, rec := newTestPipeline(DefaultOptions())
	st := state.New()
	st.BackgroundColor = mgl32.Vec3{0.2, 0.3, 0.4}
	st.ObjectPosition = mgl32.Vec3{1, 0, 0}
	p.RenderFrame(st)

	assert.Equal(t, st.BackgroundColor, rec.clear)
	assert.Equal(t, st.Camera.Position, rec.uniforms.ViewPosition)
	assert.Equal(t, st.PointLight, rec.uniforms.PointLight)
	assert.Equal(t, st.ModelMatrix(), rec.model)
	assert.Equal(t, st.Camera.ProjectionMatrix(1200.0/900.0, 0.1, 100), rec.uniforms.Projection)
}

func TestTonemapParamsFollowState(t *testing.T) {
	p, rec := newTestPipeline(DefaultOptions())
	st := state.New()
	st.HDR = false
	st.Exposure = -3
	p.RenderFrame(st)
	assert.Equal(t, TonemapParams{HDR: false, Exposure: 0}, rec.tonemap)

	st.HDR = true
	st.Exposure = 2.5
	p.RenderFrame(st)
	assert.Equal(t, TonemapParams{HDR: true, Exposure: 2.5}, rec.tonemap)
}

func TestResizeAppliedBeforeNextScenePass(t *testing.T) {
	p, rec := newTestPipeline(DefaultOptions())
	p.Resize(0, 0)
	p.Resize(1200, 900)
	p.RenderFrame(state.New())
	assert.Empty(t, rec.resized, "zero and unchanged sizes are ignored")

	p.Resize(800, 400)
	p.Resize(1600, 800)
	rec.calls = nil
	p.RenderFrame(state.New())
	require.Equal(t, [][2]int{{1600, 800}}, rec.resized)
	assert.Equal(t, "resize", rec.calls[0])
	assert.Equal(t, "begin-scene", rec.calls[1])
	assert.Equal(t, float32(2), p.Aspect())

	rec.calls = nil
	p.RenderFrame(state.New())
	assert.NotContains(t, rec.calls, "resize")
}

func TestStripTranslation(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.7))
	s := StripTranslation(m)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, s.Col(3))
	assert.Equal(t, m.Mat3(), s.Mat3())
}

func TestTonemap(t *testing.T) {
	black := Tonemap(mgl32.Vec3{}, true, 1)
	assert.Equal(t, mgl32.Vec3{}, black)

	// exposure 0 maps everything to black
	assert.Equal(t, mgl32.Vec3{}, Tonemap(mgl32.Vec3{5, 10, 100}, true, 0))

	prev := float32(-1)
	for _, v := range []float32{0.01, 0.1, 1, 4, 8} {
		out := Tonemap(mgl32.Vec3{v, v, v}, true, 1)
		assert.Greater(t, out.X(), prev, "monotonic")
		assert.LessOrEqual(t, out.X(), float32(1))
		prev = out.X()
	}

	got := Tonemap(mgl32.Vec3{1, 0, 0}, true, 1)
	assert.InDelta(t, 0.8118, got.X(), 1e-3)

	higher := Tonemap(mgl32.Vec3{1, 1, 1}, true, 2)
	assert.Greater(t, higher.X(), got.X())
}

func TestTonemapBypassClampsLinear(t *testing.T) {
	out := Tonemap(mgl32.Vec3{-0.5, 0.25, 7}, false, 3)
	assert.Equal(t, mgl32.Vec3{0, 0.25, 1}, out)

	// exposure has no effect with hdr off
	c := mgl32.Vec3{0.1, 0.6, 2.5}
	want := Tonemap(c, false, 1)
	for _, e := range []float32{0, 1, 100} {
		assert.Equal(t, want, Tonemap(c, false, e), "exposure %g", e)
	}
}
