package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"hdrview/overlay"
	"hdrview/state"
)

const (
	overlayMargin = 10 // pixels from the top-left corner
	fpsInterval   = 0.5
)

var overlayQuad = []float32{
	0, 1,
	0, 0,
	1, 1,
	1, 0,
}

// TextOverlay draws an overlay.Panel as an alpha-blended screen-space quad
// into whatever framebuffer is bound.
type TextOverlay struct {
	r     *Renderer
	panel *overlay.Panel

	vao, vbo uint32
	tex      uint32
	texW     int
	texH     int
	lastText string

	// frame time shown in the panel, averaged over fpsInterval
	frameTime float32
	accum     float32
	frames    int
}

func newTextOverlay(r *Renderer, panel *overlay.Panel) *TextOverlay {
	o := &TextOverlay{r: r, panel: panel}

	gl.GenVertexArrays(1, &o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(overlayQuad)*4, gl.Ptr(overlayQuad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 8, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	gl.GenTextures(1, &o.tex)
	gl.BindTexture(gl.TEXTURE_2D, o.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return o
}

// AddFrameTime feeds the frame delta used for the fps line.
func (o *TextOverlay) AddFrameTime(dt float32) {
	o.accum += dt
	o.frames++
	if o.accum >= fpsInterval {
		o.frameTime = o.accum / float32(o.frames)
		o.accum, o.frames = 0, 0
	}
}

// Draw implements renderer.Overlay.
func (o *TextOverlay) Draw(st *state.ProgramState) {
	o.panel.Build(st, o.frameTime)
	if text := o.panel.Text(); text != o.lastText {
		o.upload()
		o.lastText = text
	}
	if o.texW == 0 || o.texH == 0 {
		return
	}

	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	vw, vh := float32(vp[2]), float32(vp[3])
	if vw <= 0 || vh <= 0 {
		return
	}
	w := 2 * float32(o.texW) / vw
	h := 2 * float32(o.texH) / vh
	x := -1 + 2*overlayMargin/vw
	top := 1 - 2*overlayMargin/vh

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	s := o.r.shaders[ProgramOverlay]
	s.Use()
	s.SetVec4("rect", mgl32.Vec4{x, top - h, w, h})
	s.SetInt("overlayTex", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.tex)
	gl.BindVertexArray(o.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (o *TextOverlay) upload() {
	img := overlay.Rasterize(o.panel.Lines())
	b := img.Bounds()
	o.texW, o.texH = b.Dx(), b.Dy()

	gl.BindTexture(gl.TEXTURE_2D, o.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(o.texW), int32(o.texH), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (o *TextOverlay) Destroy() {
	gl.DeleteTextures(1, &o.tex)
	gl.DeleteVertexArrays(1, &o.vao)
	gl.DeleteBuffers(1, &o.vbo)
}
