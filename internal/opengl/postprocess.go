package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"hdrview/logger"
)

// quadVertices is the full-screen quad drawn as a triangle strip:
// position xyz, uv.
var quadVertices = []float32{
	-1, 1, 0, 0, 1,
	-1, -1, 0, 0, 0,
	1, 1, 0, 1, 1,
	1, -1, 0, 1, 0,
}

// PostProcessFBO is the HDR off-screen target the scene renders into, plus the
// full-screen quad that resolves it to the default framebuffer.
type PostProcessFBO struct {
	FBO      uint32
	ColorTex uint32 // RGBA16F
	DepthRBO uint32
	Width    int32
	Height   int32

	quadVAO uint32
	quadVBO uint32
}

// NewPostProcessFBO allocates the HDR target and the resolve quad.
func NewPostProcessFBO(width, height int) (*PostProcessFBO, error) {
	pp := &PostProcessFBO{}

	gl.GenVertexArrays(1, &pp.quadVAO)
	gl.GenBuffers(1, &pp.quadVBO)
	gl.BindVertexArray(pp.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pp.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))
	gl.BindVertexArray(0)

	if err := pp.allocFBO(width, height); err != nil {
		pp.Destroy()
		return nil, err
	}
	return pp, nil
}

func (pp *PostProcessFBO) allocFBO(width, height int) error {
	pp.Width = int32(width)
	pp.Height = int32(height)

	gl.GenTextures(1, &pp.ColorTex)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F,
		pp.Width, pp.Height, 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &pp.DepthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, pp.DepthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT, pp.Width, pp.Height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &pp.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, pp.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, pp.ColorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, pp.DepthRBO)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("hdr framebuffer incomplete (0x%X)", status)
	}
	return nil
}

func (pp *PostProcessFBO) freeFBO() {
	if pp.FBO != 0 {
		gl.DeleteFramebuffers(1, &pp.FBO)
		pp.FBO = 0
	}
	if pp.ColorTex != 0 {
		gl.DeleteTextures(1, &pp.ColorTex)
		pp.ColorTex = 0
	}
	if pp.DepthRBO != 0 {
		gl.DeleteRenderbuffers(1, &pp.DepthRBO)
		pp.DepthRBO = 0
	}
}

// Resize recreates the HDR target at the new pixel size.
func (pp *PostProcessFBO) Resize(width, height int) {
	pp.freeFBO()
	if err := pp.allocFBO(width, height); err != nil {
		logger.Log.Error("resize hdr target", zap.Error(err))
	}
}

// Bind makes the HDR target current and sets the viewport to its size.
func (pp *PostProcessFBO) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, pp.FBO)
	gl.Viewport(0, 0, pp.Width, pp.Height)
}

// Resolve draws the HDR colour through s onto the bound framebuffer.
func (pp *PostProcessFBO) Resolve(s *Shader, hdr bool, exposure float32) {
	s.Use()
	s.SetInt("hdrBuffer", 0)
	s.SetBool("hdr", hdr)
	s.SetFloat("exposure", exposure)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	gl.BindVertexArray(pp.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// Destroy frees all GPU resources owned by this object.
func (pp *PostProcessFBO) Destroy() {
	pp.freeFBO()
	if pp.quadVBO != 0 {
		gl.DeleteBuffers(1, &pp.quadVBO)
		pp.quadVBO = 0
	}
	if pp.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &pp.quadVAO)
		pp.quadVAO = 0
	}
}
