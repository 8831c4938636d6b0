package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Skybox draws a cube map on an inverted unit cube. The vertex shader writes
// xyww so every fragment lands on the far plane.
type Skybox struct {
	vao     uint32
	vbo     uint32
	cubemap uint32
}

// 36 positions for a unit cube, CCW from the inside.
var skyboxVerts = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,

	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,

	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,

	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,

	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,

	-1, -1, -1, -1, -1, 1, 1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// NewSkybox uploads the cube geometry. cubemap is a GL cube map texture id.
func NewSkybox(cubemap uint32) *Skybox {
	sb := &Skybox{cubemap: cubemap}

	gl.GenVertexArrays(1, &sb.vao)
	gl.GenBuffers(1, &sb.vbo)
	gl.BindVertexArray(sb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, sb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(skyboxVerts)*4, gl.Ptr(skyboxVerts), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 12, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	return sb
}

// Draw renders the sky with s. view must have its translation removed.
func (sb *Skybox) Draw(s *Shader, view, projection mgl32.Mat4) {
	// LEQUAL so depth 1.0 passes against the cleared depth.
	gl.DepthFunc(gl.LEQUAL)

	s.Use()
	s.SetMat4("view", view)
	s.SetMat4("projection", projection)
	s.SetInt("skybox", 0)

	gl.BindVertexArray(sb.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, sb.cubemap)
	gl.DrawArrays(gl.TRIANGLES, 0, 36)
	gl.BindVertexArray(0)

	gl.DepthFunc(gl.LESS)
}

func (sb *Skybox) Destroy() {
	gl.DeleteVertexArrays(1, &sb.vao)
	gl.DeleteBuffers(1, &sb.vbo)
}
