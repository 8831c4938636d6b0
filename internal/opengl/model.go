package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"hdrview/logger"
	"hdrview/scene"
)

// GPUMesh holds the buffer objects and resolved textures of one mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32

	diffuse   uint32
	specular  uint32
	shininess float32
}

// Model is the drawable form of a scene.Model.
type Model struct {
	Name   string
	meshes []*GPUMesh
	// textures uploaded by this model and freed by Destroy
	owned []*scene.Texture
}

// Fallbacks are sampled when a mesh has no texture for a unit.
type Fallbacks struct {
	Diffuse  *scene.Texture
	Specular *scene.Texture
}

// NewModel uploads every mesh and texture of m. A texture that fails to
// upload is logged and replaced by the fallback.
func NewModel(m *scene.Model, fb Fallbacks) *Model {
	model := &Model{Name: m.Path}
	for _, tex := range m.Textures() {
		if tex.GLID != 0 {
			continue
		}
		if err := UploadTexture(tex); err != nil {
			logger.Log.Warn("texture upload failed", zap.String("texture", tex.Name), zap.Error(err))
			continue
		}
		model.owned = append(model.owned, tex)
	}
	for _, mesh := range m.Meshes {
		if gpu := uploadMesh(mesh, fb); gpu != nil {
			model.meshes = append(model.meshes, gpu)
		}
	}
	return model
}

func uploadMesh(mesh *scene.Mesh, fb Fallbacks) *GPUMesh {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil
	}

	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		diffuse:    textureID(mat.Diffuse, fb.Diffuse),
		specular:   textureID(mat.Specular, fb.Specular),
		shininess:  mat.Shininess,
	}

	var v scene.Vertex
	stride := int32(unsafe.Sizeof(v))

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.GenBuffers(1, &gpu.EBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	gl.BindVertexArray(0)
	return gpu
}

func textureID(tex, fallback *scene.Texture) uint32 {
	if tex != nil && tex.GLID != 0 {
		return tex.GLID
	}
	if fallback != nil {
		return fallback.GLID
	}
	return 0
}

// Draw binds the diffuse texture to unit 0 and the specular texture to unit 1
// for each mesh and issues an indexed draw. s must already be in use.
func (m *Model) Draw(s *Shader) {
	s.SetInt("material.texture_diffuse1", 0)
	s.SetInt("material.texture_specular1", 1)
	for _, gpu := range m.meshes {
		s.SetFloat("material.shininess", gpu.shininess)

		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, gpu.diffuse)
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, gpu.specular)

		gl.BindVertexArray(gpu.VAO)
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (m *Model) Destroy() {
	for _, gpu := range m.meshes {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	m.meshes = nil
	for _, tex := range m.owned {
		DeleteTexture(tex)
	}
	m.owned = nil
}
