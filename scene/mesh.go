package scene

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the interleaved layout uploaded to the GPU:
// location 0 = position, 1 = normal, 2 = uv.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material
}

func CreateMeshFromData(name string, vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// Bounds returns the local-space axis-aligned bounds of the mesh.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min = m.Vertices[0].Position
	max = min
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	return min, max
}

// Model is a set of meshes loaded from one file.
type Model struct {
	Path   string
	Meshes []*Mesh
}

// Textures returns every distinct texture referenced by the model's materials,
// in first-use order.
func (m *Model) Textures() []*Texture {
	seen := map[*Texture]bool{}
	var out []*Texture
	add := func(t *Texture) {
		if t != nil && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, mesh := range m.Meshes {
		if mesh.Material == nil {
			continue
		}
		add(mesh.Material.Diffuse)
		add(mesh.Material.Specular)
	}
	return out
}
