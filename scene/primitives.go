package scene

import "github.com/go-gl/mathgl/mgl32"

// CreatePlane generates a flat, upward-facing plane centred on the origin.
// UVs run from 0 to uvRepeat across the plane so a REPEAT-wrapped texture
// tiles uvRepeat times per side.
func CreatePlane(width, depth float32, subdivisions int, uvRepeat float32) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}
	if uvRepeat <= 0 {
		uvRepeat = 1
	}

	var vertices []Vertex
	var indices []uint32

	halfW := width / 2
	halfD := depth / 2

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			vertices = append(vertices, Vertex{
				Position: mgl32.Vec3{-halfW + u*width, 0, -halfD + v*depth},
				Normal:   mgl32.Vec3{0, 1, 0},
				UV:       mgl32.Vec2{u * uvRepeat, v * uvRepeat},
			})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return CreateMeshFromData("Plane", vertices, indices)
}

// CreateCube generates a cube with per-face normals, used as the stand-in
// model when none is configured.
func CreateCube(size float32) *Mesh {
	s := size / 2
	faces := []struct {
		normal    mgl32.Vec3
		right, up mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range corners {
			p := f.normal.Add(f.right.Mul(c[0]*2 - 1)).Add(f.up.Mul(c[1]*2 - 1)).Mul(s)
			vertices = append(vertices, Vertex{Position: p, Normal: f.normal, UV: c})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	return CreateMeshFromData("Cube", vertices, indices)
}
