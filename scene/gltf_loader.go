package scene

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"hdrview/logger"
)

// LoadGLTF opens a .glb or .gltf file and flattens every mesh primitive into
// the returned model, baking node transforms into the vertex data. The base
// colour texture becomes the diffuse map and the metallic-roughness texture
// stands in for the specular map.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	// ── 1. Textures ───────────────────────────────────────────────────────────
	texCache := make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("gltf_img_%d", *gt.Source)
		}

		var tex *Texture
		switch {
		case img.BufferView != nil:
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				logger.Log.Warn("gltf image buffer view", zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
			tex, err = decodeImageBytes(name, raw)
			if err != nil {
				logger.Log.Warn("gltf image decode", zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
		case img.IsEmbeddedResource():
			raw, err := img.MarshalData()
			if err != nil {
				logger.Log.Warn("gltf image data uri", zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
			tex, err = decodeImageBytes(name, raw)
			if err != nil {
				logger.Log.Warn("gltf image decode", zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
		case img.URI != "":
			tex, err = LoadTexture(filepath.Join(dir, img.URI))
			if err != nil {
				logger.Log.Warn("gltf image load", zap.String("uri", img.URI), zap.Error(err))
				continue
			}
		default:
			logger.Log.Warn("gltf image has no source", zap.Int("image", *gt.Source))
			continue
		}
		texCache[i] = tex
	}

	textureAt := func(idx int) *Texture {
		if idx >= 0 && idx < len(texCache) {
			return texCache[idx]
		}
		return nil
	}

	// ── 2. Materials ─────────────────────────────────────────────────────────
	matCache := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorTexture != nil {
				mat.Diffuse = textureAt(pbr.BaseColorTexture.Index)
			}
			if pbr.MetallicRoughnessTexture != nil {
				mat.Specular = textureAt(pbr.MetallicRoughnessTexture.Index)
			}
			// smooth surface = high shininess
			roughness := float32(pbr.RoughnessFactorOrDefault())
			mat.Shininess = (1-roughness)*(1-roughness)*128 + 1
		}
		matCache[i] = mat
	}

	// ── 3. Nodes ──────────────────────────────────────────────────────────────
	model := &Model{Path: path}
	var visit func(idx int, parent mgl32.Mat4)
	visit = func(idx int, parent mgl32.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return
		}
		node := doc.Nodes[idx]
		world := parent.Mul4(nodeMatrix(node))
		if node.Mesh != nil && *node.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*node.Mesh]
			for pi, prim := range gm.Primitives {
				m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
				if err != nil {
					logger.Log.Warn("gltf primitive skipped",
						zap.Int("mesh", *node.Mesh), zap.Int("primitive", pi), zap.Error(err))
					continue
				}
				transformMesh(m, world)
				m.Material = DefaultMaterial()
				if prim.Material != nil && *prim.Material < len(matCache) {
					m.Material = matCache[*prim.Material]
				}
				model.Meshes = append(model.Meshes, m)
			}
		}
		for _, c := range node.Children {
			visit(c, world)
		}
	}
	for _, root := range rootNodes(doc) {
		visit(root, mgl32.Ident4())
	}

	if len(model.Meshes) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}
	return model, nil
}

// rootNodes returns the default scene's nodes, or every parentless node when
// the document has no default scene.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != gltf.DefaultMatrix && n.Matrix != [16]float64{} {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault() // [x, y, z, w]
	s := n.ScaleOrDefault()
	rot := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func transformMesh(m *Mesh, world mgl32.Mat4) {
	if world == mgl32.Ident4() {
		return
	}
	normalMat := world.Mat3().Inv().Transpose()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mgl32.TransformCoordinate(v.Position, world)
		if n := normalMat.Mul3x1(v.Normal); n.Len() > 0 {
			v.Normal = n.Normalize()
		}
	}
}

// loadGLTFPrimitive converts one glTF mesh primitive into a Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2(uvs[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(normals) == 0 {
		generateNormals(verts, indices)
	}

	return CreateMeshFromData(name, verts, indices), nil
}
