package scene

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LoadModel loads a model by file extension (.obj, .gltf or .glb). An empty
// path yields a unit cube. With flipTextures the textures of an OBJ model are
// mirrored vertically after decoding. glTF UVs already have their origin at
// the top-left of the image so glTF textures are never flipped.
func LoadModel(path string, flipTextures bool) (*Model, error) {
	var (
		model *Model
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		model = &Model{Meshes: []*Mesh{CreateCube(1)}}
		model.Meshes[0].Material = DefaultMaterial()
	case ext == ".obj":
		model, err = LoadOBJ(path)
		if err == nil && flipTextures {
			for _, t := range model.Textures() {
				t.FlipVertical()
			}
		}
	case ext == ".gltf" || ext == ".glb":
		model, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return model, nil
}
