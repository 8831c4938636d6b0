package scene

// DefaultShininess is the Phong exponent used when a material does not set one.
const DefaultShininess float32 = 32

// Material describes the surface of a mesh for the Phong shader. The diffuse
// and specular maps are sampled from texture units 0 and 1; the renderer
// substitutes a fallback for a nil map.
type Material struct {
	Name      string
	Diffuse   *Texture
	Specular  *Texture
	Shininess float32
}

func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		Shininess: DefaultShininess,
	}
}
