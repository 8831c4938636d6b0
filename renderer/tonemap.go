package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Gamma is the display gamma applied after exposure tone mapping.
const Gamma = 2.2

// Tonemap is the CPU reference of the tone map shader. With hdr it maps
// linear colour c to (1 - exp(-c*exposure))^(1/Gamma); without it the colour
// is only clamped to [0, 1].
func Tonemap(c mgl32.Vec3, hdr bool, exposure float32) mgl32.Vec3 {
	var out mgl32.Vec3
	for i, v := range c {
		if !hdr {
			out[i] = mgl32.Clamp(v, 0, 1)
			continue
		}
		if v < 0 {
			v = 0
		}
		mapped := 1 - math.Exp(-float64(v)*float64(exposure))
		out[i] = float32(math.Pow(mapped, 1/Gamma))
	}
	return out
}
