// Package state holds the live, user-editable settings of the viewer and
// persists the subset that survives a restart.
package state

import (
	"github.com/go-gl/mathgl/mgl32"

	"hdrview/scene"
)

const (
	MinObjectScale float32 = 0.1
	MaxObjectScale float32 = 4
)

// PointLight is the single light that illuminates the model.
type PointLight struct {
	Position mgl32.Vec3
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32
}

func DefaultPointLight() PointLight {
	return PointLight{
		Position:  mgl32.Vec3{4, 4, 0},
		Ambient:   mgl32.Vec3{0.1, 0.1, 0.1},
		Diffuse:   mgl32.Vec3{1, 1, 1},
		Specular:  mgl32.Vec3{1, 1, 1},
		Constant:  1,
		Linear:    0.09,
		Quadratic: 0.032,
	}
}

// Attenuation returns the light's intensity factor at distance d.
func (l PointLight) Attenuation(d float32) float32 {
	return 1 / (l.Constant + l.Linear*d + l.Quadratic*d*d)
}

// ProgramState is everything the input controller edits and the render
// pipeline reads. It is owned by main and passed explicitly.
type ProgramState struct {
	BackgroundColor mgl32.Vec3
	// UIVisible shows the control panel. While it is shown the cursor is
	// released and mouse look is off.
	UIVisible                  bool
	CameraMouseMovementEnabled bool
	Camera                     *scene.Camera
	PointLight                 PointLight

	ObjectPosition mgl32.Vec3
	ObjectScale    float32

	HDR      bool
	Exposure float32
}

// New returns the startup state: camera at (0, 0, 3), panel hidden, HDR on
// with exposure 1.
func New() *ProgramState {
	return &ProgramState{
		CameraMouseMovementEnabled: true,
		Camera:                     scene.NewCamera(mgl32.Vec3{0, 0, 3}),
		PointLight:                 DefaultPointLight(),
		ObjectScale:                1,
		HDR:                        true,
		Exposure:                   1,
	}
}

// AdjustExposure adds delta to the exposure, never letting it drop below 0.
func (s *ProgramState) AdjustExposure(delta float32) {
	s.Exposure += delta
	s.ClampExposure()
}

func (s *ProgramState) ClampExposure() {
	if s.Exposure < 0 {
		s.Exposure = 0
	}
}

func (s *ProgramState) ToggleHDR() {
	s.HDR = !s.HDR
}

// ToggleUI flips the panel. Mouse look follows: off while the panel is shown,
// back on when it is hidden.
func (s *ProgramState) ToggleUI() {
	s.UIVisible = !s.UIVisible
	s.CameraMouseMovementEnabled = !s.UIVisible
}

func (s *ProgramState) ToggleCameraControl() {
	s.CameraMouseMovementEnabled = !s.CameraMouseMovementEnabled
}

func (s *ProgramState) MoveObject(delta mgl32.Vec3) {
	s.ObjectPosition = s.ObjectPosition.Add(delta)
}

// AdjustObjectScale adds delta to the object scale, clamped to
// [MinObjectScale, MaxObjectScale].
func (s *ProgramState) AdjustObjectScale(delta float32) {
	s.ObjectScale = mgl32.Clamp(s.ObjectScale+delta, MinObjectScale, MaxObjectScale)
}

// ModelMatrix places the object: translate, then uniform scale.
func (s *ProgramState) ModelMatrix() mgl32.Mat4 {
	p := s.ObjectPosition
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(mgl32.Scale3D(s.ObjectScale, s.ObjectScale, s.ObjectScale))
}
