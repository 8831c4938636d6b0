package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultYaw         float32 = -90
	DefaultPitch       float32 = 0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultZoom        float32 = 45

	MaxPitch float32 = 89
	MinPitch float32 = -89
	MinZoom  float32 = 1
	MaxZoom  float32 = 45
)

// Direction is a keyboard movement direction relative to the camera.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// Camera is a free-fly Euler camera. Front, Right and Up are derived from
// Yaw and Pitch and always form a right-handed orthonormal basis; call the
// mutating methods rather than writing the angles directly.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	// Euler angles in degrees
	Yaw   float32
	Pitch float32

	MovementSpeed    float32
	MouseSensitivity float32
	// Zoom is the vertical field of view in degrees.
	Zoom float32
}

// NewCamera creates a camera at position looking down -Z.
func NewCamera(position mgl32.Vec3) *Camera {
	c := &Camera{
		Position:         position,
		WorldUp:          mgl32.Vec3{0, 1, 0},
		Yaw:              DefaultYaw,
		Pitch:            DefaultPitch,
		MovementSpeed:    DefaultSpeed,
		MouseSensitivity: DefaultSensitivity,
		Zoom:             DefaultZoom,
	}
	c.updateVectors()
	return c
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// ProcessKeyboard moves the camera along Front or Right by MovementSpeed*dt.
func (c *Camera) ProcessKeyboard(dir Direction, dt float32) {
	velocity := c.MovementSpeed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
}

// ProcessMouseMovement turns the camera by a cursor offset in pixels. With
// constrainPitch the pitch is kept within [MinPitch, MaxPitch] so the view
// never flips over the poles.
func (c *Camera) ProcessMouseMovement(dx, dy float32, constrainPitch bool) {
	c.Yaw += dx * c.MouseSensitivity
	c.Pitch += dy * c.MouseSensitivity
	if constrainPitch {
		c.Pitch = clamp(c.Pitch, MinPitch, MaxPitch)
	}
	c.updateVectors()
}

// ProcessMouseScroll narrows (positive dy) or widens the field of view.
func (c *Camera) ProcessMouseScroll(dy float32) {
	c.Zoom = clamp(c.Zoom-dy, MinZoom, MaxZoom)
}

// SetFront points the camera along front, deriving yaw and pitch from it.
// A zero vector is ignored.
func (c *Camera) SetFront(front mgl32.Vec3) {
	if front.Len() == 0 {
		return
	}
	f := front.Normalize()
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(f.Z()), float64(f.X()))))
	c.Pitch = clamp(mgl32.RadToDeg(float32(math.Asin(float64(f.Y())))), MinPitch, MaxPitch)
	c.updateVectors()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) ProjectionMatrix(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), aspect, near, far)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
