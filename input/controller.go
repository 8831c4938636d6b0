// Package input turns keyboard, cursor and scroll events into camera motion
// and program state changes.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"hdrview/logger"
	"hdrview/scene"
	"hdrview/state"
)

// Window is the part of the platform window the controller drives.
type Window interface {
	IsKeyPressed(key int) bool
	SetShouldClose(bool)
	SetCursorCaptured(bool)
}

// Bindings maps actions to key codes.
type Bindings struct {
	Forward, Backward, Left, Right int

	Exit, ExitAlt int
	ToggleUI      int
	ToggleHDR     int
	ToggleCamera  int

	ExposureUp, ExposureDown int

	// object placement
	ObjectLeft, ObjectRight   int
	ObjectUp, ObjectDown      int
	ObjectForward, ObjectBack int
	ScaleUp, ScaleDown        int
}

// Settings are the per-second (or per-frame) rates of the held-key actions.
type Settings struct {
	// ExposureStep is added per frame while an exposure key is held.
	ExposureStep float32
	// ObjectSpeed is in world units per second.
	ObjectSpeed float32
	// ScaleSpeed is in scale units per second.
	ScaleSpeed float32
}

func DefaultSettings() Settings {
	return Settings{ExposureStep: 0.01, ObjectSpeed: 2, ScaleSpeed: 0.5}
}

// Controller polls held keys once per frame and receives cursor and scroll
// events from window callbacks. All methods must be called from the thread
// that owns the window.
type Controller struct {
	win      Window
	st       *state.ProgramState
	keys     Bindings
	settings Settings

	wasDown map[int]bool

	firstMouse   bool
	lastX, lastY float64
}

func NewController(win Window, st *state.ProgramState, keys Bindings, settings Settings) *Controller {
	return &Controller{
		win:        win,
		st:         st,
		keys:       keys,
		settings:   settings,
		wasDown:    make(map[int]bool),
		firstMouse: true,
	}
}

// Sync applies the panel flag to mouse look and cursor capture, e.g. after a
// snapshot restored it.
func (c *Controller) Sync() {
	c.st.CameraMouseMovementEnabled = !c.st.UIVisible
	c.win.SetCursorCaptured(c.st.CameraMouseMovementEnabled)
}

// pressed reports a key transition from up to down since the last call for
// that key, so a held key fires once.
func (c *Controller) pressed(key int) bool {
	down := c.win.IsKeyPressed(key)
	fire := down && !c.wasDown[key]
	c.wasDown[key] = down
	return fire
}

// Update processes one frame of keyboard input. dt is the frame time in
// seconds.
func (c *Controller) Update(dt float32) {
	k := c.keys

	exit := c.pressed(k.Exit)
	if c.pressed(k.ExitAlt) {
		exit = true
	}
	if exit {
		c.win.SetShouldClose(true)
	}

	if c.pressed(k.ToggleUI) {
		c.st.ToggleUI()
		c.win.SetCursorCaptured(c.st.CameraMouseMovementEnabled)
		logger.Log.Debug("control panel toggled", zap.Bool("visible", c.st.UIVisible))
	}
	if c.pressed(k.ToggleHDR) {
		c.st.ToggleHDR()
		logger.Log.Info("hdr toggled", zap.Bool("hdr", c.st.HDR))
	}
	if c.pressed(k.ToggleCamera) {
		c.st.ToggleCameraControl()
		c.win.SetCursorCaptured(c.st.CameraMouseMovementEnabled)
		logger.Log.Debug("camera control toggled", zap.Bool("enabled", c.st.CameraMouseMovementEnabled))
	}

	cam := c.st.Camera
	if c.win.IsKeyPressed(k.Forward) {
		cam.ProcessKeyboard(scene.Forward, dt)
	}
	if c.win.IsKeyPressed(k.Backward) {
		cam.ProcessKeyboard(scene.Backward, dt)
	}
	if c.win.IsKeyPressed(k.Left) {
		cam.ProcessKeyboard(scene.Left, dt)
	}
	if c.win.IsKeyPressed(k.Right) {
		cam.ProcessKeyboard(scene.Right, dt)
	}

	if c.win.IsKeyPressed(k.ExposureUp) {
		c.st.AdjustExposure(c.settings.ExposureStep)
	}
	if c.win.IsKeyPressed(k.ExposureDown) {
		c.st.AdjustExposure(-c.settings.ExposureStep)
	}

	var move mgl32.Vec3
	axis := func(neg, pos int, i int) {
		if c.win.IsKeyPressed(neg) {
			move[i] -= 1
		}
		if c.win.IsKeyPressed(pos) {
			move[i] += 1
		}
	}
	axis(k.ObjectLeft, k.ObjectRight, 0)
	axis(k.ObjectDown, k.ObjectUp, 1)
	axis(k.ObjectForward, k.ObjectBack, 2)
	if move != (mgl32.Vec3{}) {
		c.st.MoveObject(move.Mul(c.settings.ObjectSpeed * dt))
	}

	if c.win.IsKeyPressed(k.ScaleUp) {
		c.st.AdjustObjectScale(c.settings.ScaleSpeed * dt)
	}
	if c.win.IsKeyPressed(k.ScaleDown) {
		c.st.AdjustObjectScale(-c.settings.ScaleSpeed * dt)
	}
}

// HandleCursorPos receives absolute cursor positions. The first sample only
// seeds the last position. The last position is tracked even while mouse
// look is off so re-enabling it does not jump.
func (c *Controller) HandleCursorPos(x, y float64) {
	if c.firstMouse {
		c.lastX, c.lastY = x, y
		c.firstMouse = false
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(c.lastY - y) // screen y grows downwards
	c.lastX, c.lastY = x, y

	if c.st.CameraMouseMovementEnabled {
		c.st.Camera.ProcessMouseMovement(dx, dy, true)
	}
}

// HandleScroll zooms the camera regardless of mouse look.
func (c *Controller) HandleScroll(dy float64) {
	c.st.Camera.ProcessMouseScroll(float32(dy))
}
