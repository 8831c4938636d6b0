package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrview/scene"
	"hdrview/state"
)

type fakeWindow struct {
	down        map[int]bool
	shouldClose bool
	captured    []bool
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{down: map[int]bool{}}
}

func (w *fakeWindow) IsKeyPressed(key int) bool { return w.down[key] }
func (w *fakeWindow) SetShouldClose(v bool)     { w.shouldClose = v }
func (w *fakeWindow) SetCursorCaptured(v bool)  { w.captured = append(w.captured, v) }

var testKeys = Bindings{
	Forward: 1, Backward: 2, Left: 3, Right: 4,
	Exit: 10, ExitAlt: 11, ToggleUI: 12, ToggleHDR: 13, ToggleCamera: 14,
	ExposureUp: 20, ExposureDown: 21,
	ObjectLeft: 30, ObjectRight: 31, ObjectUp: 32, ObjectDown: 33,
	ObjectForward: 34, ObjectBack: 35, ScaleUp: 36, ScaleDown: 37,
}

func setup() (*Controller, *fakeWindow, *state.ProgramState) {
	w := newFakeWindow()
	st := state.New()
	return NewController(w, st, testKeys, DefaultSettings()), w, st
}

func TestToggleFiresOncePerPress(t *testing.T) {
	c, w, st := setup()
	w.down[testKeys.ToggleHDR] = true
	for i := 0; i < 10; i++ {
		c.Update(0.016)
	}
	assert.False(t, st.HDR, "held for ten frames flips once")

	w.down[testKeys.ToggleHDR] = false
	c.Update(0.016)
	assert.False(t, st.HDR)

	w.down[testKeys.ToggleHDR] = true
	c.Update(0.016)
	assert.True(t, st.HDR)
}

func TestExitKeys(t *testing.T) {
	c, w, _ := setup()
	c.Update(0.016)
	assert.False(t, w.shouldClose)

	w.down[testKeys.ExitAlt] = true
	c.Update(0.016)
	assert.True(t, w.shouldClose)
}

func TestToggleUIReleasesCursor(t *testing.T) {
	c, w, st := setup()
	w.down[testKeys.ToggleUI] = true
	c.Update(0)
	assert.True(t, st.UIVisible)
	assert.False(t, st.CameraMouseMovementEnabled)
	require.NotEmpty(t, w.captured)
	assert.False(t, w.captured[len(w.captured)-1])

	w.down[testKeys.ToggleUI] = false
	c.Update(0)
	w.down[testKeys.ToggleUI] = true
	c.Update(0)
	assert.False(t, st.UIVisible)
	assert.True(t, st.CameraMouseMovementEnabled)
	assert.True(t, w.captured[len(w.captured)-1])
}

func TestToggleCameraControl(t *testing.T) {
	c, w, st := setup()
	w.down[testKeys.ToggleCamera] = true
	c.Update(0)
	assert.False(t, st.CameraMouseMovementEnabled)
	assert.Equal(t, []bool{false}, w.captured)
}

func TestSyncFollowsRestoredPanelFlag(t *testing.T) {
	c, w, st := setup()
	st.UIVisible = true
	c.Sync()
	assert.False(t, st.CameraMouseMovementEnabled)
	assert.Equal(t, []bool{false}, w.captured)
}

func TestMovementScalesWithDt(t *testing.T) {
	c, w, st := setup()
	w.down[testKeys.Forward] = true
	c.Update(0.5)
	assertVec3(t, mgl32.Vec3{0, 0, 3 - scene.DefaultSpeed*0.5}, st.Camera.Position, 1e-5)

	c.Update(0)
	assertVec3(t, mgl32.Vec3{0, 0, 3 - scene.DefaultSpeed*0.5}, st.Camera.Position, 1e-5)

	w.down[testKeys.Forward] = false
	w.down[testKeys.Right] = true
	c.Update(1)
	assert.InDelta(t, scene.DefaultSpeed, st.Camera.Position.X(), 1e-5)
}

func TestExposureStepPerFrame(t *testing.T) {
	c, w, st := setup()
	w.down[testKeys.ExposureUp] = true
	for i := 0; i < 10; i++ {
		c.Update(0.016)
	}
	assert.InDelta(t, 1.1, st.Exposure, 1e-5)

	w.down[testKeys.ExposureUp] = false
	w.down[testKeys.ExposureDown] = true
	for i := 0; i < 1000; i++ {
		c.Update(0.016)
		require.GreaterOrEqual(t, st.Exposure, float32(0))
	}
	assert.Equal(t, float32(0), st.Exposure)
}

func TestObjectPlacement(t *testing.T) {
	c, w, st := setup()
	w.down[testKeys.ObjectRight] = true
	w.down[testKeys.ObjectUp] = true
	w.down[testKeys.ObjectForward] = true
	w.down[testKeys.ScaleUp] = true
	c.Update(0.5)
	assertVec3(t, mgl32.Vec3{1, 1, -1}, st.ObjectPosition, 1e-5)
	assert.InDelta(t, 1.25, st.ObjectScale, 1e-6)
}

func TestFirstMouseSampleOnlySeeds(t *testing.T) {
	c, _, st := setup()
	c.HandleCursorPos(600, 450)
	assert.Equal(t, scene.DefaultYaw, st.Camera.Yaw)
	assert.Equal(t, float32(0), st.Camera.Pitch)

	c.HandleCursorPos(610, 440)
	assert.InDelta(t, scene.DefaultYaw+1, st.Camera.Yaw, 1e-5)
	assert.InDelta(t, 1, st.Camera.Pitch, 1e-5, "moving the cursor up pitches up")
}

func TestCursorIgnoredWhileMouseLookOff(t *testing.T) {
	c, _, st := setup()
	st.CameraMouseMovementEnabled = false
	c.HandleCursorPos(0, 0)
	c.HandleCursorPos(500, 500)
	assert.Equal(t, scene.DefaultYaw, st.Camera.Yaw)

	// position was tracked, so re-enabling does not jump
	st.CameraMouseMovementEnabled = true
	c.HandleCursorPos(510, 500)
	assert.InDelta(t, scene.DefaultYaw+1, st.Camera.Yaw, 1e-5)
}

func TestScrollAlwaysZooms(t *testing.T) {
	c, _, st := setup()
	st.CameraMouseMovementEnabled = false
	c.HandleScroll(5)
	assert.Equal(t, float32(40), st.Camera.Zoom)
	c.HandleScroll(-100)
	assert.Equal(t, scene.MaxZoom, st.Camera.Zoom)
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}
