package state

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, mgl32.Vec3{}, s.BackgroundColor)
	assert.False(t, s.UIVisible)
	assert.True(t, s.CameraMouseMovementEnabled)
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, s.Camera.Position)
	assert.Equal(t, float32(1), s.ObjectScale)
	assert.True(t, s.HDR)
	assert.Equal(t, float32(1), s.Exposure)
	assert.Equal(t, mgl32.Vec3{4, 4, 0}, s.PointLight.Position)
	assert.Equal(t, float32(0.032), s.PointLight.Quadratic)
}

func TestExposureNeverNegative(t *testing.T) {
	s := New()
	for i := 0; i < 500; i++ {
		s.AdjustExposure(-0.01)
		assert.GreaterOrEqual(t, s.Exposure, float32(0))
	}
	assert.Equal(t, float32(0), s.Exposure)

	s.AdjustExposure(0.5)
	assert.InDelta(t, 0.5, s.Exposure, 1e-6)
}

func TestToggleUIDrivesMouseLook(t *testing.T) {
	s := New()
	s.ToggleUI()
	assert.True(t, s.UIVisible)
	assert.False(t, s.CameraMouseMovementEnabled)
	s.ToggleUI()
	assert.False(t, s.UIVisible)
	assert.True(t, s.CameraMouseMovementEnabled)

	s.ToggleCameraControl()
	assert.False(t, s.CameraMouseMovementEnabled)
}

func TestObjectScaleClamped(t *testing.T) {
	s := New()
	s.AdjustObjectScale(100)
	assert.Equal(t, MaxObjectScale, s.ObjectScale)
	s.AdjustObjectScale(-100)
	assert.Equal(t, MinObjectScale, s.ObjectScale)
}

func TestModelMatrixTranslateThenScale(t *testing.T) {
	s := New()
	s.MoveObject(mgl32.Vec3{1, 2, 3})
	s.AdjustObjectScale(1)
	p := s.ModelMatrix().Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assertVec3(t, mgl32.Vec3{3, 4, 5}, p.Vec3(), 1e-5)
}

func TestAttenuation(t *testing.T) {
	l := DefaultPointLight()
	assert.Equal(t, float32(1), l.Attenuation(0))
	assert.InDelta(t, 1/(1+0.9+3.2), l.Attenuation(10), 1e-6)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	s.BackgroundColor = mgl32.Vec3{0.1, 0.25, 1}
	s.UIVisible = true
	s.Camera.Position = mgl32.Vec3{-1.5, 2, 7.125}
	s.Camera.ProcessMouseMovement(123, -45, true)

	path := filepath.Join(t.TempDir(), "nested", "program_state.txt")
	require.NoError(t, s.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "0.1", lines[0])
	assert.Equal(t, "1", lines[3])
	assert.Equal(t, "7.125", lines[6])

	loaded := New()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, s.BackgroundColor, loaded.BackgroundColor)
	assert.Equal(t, s.UIVisible, loaded.UIVisible)
	assert.Equal(t, s.Camera.Position, loaded.Camera.Position)
	assertVec3(t, loaded.Camera.Front, s.Camera.Front, 1e-5)
	assert.InDelta(t, s.Camera.Pitch, loaded.Camera.Pitch, 1e-3)
}

func TestSnapshotSaveTwiceLastWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	s := New()
	require.NoError(t, s.Save(path))
	s.BackgroundColor = mgl32.Vec3{1, 1, 1}
	require.NoError(t, s.Save(path))

	loaded := New()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, loaded.BackgroundColor)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	s := New()
	err := s.Load(filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, New().Camera.Position, s.Camera.Position)
}

func TestReadSnapshotTruncated(t *testing.T) {
	s := New()
	err := s.ReadSnapshot(strings.NewReader("0.5 0.5 0.5\n1\n9 8"))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "camera.position.z")

	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, s.BackgroundColor)
	assert.True(t, s.UIVisible)
	assert.Equal(t, mgl32.Vec3{9, 8, 3}, s.Camera.Position)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, s.Camera.Front, 1e-5)
}

func TestReadSnapshotMalformedStopsAtField(t *testing.T) {
	s := New()
	err := s.ReadSnapshot(strings.NewReader("0.2 abc 0.9 1 5 5 5 1 0 0"))
	require.Error(t, err)
	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
	assert.Contains(t, err.Error(), "background.g")

	assert.Equal(t, mgl32.Vec3{0.2, 0, 0}, s.BackgroundColor)
	assert.False(t, s.UIVisible)
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, s.Camera.Position)
}

func TestReadSnapshotBadFlag(t *testing.T) {
	s := New()
	err := s.ReadSnapshot(strings.NewReader("0 0 0 2 1 1 1 0 0 -1"))
	assert.ErrorIs(t, err, errBadFlag)
	assert.False(t, s.UIVisible)
}

func TestReadSnapshotPartialFrontApplied(t *testing.T) {
	s := New()
	err := s.ReadSnapshot(strings.NewReader("0 0 0 0 0 0 0 1 0"))
	require.Error(t, err)
	// front = (1, 0, -1) normalized
	assertVec3(t, mgl32.Vec3{1, 0, -1}.Normalize(), s.Camera.Front, 1e-5)
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}
