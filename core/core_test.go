package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimerTick(t *testing.T) {
	now := 10.0
	timer := NewFrameTimerWithClock(func() float64 { return now })

	now = 10.5
	assert.InDelta(t, 0.5, timer.Tick(), 1e-6)

	now = 10.5
	assert.Equal(t, float32(0), timer.Tick())

	now = 11.25
	assert.InDelta(t, 0.75, timer.Tick(), 1e-6)
}

func TestFrameTimerClockGoingBackwards(t *testing.T) {
	now := 5.0
	timer := NewFrameTimerWithClock(func() float64 { return now })
	now = 4.0
	assert.Equal(t, float32(0), timer.Tick())
}

func TestKeyByName(t *testing.T) {
	k, err := KeyByName("F1")
	require.NoError(t, err)
	assert.Equal(t, KeyF1, k)

	k, err = KeyByName(" escape ")
	require.NoError(t, err)
	assert.Equal(t, KeyEscape, k)

	k, err = KeyByName("[")
	require.NoError(t, err)
	assert.Equal(t, KeyLeftBracket, k)

	_, err = KeyByName("hyper")
	assert.Error(t, err)
}
