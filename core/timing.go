package core

import "github.com/go-gl/glfw/v3.3/glfw"

// Clock returns monotonic seconds.
type Clock func() float64

// FrameTimer measures the time between successive frames.
type FrameTimer struct {
	now  Clock
	last float64
}

// NewFrameTimer starts a timer on the GLFW clock. GLFW must be initialised.
func NewFrameTimer() *FrameTimer {
	return NewFrameTimerWithClock(glfw.GetTime)
}

func NewFrameTimerWithClock(now Clock) *FrameTimer {
	return &FrameTimer{now: now, last: now()}
}

// Tick returns the seconds elapsed since the previous Tick (or since the
// timer was created) and starts the next interval. Never negative.
func (t *FrameTimer) Tick() float32 {
	cur := t.now()
	dt := cur - t.last
	t.last = cur
	if dt < 0 {
		return 0
	}
	return float32(dt)
}
