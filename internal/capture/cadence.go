package capture

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame rates for the two cadence states.
const (
	// IdleFPS is the frame rate when nothing moves in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate while motion is seen.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to idle.
	IdleTimeout = 2 * time.Second
	// DefaultMotionThreshold is the percentage of changed pixels that counts
	// as motion.
	DefaultMotionThreshold = 1.0
)

// Cadence switches the capture rate between idle and active based on motion.
// It only changes how often frames are read; every frame read is still
// handed to the detectors.
type Cadence struct {
	motion     *MotionDetector
	active     bool
	lastMotion time.Time
	mu         sync.Mutex
}

// NewCadence creates a Cadence using a motion detector with threshold
// (percent of changed pixels). Non-positive thresholds use the default.
func NewCadence(threshold float64) *Cadence {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &Cadence{motion: NewMotionDetector(threshold)}
}

// Observe feeds frame to the motion detector and returns the frame rate the
// caller should use next, and whether it changed.
func (c *Cadence) Observe(frame *gocv.Mat, now time.Time) (fps int, changed bool) {
	moving, _ := c.motion.Detect(frame)
	return c.update(moving, now)
}

func (c *Cadence) update(moving bool, now time.Time) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if moving {
		c.lastMotion = now
		if !c.active {
			c.active = true
			return ActiveFPS, true
		}
		return ActiveFPS, false
	}

	if c.active && now.Sub(c.lastMotion) > IdleTimeout {
		c.active = false
		return IdleFPS, true
	}
	return c.fpsLocked(), false
}

// FPS returns the frame rate for the current state.
func (c *Cadence) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fpsLocked()
}

func (c *Cadence) fpsLocked() int {
	if c.active {
		return ActiveFPS
	}
	return IdleFPS
}

// Active reports whether motion was seen within the idle timeout.
func (c *Cadence) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Reset drops back to idle and forgets the motion baseline.
func (c *Cadence) Reset() {
	c.mu.Lock()
	c.active = false
	c.lastMotion = time.Time{}
	c.mu.Unlock()

	c.motion.Reset()
}

// Close releases the motion detector.
func (c *Cadence) Close() {
	c.motion.Close()
}
