package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/pingpoint/internal/ball"
)

// ErrNoMoreFrames is returned by MockCamera once a non-looping sequence is
// exhausted.
var ErrNoMoreFrames = errors.New("no more frames")

// MockCamera plays back a fixed sequence of frames. It is used by tests and
// by the replay mode of the command.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
	fps     []int
}

func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// ReadFrame returns a clone of the next frame.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if len(c.frames) == 0 {
		return nil, ErrEmptyFrame
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, ErrNoMoreFrames
		}
		c.index = 0
	}

	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

// SetFPS records the requested rate so tests can inspect cadence changes.
func (c *MockCamera) SetFPS(fps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = append(c.fps, fps)
}

// FPS returns the last requested rate, or IdleFPS if none was set.
func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.fps) == 0 {
		return IdleFPS
	}
	return c.fps[len(c.fps)-1]
}

// FPSChanges returns every rate passed to SetFPS, in order.
func (c *MockCamera) FPSChanges() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.fps))
	copy(out, c.fps)
	return out
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reads returns how many frames have been handed out since Open.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// MatFromFrame converts an RGB frame into a BGR Mat, the layout a real camera
// produces. The caller must close the returned Mat.
func MatFromFrame(f *ball.Frame) (gocv.Mat, error) {
	pix := make([]byte, 0, f.Width()*f.Height()*3)
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			r, g, b := f.At(x, y)
			pix = append(pix, b, g, r)
		}
	}

	mat, err := gocv.NewMatFromBytes(f.Height(), f.Width(), gocv.MatTypeCV8UC3, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("create mat: %w", err)
	}
	return mat, nil
}
