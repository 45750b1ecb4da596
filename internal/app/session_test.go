package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/pingpoint/internal/ball"
	"github.com/ayusman/pingpoint/internal/ball/balltest"
	"github.com/ayusman/pingpoint/internal/capture"
	"github.com/ayusman/pingpoint/internal/config"
	"github.com/ayusman/pingpoint/internal/detector"
	"github.com/ayusman/pingpoint/internal/event"
	"github.com/ayusman/pingpoint/internal/gesture"
	"github.com/ayusman/pingpoint/internal/store"
)

// fakeClock advances by step on every call.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// testSettings disables motion cadence so tests do not depend on frame diffs.
func testSettings(mode config.Mode) *config.Config {
	cfg := config.Default()
	cfg.Mode = mode
	cfg.Motion.Enabled = false
	return cfg
}

func ballMat(t *testing.T, x int) *gocv.Mat {
	t.Helper()

	mat, err := capture.MatFromFrame(balltest.BallFrame(640, 200, x, 100, balltest.Orange))
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func blankMat(t *testing.T) *gocv.Mat {
	t.Helper()

	mat, err := capture.MatFromFrame(balltest.NewCanvas(64, 48, balltest.Green).Frame())
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func collect(s *Session) func() []Point {
	var (
		mu     sync.Mutex
		points []Point
	)
	s.Subscribe(func(p Point) {
		mu.Lock()
		points = append(points, p)
		mu.Unlock()
	})
	return func() []Point {
		mu.Lock()
		defer mu.Unlock()
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}
}

func TestSession_BallTick_EmitsHomePoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	st := newTestStore(t)
	cam := capture.NewMockCamera([]*gocv.Mat{ballMat(t, 300), ballMat(t, 560)}, false)
	clock := newFakeClock(100 * time.Millisecond)

	s, err := New(Config{
		Settings: testSettings(config.ModeBall),
		Store:    st,
		Camera:   cam,
		Clock:    clock.Now,
	})
	require.NoError(t, err)
	points := collect(s)

	require.NoError(t, cam.Open())
	s.tick()
	s.tick()

	got := points()
	require.Len(t, got, 1)
	assert.Equal(t, event.TeamHome, got[0].Team)
	assert.Equal(t, config.ModeBall, got[0].Mode)
	assert.NotEmpty(t, got[0].ID)

	stored, err := st.Detections().GetByID(got[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "home", stored.Team)
	assert.Equal(t, "ball", stored.Mode)

	last, ok := s.LastPoint()
	require.True(t, ok)
	assert.Equal(t, got[0].ID, last.ID)
}

func TestSession_BallTick_CenterBandIsSilent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{ballMat(t, 260), ballMat(t, 320)}, false)
	s, err := New(Config{
		Settings: testSettings(config.ModeBall),
		Camera:   cam,
		Clock:    newFakeClock(100 * time.Millisecond).Now,
	})
	require.NoError(t, err)
	points := collect(s)

	require.NoError(t, cam.Open())
	s.tick()
	s.tick()

	assert.Empty(t, points())

	status := s.Status()
	require.NotNil(t, status.Ball)
	assert.Equal(t, 320, status.Ball.X)
	assert.Equal(t, ball.Vector{X: 60, Y: 0}, *status.Velocity)
}

func TestSession_BallTick_ReadErrorLeavesStateUntouched(t *testing.T) {
	cam := capture.NewMockCamera(nil, false)
	s, err := New(Config{Settings: testSettings(config.ModeBall), Camera: cam})
	require.NoError(t, err)

	// Camera not open: ReadFrame fails.
	s.tick()

	_, ok := s.tracker.Current()
	assert.False(t, ok)
}

func TestSession_GestureTick_DebouncesThumbsUp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{blankMat(t)}, true)
	hands := detector.NewMockDetector()
	hands.SetHands([]detector.HandLandmarks{detector.ThumbsUpLandmarks()})

	s, err := New(Config{
		Settings: testSettings(config.ModeGesture),
		Camera:   cam,
		Detector: hands,
		Clock:    newFakeClock(time.Second).Now,
	})
	require.NoError(t, err)
	points := collect(s)

	require.NoError(t, cam.Open())
	// t=0 emits, t=1s and t=2s fall inside the 3s window, t=3s emits again.
	for i := 0; i < 4; i++ {
		s.tick()
	}

	got := points()
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, event.TeamHome, p.Team)
		assert.Equal(t, config.ModeGesture, p.Mode)
		assert.Equal(t, string(gesture.LabelThumbsUp), p.Label)
	}
	assert.Equal(t, 4, hands.Calls())
}

func TestSession_GestureTick_NoHand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{blankMat(t)}, true)
	s, err := New(Config{
		Settings: testSettings(config.ModeGesture),
		Camera:   cam,
		Detector: detector.NewMockDetector(),
	})
	require.NoError(t, err)
	points := collect(s)

	require.NoError(t, cam.Open())
	s.tick()

	assert.Empty(t, points())
	assert.Equal(t, gesture.LabelUnknown, s.Status().Label)
}

func TestSession_Start_NoFrameSource(t *testing.T) {
	cfg := testSettings(config.ModeBall)
	cfg.Camera.DeviceID = -1

	s, err := New(Config{Settings: cfg})
	require.NoError(t, err)

	err = s.Start(context.Background())
	assert.True(t, errors.Is(err, ErrNoFrameSource), "got %v", err)
	assert.False(t, s.IsReady())
	assert.False(t, s.IsActive())
}

func TestSession_StartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{ballMat(t, 300)}, true)
	s, err := New(Config{Settings: testSettings(config.ModeBall), Camera: cam})
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsReady())
	assert.True(t, s.IsActive())
	assert.ErrorIs(t, s.Start(context.Background()), ErrRunning)
	assert.ErrorIs(t, s.SetMode(config.ModeGesture), ErrRunning)

	s.SetEnabled(false)
	assert.False(t, s.IsActive())
	assert.True(t, s.IsReady())
	s.SetEnabled(true)

	require.Eventually(t, func() bool { return cam.Reads() > 0 }, 2*time.Second, 20*time.Millisecond)

	s.Stop()
	assert.False(t, cam.IsOpen())
	assert.False(t, s.IsReady())
	assert.False(t, s.IsActive())
	assert.Nil(t, s.Status().Ball, "Stop should clear tracking state")

	// Stopping twice is harmless.
	s.Stop()
}

func TestSession_ContextCancelStops(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{ballMat(t, 300), ballMat(t, 560)}, true)
	s, err := New(Config{Settings: testSettings(config.ModeBall), Camera: cam})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.Eventually(t, func() bool { return cam.Reads() > 1 }, 2*time.Second, 20*time.Millisecond)

	cancel()

	require.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 20*time.Millisecond)
	assert.False(t, s.IsActive())
	assert.False(t, s.IsReady())
	assert.False(t, cam.IsOpen())
	assert.Nil(t, s.Status().Ball, "cancellation should clear tracking state")

	// A fresh Start is accepted once the cancelled loop has been torn down.
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsActive())
	s.Stop()
}

func TestSession_StaleCancelKeepsNewRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{ballMat(t, 300)}, true)
	s, err := New(Config{Settings: testSettings(config.ModeBall), Camera: cam})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	s.Stop()
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	// Cancelling the first run's context must not touch the second run.
	cancel()
	time.Sleep(100 * time.Millisecond)
	assert.True(t, s.IsActive())
	assert.True(t, cam.IsOpen())
}

func TestSession_CalibrationPersists(t *testing.T) {
	st := newTestStore(t)
	cfg := testSettings(config.ModeBall)
	cfg.Camera.DeviceID = -1

	s, err := New(Config{Settings: cfg, Store: st})
	require.NoError(t, err)
	require.NoError(t, s.Calibrate(0.3, 0.3))

	assert.InDelta(t, 0.4, s.Status().CenterWidth, 1e-9)

	reloaded, err := New(Config{Settings: cfg, Store: st})
	require.NoError(t, err)
	assert.Equal(t, ball.Zones{LeftWidth: 0.3, RightWidth: 0.3}, reloaded.Zones())
}

func TestSession_TuningPersists(t *testing.T) {
	st := newTestStore(t)
	cfg := testSettings(config.ModeBall)
	cfg.Camera.DeviceID = -1

	s, err := New(Config{Settings: cfg, Store: st})
	require.NoError(t, err)

	require.NoError(t, s.SetSensitivity(1.5))
	require.NoError(t, s.SetBallDebounce(1500*time.Millisecond))
	require.NoError(t, s.SetGestureDebounce(2*time.Second))
	require.NoError(t, s.SetPolicy(gesture.PolicyFingerCount))
	require.NoError(t, s.SetMode(config.ModeGesture))

	assert.Error(t, s.SetBallDebounce(-time.Second))
	assert.Error(t, s.SetPolicy("nope"))
	assert.Error(t, s.SetMode("nope"))

	want := Tuning{
		Sensitivity:       1,
		BallDebounceMs:    1500,
		GestureDebounceMs: 2000,
		Policy:            gesture.PolicyFingerCount,
		Mode:              config.ModeGesture,
	}
	assert.Equal(t, want, s.Tuning())

	reloaded, err := New(Config{Settings: cfg, Store: st})
	require.NoError(t, err)
	assert.Equal(t, want, reloaded.Tuning())
}

func TestSession_StatusDefaults(t *testing.T) {
	cfg := testSettings(config.ModeBall)
	cfg.Camera.DeviceID = -1
	cfg.Ball.ShowZones = true

	s, err := New(Config{Settings: cfg})
	require.NoError(t, err)

	status := s.Status()
	assert.Equal(t, config.ModeBall, status.Mode)
	assert.False(t, status.Ready)
	assert.True(t, status.Enabled)
	assert.True(t, status.ShowZones)
	assert.Equal(t, ball.MaxBallRadius, status.MaxBallRadius)
	assert.Equal(t, capture.IdleFPS, status.FPS)
	assert.InDelta(t, 0.2, status.CenterWidth, 1e-9)
	assert.Equal(t, gesture.PolicyPoseShape, status.Policy)
	assert.Nil(t, status.LastPoint)
}
