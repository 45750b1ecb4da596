// Package app wires the camera, the ball tracker or gesture recognizer, the
// store and the hooks into a running detection session.
package app

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ayusman/pingpoint/internal/ball"
	"github.com/ayusman/pingpoint/internal/capture"
	"github.com/ayusman/pingpoint/internal/config"
	"github.com/ayusman/pingpoint/internal/detector"
	"github.com/ayusman/pingpoint/internal/event"
	"github.com/ayusman/pingpoint/internal/gesture"
	"github.com/ayusman/pingpoint/internal/store"
)

var (
	// ErrNoFrameSource is returned by Start when no camera is configured.
	ErrNoFrameSource = errors.New("no frame source configured")
	// ErrNoHandDetector is returned by Start in gesture mode when no hand
	// detector can be created.
	ErrNoHandDetector = errors.New("no hand detector available")
	// ErrRunning is returned when a change requires a stopped session.
	ErrRunning = errors.New("session is running")
)

// Config holds the collaborators of a Session. Only Settings is required.
type Config struct {
	Settings *config.Config
	Store    *store.Store
	// Camera overrides the device described by Settings.Camera.
	Camera capture.Camera
	// Detector overrides the MediaPipe hand detector in gesture mode.
	Detector detector.Detector
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Session runs detection ticks against the camera and publishes points.
type Session struct {
	settings *config.Config
	store    *store.Store
	clock    func() time.Time
	fanout   *Fanout

	// mu guards the mode, the detectors and the camera. A tick holds it for
	// its whole duration so setters land between ticks.
	mu         sync.Mutex
	mode       config.Mode
	camera     capture.Camera
	hands      detector.Detector
	ownsHands  bool
	cadence    *capture.Cadence
	tracker    *ball.Tracker
	recognizer *gesture.Recognizer
	// tickTime is the timestamp of the tick being processed.
	tickTime time.Time

	// lifeMu serializes Start and Stop.
	lifeMu sync.Mutex

	// stateMu guards the run state read by status callers.
	stateMu   sync.RWMutex
	running   bool
	enabled   bool
	fps       int
	lastPoint *Point
	stopCh    chan struct{}
	done      chan struct{}
}

// New creates a Session from cfg. Calibration and tuning saved in the store
// take precedence over the file settings.
func New(cfg Config) (*Session, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	s := &Session{
		settings: cfg.Settings,
		store:    cfg.Store,
		clock:    cfg.Clock,
		fanout:   NewFanout(),
		mode:     cfg.Settings.Mode,
		camera:   cfg.Camera,
		hands:    cfg.Detector,
		enabled:  true,
		fps:      capture.IdleFPS,
	}

	if s.camera == nil && cfg.Settings.Camera.DeviceID >= 0 {
		s.camera = capture.NewCamera(cfg.Settings.Camera)
	}
	if cfg.Settings.Motion.Enabled {
		s.cadence = capture.NewCadence(cfg.Settings.Motion.Threshold)
	}

	s.tracker = ball.NewTracker()
	s.tracker.SetSensitivity(cfg.Settings.Ball.Sensitivity)
	s.tracker.SetDebounce(cfg.Settings.BallDebounce())
	s.tracker.Calibrate(cfg.Settings.Ball.Zones.LeftWidth, cfg.Settings.Ball.Zones.RightWidth)

	s.recognizer = gesture.NewRecognizer(cfg.Settings.Gesture.Policy)
	s.recognizer.SetDebounce(cfg.Settings.GestureDebounce())
	teams, err := cfg.Settings.GestureTeams()
	if err != nil {
		return nil, errors.Wrap(err, "gesture teams")
	}
	s.recognizer.SetTeams(teams)

	if err := s.loadPersisted(); err != nil {
		return nil, errors.Wrap(err, "load saved settings")
	}

	s.tracker.OnEvent(func(team event.Team) {
		s.publish(config.ModeBall, team, "")
	})
	s.recognizer.OnEvent(func(team event.Team) {
		s.publish(config.ModeGesture, team, string(s.recognizer.LastLabel()))
	})

	return s, nil
}

func (s *Session) loadPersisted() error {
	if s.store == nil {
		return nil
	}
	settings := s.store.Settings()

	left, right, ok, err := settings.Zones()
	if err != nil {
		return err
	}
	if ok {
		s.tracker.Calibrate(left, right)
	}

	values, err := settings.All()
	if err != nil {
		return err
	}
	if v, ok := values[store.KeySensitivity]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.tracker.SetSensitivity(f)
		}
	}
	if v, ok := values[store.KeyBallDebounceMs]; ok {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			s.tracker.SetDebounce(time.Duration(ms) * time.Millisecond)
		}
	}
	if v, ok := values[store.KeyGestureDebounceMs]; ok {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			s.recognizer.SetDebounce(time.Duration(ms) * time.Millisecond)
		}
	}
	if v, ok := values[store.KeyGesturePolicy]; ok {
		if p, err := gesture.ParsePolicy(v); err == nil {
			s.recognizer.SetPolicy(p)
		}
	}
	if v, ok := values[store.KeyMode]; ok {
		if m, err := config.ParseMode(v); err == nil {
			s.mode = m
		}
	}
	return nil
}

// Subscribe registers fn for every published point.
func (s *Session) Subscribe(fn Subscriber) (unsubscribe func()) {
	return s.fanout.Subscribe(fn)
}

// publish runs inside a tick with s.mu held.
func (s *Session) publish(mode config.Mode, team event.Team, label string) {
	p := Point{
		ID:    uuid.New().String(),
		Team:  team,
		Mode:  mode,
		Label: label,
		Time:  s.tickTime,
	}

	if s.store != nil {
		err := s.store.Detections().Create(&store.Detection{
			ID:        p.ID,
			Mode:      string(p.Mode),
			Team:      string(p.Team),
			Label:     p.Label,
			CreatedAt: p.Time,
		})
		if err != nil {
			log.Printf("Failed to record detection: %v", err)
		}
	}

	s.stateMu.Lock()
	s.lastPoint = &p
	s.stateMu.Unlock()

	log.Printf("Point detected: %s (%s)", p.Team, p.Mode)
	s.fanout.Publish(p)
}

// Start opens the camera and, in gesture mode, the hand detector, then
// starts the tick loop. It returns an error if the session is running or
// setup fails.
func (s *Session) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.stateMu.Lock()
	if s.running {
		s.stateMu.Unlock()
		return ErrRunning
	}
	s.stateMu.Unlock()

	s.mu.Lock()
	if err := s.setup(); err != nil {
		s.mu.Unlock()
		return err
	}
	mode := s.mode
	s.mu.Unlock()

	s.stateMu.Lock()
	s.running = true
	s.fps = capture.IdleFPS
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	stopCh, done := s.stopCh, s.done
	s.stateMu.Unlock()

	go func() {
		if s.run(ctx, stopCh, done) {
			s.stop(done)
		}
	}()

	log.Printf("Detection started in %s mode", mode)
	return nil
}

// setup runs with s.mu held.
func (s *Session) setup() error {
	if s.camera == nil {
		return ErrNoFrameSource
	}

	if s.mode == config.ModeGesture && s.hands == nil {
		d, err := detector.NewMediaPipeDetector(s.settings.Gesture.Detector)
		if err != nil {
			return errors.Wrap(ErrNoHandDetector, err.Error())
		}
		s.hands = d
		s.ownsHands = true
	}

	if !s.camera.IsOpen() {
		if err := s.camera.Open(); err != nil {
			s.releaseHands()
			return errors.Wrap(err, "open camera")
		}
	}
	s.camera.SetFPS(capture.IdleFPS)
	return nil
}

// releaseHands closes a hand detector the session created itself.
func (s *Session) releaseHands() {
	if !s.ownsHands || s.hands == nil {
		return
	}
	if err := s.hands.Close(); err != nil {
		log.Printf("Error closing hand detector: %v", err)
	}
	s.hands = nil
	s.ownsHands = false
}

// Stop halts the tick loop, closes the camera and the hand detector and
// clears tracking history and debounce state. It is a no-op when stopped.
// Cancelling the context passed to Start has the same effect.
func (s *Session) Stop() {
	s.stop(nil)
}

// stop tears down the running loop. A non-nil gen limits the teardown to the
// loop that owns that done channel, so a late cancellation cannot stop a
// session started afterwards.
func (s *Session) stop(gen chan struct{}) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.stateMu.Lock()
	if !s.running || (gen != nil && s.done != gen) {
		s.stateMu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	s.stateMu.Unlock()

	<-done

	s.mu.Lock()
	if s.camera != nil {
		if err := s.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}
	s.releaseHands()
	if s.cadence != nil {
		s.cadence.Reset()
	}
	s.tracker.Reset()
	s.recognizer.Reset()
	s.mu.Unlock()

	s.stateMu.Lock()
	s.fps = capture.IdleFPS
	s.stateMu.Unlock()

	log.Println("Detection stopped")
}

// Close stops the session and releases the motion detector.
func (s *Session) Close() {
	s.Stop()
	if s.cadence != nil {
		s.cadence.Close()
	}
}

// IsReady reports whether the session is started with an open camera.
func (s *Session) IsReady() bool {
	s.stateMu.RLock()
	running := s.running
	s.stateMu.RUnlock()
	if !running {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera != nil && s.camera.IsOpen()
}

// IsActive reports whether ticks are running and detection is enabled.
func (s *Session) IsActive() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.running && s.enabled
}

// IsRunning reports whether the tick loop is running.
func (s *Session) IsRunning() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.running
}

// IsEnabled reports whether ticks are processed.
func (s *Session) IsEnabled() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.enabled
}

// SetEnabled pauses or resumes processing without stopping the session.
func (s *Session) SetEnabled(enabled bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.enabled = enabled
}

// Mode returns the active detection mode.
func (s *Session) Mode() config.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches between ball and gesture detection. The session must be
// stopped.
func (s *Session) SetMode(m config.Mode) error {
	if _, err := config.ParseMode(string(m)); err != nil {
		return err
	}
	if s.IsRunning() {
		return ErrRunning
	}

	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()

	return s.persist(store.KeyMode, string(m))
}

// LastPoint returns the most recent published point.
func (s *Session) LastPoint() (Point, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.lastPoint == nil {
		return Point{}, false
	}
	return *s.lastPoint, true
}

func (s *Session) persist(key, value string) error {
	if s.store == nil {
		return nil
	}
	return errors.Wrapf(s.store.Settings().Set(key, value), "save %s", key)
}
