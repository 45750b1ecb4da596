package app

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/ayusman/pingpoint/internal/ball"
	"github.com/ayusman/pingpoint/internal/config"
	"github.com/ayusman/pingpoint/internal/gesture"
	"github.com/ayusman/pingpoint/internal/store"
)

// Calibrate sets the away and home band widths and saves them. Widths are
// not validated.
func (s *Session) Calibrate(left, right float64) error {
	s.mu.Lock()
	s.tracker.Calibrate(left, right)
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return errors.Wrap(s.store.Settings().SetZones(left, right), "save zones")
}

// Zones returns the current scoring bands.
func (s *Session) Zones() ball.Zones {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Zones()
}

// SetSensitivity sets the ball confidence threshold, clamped to [0,1].
func (s *Session) SetSensitivity(v float64) error {
	s.mu.Lock()
	s.tracker.SetSensitivity(v)
	v = s.tracker.Sensitivity()
	s.mu.Unlock()

	return s.persist(store.KeySensitivity, strconv.FormatFloat(v, 'f', -1, 64))
}

// Sensitivity returns the ball confidence threshold.
func (s *Session) Sensitivity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Sensitivity()
}

// SetBallDebounce sets the minimum time between ball points.
func (s *Session) SetBallDebounce(window time.Duration) error {
	if window < 0 {
		return errors.Errorf("negative debounce window %s", window)
	}
	s.mu.Lock()
	s.tracker.SetDebounce(window)
	s.mu.Unlock()

	return s.persist(store.KeyBallDebounceMs, strconv.FormatInt(window.Milliseconds(), 10))
}

// SetGestureDebounce sets the minimum time between gesture points.
func (s *Session) SetGestureDebounce(window time.Duration) error {
	if window < 0 {
		return errors.Errorf("negative debounce window %s", window)
	}
	s.mu.Lock()
	s.recognizer.SetDebounce(window)
	s.mu.Unlock()

	return s.persist(store.KeyGestureDebounceMs, strconv.FormatInt(window.Milliseconds(), 10))
}

// SetPolicy selects the gesture classification policy.
func (s *Session) SetPolicy(p gesture.Policy) error {
	if _, err := gesture.ParsePolicy(string(p)); err != nil {
		return err
	}
	s.mu.Lock()
	s.recognizer.SetPolicy(p)
	s.mu.Unlock()

	return s.persist(store.KeyGesturePolicy, string(p))
}

// Tuning is the adjustable detector configuration.
type Tuning struct {
	Sensitivity       float64        `json:"sensitivity"`
	BallDebounceMs    int64          `json:"ball_debounce_ms"`
	GestureDebounceMs int64          `json:"gesture_debounce_ms"`
	Policy            gesture.Policy `json:"policy"`
	Mode              config.Mode    `json:"mode"`
}

// Tuning returns the current detector configuration.
func (s *Session) Tuning() Tuning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Tuning{
		Sensitivity:       s.tracker.Sensitivity(),
		BallDebounceMs:    s.tracker.Debounce().Milliseconds(),
		GestureDebounceMs: s.recognizer.Debounce().Milliseconds(),
		Policy:            s.recognizer.Policy(),
		Mode:              s.mode,
	}
}

// Status is a snapshot of the session for the presentation layer.
type Status struct {
	Mode          config.Mode     `json:"mode"`
	Ready         bool            `json:"ready"`
	Running       bool            `json:"running"`
	Active        bool            `json:"active"`
	Enabled       bool            `json:"enabled"`
	FPS           int             `json:"fps"`
	Zones         ball.Zones      `json:"zones"`
	CenterWidth   float64         `json:"center_width"`
	ShowZones     bool            `json:"show_zones"`
	MaxBallRadius int             `json:"max_ball_radius"`
	Policy        gesture.Policy  `json:"policy"`
	Label         gesture.Label   `json:"label,omitempty"`
	Ball          *ball.Candidate `json:"ball,omitempty"`
	Velocity      *ball.Vector    `json:"velocity,omitempty"`
	LastPoint     *Point          `json:"last_point,omitempty"`
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	st := Status{
		Ready:         s.IsReady(),
		ShowZones:     s.settings.Ball.ShowZones,
		MaxBallRadius: ball.MaxBallRadius,
	}

	s.stateMu.RLock()
	st.Running = s.running
	st.Enabled = s.enabled
	st.Active = s.running && s.enabled
	st.FPS = s.fps
	if s.lastPoint != nil {
		p := *s.lastPoint
		st.LastPoint = &p
	}
	s.stateMu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	st.Mode = s.mode
	st.Zones = s.tracker.Zones()
	st.CenterWidth = st.Zones.CenterWidth()
	st.Policy = s.recognizer.Policy()
	if s.mode == config.ModeGesture {
		st.Label = s.recognizer.LastLabel()
	}
	if c, ok := s.tracker.Current(); ok && s.mode == config.ModeBall {
		v := s.tracker.Velocity()
		st.Ball = &c
		st.Velocity = &v
	}
	return st
}
