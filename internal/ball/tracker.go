package ball

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/pingpoint/internal/debounce"
	"github.com/ayusman/pingpoint/internal/event"
)

const (
	// MaxHistory is the number of detections kept for velocity tracking.
	MaxHistory = 10
	// MinScoringSpeed is the per-tick displacement in pixels below which
	// motion is treated as hover or noise.
	MinScoringSpeed = 10.0
)

// Vector is a displacement in pixels per tick.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Speed returns the Euclidean norm of v.
func (v Vector) Speed() float64 {
	return floats.Norm([]float64{v.X, v.Y}, 2)
}

// HistoryEntry records one selected candidate with the velocity computed at
// that tick.
type HistoryEntry struct {
	Candidate
	Velocity  Vector    `json:"velocity"`
	Timestamp time.Time `json:"timestamp"`
}

// Tracker turns the best candidate of each frame into scoring events.
// It owns its history, debounce state and zones and is not safe for
// concurrent use.
type Tracker struct {
	sensitivity float64
	zones       Zones
	debouncer   *debounce.Debouncer
	emitter     event.Emitter

	current  *Candidate
	previous *Candidate
	velocity Vector
	history  []HistoryEntry
}

// NewTracker creates a Tracker with default sensitivity, zones and a 1s
// debounce window.
func NewTracker() *Tracker {
	return &Tracker{
		sensitivity: DefaultSensitivity,
		zones:       DefaultZones(),
		debouncer:   debounce.New(debounce.BallWindow),
		history:     make([]HistoryEntry, 0, MaxHistory+1),
	}
}

// OnEvent registers the handler that receives scoring events.
func (t *Tracker) OnEvent(h event.Handler) {
	t.emitter.OnEvent(h)
}

// Process runs one tick over f. It returns the team that scored, if an event
// was emitted during this tick.
func (t *Tracker) Process(f *Frame, now time.Time) (event.Team, bool) {
	candidates := FindCandidates(f, t.sensitivity)
	if len(candidates) == 0 {
		return "", false
	}
	return t.Observe(candidates[0], f.Width(), f.Height(), now)
}

// Observe feeds an already selected candidate from a frame of the given size.
func (t *Tracker) Observe(c Candidate, width, height int, now time.Time) (event.Team, bool) {
	t.previous = t.current
	t.current = &c

	var (
		team   event.Team
		scored bool
	)
	if t.previous != nil {
		t.velocity = Vector{
			X: float64(c.X - t.previous.X),
			Y: float64(c.Y - t.previous.Y),
		}
		team, scored = t.checkScoring(c, width, now)
	}

	t.history = append(t.history, HistoryEntry{
		Candidate: c,
		Velocity:  t.velocity,
		Timestamp: now,
	})
	if len(t.history) > MaxHistory {
		t.history = append(t.history[:0], t.history[1:]...)
	}

	return team, scored
}

// checkScoring drops a tick inside the debounce window before looking at
// speed or zones. Only an emitted point starts a new window.
func (t *Tracker) checkScoring(c Candidate, width int, now time.Time) (event.Team, bool) {
	if t.debouncer.Suppressed(now) {
		return "", false
	}
	if t.velocity.Speed() < MinScoringSpeed {
		return "", false
	}
	if width <= 0 {
		return "", false
	}

	normX := float64(c.X) / float64(width)
	team, ok := t.zones.Team(normX)
	if !ok {
		return "", false
	}

	if !t.debouncer.Allow(now) {
		return "", false
	}
	t.emitter.Emit(team)
	return team, true
}

// SetSensitivity sets the confidence a candidate must exceed, clamped to [0,1].
func (t *Tracker) SetSensitivity(s float64) {
	switch {
	case s < 0:
		s = 0
	case s > 1:
		s = 1
	}
	t.sensitivity = s
}

// Sensitivity returns the current candidate threshold.
func (t *Tracker) Sensitivity() float64 {
	return t.sensitivity
}

// Calibrate replaces the scoring zone widths. Values are stored as given.
func (t *Tracker) Calibrate(leftWidth, rightWidth float64) {
	t.zones = Zones{LeftWidth: leftWidth, RightWidth: rightWidth}
}

// Zones returns the current scoring zones.
func (t *Tracker) Zones() Zones {
	return t.zones
}

// SetDebounce changes the cooldown between two events.
func (t *Tracker) SetDebounce(window time.Duration) {
	t.debouncer.SetWindow(window)
}

// Debounce returns the cooldown between two events.
func (t *Tracker) Debounce() time.Duration {
	return t.debouncer.Window()
}

// Current returns the most recently selected candidate.
func (t *Tracker) Current() (Candidate, bool) {
	if t.current == nil {
		return Candidate{}, false
	}
	return *t.current, true
}

// Velocity returns the last computed velocity.
func (t *Tracker) Velocity() Vector {
	return t.velocity
}

// History returns a copy of the retained detections, oldest first.
func (t *Tracker) History() []HistoryEntry {
	out := make([]HistoryEntry, len(t.history))
	copy(out, t.history)
	return out
}

// Reset clears history, velocity and debounce state. Zones, sensitivity and
// the registered handler are kept.
func (t *Tracker) Reset() {
	t.current = nil
	t.previous = nil
	t.velocity = Vector{}
	t.history = t.history[:0]
	t.debouncer.Reset()
}
