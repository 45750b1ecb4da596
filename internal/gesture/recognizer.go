package gesture

import (
	"time"

	"github.com/ayusman/pingpoint/internal/debounce"
	"github.com/ayusman/pingpoint/internal/detector"
	"github.com/ayusman/pingpoint/internal/event"
)

// DefaultTeams is the label to team mapping used when none is configured.
func DefaultTeams() map[Label]event.Team {
	return map[Label]event.Team{
		LabelThumbsUp: event.TeamHome,
		LabelOpenPalm: event.TeamAway,
		LabelSingle:   event.TeamHome,
		LabelDouble:   event.TeamAway,
	}
}

// Recognizer turns per-tick hand landmarks into debounced team events.
// It is not safe for concurrent use.
type Recognizer struct {
	policy    Policy
	teams     map[Label]event.Team
	debouncer *debounce.Debouncer
	emitter   event.Emitter
	last      Label
}

// NewRecognizer creates a recognizer using policy, the default team mapping
// and the gesture debounce window.
func NewRecognizer(policy Policy) *Recognizer {
	return &Recognizer{
		policy:    policy,
		teams:     DefaultTeams(),
		debouncer: debounce.New(debounce.GestureWindow),
		last:      LabelUnknown,
	}
}

// OnEvent registers the handler for emitted teams, replacing any previous one.
func (r *Recognizer) OnEvent(h event.Handler) {
	r.emitter.OnEvent(h)
}

// Process classifies hand and emits its team when the label maps to one and
// the debounce window has passed. A nil hand means no hand was tracked.
func (r *Recognizer) Process(hand *detector.HandLandmarks, now time.Time) (event.Team, bool) {
	label := Classify(r.policy, hand)
	r.last = label

	team, ok := r.teams[label]
	if !ok {
		return "", false
	}
	if !r.debouncer.Allow(now) {
		return "", false
	}

	r.emitter.Emit(team)
	return team, true
}

// LastLabel returns the label produced by the most recent Process call.
func (r *Recognizer) LastLabel() Label {
	return r.last
}

// Policy returns the active classification policy.
func (r *Recognizer) Policy() Policy {
	return r.policy
}

// SetPolicy switches the classification policy.
func (r *Recognizer) SetPolicy(p Policy) {
	r.policy = p
}

// SetTeams replaces the label to team mapping. Labels missing from teams
// never emit.
func (r *Recognizer) SetTeams(teams map[Label]event.Team) {
	r.teams = make(map[Label]event.Team, len(teams))
	for l, t := range teams {
		if l == LabelUnknown {
			continue
		}
		r.teams[l] = t
	}
}

// SetDebounce sets the cooldown between emissions.
func (r *Recognizer) SetDebounce(window time.Duration) {
	r.debouncer.SetWindow(window)
}

// Debounce returns the cooldown between emissions.
func (r *Recognizer) Debounce() time.Duration {
	return r.debouncer.Window()
}

// Reset clears debounce state. Policy, mapping and handler are kept.
func (r *Recognizer) Reset() {
	r.debouncer.Reset()
	r.last = LabelUnknown
}
