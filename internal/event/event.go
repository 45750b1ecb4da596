// Package event defines the detection event that leaves the detection core
// and the single-subscriber emitter that delivers it.
package event

import "fmt"

// Team identifies the side credited with a point.
type Team string

const (
	// TeamHome is the home side (right-hand zone in ball mode).
	TeamHome Team = "home"
	// TeamAway is the away side (left-hand zone in ball mode).
	TeamAway Team = "away"
)

// Valid reports whether t is one of the known teams.
func (t Team) Valid() bool {
	return t == TeamHome || t == TeamAway
}

// ParseTeam converts a string to a Team.
func ParseTeam(s string) (Team, error) {
	t := Team(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown team %q", s)
	}
	return t, nil
}

// DetectionEvent is the only artifact crossing the core boundary.
type DetectionEvent struct {
	Team Team `json:"team"`
}

// Handler receives the team of a detected point.
type Handler func(team Team)

// Emitter holds at most one handler. Registering a new handler replaces the
// previous one. Emit runs the handler synchronously on the caller's goroutine.
//
// Emitter is not safe for concurrent use; it is owned by one detector.
type Emitter struct {
	handler Handler
}

// OnEvent registers h as the handler. A nil h clears the registration.
func (e *Emitter) OnEvent(h Handler) {
	e.handler = h
}

// Emit delivers team to the registered handler, if any.
// It reports whether a handler was invoked.
func (e *Emitter) Emit(team Team) bool {
	if e.handler == nil {
		return false
	}
	e.handler(team)
	return true
}
