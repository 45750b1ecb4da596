// Package debounce provides the cooldown gate shared by the ball and gesture
// detectors.
package debounce

import "time"

// Default windows for the two detectors.
const (
	BallWindow    = 1000 * time.Millisecond
	GestureWindow = 3000 * time.Millisecond
)

// Debouncer suppresses emissions that arrive within window of the last
// accepted one. Suppressed candidates are dropped, never deferred.
type Debouncer struct {
	window time.Duration
	last   time.Time
	fired  bool
}

// New creates a Debouncer with the given window.
func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Allow reports whether an emission at now may pass. When it returns true the
// emission time is recorded; when it returns false nothing changes.
func (d *Debouncer) Allow(now time.Time) bool {
	if d.Suppressed(now) {
		return false
	}
	d.last = now
	d.fired = true
	return true
}

// Suppressed reports whether an emission at now would be dropped, without
// recording anything.
func (d *Debouncer) Suppressed(now time.Time) bool {
	return d.fired && now.Sub(d.last) < d.window
}

// Window returns the configured cooldown.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// SetWindow changes the cooldown. The last emission time is kept.
func (d *Debouncer) SetWindow(window time.Duration) {
	d.window = window
}

// LastEmission returns the time of the last accepted emission and whether
// there has been one.
func (d *Debouncer) LastEmission() (time.Time, bool) {
	return d.last, d.fired
}

// Reset forgets the last emission.
func (d *Debouncer) Reset() {
	d.last = time.Time{}
	d.fired = false
}
