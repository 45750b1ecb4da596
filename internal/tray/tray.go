// Package tray provides a system tray menu for pingpoint: a detection toggle,
// the last point and a running score.
package tray

import (
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/ayusman/pingpoint/internal/app"
	"github.com/ayusman/pingpoint/internal/event"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onReset    func()
	onQuit     func()
	enabled    bool
	last       *app.Point
	score      map[event.Team]int
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastPoint *systray.MenuItem
	menuScore     *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		score:   make(map[event.Team]int),
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnReset sets the callback run after the score is reset from the menu.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Pingpoint")
	systray.SetTooltip("Pingpoint point detection")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle point detection")
	systray.AddSeparator()

	t.menuLastPoint = systray.AddMenuItem(lastPointTitle(t.last), "Last detected point")
	t.menuLastPoint.Disable()
	t.menuScore = systray.AddMenuItem(scoreTitle(t.score), "Points this session")
	t.menuScore.Disable()
	t.mu.Unlock()

	menuReset := systray.AddMenuItem("Reset Score", "Reset the score")
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Pingpoint")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// Quit ends Run without calling the quit callback.
func (t *Tray) Quit() {
	systray.Quit()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Detecting"
	}
	return "○ Paused"
}

func lastPointTitle(p *app.Point) string {
	if p == nil {
		return "Last: none"
	}
	title := fmt.Sprintf("Last: %s (%s", p.Team, p.Mode)
	if p.Label != "" {
		title += ", " + p.Label
	}
	return title + ") at " + p.Time.Format(time.Kitchen)
}

func scoreTitle(score map[event.Team]int) string {
	return fmt.Sprintf("Home %d : %d Away", score[event.TeamHome], score[event.TeamAway])
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleReset() {
	t.mu.Lock()
	t.score = make(map[event.Team]int)
	if t.menuScore != nil {
		t.menuScore.SetTitle(scoreTitle(t.score))
	}
	callback := t.onReset
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastPoint records p, counts it towards the score and updates the menu.
// It has the app.Subscriber signature.
func (t *Tray) SetLastPoint(p app.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = &p
	t.score[p.Team]++

	if t.menuLastPoint != nil {
		t.menuLastPoint.SetTitle(lastPointTitle(t.last))
	}
	if t.menuScore != nil {
		t.menuScore.SetTitle(scoreTitle(t.score))
	}
}

// Score returns the points counted for team since start or the last reset.
func (t *Tray) Score(team event.Team) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.score[team]
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
