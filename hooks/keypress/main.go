// Package main is a hook that presses a key for every point, so scoreboard
// apps with keyboard shortcuts can be driven without integration work.
//
// Config: {"home": {"key": "]"}, "away": {"key": "[", "modifiers": ["shift"]}}
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request is the point notification read from stdin.
type Request struct {
	Event  string          `json:"event"`
	Team   string          `json:"team"`
	Mode   string          `json:"mode"`
	Config json.RawMessage `json:"config"`
}

// Response is written to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Keystroke is one key with optional modifiers (command, option, control, shift).
type Keystroke struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
}

var defaultKeys = map[string]Keystroke{
	"home": {Key: "]"},
	"away": {Key: "["},
}

var appleModifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

var xdotoolModifiers = map[string]string{
	"command": "super",
	"cmd":     "super",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	if req.Event != "point" {
		writeResponse(nil)
		return
	}

	keys := defaultKeys
	if len(req.Config) > 0 && string(req.Config) != "{}" {
		keys = map[string]Keystroke{}
		if err := json.Unmarshal(req.Config, &keys); err != nil {
			writeResponse(fmt.Errorf("failed to parse config: %w", err))
			return
		}
	}

	ks, ok := keys[req.Team]
	if !ok || ks.Key == "" {
		writeResponse(fmt.Errorf("no key configured for team %q", req.Team))
		return
	}

	writeResponse(press(ks))
}

func press(ks Keystroke) error {
	switch runtime.GOOS {
	case "darwin":
		return run("osascript", "-e", appleScript(ks))
	case "linux":
		return run("xdotool", "key", xdotoolChord(ks))
	default:
		return fmt.Errorf("keypress hook does not support %s", runtime.GOOS)
	}
}

func appleScript(ks Keystroke) string {
	var mods []string
	for _, m := range ks.Modifiers {
		if am, ok := appleModifiers[strings.ToLower(m)]; ok {
			mods = append(mods, am)
		}
	}

	if len(mods) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, ks.Key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`, ks.Key, strings.Join(mods, ", "))
}

func xdotoolChord(ks Keystroke) string {
	parts := make([]string, 0, len(ks.Modifiers)+1)
	for _, m := range ks.Modifiers {
		if xm, ok := xdotoolModifiers[strings.ToLower(m)]; ok {
			parts = append(parts, xm)
		}
	}
	return strings.Join(append(parts, ks.Key), "+")
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
