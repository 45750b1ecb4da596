// Package hook discovers and runs external executables that are told about
// every scored point.
package hook

import (
	"encoding/json"
	"time"
)

// ManifestFile is the name of the manifest every hook directory carries.
const ManifestFile = "hook.json"

// EventPoint is the only event hooks currently receive.
const EventPoint = "point"

// Manifest describes a hook and the events it wants.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Wants reports whether the hook subscribes to event. A manifest without
// events subscribes to everything.
func (m Manifest) Wants(event string) bool {
	if len(m.Events) == 0 {
		return true
	}
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Request is written to the hook's stdin as one JSON document.
type Request struct {
	Event     string          `json:"event"`
	Team      string          `json:"team"`
	Mode      string          `json:"mode"`
	Label     string          `json:"label,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is read from the hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}
