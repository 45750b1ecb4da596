// Package main is a hook that speaks every point aloud.
//
// Config: {"home": "Point home", "away": "Point away", "voice": "Samantha"}
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
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

// Config overrides the spoken phrases.
type Config struct {
	Home  string `json:"home"`
	Away  string `json:"away"`
	Voice string `json:"voice"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg := Config{Home: "Point home", Away: "Point away"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	var phrase string
	switch req.Team {
	case "home":
		phrase = cfg.Home
	case "away":
		phrase = cfg.Away
	default:
		writeErrorResponse(fmt.Sprintf("unknown team: %s", req.Team))
		return
	}

	if err := speak(phrase, cfg.Voice); err != nil {
		writeErrorResponse(fmt.Sprintf("speak failed: %v", err))
		return
	}

	data, _ := json.Marshal(map[string]string{"spoken": phrase})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

func speak(phrase, voice string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		args := []string{phrase}
		if voice != "" {
			args = append([]string{"-v", voice}, args...)
		}
		cmd = exec.Command("say", args...)
	case "linux":
		cmd = exec.Command("spd-say", "--wait", phrase)
	default:
		return fmt.Errorf("announce hook does not support %s", runtime.GOOS)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}
