// Package config loads pingpoint settings from a YAML file, an optional .env
// file and PINGPOINT_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/pingpoint/internal/ball"
	"github.com/ayusman/pingpoint/internal/capture"
	"github.com/ayusman/pingpoint/internal/debounce"
	"github.com/ayusman/pingpoint/internal/detector"
	"github.com/ayusman/pingpoint/internal/event"
	"github.com/ayusman/pingpoint/internal/gesture"
)

// Mode selects the detection strategy.
type Mode string

const (
	ModeBall    Mode = "ball"
	ModeGesture Mode = "gesture"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeBall, ModeGesture:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Config is the complete application configuration.
type Config struct {
	Mode    Mode           `yaml:"mode"`
	Addr    string         `yaml:"addr"`
	DataDir string         `yaml:"data_dir"`
	Tray    bool           `yaml:"tray"`
	Camera  capture.Config `yaml:"camera"`
	Motion  MotionConfig   `yaml:"motion"`
	Ball    BallConfig     `yaml:"ball"`
	Gesture GestureConfig  `yaml:"gesture"`
	Hooks   HooksConfig    `yaml:"hooks"`
}

// MotionConfig controls idle/active cadence switching.
type MotionConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"` // percent of changed pixels
}

// BallConfig holds the ball tracker settings.
type BallConfig struct {
	Sensitivity float64    `yaml:"sensitivity"`
	DebounceMs  int        `yaml:"debounce_ms"`
	Zones       ball.Zones `yaml:"zones"`
	ShowZones   bool       `yaml:"show_zones"`
}

// GestureConfig holds the gesture recognizer settings.
type GestureConfig struct {
	Policy     gesture.Policy    `yaml:"policy"`
	DebounceMs int               `yaml:"debounce_ms"`
	Teams      map[string]string `yaml:"teams"` // label -> team
	Detector   detector.Config   `yaml:"detector"`
}

// HooksConfig locates external hooks.
type HooksConfig struct {
	Dir       string `yaml:"dir"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	dataDir := ".pingpoint"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".pingpoint")
	}

	return &Config{
		Mode:    ModeBall,
		Addr:    "127.0.0.1:8765",
		DataDir: dataDir,
		Camera:  capture.DefaultConfig(),
		Motion: MotionConfig{
			Enabled:   true,
			Threshold: capture.DefaultMotionThreshold,
		},
		Ball: BallConfig{
			Sensitivity: ball.DefaultSensitivity,
			DebounceMs:  int(debounce.BallWindow / time.Millisecond),
			Zones:       ball.DefaultZones(),
		},
		Gesture: GestureConfig{
			Policy:     gesture.PolicyPoseShape,
			DebounceMs: int(debounce.GestureWindow / time.Millisecond),
			Teams:      teamStrings(gesture.DefaultTeams()),
			Detector:   detector.DefaultConfig(),
		},
		Hooks: HooksConfig{
			Dir:       filepath.Join(dataDir, "hooks"),
			TimeoutMs: 5000,
		},
	}
}

func teamStrings(m map[gesture.Label]event.Team) map[string]string {
	out := make(map[string]string, len(m))
	for l, t := range m {
		out[string(l)] = string(t)
	}
	return out
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads .env style files (missing files are ignored) into the process
// environment and then applies PINGPOINT_* overrides to cfg.
func LoadEnv(cfg *Config, files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	var mode, policy string
	str("PINGPOINT_MODE", &mode)
	if mode != "" {
		cfg.Mode = Mode(mode)
	}
	str("PINGPOINT_GESTURE_POLICY", &policy)
	if policy != "" {
		cfg.Gesture.Policy = gesture.Policy(policy)
	}
	str("PINGPOINT_ADDR", &cfg.Addr)
	str("PINGPOINT_DATA_DIR", &cfg.DataDir)
	str("PINGPOINT_HOOK_DIR", &cfg.Hooks.Dir)

	if v, ok := lookup("PINGPOINT_CAMERA_DEVICE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PINGPOINT_CAMERA_DEVICE: %w", err)
		}
		cfg.Camera.DeviceID = n
	}
	if v, ok := lookup("PINGPOINT_SENSITIVITY"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PINGPOINT_SENSITIVITY: %w", err)
		}
		cfg.Ball.Sensitivity = f
	}
	if v, ok := lookup("PINGPOINT_TRAY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PINGPOINT_TRAY: %w", err)
		}
		cfg.Tray = b
	}
	return nil
}

// Validate checks values that would make detection misbehave. Zone widths
// are accepted as given, including overlapping or negative bands.
func Validate(cfg *Config) error {
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return err
	}
	if cfg.Ball.Sensitivity < 0 || cfg.Ball.Sensitivity > 1 {
		return fmt.Errorf("ball.sensitivity must be within [0,1], got %v", cfg.Ball.Sensitivity)
	}
	if cfg.Ball.DebounceMs < 0 {
		return fmt.Errorf("ball.debounce_ms must not be negative")
	}
	if cfg.Gesture.DebounceMs < 0 {
		return fmt.Errorf("gesture.debounce_ms must not be negative")
	}
	if _, err := gesture.ParsePolicy(string(cfg.Gesture.Policy)); err != nil {
		return err
	}
	if _, err := cfg.GestureTeams(); err != nil {
		return err
	}
	if cfg.Motion.Threshold < 0 {
		return fmt.Errorf("motion.threshold must not be negative")
	}
	if cfg.Hooks.TimeoutMs < 0 {
		return fmt.Errorf("hooks.timeout_ms must not be negative")
	}
	return nil
}

// GestureTeams returns the typed label to team mapping.
func (c *Config) GestureTeams() (map[gesture.Label]event.Team, error) {
	out := make(map[gesture.Label]event.Team, len(c.Gesture.Teams))
	for l, t := range c.Gesture.Teams {
		label, err := gesture.ParseLabel(l)
		if err != nil {
			return nil, fmt.Errorf("gesture.teams: %w", err)
		}
		team, err := event.ParseTeam(t)
		if err != nil {
			return nil, fmt.Errorf("gesture.teams[%s]: %w", l, err)
		}
		out[label] = team
	}
	return out, nil
}

// BallDebounce returns the ball debounce window.
func (c *Config) BallDebounce() time.Duration {
	return time.Duration(c.Ball.DebounceMs) * time.Millisecond
}

// GestureDebounce returns the gesture debounce window.
func (c *Config) GestureDebounce() time.Duration {
	return time.Duration(c.Gesture.DebounceMs) * time.Millisecond
}

// HookTimeout returns the per-hook execution limit.
func (c *Config) HookTimeout() time.Duration {
	return time.Duration(c.Hooks.TimeoutMs) * time.Millisecond
}

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "pingpoint.db")
}
