package store

import (
	"database/sql"
	"errors"
	"strconv"
	"time"
)

// Setting keys persisted by the application.
const (
	KeyZoneLeft          = "zones.left"
	KeyZoneRight         = "zones.right"
	KeySensitivity       = "ball.sensitivity"
	KeyBallDebounceMs    = "ball.debounce_ms"
	KeyGestureDebounceMs = "gesture.debounce_ms"
	KeyGesturePolicy     = "gesture.policy"
	KeyMode              = "mode"
)

// SettingsRepository reads and writes key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key, or ErrNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// GetFloat returns a float setting, or ErrNotFound.
func (r *SettingsRepository) GetFloat(key string) (float64, error) {
	v, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(v, 64)
}

// SetFloat stores a float setting.
func (r *SettingsRepository) SetFloat(key string, value float64) error {
	return r.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// SetMany stores several settings in one transaction.
func (r *SettingsRepository) SetMany(values map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for k, v := range values {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k, v, now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// All returns every stored setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Zones returns the persisted zone widths. ok is false when no calibration
// has been saved.
func (r *SettingsRepository) Zones() (left, right float64, ok bool, err error) {
	left, err = r.GetFloat(KeyZoneLeft)
	if errors.Is(err, ErrNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}

	right, err = r.GetFloat(KeyZoneRight)
	if errors.Is(err, ErrNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return left, right, true, nil
}

// SetZones persists both zone widths together.
func (r *SettingsRepository) SetZones(left, right float64) error {
	return r.SetMany(map[string]string{
		KeyZoneLeft:  strconv.FormatFloat(left, 'f', -1, 64),
		KeyZoneRight: strconv.FormatFloat(right, 'f', -1, 64),
	})
}
