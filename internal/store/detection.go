package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Detection is one emitted point.
type Detection struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Team      string    `json:"team"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DetectionRepository stores the detection log.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Create inserts d, assigning an ID and timestamp when they are unset.
func (r *DetectionRepository) Create(d *Detection) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO detections (id, mode, team, label, created_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Mode, d.Team, d.Label, d.CreatedAt,
	)
	return err
}

// GetByID retrieves a detection by its ID.
func (r *DetectionRepository) GetByID(id string) (*Detection, error) {
	d := &Detection{}
	err := r.db.QueryRow(
		`SELECT id, mode, team, label, created_at FROM detections WHERE id = ?`, id,
	).Scan(&d.ID, &d.Mode, &d.Team, &d.Label, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns the most recent detections, newest first. limit <= 0 returns
// all of them.
func (r *DetectionRepository) List(limit int) ([]*Detection, error) {
	query := `SELECT id, mode, team, label, created_at FROM detections ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []*Detection
	for rows.Next() {
		d := &Detection{}
		if err := rows.Scan(&d.ID, &d.Mode, &d.Team, &d.Label, &d.CreatedAt); err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return detections, nil
}

// CountByTeam returns how many points each team has in the log.
func (r *DetectionRepository) CountByTeam() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT team, COUNT(*) FROM detections GROUP BY team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var team string
		var n int
		if err := rows.Scan(&team, &n); err != nil {
			return nil, err
		}
		counts[team] = n
	}
	return counts, rows.Err()
}

// DeleteAll clears the log and returns the number of rows removed.
func (r *DetectionRepository) DeleteAll() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM detections`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
