package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Binding routes points to a hook. An empty Team matches both teams.
type Binding struct {
	ID        string          `json:"id"`
	HookName  string          `json:"hook_name"`
	Team      string          `json:"team"`
	Config    json.RawMessage `json:"config"`
	Enabled   bool            `json:"enabled"`
	CreatedAt time.Time       `json:"created_at"`
}

// Matches reports whether the binding applies to a point for team.
func (b *Binding) Matches(team string) bool {
	return b.Enabled && (b.Team == "" || b.Team == team)
}

// BindingRepository provides CRUD operations for hook bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts a new binding, assigning an ID when unset.
func (r *BindingRepository) Create(b *Binding) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()

	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO hook_bindings (id, hook_name, team, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.HookName, b.Team, string(config), b.Enabled, b.CreatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	row := r.db.QueryRow(
		`SELECT id, hook_name, team, config, enabled, created_at
		 FROM hook_bindings WHERE id = ?`,
		id,
	)

	b, err := scanBinding(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// List retrieves all bindings, oldest first.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, hook_name, team, config, enabled, created_at
		 FROM hook_bindings ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bindings, nil
}

// Update updates an existing binding.
func (r *BindingRepository) Update(b *Binding) error {
	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	result, err := r.db.Exec(
		`UPDATE hook_bindings SET hook_name = ?, team = ?, config = ?, enabled = ? WHERE id = ?`,
		b.HookName, b.Team, string(config), b.Enabled, b.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM hook_bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBinding(s scanner) (*Binding, error) {
	b := &Binding{}
	var config string
	var enabled int

	if err := s.Scan(&b.ID, &b.HookName, &b.Team, &config, &enabled, &b.CreatedAt); err != nil {
		return nil, err
	}

	b.Config = json.RawMessage(config)
	b.Enabled = enabled != 0
	return b, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
