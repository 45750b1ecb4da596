package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - key-value pairs, including the calibrated zones
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Detections table - every emitted point
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL CHECK(mode IN ('ball', 'gesture')),
			team TEXT NOT NULL CHECK(team IN ('home', 'away')),
			label TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		// Hook bindings table - which hooks receive which points
		`CREATE TABLE IF NOT EXISTS hook_bindings (
			id TEXT PRIMARY KEY,
			hook_name TEXT NOT NULL,
			team TEXT NOT NULL DEFAULT '' CHECK(team IN ('', 'home', 'away')),
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_detections_created_at ON detections(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_hook_bindings_hook_name ON hook_bindings(hook_name)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
