package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			created_at DATETIME NOT NULL
		);`,
		// Single-row pointer at the active profile.
		`CREATE TABLE IF NOT EXISTS app_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			active_profile_id INTEGER NULL REFERENCES profiles(id)
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id INTEGER NOT NULL REFERENCES profiles(id),
			name TEXT NOT NULL,
			polarity TEXT NOT NULL DEFAULT 'positive',
			periodicity TEXT NOT NULL,
			interval_days INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			UNIQUE(profile_id, name)
		);`,
		// Append-only; rows only disappear when their habit is deleted.
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			habit_id INTEGER NOT NULL REFERENCES habits(id),
			logged_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS milestone_claims (
			habit_id INTEGER NOT NULL REFERENCES habits(id),
			target INTEGER NOT NULL,
			claimed_at DATETIME NOT NULL,
			PRIMARY KEY (habit_id, target)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_profile_id ON habits(profile_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_habit_id_logged_at ON events(habit_id, logged_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
