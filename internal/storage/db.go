package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultDBPath returns the default Habitline DB location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".habitline.db"), nil
}

// ResolveDBPath picks the database path: HABITLINE_DB wins, then the
// configured path, then the default next to the home dir.
func ResolveDBPath(configured string) (string, error) {
	if env := os.Getenv("HABITLINE_DB"); env != "" {
		return env, nil
	}
	if configured != "" {
		return configured, nil
	}
	return DefaultDBPath()
}

// Open opens (creating if missing) the SQLite database at path and applies
// the schema migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Debug("database ready", "path", path)
	return db, nil
}
