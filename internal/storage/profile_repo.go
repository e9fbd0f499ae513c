package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Insert(ctx context.Context, username, timezone string, createdAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (username, timezone, created_at) VALUES (?, ?, ?)
	`, username, timezone, createdAt)
	if err != nil {
		return 0, fmt.Errorf("profile insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("profile last insert id: %w", err)
	}
	return id, nil
}

func (r *ProfileRepo) Get(ctx context.Context, id int64) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, timezone, created_at FROM profiles WHERE id = ?
	`, id)
	return scanProfile(row)
}

func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, timezone, created_at FROM profiles WHERE username = ?
	`, username)
	return scanProfile(row)
}

func (r *ProfileRepo) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, timezone, created_at FROM profiles ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("profile list: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Timezone, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("profile scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile rows: %w", err)
	}
	return out, nil
}

func (r *ProfileRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("profile delete: %w", err)
	}
	return nil
}

// Active returns the active profile, or nil when none is set.
func (r *ProfileRepo) Active(ctx context.Context) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.username, p.timezone, p.created_at
		FROM app_state s
		JOIN profiles p ON p.id = s.active_profile_id
		WHERE s.id = 1
	`)
	return scanProfile(row)
}

func (r *ProfileRepo) SetActive(ctx context.Context, profileID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_state (id, active_profile_id) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET active_profile_id = excluded.active_profile_id
	`, profileID)
	if err != nil {
		return fmt.Errorf("set active profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) ClearActiveTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE app_state SET active_profile_id = NULL WHERE id = 1`); err != nil {
		return fmt.Errorf("clear active profile: %w", err)
	}
	return nil
}

func scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.Username, &p.Timezone, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile scan: %w", err)
	}
	return &p, nil
}
