package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type HabitRepo struct {
	db *sql.DB
}

func NewHabitRepo(db *sql.DB) *HabitRepo {
	return &HabitRepo{db: db}
}

type HabitInsert struct {
	ProfileID    int64
	Name         string
	Polarity     string
	Periodicity  string
	IntervalDays int
	CreatedAt    time.Time
}

func (r *HabitRepo) Insert(ctx context.Context, in HabitInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (profile_id, name, polarity, periodicity, interval_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.ProfileID, in.Name, in.Polarity, in.Periodicity, in.IntervalDays, in.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("habit insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("habit last insert id: %w", err)
	}
	return id, nil
}

func (r *HabitRepo) Get(ctx context.Context, id int64) (*Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, profile_id, name, polarity, periodicity, interval_days, created_at
		FROM habits WHERE id = ?
	`, id)
	return scanHabitRow(row)
}

func (r *HabitRepo) GetByName(ctx context.Context, profileID int64, name string) (*Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, profile_id, name, polarity, periodicity, interval_days, created_at
		FROM habits WHERE profile_id = ? AND name = ?
	`, profileID, name)
	return scanHabitRow(row)
}

// ListByProfile returns the profile's habits in creation order.
func (r *HabitRepo) ListByProfile(ctx context.Context, profileID int64) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profile_id, name, polarity, periodicity, interval_days, created_at
		FROM habits
		WHERE profile_id = ?
		ORDER BY created_at ASC, id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("habit list: %w", err)
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		var h Habit
		if err := rows.Scan(&h.ID, &h.ProfileID, &h.Name, &h.Polarity, &h.Periodicity, &h.IntervalDays, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("habit scan: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("habit rows: %w", err)
	}
	return out, nil
}

func (r *HabitRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id); err != nil {
		return fmt.Errorf("habit delete: %w", err)
	}
	return nil
}

func scanHabitRow(row *sql.Row) (*Habit, error) {
	var h Habit
	if err := row.Scan(&h.ID, &h.ProfileID, &h.Name, &h.Polarity, &h.Periodicity, &h.IntervalDays, &h.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("habit scan: %w", err)
	}
	return &h, nil
}
