package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type MilestoneRepo struct {
	db *sql.DB
}

func NewMilestoneRepo(db *sql.DB) *MilestoneRepo {
	return &MilestoneRepo{db: db}
}

// ClaimedTargets returns the streak targets already awarded for a habit.
func (r *MilestoneRepo) ClaimedTargets(ctx context.Context, habitID int64) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT target FROM milestone_claims WHERE habit_id = ?
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("milestone claimed: %w", err)
	}
	defer rows.Close()

	out := map[int]bool{}
	for rows.Next() {
		var target int
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("milestone scan: %w", err)
		}
		out[target] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("milestone rows: %w", err)
	}
	return out, nil
}

func (r *MilestoneRepo) InsertClaimTx(ctx context.Context, tx *sql.Tx, habitID int64, target int, claimedAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO milestone_claims (habit_id, target, claimed_at) VALUES (?, ?, ?)
	`, habitID, target, claimedAt)
	if err != nil {
		return fmt.Errorf("milestone claim insert: %w", err)
	}
	return nil
}

// CountClaims counts milestone awards across the profile's habits.
func (r *MilestoneRepo) CountClaims(ctx context.Context, profileID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM milestone_claims c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.profile_id = ?
	`, profileID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("milestone count: %w", err)
	}
	return n, nil
}

func (r *MilestoneRepo) DeleteByHabitTx(ctx context.Context, tx *sql.Tx, habitID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM milestone_claims WHERE habit_id = ?`, habitID); err != nil {
		return fmt.Errorf("milestone delete by habit: %w", err)
	}
	return nil
}
