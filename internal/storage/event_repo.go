package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) InsertTx(ctx context.Context, tx *sql.Tx, habitID int64, loggedAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO events (habit_id, logged_at) VALUES (?, ?)
	`, habitID, loggedAt)
	if err != nil {
		return 0, fmt.Errorf("event insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("event last insert id: %w", err)
	}
	return id, nil
}

// ListByHabit returns the habit's event timestamps in ascending order.
func (r *EventRepo) ListByHabit(ctx context.Context, habitID int64) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT logged_at FROM events WHERE habit_id = ? ORDER BY logged_at ASC, id ASC
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("event list: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, fmt.Errorf("event scan: %w", err)
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event rows: %w", err)
	}
	return out, nil
}

// CountCompletions counts events of the profile's positive habits. Negative
// habits' events are infractions and never earn XP.
func (r *EventRepo) CountCompletions(ctx context.Context, profileID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM events e
		JOIN habits h ON h.id = e.habit_id
		WHERE h.profile_id = ? AND h.polarity = 'positive'
	`, profileID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count: %w", err)
	}
	return n, nil
}

func (r *EventRepo) DeleteByHabitTx(ctx context.Context, tx *sql.Tx, habitID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE habit_id = ?`, habitID); err != nil {
		return fmt.Errorf("event delete by habit: %w", err)
	}
	return nil
}
