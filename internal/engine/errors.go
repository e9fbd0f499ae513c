package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyHabitName  = errors.New("habit name is required")
	ErrNoActiveProfile = errors.New("no active profile; run 'hb profile switch <name>' first")
)

// InvalidPeriodicityError is returned for a custom rule with a non-positive
// day interval.
type InvalidPeriodicityError struct {
	IntervalDays int
}

func (e InvalidPeriodicityError) Error() string {
	return fmt.Sprintf("custom periodicity requires an interval of at least 1 day (got %d)", e.IntervalDays)
}

// OutOfOrderEventError is returned when an event predates its habit's
// creation instant. Such events would corrupt period indexing, so the engine
// rejects them instead of silently including them.
type OutOfOrderEventError struct {
	HabitID   int64
	EventAt   time.Time
	CreatedAt time.Time
}

func (e OutOfOrderEventError) Error() string {
	return fmt.Sprintf("event at %s predates habit %d creation (%s)",
		e.EventAt.Format(time.RFC3339), e.HabitID, e.CreatedAt.Format(time.RFC3339))
}

type DuplicateHabitNameError struct {
	Name string
}

func (e DuplicateHabitNameError) Error() string {
	return fmt.Sprintf("habit %q already exists for this profile", e.Name)
}

type HabitNotFoundError struct {
	ID   int64
	Name string
}

func (e HabitNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("habit %q not found", e.Name)
	}
	return fmt.Sprintf("habit %d not found", e.ID)
}

// AlreadyLoggedError is returned when a positive habit already has a
// completion in the period the new completion falls into.
type AlreadyLoggedError struct {
	HabitID int64
	Period  Period
}

func (e AlreadyLoggedError) Error() string {
	return fmt.Sprintf("habit %d is already completed for the period starting %s",
		e.HabitID, e.Period.Start.Format(time.RFC3339))
}

type ProfileAlreadyExistsError struct {
	Username string
}

func (e ProfileAlreadyExistsError) Error() string {
	return fmt.Sprintf("profile %q already exists", e.Username)
}

type ProfileNotFoundError struct {
	Username string
}

func (e ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile %q not found", e.Username)
}
