package engine

import (
	"context"
	"time"

	"habitline/internal/storage"
)

// HabitStatus combines a stored habit with its derived streak state.
type HabitStatus struct {
	Habit  storage.Habit
	Rule   Rule
	Streak StreakResult
	Due    bool
}

// snapshot loads the active profile's habits and event histories as engine
// values.
func (s *Service) snapshot(ctx context.Context) (*storage.Profile, *time.Location, []storage.Habit, []HabitEvents, error) {
	p, loc, err := s.activeProfile(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	habits, err := s.habits.ListByProfile(ctx, p.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pairs := make([]HabitEvents, 0, len(habits))
	for i := range habits {
		events, err := s.events.ListByHabit(ctx, habits[i].ID)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		pairs = append(pairs, HabitEvents{Habit: toEngineHabit(&habits[i]), Events: events})
	}
	return p, loc, habits, pairs, nil
}

// HabitStatuses computes streak and due state for every habit of the active
// profile as of ref, in creation order.
func (s *Service) HabitStatuses(ctx context.Context, ref time.Time) ([]HabitStatus, error) {
	_, loc, habits, pairs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	due, err := DueHabits(pairs, ref, loc)
	if err != nil {
		return nil, err
	}
	dueIDs := make(map[int64]bool, len(due))
	for _, h := range due {
		dueIDs[h.ID] = true
	}

	out := make([]HabitStatus, 0, len(habits))
	for i := range pairs {
		streak, err := ComputeStreak(pairs[i].Habit, pairs[i].Events, ref, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, HabitStatus{
			Habit:  habits[i],
			Rule:   pairs[i].Habit.Rule,
			Streak: streak,
			Due:    dueIDs[pairs[i].Habit.ID],
		})
	}
	return out, nil
}

// DueToday lists the active profile's habits still due in the period
// containing ref.
func (s *Service) DueToday(ctx context.Context, ref time.Time) ([]storage.Habit, error) {
	_, loc, habits, pairs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	due, err := DueHabits(pairs, ref, loc)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]storage.Habit, len(habits))
	for i := range habits {
		byID[habits[i].ID] = habits[i]
	}
	out := make([]storage.Habit, 0, len(due))
	for _, h := range due {
		out = append(out, byID[h.ID])
	}
	return out, nil
}

// LongestOverall returns the best longest streak across the active profile's
// habits as of ref.
func (s *Service) LongestOverall(ctx context.Context, ref time.Time) (LongestStreak, error) {
	_, loc, _, pairs, err := s.snapshot(ctx)
	if err != nil {
		return LongestStreak{}, err
	}
	return LongestStreakOverall(pairs, ref, loc)
}

// LongestForHabit returns one habit's longest streak as of ref.
func (s *Service) LongestForHabit(ctx context.Context, habitID int64, ref time.Time) (int, error) {
	p, loc, err := s.activeProfile(ctx)
	if err != nil {
		return 0, err
	}
	h, err := s.habits.Get(ctx, habitID)
	if err != nil {
		return 0, err
	}
	if h == nil || h.ProfileID != p.ID {
		return 0, HabitNotFoundError{ID: habitID}
	}
	events, err := s.events.ListByHabit(ctx, h.ID)
	if err != nil {
		return 0, err
	}
	eh := toEngineHabit(h)
	return LongestStreakFor(eh, events, ref, loc)
}
