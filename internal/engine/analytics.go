package engine

import "time"

// Pure aggregation over habit snapshots. None of these mutate their inputs.

// ListHabits returns a copy of habits in input order (creation order, as
// supplied by the persistence layer).
func ListHabits(habits []Habit) []Habit {
	out := make([]Habit, len(habits))
	copy(out, habits)
	return out
}

// FilterByPeriodicity returns the habits whose rule kind matches, preserving
// relative order.
func FilterByPeriodicity(habits []Habit, kind RuleKind) []Habit {
	var out []Habit
	for _, h := range habits {
		if h.Rule.Kind == kind {
			out = append(out, h)
		}
	}
	return out
}

// LongestStreak is the best streak found across a habit collection.
type LongestStreak struct {
	HabitID   int64
	HabitName string
	Length    int
}

// LongestStreakFor returns the habit's longest streak as of ref.
func LongestStreakFor(h Habit, events []time.Time, ref time.Time, loc *time.Location) (int, error) {
	res, err := ComputeStreak(h, events, ref, loc)
	if err != nil {
		return 0, err
	}
	return res.Longest, nil
}

// LongestStreakOverall returns the best longest streak across all habits.
// Ties go to the habit created earliest, then to the lowest habit id. An
// empty collection yields the zero value.
func LongestStreakOverall(pairs []HabitEvents, ref time.Time, loc *time.Location) (LongestStreak, error) {
	var best LongestStreak
	var bestHabit *Habit
	for i := range pairs {
		h := pairs[i].Habit
		length, err := LongestStreakFor(h, pairs[i].Events, ref, loc)
		if err != nil {
			return LongestStreak{}, err
		}
		switch {
		case bestHabit == nil && length > 0,
			bestHabit != nil && length > best.Length:
			hh := h
			bestHabit = &hh
			best = LongestStreak{HabitID: h.ID, HabitName: h.Name, Length: length}
		case bestHabit != nil && length == best.Length:
			if h.CreatedAt.Before(bestHabit.CreatedAt) ||
				(h.CreatedAt.Equal(bestHabit.CreatedAt) && h.ID < bestHabit.ID) {
				hh := h
				bestHabit = &hh
				best = LongestStreak{HabitID: h.ID, HabitName: h.Name, Length: length}
			}
		}
	}
	return best, nil
}

// DueHabits returns the positive habits whose current period has no
// completion yet, preserving input order. Negative habits are never due:
// there is nothing to log while staying clean.
func DueHabits(pairs []HabitEvents, ref time.Time, loc *time.Location) ([]Habit, error) {
	var due []Habit
	for i := range pairs {
		h := pairs[i].Habit
		if h.Polarity != PolarityPositive {
			continue
		}
		last := latestEventAtOrBefore(pairs[i].Events, ref)
		isDue, err := IsDue(h.Rule, ref, last, h.CreatedAt, loc)
		if err != nil {
			return nil, err
		}
		if isDue {
			due = append(due, h)
		}
	}
	return due, nil
}

func latestEventAtOrBefore(events []time.Time, ref time.Time) *time.Time {
	var last *time.Time
	for i := range events {
		if events[i].After(ref) {
			continue
		}
		if last == nil || events[i].After(*last) {
			last = &events[i]
		}
	}
	return last
}
