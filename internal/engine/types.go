package engine

import "time"

type Polarity string

const (
	// PolarityPositive habits log completions; the streak counts periods
	// with at least one completion.
	PolarityPositive Polarity = "positive"
	// PolarityNegative habits log infractions; the streak counts clean periods.
	PolarityNegative Polarity = "negative"
)

func (p Polarity) IsValid() bool {
	switch p {
	case PolarityPositive, PolarityNegative:
		return true
	default:
		return false
	}
}

// Habit is the immutable habit record the engine computes over. The engine
// never owns it persistently; callers pass snapshots.
type Habit struct {
	ID        int64
	Name      string
	Polarity  Polarity
	Rule      Rule
	CreatedAt time.Time
}

// HabitEvents pairs a habit with its ordered event timestamps for the
// aggregate analytics functions.
type HabitEvents struct {
	Habit  Habit
	Events []time.Time
}
