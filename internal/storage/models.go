package storage

import "time"

type Profile struct {
	ID        int64
	Username  string
	Timezone  string
	CreatedAt time.Time
}

type Habit struct {
	ID           int64
	ProfileID    int64
	Name         string
	Polarity     string
	Periodicity  string
	IntervalDays int
	CreatedAt    time.Time
}

type Event struct {
	ID       int64
	HabitID  int64
	LoggedAt time.Time
}

type MilestoneClaim struct {
	HabitID   int64
	Target    int
	ClaimedAt time.Time
}
