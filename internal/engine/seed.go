package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type SeedResult struct {
	HabitsCreated int
	EventsLogged  int
}

type seedHabit struct {
	name     string
	polarity Polarity
	rule     Rule
	// dayOffsets lists the day offsets (from the seed start) that get an
	// event. Gaps are deliberate so the fixtures show broken streaks.
	dayOffsets []int
}

// seedFixtures spans four weeks of predefined history: daily and weekly
// habits with a few missed periods, a custom-interval habit and a negative
// habit with two slips.
var seedFixtures = []seedHabit{
	{
		name: "Read 20 pages", polarity: PolarityPositive, rule: Daily(),
		dayOffsets: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 23, 24, 25, 26, 27},
	},
	{
		name: "Morning run", polarity: PolarityPositive, rule: Daily(),
		dayOffsets: []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26},
	},
	{
		name: "Clean apartment", polarity: PolarityPositive, rule: Weekly(),
		dayOffsets: []int{2, 9, 16, 23},
	},
	{
		name: "Call parents", polarity: PolarityPositive, rule: Weekly(),
		dayOffsets: []int{5, 19, 26},
	},
	{
		name: "Water plants", polarity: PolarityPositive, rule: EveryNDays(3),
		dayOffsets: []int{0, 3, 6, 9, 12, 18, 21, 24, 27},
	},
	{
		name: "No sugar", polarity: PolarityNegative, rule: Weekly(),
		dayOffsets: []int{11, 12},
	},
}

// Seed loads four weeks of fixture habits and events for the active profile.
// It refuses to run on a profile that already has habits.
func (s *Service) Seed(ctx context.Context, now time.Time) (*SeedResult, error) {
	existing, err := s.Habits(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errors.New("profile already has habits; seed needs a fresh profile")
	}

	if now.IsZero() {
		now = time.Now()
	}
	start := now.AddDate(0, 0, -28)

	res := &SeedResult{}
	for _, fixture := range seedFixtures {
		h, err := s.CreateHabit(ctx, CreateHabitInput{
			Name:      fixture.name,
			Polarity:  fixture.polarity,
			Rule:      fixture.rule,
			CreatedAt: start,
		})
		if err != nil {
			return nil, err
		}
		res.HabitsCreated++

		for _, offset := range fixture.dayOffsets {
			at := start.AddDate(0, 0, offset).Add(9 * time.Hour)
			if at.After(now) {
				continue
			}
			if _, err := s.LogEvent(ctx, h.ID, at); err != nil {
				return nil, err
			}
			res.EventsLogged++
		}
	}
	slog.Debug("seed loaded", "habits", res.HabitsCreated, "events", res.EventsLogged)
	return res, nil
}
