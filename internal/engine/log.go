package engine

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"habitline/internal/storage"
)

// LogResult reports what a logged event changed.
type LogResult struct {
	HabitID       int64
	HabitName     string
	Polarity      Polarity
	XPAwarded     int
	NewMilestones []MilestoneKey
	Streak        StreakResult
	LevelBefore   int
	LevelAfter    int
	LevelUp       bool
}

// LogEvent appends a completion (positive habit) or infraction (negative
// habit) and settles its consequences: the streak is recomputed, newly earned
// milestones are claimed atomically with the event, and XP/level deltas are
// reported. Positive habits accept at most one completion per period.
func (s *Service) LogEvent(ctx context.Context, habitID int64, when time.Time) (*LogResult, error) {
	p, loc, err := s.activeProfile(ctx)
	if err != nil {
		return nil, err
	}
	h, err := s.habits.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if h == nil || h.ProfileID != p.ID {
		return nil, HabitNotFoundError{ID: habitID}
	}
	eh := toEngineHabit(h)

	if when.IsZero() {
		when = time.Now()
	}
	when = when.UTC()
	if when.Before(h.CreatedAt) {
		return nil, OutOfOrderEventError{HabitID: h.ID, EventAt: when, CreatedAt: h.CreatedAt}
	}

	events, err := s.events.ListByHabit(ctx, h.ID)
	if err != nil {
		return nil, err
	}

	if eh.Polarity == PolarityPositive {
		period, err := CurrentPeriod(eh.Rule, when, eh.CreatedAt, loc)
		if err != nil {
			return nil, err
		}
		for _, at := range events {
			if period.Contains(at) {
				return nil, AlreadyLoggedError{HabitID: h.ID, Period: period}
			}
		}
	}

	totalBefore, err := s.totalXP(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	levelBefore := s.policy.Curve.LevelForTotalXP(totalBefore)

	streak, err := ComputeStreak(eh, append(append([]time.Time{}, events...), when), when, loc)
	if err != nil {
		return nil, err
	}

	claimedTargets, err := s.milestones.ClaimedTargets(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	claimed := make(map[MilestoneKey]bool, len(claimedTargets))
	for target := range claimedTargets {
		claimed[MilestoneKey{HabitID: h.ID, Target: target}] = true
	}
	newKeys := EvaluateMilestones(eh, streak, s.milestoneDefs(), claimed)

	// The event and its milestone claims land in one transaction: the claim
	// must be durable before the next evaluation or bonuses double-award.
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.events.InsertTx(ctx, tx, h.ID, when); err != nil {
			return err
		}
		for _, key := range newKeys {
			if err := s.milestones.InsertClaimTx(ctx, tx, key.HabitID, key.Target, when); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	totalAfter, err := s.totalXP(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	levelAfter := s.policy.Curve.LevelForTotalXP(totalAfter)

	res := &LogResult{
		HabitID:       h.ID,
		HabitName:     h.Name,
		Polarity:      eh.Polarity,
		XPAwarded:     totalAfter - totalBefore,
		NewMilestones: newKeys,
		Streak:        streak,
		LevelBefore:   levelBefore,
		LevelAfter:    levelAfter,
		LevelUp:       levelAfter > levelBefore,
	}
	slog.Debug("event logged",
		"habit", h.Name, "polarity", h.Polarity, "xp", res.XPAwarded,
		"streak", streak.Current, "milestones", len(newKeys))
	return res, nil
}

// Progress is the active profile's gamification summary, recomputed from
// event and claim counts on every call.
type Progress struct {
	Completions int
	Milestones  int
	TotalXP     int
	Level       int
	IntoLevel   int
	ToNext      int
}

func (s *Service) Progress(ctx context.Context) (*Progress, error) {
	p, _, err := s.activeProfile(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.events.CountCompletions(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	claims, err := s.milestones.CountClaims(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	total := XPTotal(completions, claims)
	level, into, toNext := s.policy.Curve.LevelProgress(total)
	return &Progress{
		Completions: completions,
		Milestones:  claims,
		TotalXP:     total,
		Level:       level,
		IntoLevel:   into,
		ToNext:      toNext,
	}, nil
}

func (s *Service) totalXP(ctx context.Context, profileID int64) (int, error) {
	completions, err := s.events.CountCompletions(ctx, profileID)
	if err != nil {
		return 0, err
	}
	claims, err := s.milestones.CountClaims(ctx, profileID)
	if err != nil {
		return 0, err
	}
	return XPTotal(completions, claims), nil
}
