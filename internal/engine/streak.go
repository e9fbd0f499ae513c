package engine

import "time"

// StreakResult is the derived streak state for one habit at a reference
// instant.
//
// Current is the trailing run of qualifying periods ending at the period
// containing the reference instant. For positive habits an open period
// without a completion yields 0: the streak is only held by completing the
// current period. Negative habits cannot fail a period by inaction, so their
// open period counts as clean until an infraction lands in it.
//
// LastPeriodSatisfied reports whether the most recently closed period met the
// habit's requirement (the current period, when none has closed yet).
type StreakResult struct {
	Current             int
	Longest             int
	LastPeriodSatisfied bool
}

// ComputeStreak partitions events into periods and computes streak metrics
// over the habit's whole span, from creation to ref. Pure: identical inputs
// yield identical results. Runs in O(events + periods).
func ComputeStreak(h Habit, events []time.Time, ref time.Time, loc *time.Location) (StreakResult, error) {
	if err := h.Rule.Validate(); err != nil {
		return StreakResult{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	anchor := h.CreatedAt
	firstIdx := periodIndex(h.Rule, h.CreatedAt, anchor, loc)
	refIdx := periodIndex(h.Rule, ref, anchor, loc)
	if refIdx < firstIdx {
		// Reference predates the habit: no periods exist yet.
		return StreakResult{}, nil
	}

	counts := make(map[int64]int, len(events))
	for _, at := range events {
		if at.Before(h.CreatedAt) {
			return StreakResult{}, OutOfOrderEventError{HabitID: h.ID, EventAt: at, CreatedAt: h.CreatedAt}
		}
		idx := periodIndex(h.Rule, at, anchor, loc)
		if idx > refIdx {
			// Events after the reference instant are outside the snapshot.
			continue
		}
		counts[idx]++
	}

	qualifies := func(idx int64) bool {
		if h.Polarity == PolarityNegative {
			return counts[idx] == 0
		}
		return counts[idx] > 0
	}

	longest, run := 0, 0
	for idx := firstIdx; idx <= refIdx; idx++ {
		if qualifies(idx) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	current := 0
	if qualifies(refIdx) {
		current = run
	}

	last := qualifies(refIdx)
	if refIdx > firstIdx {
		last = qualifies(refIdx - 1)
	}

	return StreakResult{Current: current, Longest: longest, LastPeriodSatisfied: last}, nil
}
