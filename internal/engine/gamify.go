package engine

import (
	"math"
	"sort"
)

const (
	// XPPerCompletion is awarded for every logged completion.
	XPPerCompletion = 1
	// XPPerMilestone is the one-time bonus for a newly earned milestone.
	XPPerMilestone = 5
)

// XPTotal derives total XP from event and claim counts. The engine never
// keeps a running counter; callers recount and recompute.
func XPTotal(completions, milestonesClaimed int) int {
	if completions < 0 {
		completions = 0
	}
	if milestonesClaimed < 0 {
		milestonesClaimed = 0
	}
	return completions*XPPerCompletion + milestonesClaimed*XPPerMilestone
}

// LevelCurve is the leveling policy: the total XP threshold for level L is
// ceil(Coefficient * L^Exponent). Any coefficient > 0 and exponent > 1 gives
// a monotonic, deterministic curve.
type LevelCurve struct {
	Coefficient float64
	Exponent    float64
}

// DefaultLevelCurve yields thresholds of 10*L^2, i.e. level = floor(sqrt(xp/10)).
func DefaultLevelCurve() LevelCurve {
	return LevelCurve{Coefficient: 10, Exponent: 2}
}

func (c LevelCurve) normalized() LevelCurve {
	if c.Coefficient <= 0 || c.Exponent <= 1 {
		return DefaultLevelCurve()
	}
	return c
}

// XPRequiredForLevel returns the total XP threshold required to be at the
// given level. Level 0 requires 0 XP.
func (c LevelCurve) XPRequiredForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	c = c.normalized()
	req := c.Coefficient * math.Pow(float64(level), c.Exponent)
	// Ceil so floating point rounding never makes a threshold easier.
	return int(math.Ceil(req))
}

// LevelForTotalXP returns the highest level L such that
// totalXP >= XPRequiredForLevel(L).
func (c LevelCurve) LevelForTotalXP(totalXP int) int {
	if totalXP <= 0 {
		return 0
	}

	// Exponential search upper bound, then binary search.
	low := 0
	high := 1
	for c.XPRequiredForLevel(high) <= totalXP {
		low = high
		high *= 2
		if high > 1_000_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if c.XPRequiredForLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// LevelProgress reports the level for totalXP along with the XP gained since
// that level's threshold and the XP still missing for the next one.
func (c LevelCurve) LevelProgress(totalXP int) (level, into, toNext int) {
	if totalXP < 0 {
		totalXP = 0
	}
	level = c.LevelForTotalXP(totalXP)
	into = totalXP - c.XPRequiredForLevel(level)
	toNext = c.XPRequiredForLevel(level+1) - totalXP
	if toNext < 0 {
		toNext = 0
	}
	return level, into, toNext
}

// GlobalMilestone marks a milestone definition that applies to every habit.
const GlobalMilestone int64 = 0

// MilestoneDef defines a streak-length milestone, either for one habit or
// globally (HabitID == GlobalMilestone).
type MilestoneDef struct {
	HabitID int64
	Target  int
}

// MilestoneKey identifies one award: at most one claim per (habit, target).
type MilestoneKey struct {
	HabitID int64
	Target  int
}

// EvaluateMilestones returns the milestone keys newly satisfied by the given
// streak, excluding keys already in claimed. It mutates nothing: calling it
// twice with the same claimed set yields the same result. Persisting the
// union of claimed and the returned keys before the next evaluation is the
// caller's job; that is what makes awards happen at most once.
func EvaluateMilestones(h Habit, streak StreakResult, defs []MilestoneDef, claimed map[MilestoneKey]bool) []MilestoneKey {
	seen := make(map[int]bool, len(defs))
	var earned []MilestoneKey
	for _, def := range defs {
		if def.HabitID != GlobalMilestone && def.HabitID != h.ID {
			continue
		}
		if def.Target < 1 || def.Target > streak.Current {
			continue
		}
		if seen[def.Target] {
			continue
		}
		seen[def.Target] = true
		key := MilestoneKey{HabitID: h.ID, Target: def.Target}
		if claimed[key] {
			continue
		}
		earned = append(earned, key)
	}
	sort.Slice(earned, func(i, j int) bool { return earned[i].Target < earned[j].Target })
	return earned
}
