package engine

import (
	"testing"
	"time"
)

func TestXPTotal(t *testing.T) {
	if got := XPTotal(0, 0); got != 0 {
		t.Fatalf("XPTotal(0,0)=%d, want 0", got)
	}
	if got := XPTotal(7, 0); got != 7 {
		t.Fatalf("XPTotal(7,0)=%d, want 7", got)
	}
	if got := XPTotal(7, 2); got != 7+2*XPPerMilestone {
		t.Fatalf("XPTotal(7,2)=%d, want %d", got, 7+2*XPPerMilestone)
	}
	if got := XPTotal(-3, -1); got != 0 {
		t.Fatalf("XPTotal(-3,-1)=%d, want 0", got)
	}
}

func TestLevelCurveBoundaries(t *testing.T) {
	c := DefaultLevelCurve()
	if got := c.XPRequiredForLevel(0); got != 0 {
		t.Fatalf("XPRequiredForLevel(0)=%d, want 0", got)
	}
	l1 := c.XPRequiredForLevel(1)
	if got := c.LevelForTotalXP(l1 - 1); got != 0 {
		t.Fatalf("LevelForTotalXP(l1-1)=%d, want 0", got)
	}
	if got := c.LevelForTotalXP(l1); got != 1 {
		t.Fatalf("LevelForTotalXP(l1)=%d, want 1", got)
	}

	l7 := c.XPRequiredForLevel(7)
	if got := c.LevelForTotalXP(l7); got != 7 {
		t.Fatalf("LevelForTotalXP(l7)=%d, want 7", got)
	}
	if got := c.LevelForTotalXP(l7 + 1); got != 7 {
		t.Fatalf("LevelForTotalXP(l7+1)=%d, want 7", got)
	}
}

func TestLevelCurveMonotonic(t *testing.T) {
	c := LevelCurve{Coefficient: 3.5, Exponent: 1.8}
	prev := 0
	for level := 1; level <= 50; level++ {
		req := c.XPRequiredForLevel(level)
		if req <= prev {
			t.Fatalf("threshold for level %d (%d) not above level %d (%d)", level, req, level-1, prev)
		}
		if got := c.LevelForTotalXP(req); got != level {
			t.Fatalf("LevelForTotalXP(req(%d))=%d, want %d", level, got, level)
		}
		prev = req
	}
}

func TestLevelCurveNormalizesBadInput(t *testing.T) {
	bad := LevelCurve{Coefficient: -1, Exponent: 0.5}
	if bad.XPRequiredForLevel(3) != DefaultLevelCurve().XPRequiredForLevel(3) {
		t.Fatalf("degenerate curve must fall back to the default")
	}
}

func TestLevelProgress(t *testing.T) {
	c := DefaultLevelCurve()
	level, into, toNext := c.LevelProgress(25)
	if level != 1 {
		t.Fatalf("level=%d, want 1", level)
	}
	if into != 25-c.XPRequiredForLevel(1) {
		t.Fatalf("into=%d, want %d", into, 25-c.XPRequiredForLevel(1))
	}
	if toNext != c.XPRequiredForLevel(2)-25 {
		t.Fatalf("toNext=%d, want %d", toNext, c.XPRequiredForLevel(2)-25)
	}

	level, into, toNext = c.LevelProgress(0)
	if level != 0 || into != 0 {
		t.Fatalf("LevelProgress(0)=(%d,%d,%d), want level 0 into 0", level, into, toNext)
	}
}

func milestoneHabit() Habit {
	return Habit{ID: 9, Name: "Read 20 pages", Polarity: PolarityPositive, Rule: Daily(),
		CreatedAt: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)}
}

func globalDefs(targets ...int) []MilestoneDef {
	defs := make([]MilestoneDef, 0, len(targets))
	for _, target := range targets {
		defs = append(defs, MilestoneDef{HabitID: GlobalMilestone, Target: target})
	}
	return defs
}

func TestEvaluateMilestonesAwardsUpToStreak(t *testing.T) {
	h := milestoneHabit()
	streak := StreakResult{Current: 7, Longest: 7}
	got := EvaluateMilestones(h, streak, globalDefs(3, 7, 14, 30), nil)
	want := []MilestoneKey{{HabitID: 9, Target: 3}, {HabitID: 9, Target: 7}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestEvaluateMilestonesIdempotent(t *testing.T) {
	h := milestoneHabit()
	streak := StreakResult{Current: 7, Longest: 7}
	defs := globalDefs(3, 7)

	first := EvaluateMilestones(h, streak, defs, nil)
	if len(first) != 2 {
		t.Fatalf("first pass awarded %d, want 2", len(first))
	}

	claimed := make(map[MilestoneKey]bool)
	for _, key := range first {
		claimed[key] = true
	}
	second := EvaluateMilestones(h, streak, defs, claimed)
	if len(second) != 0 {
		t.Fatalf("second pass awarded %v, want none", second)
	}
}

func TestEvaluateMilestonesScopedDef(t *testing.T) {
	h := milestoneHabit()
	streak := StreakResult{Current: 5, Longest: 5}
	defs := []MilestoneDef{
		{HabitID: h.ID, Target: 5},
		{HabitID: h.ID + 1, Target: 2}, // someone else's milestone
	}
	got := EvaluateMilestones(h, streak, defs, nil)
	if len(got) != 1 || got[0] != (MilestoneKey{HabitID: h.ID, Target: 5}) {
		t.Fatalf("got %v, want only the scoped target 5", got)
	}
}

func TestEvaluateMilestonesDedupesTargets(t *testing.T) {
	h := milestoneHabit()
	streak := StreakResult{Current: 3, Longest: 3}
	defs := []MilestoneDef{
		{HabitID: GlobalMilestone, Target: 3},
		{HabitID: h.ID, Target: 3},
	}
	got := EvaluateMilestones(h, streak, defs, nil)
	if len(got) != 1 {
		t.Fatalf("got %v, want a single award for target 3", got)
	}
}

func TestEvaluateMilestonesIgnoresBadTargets(t *testing.T) {
	h := milestoneHabit()
	streak := StreakResult{Current: 2, Longest: 2}
	got := EvaluateMilestones(h, streak, globalDefs(0, -1, 3), nil)
	if len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}
