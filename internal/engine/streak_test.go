package engine

import (
	"errors"
	"testing"
	"time"
)

func dailyHabit(created time.Time) Habit {
	return Habit{ID: 1, Name: "Read 20 pages", Polarity: PolarityPositive, Rule: Daily(), CreatedAt: created}
}

func TestStreakDailyOpenPeriodNotCounted(t *testing.T) {
	created := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC) // Monday
	h := dailyHabit(created)
	events := []time.Time{
		created.Add(time.Hour),                 // Mon
		created.AddDate(0, 0, 1),               // Tue
		created.AddDate(0, 0, 2).Add(time.Hour), // Wed
	}
	ref := time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC) // Thursday noon, nothing logged yet

	res, err := ComputeStreak(h, events, ref, time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Current != 0 {
		t.Fatalf("Current=%d, want 0 (today not yet completed)", res.Current)
	}
	if res.Longest != 3 {
		t.Fatalf("Longest=%d, want 3", res.Longest)
	}
	if !res.LastPeriodSatisfied {
		t.Fatalf("LastPeriodSatisfied=false, want true (Wednesday was completed)")
	}
}

func TestStreakDailyCompletingTodayExtends(t *testing.T) {
	created := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	h := dailyHabit(created)
	events := []time.Time{
		created,
		created.AddDate(0, 0, 1),
		created.AddDate(0, 0, 2),
		created.AddDate(0, 0, 3), // Thursday completion
	}
	ref := time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC)

	res, err := ComputeStreak(h, events, ref, time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Current != 4 || res.Longest != 4 {
		t.Fatalf("Current=%d Longest=%d, want 4/4", res.Current, res.Longest)
	}
}

func TestStreakGapResetsRun(t *testing.T) {
	created := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	h := dailyHabit(created)
	events := []time.Time{
		created,
		created.AddDate(0, 0, 1),
		created.AddDate(0, 0, 2),
		// day 3 missed
		created.AddDate(0, 0, 4),
		created.AddDate(0, 0, 5),
	}
	ref := created.AddDate(0, 0, 5).Add(4 * time.Hour)

	res, err := ComputeStreak(h, events, ref, time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Current != 2 {
		t.Fatalf("Current=%d, want 2", res.Current)
	}
	if res.Longest != 3 {
		t.Fatalf("Longest=%d, want 3", res.Longest)
	}
}

func TestStreakMultipleEventsInOnePeriodCountOnce(t *testing.T) {
	created := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	h := dailyHabit(created)
	events := []time.Time{
		created,
		created.Add(2 * time.Hour),
		created.Add(5 * time.Hour),
	}
	res, err := ComputeStreak(h, events, created.Add(6*time.Hour), time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Current != 1 || res.Longest != 1 {
		t.Fatalf("Current=%d Longest=%d, want 1/1", res.Current, res.Longest)
	}
}

func TestStreakNegativeWeeklyCleanRun(t *testing.T) {
	created := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // Monday
	h := Habit{ID: 2, Name: "No sugar", Polarity: PolarityNegative, Rule: Weekly(), CreatedAt: created}
	ref := time.Date(2025, 3, 30, 18, 0, 0, 0, time.UTC) // Sunday of the fourth week

	res, err := ComputeStreak(h, nil, ref, time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	// Negative habits hold their streak through the open period: staying
	// clean is the success condition.
	if res.Current != 4 || res.Longest != 4 {
		t.Fatalf("Current=%d Longest=%d, want 4/4", res.Current, res.Longest)
	}
	if !res.LastPeriodSatisfied {
		t.Fatalf("LastPeriodSatisfied=false, want true")
	}
}

func TestStreakNegativeSlipBreaksRun(t *testing.T) {
	created := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	h := Habit{ID: 2, Name: "No sugar", Polarity: PolarityNegative, Rule: Weekly(), CreatedAt: created}
	slips := []time.Time{
		created.AddDate(0, 0, 11), // second week
		created.AddDate(0, 0, 12),
	}
	ref := time.Date(2025, 3, 30, 18, 0, 0, 0, time.UTC)

	res, err := ComputeStreak(h, slips, ref, time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	// Weeks: clean, slipped, clean, clean(open) -> current run of 2.
	if res.Current != 2 {
		t.Fatalf("Current=%d, want 2", res.Current)
	}
	if res.Longest != 2 {
		t.Fatalf("Longest=%d, want 2", res.Longest)
	}
}

func TestStreakNegativeSlipInOpenPeriod(t *testing.T) {
	created := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	h := Habit{ID: 2, Name: "No sugar", Polarity: PolarityNegative, Rule: Weekly(), CreatedAt: created}
	ref := time.Date(2025, 3, 30, 18, 0, 0, 0, time.UTC)
	slips := []time.Time{ref.Add(-time.Hour)}

	res, err := ComputeStreak(h, slips, ref, time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Current != 0 {
		t.Fatalf("Current=%d, want 0 after a slip in the open week", res.Current)
	}
	if res.Longest != 3 {
		t.Fatalf("Longest=%d, want 3", res.Longest)
	}
}

func TestStreakCustomRuleTiles(t *testing.T) {
	created := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	h := Habit{ID: 3, Name: "Water plants", Polarity: PolarityPositive, Rule: EveryNDays(3), CreatedAt: created}
	events := []time.Time{
		created.Add(2 * time.Hour),    // tile 0
		created.Add(80 * time.Hour),   // tile 1
		created.Add(150 * time.Hour),  // tile 2
		// tile 3 missed
		created.Add(4*72*time.Hour + time.Hour), // tile 4
	}
	ref := created.Add(4*72*time.Hour + 10*time.Hour)

	res, err := ComputeStreak(h, events, ref, time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Longest != 3 {
		t.Fatalf("Longest=%d, want 3", res.Longest)
	}
	if res.Current != 1 {
		t.Fatalf("Current=%d, want 1", res.Current)
	}
}

func TestStreakRefBeforeCreation(t *testing.T) {
	created := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	h := dailyHabit(created)
	res, err := ComputeStreak(h, nil, created.AddDate(0, 0, -2), time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res != (StreakResult{}) {
		t.Fatalf("got %+v, want zero result", res)
	}
}

func TestStreakRejectsEventBeforeCreation(t *testing.T) {
	created := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	h := dailyHabit(created)
	_, err := ComputeStreak(h, []time.Time{created.Add(-time.Hour)}, created, time.UTC)
	var oooErr OutOfOrderEventError
	if !errors.As(err, &oooErr) {
		t.Fatalf("err=%v, want OutOfOrderEventError", err)
	}
}

func TestStreakEventsAfterRefIgnored(t *testing.T) {
	created := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	h := dailyHabit(created)
	events := []time.Time{created, created.AddDate(0, 0, 5)}
	res, err := ComputeStreak(h, events, created.Add(2*time.Hour), time.UTC)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Current != 1 || res.Longest != 1 {
		t.Fatalf("Current=%d Longest=%d, want 1/1 (future event ignored)", res.Current, res.Longest)
	}
}

func TestStreakHonorsProfileTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+12", 12*3600)
	created := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	h := dailyHabit(created)

	// 23:00 UTC on the 3rd is already the 4th in UTC+12.
	events := []time.Time{created.Add(23 * time.Hour)}
	ref := created.Add(30 * time.Hour) // 2025-03-04 06:00 UTC, still the 4th locally

	res, err := ComputeStreak(h, events, ref, loc)
	if err != nil {
		t.Fatalf("ComputeStreak: %v", err)
	}
	if res.Current != 1 {
		t.Fatalf("Current=%d, want 1 (event falls in the local current day)", res.Current)
	}
}

func TestStreakInvalidRule(t *testing.T) {
	h := Habit{ID: 4, Name: "bad", Polarity: PolarityPositive, Rule: EveryNDays(0), CreatedAt: time.Now()}
	if _, err := ComputeStreak(h, nil, time.Now(), time.UTC); err == nil {
		t.Fatalf("expected error for invalid rule")
	}
}
