package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type RuleKind string

const (
	RuleDaily  RuleKind = "daily"
	RuleWeekly RuleKind = "weekly"
	RuleCustom RuleKind = "custom"
)

func (k RuleKind) IsValid() bool {
	switch k {
	case RuleDaily, RuleWeekly, RuleCustom:
		return true
	default:
		return false
	}
}

// Rule describes a habit's periodicity. Daily and weekly periods are
// calendar-aligned in the profile's timezone; custom rules tile rolling
// IntervalDays-long windows from the habit's creation instant.
type Rule struct {
	Kind         RuleKind
	IntervalDays int
}

func Daily() Rule  { return Rule{Kind: RuleDaily} }
func Weekly() Rule { return Rule{Kind: RuleWeekly} }

func EveryNDays(n int) Rule { return Rule{Kind: RuleCustom, IntervalDays: n} }

func (r Rule) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("invalid periodicity kind: %q", r.Kind)
	}
	if r.Kind == RuleCustom && r.IntervalDays < 1 {
		return InvalidPeriodicityError{IntervalDays: r.IntervalDays}
	}
	return nil
}

func (r Rule) String() string {
	if r.Kind == RuleCustom {
		return fmt.Sprintf("every %dd", r.IntervalDays)
	}
	return string(r.Kind)
}

// ParseRule parses user input to a Rule.
// Supported: "daily", "weekly", or "<n>d" for a rolling n-day window.
func ParseRule(input string) (Rule, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "daily":
		return Daily(), nil
	case "weekly":
		return Weekly(), nil
	}
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return Rule{}, fmt.Errorf("invalid periodicity: %q", input)
		}
		r := EveryNDays(n)
		if err := r.Validate(); err != nil {
			return Rule{}, err
		}
		return r, nil
	}
	return Rule{}, fmt.Errorf("invalid periodicity: %q (want daily, weekly or <n>d)", input)
}

// Period is a half-open tracking window [Start, End). An instant exactly at
// a boundary belongs to the period that starts there.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// CurrentPeriod computes the tracking window containing ref. The anchor is
// the habit's creation instant and is only consulted for custom rules.
func CurrentPeriod(r Rule, ref, anchor time.Time, loc *time.Location) (Period, error) {
	if err := r.Validate(); err != nil {
		return Period{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	switch r.Kind {
	case RuleDaily:
		y, m, d := ref.In(loc).Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return Period{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case RuleWeekly:
		local := ref.In(loc)
		y, m, d := local.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		// Monday-aligned: Monday=0 .. Sunday=6.
		off := (int(local.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -off)
		return Period{Start: start, End: start.AddDate(0, 0, 7)}, nil
	default:
		span := time.Duration(r.IntervalDays) * 24 * time.Hour
		idx := floorDivDuration(ref.Sub(anchor), span)
		start := anchor.Add(time.Duration(idx) * span)
		return Period{Start: start, End: start.Add(span)}, nil
	}
}

// IsDue reports whether the period containing ref has not yet received an
// event. lastEvent is the habit's most recent event at or before ref, or nil
// when no event has been logged.
func IsDue(r Rule, ref time.Time, lastEvent *time.Time, anchor time.Time, loc *time.Location) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	if loc == nil {
		loc = time.UTC
	}
	if lastEvent == nil {
		return true, nil
	}
	return periodIndex(r, *lastEvent, anchor, loc) < periodIndex(r, ref, anchor, loc), nil
}

// periodIndex maps an instant onto the rule's period timeline. Consecutive
// periods have consecutive indices, which is what the streak walk relies on.
// The rule must already be validated.
func periodIndex(r Rule, t, anchor time.Time, loc *time.Location) int64 {
	switch r.Kind {
	case RuleDaily:
		return civilDay(t, loc)
	case RuleWeekly:
		// Day 0 of the civil epoch (1970-01-01) is a Thursday; shift by 3 so
		// weeks start on Monday.
		return floorDivInt(civilDay(t, loc)+3, 7)
	default:
		span := time.Duration(r.IntervalDays) * 24 * time.Hour
		return floorDivDuration(t.Sub(anchor), span)
	}
}

// civilDay returns the number of civil days since 1970-01-01 for the date of
// t in loc. Computed from the civil date in UTC so DST shifts cannot skew it.
func civilDay(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

func floorDivDuration(d, size time.Duration) int64 {
	q := d / size
	if d%size < 0 {
		q--
	}
	return int64(q)
}
