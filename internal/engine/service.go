package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"habitline/internal/storage"
)

// Policy bundles the configurable gamification knobs: the level curve and the
// global milestone targets. The +1/+5 XP constants are fixed.
type Policy struct {
	Curve            LevelCurve
	MilestoneTargets []int
}

func DefaultPolicy() Policy {
	return Policy{
		Curve:            DefaultLevelCurve(),
		MilestoneTargets: []int{3, 7, 14, 30},
	}
}

// Service wires the pure engine functions to the sqlite repositories. All
// habit operations act on the active profile.
type Service struct {
	db         *sql.DB
	profiles   *storage.ProfileRepo
	habits     *storage.HabitRepo
	events     *storage.EventRepo
	milestones *storage.MilestoneRepo
	policy     Policy
}

func NewService(db *sql.DB) *Service {
	return NewServiceWithPolicy(db, DefaultPolicy())
}

func NewServiceWithPolicy(db *sql.DB, policy Policy) *Service {
	if len(policy.MilestoneTargets) == 0 {
		policy.MilestoneTargets = DefaultPolicy().MilestoneTargets
	}
	return &Service{
		db:         db,
		profiles:   storage.NewProfileRepo(db),
		habits:     storage.NewHabitRepo(db),
		events:     storage.NewEventRepo(db),
		milestones: storage.NewMilestoneRepo(db),
		policy:     policy,
	}
}

func (s *Service) ProfileRepo() *storage.ProfileRepo     { return s.profiles }
func (s *Service) HabitRepo() *storage.HabitRepo         { return s.habits }
func (s *Service) EventRepo() *storage.EventRepo         { return s.events }
func (s *Service) MilestoneRepo() *storage.MilestoneRepo { return s.milestones }
func (s *Service) Curve() LevelCurve                     { return s.policy.Curve }

func (s *Service) activeProfile(ctx context.Context) (*storage.Profile, *time.Location, error) {
	p, err := s.profiles.Active(ctx)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrNoActiveProfile
	}
	loc, err := profileLocation(p)
	if err != nil {
		return nil, nil, err
	}
	return p, loc, nil
}

func profileLocation(p *storage.Profile) (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("profile %q has invalid timezone %q: %w", p.Username, p.Timezone, err)
	}
	return loc, nil
}

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrEmptyHabitName
	}
	return n, nil
}

func toEngineHabit(h *storage.Habit) Habit {
	return Habit{
		ID:        h.ID,
		Name:      h.Name,
		Polarity:  Polarity(h.Polarity),
		Rule:      Rule{Kind: RuleKind(h.Periodicity), IntervalDays: h.IntervalDays},
		CreatedAt: h.CreatedAt,
	}
}

func (s *Service) milestoneDefs() []MilestoneDef {
	defs := make([]MilestoneDef, 0, len(s.policy.MilestoneTargets))
	for _, target := range s.policy.MilestoneTargets {
		defs = append(defs, MilestoneDef{HabitID: GlobalMilestone, Target: target})
	}
	return defs
}
