package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"habitline/internal/storage"
)

type CreateHabitInput struct {
	Name     string
	Polarity Polarity
	Rule     Rule
	// CreatedAt defaults to now; seed fixtures back-date it.
	CreatedAt time.Time
}

// CreateHabit validates and persists a habit for the active profile.
func (s *Service) CreateHabit(ctx context.Context, in CreateHabitInput) (*storage.Habit, error) {
	p, _, err := s.activeProfile(ctx)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	polarity := in.Polarity
	if polarity == "" {
		polarity = PolarityPositive
	}
	if !polarity.IsValid() {
		return nil, fmt.Errorf("invalid polarity: %q", polarity)
	}
	if err := in.Rule.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.habits.GetByName(ctx, p.ID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, DuplicateHabitNameError{Name: name}
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id, err := s.habits.Insert(ctx, storage.HabitInsert{
		ProfileID:    p.ID,
		Name:         name,
		Polarity:     string(polarity),
		Periodicity:  string(in.Rule.Kind),
		IntervalDays: in.Rule.IntervalDays,
		CreatedAt:    createdAt.UTC(),
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("habit created", "id", id, "name", name, "rule", in.Rule.String())
	return s.habits.Get(ctx, id)
}

// Habits lists the active profile's habits in creation order.
func (s *Service) Habits(ctx context.Context) ([]storage.Habit, error) {
	p, _, err := s.activeProfile(ctx)
	if err != nil {
		return nil, err
	}
	return s.habits.ListByProfile(ctx, p.ID)
}

// FilteredHabits lists the active profile's habits with the given rule kind,
// preserving creation order.
func (s *Service) FilteredHabits(ctx context.Context, kind RuleKind) ([]storage.Habit, error) {
	habits, err := s.Habits(ctx)
	if err != nil {
		return nil, err
	}
	engineHabits := make([]Habit, len(habits))
	byID := make(map[int64]storage.Habit, len(habits))
	for i := range habits {
		engineHabits[i] = toEngineHabit(&habits[i])
		byID[habits[i].ID] = habits[i]
	}
	var out []storage.Habit
	for _, h := range FilterByPeriodicity(engineHabits, kind) {
		out = append(out, byID[h.ID])
	}
	return out, nil
}

// HabitByRef resolves a CLI habit reference: a numeric id or a name.
func (s *Service) HabitByRef(ctx context.Context, ref string) (*storage.Habit, error) {
	p, _, err := s.activeProfile(ctx)
	if err != nil {
		return nil, err
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		h, err := s.habits.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if h == nil || h.ProfileID != p.ID {
			return nil, HabitNotFoundError{ID: id}
		}
		return h, nil
	}
	h, err := s.habits.GetByName(ctx, p.ID, ref)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, HabitNotFoundError{Name: ref}
	}
	return h, nil
}

// DeleteHabit removes a habit and, cascading, its events and milestone
// claims. Deletion is the only mutation habits support.
func (s *Service) DeleteHabit(ctx context.Context, id int64) error {
	p, _, err := s.activeProfile(ctx)
	if err != nil {
		return err
	}
	h, err := s.habits.Get(ctx, id)
	if err != nil {
		return err
	}
	if h == nil || h.ProfileID != p.ID {
		return HabitNotFoundError{ID: id}
	}

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.events.DeleteByHabitTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.milestones.DeleteByHabitTx(ctx, tx, id); err != nil {
			return err
		}
		return s.habits.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	slog.Debug("habit deleted", "id", id, "name", h.Name)
	return nil
}
