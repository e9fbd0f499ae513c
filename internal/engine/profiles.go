package engine

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"habitline/internal/storage"
)

// CreateProfile registers a new profile. Usernames are normalized to
// lowercase; the timezone must resolve via time.LoadLocation.
func (s *Service) CreateProfile(ctx context.Context, username, timezone string) (*storage.Profile, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	if name == "" {
		return nil, errors.New("username is required")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errors.New("unknown timezone " + timezone)
	}

	existing, err := s.profiles.GetByUsername(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ProfileAlreadyExistsError{Username: name}
	}

	id, err := s.profiles.Insert(ctx, name, timezone, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	slog.Debug("profile created", "username", name, "timezone", timezone)
	return s.profiles.Get(ctx, id)
}

func (s *Service) Profiles(ctx context.Context) ([]storage.Profile, error) {
	return s.profiles.List(ctx)
}

// ActiveProfile returns the active profile, or nil when none is set.
func (s *Service) ActiveProfile(ctx context.Context) (*storage.Profile, error) {
	return s.profiles.Active(ctx)
}

func (s *Service) SwitchProfile(ctx context.Context, username string) (*storage.Profile, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	p, err := s.profiles.GetByUsername(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ProfileNotFoundError{Username: name}
	}
	if err := s.profiles.SetActive(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProfile removes a profile together with its habits, events and
// milestone claims. Deleting the active profile clears the active pointer.
func (s *Service) DeleteProfile(ctx context.Context, username string) error {
	name := strings.ToLower(strings.TrimSpace(username))
	p, err := s.profiles.GetByUsername(ctx, name)
	if err != nil {
		return err
	}
	if p == nil {
		return ProfileNotFoundError{Username: name}
	}

	habits, err := s.habits.ListByProfile(ctx, p.ID)
	if err != nil {
		return err
	}

	active, err := s.profiles.Active(ctx)
	if err != nil {
		return err
	}

	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for i := range habits {
			if err := s.events.DeleteByHabitTx(ctx, tx, habits[i].ID); err != nil {
				return err
			}
			if err := s.milestones.DeleteByHabitTx(ctx, tx, habits[i].ID); err != nil {
				return err
			}
			if err := s.habits.DeleteTx(ctx, tx, habits[i].ID); err != nil {
				return err
			}
		}
		if active != nil && active.ID == p.ID {
			if err := s.profiles.ClearActiveTx(ctx, tx); err != nil {
				return err
			}
		}
		return s.profiles.DeleteTx(ctx, tx, p.ID)
	})
}
