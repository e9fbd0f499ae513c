package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestProfileRepo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepo(db)

	id, err := repo.Insert(ctx, "alice", "Europe/Berlin", time.Now().UTC())
	require.NoError(t, err)

	p, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, "Europe/Berlin", p.Timezone)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, id, byName.ID)

	missing, err := repo.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	require.Nil(t, missing)

	// The username is unique.
	_, err = repo.Insert(ctx, "alice", "UTC", time.Now().UTC())
	require.Error(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestActiveProfilePointer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepo(db)

	active, err := repo.Active(ctx)
	require.NoError(t, err)
	require.Nil(t, active)

	aliceID, err := repo.Insert(ctx, "alice", "UTC", time.Now().UTC())
	require.NoError(t, err)
	bobID, err := repo.Insert(ctx, "bob", "UTC", time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, aliceID))
	active, err = repo.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, aliceID, active.ID)

	// Switching upserts the single pointer row.
	require.NoError(t, repo.SetActive(ctx, bobID))
	active, err = repo.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, bobID, active.ID)

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.ClearActiveTx(ctx, tx)
	})
	require.NoError(t, err)
	active, err = repo.Active(ctx)
	require.NoError(t, err)
	require.Nil(t, active)
}

func insertTestHabit(t *testing.T, db *sql.DB, profileID int64, name string) int64 {
	t.Helper()
	id, err := NewHabitRepo(db).Insert(context.Background(), HabitInsert{
		ProfileID:   profileID,
		Name:        name,
		Polarity:    "positive",
		Periodicity: "daily",
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func TestHabitRepo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	profiles := NewProfileRepo(db)
	habits := NewHabitRepo(db)

	pid, err := profiles.Insert(ctx, "alice", "UTC", time.Now().UTC())
	require.NoError(t, err)

	first := insertTestHabit(t, db, pid, "Read")
	second := insertTestHabit(t, db, pid, "Run")

	// Name is unique per profile, not globally.
	_, err = habits.Insert(ctx, HabitInsert{
		ProfileID: pid, Name: "Read", Polarity: "positive", Periodicity: "daily",
		CreatedAt: time.Now().UTC(),
	})
	require.Error(t, err)

	otherPID, err := profiles.Insert(ctx, "bob", "UTC", time.Now().UTC())
	require.NoError(t, err)
	insertTestHabit(t, db, otherPID, "Read")

	list, err := habits.ListByProfile(ctx, pid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first, list[0].ID)
	require.Equal(t, second, list[1].ID)

	byName, err := habits.GetByName(ctx, pid, "Run")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, second, byName.ID)

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		return habits.DeleteTx(ctx, tx, first)
	})
	require.NoError(t, err)
	gone, err := habits.Get(ctx, first)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestEventRepoRoundTripAndCounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	profiles := NewProfileRepo(db)
	habits := NewHabitRepo(db)
	events := NewEventRepo(db)

	pid, err := profiles.Insert(ctx, "alice", "UTC", time.Now().UTC())
	require.NoError(t, err)
	hid := insertTestHabit(t, db, pid, "Read")

	negID, err := habits.Insert(ctx, HabitInsert{
		ProfileID: pid, Name: "No sugar", Polarity: "negative", Periodicity: "weekly",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			_, err := events.InsertTx(ctx, tx, hid, base.AddDate(0, 0, day))
			return err
		})
		require.NoError(t, err)
	}
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := events.InsertTx(ctx, tx, negID, base)
		return err
	})
	require.NoError(t, err)

	list, err := events.ListByHabit(ctx, hid)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.True(t, list[0].Before(list[1]) && list[1].Before(list[2]), "events must come back in ascending order")
	require.True(t, list[0].Equal(base))

	// Only positive-habit events count as completions.
	count, err := events.CountCompletions(ctx, pid)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		return events.DeleteByHabitTx(ctx, tx, hid)
	})
	require.NoError(t, err)
	count, err = events.CountCompletions(ctx, pid)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestMilestoneRepo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	profiles := NewProfileRepo(db)
	milestones := NewMilestoneRepo(db)

	pid, err := profiles.Insert(ctx, "alice", "UTC", time.Now().UTC())
	require.NoError(t, err)
	hid := insertTestHabit(t, db, pid, "Read")

	now := time.Now().UTC()
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := milestones.InsertClaimTx(ctx, tx, hid, 3, now); err != nil {
			return err
		}
		return milestones.InsertClaimTx(ctx, tx, hid, 7, now)
	})
	require.NoError(t, err)

	claimed, err := milestones.ClaimedTargets(ctx, hid)
	require.NoError(t, err)
	require.True(t, claimed[3])
	require.True(t, claimed[7])
	require.False(t, claimed[14])

	// (habit, target) is the primary key: a second claim must fail.
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		return milestones.InsertClaimTx(ctx, tx, hid, 3, now)
	})
	require.Error(t, err)

	count, err := milestones.CountClaims(ctx, pid)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	profiles := NewProfileRepo(db)
	habits := NewHabitRepo(db)

	pid, err := profiles.Insert(ctx, "alice", "UTC", time.Now().UTC())
	require.NoError(t, err)
	hid := insertTestHabit(t, db, pid, "Read")

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := habits.DeleteTx(ctx, tx, hid); err != nil {
			return err
		}
		return sql.ErrTxDone // force a rollback
	})
	require.Error(t, err)

	h, err := habits.Get(ctx, hid)
	require.NoError(t, err)
	require.NotNil(t, h, "rolled-back delete must leave the row in place")
}

func TestResolveDBPathEnvOverride(t *testing.T) {
	t.Setenv("HABITLINE_DB", "/tmp/override.db")
	path, err := ResolveDBPath("/etc/configured.db")
	require.NoError(t, err)
	require.Equal(t, "/tmp/override.db", path)

	t.Setenv("HABITLINE_DB", "")
	path, err = ResolveDBPath("/etc/configured.db")
	require.NoError(t, err)
	require.Equal(t, "/etc/configured.db", path)
}
