package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/activitylog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(gdb)
}

func TestGetOrCreateUserIsIdempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	defaults := db.User{
		ExternalID: "100",
		FirstName:  "Оля",
		Settings:   db.UserSettings{WaterGoal: 8, Timezone: "Europe/Kiev", MoodTracking: true},
		Goals:      db.UserGoals{ExercisePerWeek: 3},
	}

	user, created, err := s.GetOrCreateUser(ctx, defaults)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Оля", user.FirstName)
	assert.Equal(t, 8, user.Settings.WaterGoal)
	assert.True(t, user.Settings.MoodTracking)

	user.Settings.WaterGoal = 12
	require.NoError(t, s.SaveUser(ctx, user))

	again, created, err := s.GetOrCreateUser(ctx, defaults)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, 12, again.Settings.WaterGoal, "existing profile must not be overwritten by defaults")

	_, _, err = s.GetOrCreateUser(ctx, db.User{})
	assert.Error(t, err)
}

func TestGetUserNotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryActivitiesFilters(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	kyiv := time.FixedZone("EEST", 3*60*60)
	base := time.Date(2026, 10, 15, 8, 0, 0, 0, kyiv)

	records := []db.Activity{
		{UserID: "1", Timestamp: base, DateKey: "2026-10-15", Category: "meal"},
		{UserID: "1", Timestamp: base.Add(2 * time.Hour), DateKey: "2026-10-15", Category: "exercise"},
		{UserID: "1", Timestamp: base.Add(-24 * time.Hour), DateKey: "2026-10-14", Category: "meal"},
		{UserID: "2", Timestamp: base, DateKey: "2026-10-15", Category: "meal"},
	}
	for i := range records {
		require.NoError(t, s.AddActivity(ctx, &records[i]))
	}

	got, err := s.QueryActivities(ctx, ActivityQuery{UserID: "1", DateKey: "2026-10-15"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.QueryActivities(ctx, ActivityQuery{UserID: "1", Category: "meal"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-10-14", got[0].DateKey, "results are ordered by timestamp")

	got, err = s.QueryActivities(ctx, ActivityQuery{
		UserID: "1",
		From:   base.Add(-time.Minute).In(time.UTC),
		To:     base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, got, 2, "range bounds in different zones compare by instant")

	got, err = s.QueryActivities(ctx, ActivityQuery{UserID: "1", From: base.Add(time.Hour)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "exercise", got[0].Category)
}

func TestMoodEntries(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddMood(ctx, &db.MoodEntry{UserID: "1", Mood: "good", Timestamp: now, DateKey: "2026-10-15"}))
	require.NoError(t, s.AddMood(ctx, &db.MoodEntry{UserID: "1", Mood: "bad", Timestamp: now.Add(-48 * time.Hour), DateKey: "2026-10-13"}))
	require.NoError(t, s.AddMood(ctx, &db.MoodEntry{UserID: "1", Mood: "good", Timestamp: now.Add(time.Minute), DateKey: "2026-10-15"}))

	got, err := s.QueryMoods(ctx, MoodQuery{UserID: "1", DateKey: "2026-10-15"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.QueryMoods(ctx, MoodQuery{UserID: "1", From: now.Add(-72 * time.Hour), To: now})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPing(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
