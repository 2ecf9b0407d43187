package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestOpenCreatesParentDirAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activitylog.db")

	gdb, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)

	migrator := gdb.Migrator()
	assert.True(t, migrator.HasTable(&User{}))
	assert.True(t, migrator.HasTable("activities"))
	assert.True(t, migrator.HasTable("mood_entries"))
	assert.True(t, migrator.HasColumn(&User{}, "settings_water_goal"))
	assert.True(t, migrator.HasColumn(&User{}, "goal_exercise_per_week"))
}

func TestOpenRejectsFileAsParent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Open(filepath.Join(blocker, "activitylog.db"))
	require.Error(t, err)
}

func TestActivityDetailsRoundTrip(t *testing.T) {
	gdb, err := Open("file:db_roundtrip?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ts := time.Date(2026, 10, 15, 9, 45, 0, 0, time.UTC)
	record := Activity{
		UserID:    "42",
		Timestamp: ts,
		DateKey:   "2026-10-15",
		Category:  "meal",
		Subtype:   "lunch",
		Details:   datatypes.JSON(`{"description":"обід","food_items":["курка"]}`),
		RawText:   "обід",
	}
	require.NoError(t, gdb.Create(&record).Error)

	var loaded Activity
	require.NoError(t, gdb.First(&loaded, record.ID).Error)
	assert.JSONEq(t, `{"description":"обід","food_items":["курка"]}`, string(loaded.Details))
	assert.True(t, loaded.Timestamp.Equal(ts))
}
