package main

import (
	"context"
	"testing"
	"time"

	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/service"
	"github.com/activitylog/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedActivitiesCoversEveryCategory(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:activity-seed?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s := store.New(gdb)
	users := service.NewUserService(s, config.UserDefaults{Timezone: "Europe/Kiev", Language: "uk", ReminderInterval: 60, WaterGoal: 8})
	activities := service.NewActivityService(s, users, offlineClassifier(), zerolog.Nop())

	end := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	n, err := seedActivities(context.Background(), activities, users, service.Profile{ExternalID: "1000"}, 3, end)
	require.NoError(t, err)
	assert.Equal(t, 3*len(sampleDay)+1, n)

	records, err := s.QueryActivities(context.Background(), store.ActivityQuery{UserID: "1000"})
	require.NoError(t, err)
	require.Len(t, records, n)

	counts := make(map[string]int)
	days := make(map[string]bool)
	for _, r := range records {
		counts[r.Category]++
		days[r.DateKey] = true
	}
	assert.Equal(t, map[string]int{
		"meal":     10,
		"work":     3,
		"drink":    3,
		"exercise": 3,
		"cleaning": 3,
		"sleep":    3,
	}, counts)
	assert.Equal(t, map[string]bool{"2026-10-13": true, "2026-10-14": true, "2026-10-15": true}, days)
	assert.Equal(t, "2026-10-13", records[0].DateKey, "oldest day first")
}
