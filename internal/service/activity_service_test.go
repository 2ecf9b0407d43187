package service

import (
	"context"
	"testing"
	"time"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeline struct {
	store      *store.Store
	users      *UserService
	activities *ActivityService
	summaries  *SummaryService
}

func newPipeline(t *testing.T, fallback activity.Fallback, now time.Time) pipeline {
	t.Helper()
	s := setupServiceStore(t)
	users := NewUserService(s, testDefaults)
	classifier := activity.NewClassifier(nil, fallback, zerolog.Nop())
	return pipeline{
		store:      s,
		users:      users,
		activities: NewActivityService(s, users, classifier, zerolog.Nop()),
		summaries:  NewSummaryService(s, users, nil).WithClock(func() time.Time { return now }),
	}
}

func TestRecordMealWithTimePrefix(t *testing.T) {
	received := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC) // 13:00 in Kyiv
	p := newPipeline(t, failingFallback(), received)

	rec, err := p.activities.Record(context.Background(), Profile{ExternalID: "42", FirstName: "Оля"}, "12:45 роблю обід, курку і макарон", received)
	require.NoError(t, err)

	kyiv := mustLocation(t, "Europe/Kiev")
	ts := rec.Activity.Timestamp.In(kyiv)
	assert.Equal(t, 12, ts.Hour())
	assert.Equal(t, 45, ts.Minute())
	assert.Equal(t, "2026-10-15", rec.Activity.DateKey)
	assert.Equal(t, "meal", rec.Activity.Category)
	assert.Equal(t, "lunch", rec.Activity.Subtype)
	assert.True(t, rec.Activity.AutoDetected)
	assert.True(t, rec.Activity.CreatedAt.Equal(received))

	details, err := activity.DecodeDetails(activity.CategoryMeal, rec.Activity.Details)
	require.NoError(t, err)
	assert.Equal(t, "12:45 роблю обід, курку і макарон", details.Description)
	require.NotNil(t, details.Meal)
	assert.Equal(t, []string{"курка", "макарон"}, details.Meal.FoodItems)
}

func TestRecordUsesUserCalendarDay(t *testing.T) {
	received := time.Date(2026, 10, 15, 22, 30, 0, 0, time.UTC) // 01:30 on the 16th in Kyiv
	p := newPipeline(t, failingFallback(), received)

	rec, err := p.activities.Record(context.Background(), Profile{ExternalID: "42"}, "випив склянку води", received)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", rec.Activity.DateKey)
	assert.True(t, rec.Activity.Timestamp.Equal(received))
}

func TestRecordUnclassifiedMessage(t *testing.T) {
	received := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	p := newPipeline(t, failingFallback(), received)

	text := "quiet afternoon thinking"
	rec, err := p.activities.Record(context.Background(), Profile{ExternalID: "42"}, text, received)
	require.NoError(t, err)
	assert.Equal(t, activity.Unclassified(text), rec.Classification)
	assert.Equal(t, "other", rec.Activity.Category)
	assert.Equal(t, "", rec.Activity.Subtype)
	assert.False(t, rec.Activity.AutoDetected)
	assert.JSONEq(t, `{"description":"quiet afternoon thinking"}`, string(rec.Activity.Details))
}

func TestRecordRejectsEmptyText(t *testing.T) {
	p := newPipeline(t, failingFallback(), time.Now())

	_, err := p.activities.Record(context.Background(), Profile{ExternalID: "42"}, "   ", time.Now())
	assert.Error(t, err)
}

func TestRecordThenDailySummaryCountsOnce(t *testing.T) {
	received := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	p := newPipeline(t, failingFallback(), received.Add(time.Hour))
	ctx := context.Background()
	profile := Profile{ExternalID: "42"}

	_, err := p.activities.Record(ctx, profile, "п'ю чай", received)
	require.NoError(t, err)
	before, err := p.summaries.Daily(ctx, "42")
	require.NoError(t, err)

	_, err = p.activities.Record(ctx, profile, "15:30 зробив 20 присідань", received)
	require.NoError(t, err)
	after, err := p.summaries.Daily(ctx, "42")
	require.NoError(t, err)

	assert.Equal(t, before.Total+1, after.Total)
	assert.Equal(t, countOf(before.Categories, activity.CategoryExercise)+1, countOf(after.Categories, activity.CategoryExercise))
	assert.Equal(t, countOf(before.Categories, activity.CategoryDrink), countOf(after.Categories, activity.CategoryDrink))
}

func countOf(counts []CategoryCount, c activity.Category) int {
	for _, cc := range counts {
		if cc.Category == c {
			return cc.Count
		}
	}
	return 0
}
