package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeHTTPClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// completionResponse wraps content in an OpenAI-style completion body.
func completionResponse(content string) *http.Response {
	payload := map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	}
	buf, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(bytes.NewReader(buf)),
		Header:     make(http.Header),
	}
}

var testDefaults = config.UserDefaults{
	Timezone:         "Europe/Kiev",
	Language:         "uk",
	ReminderInterval: 60,
	WaterGoal:        8,
	SummaryTime:      "23:00",
	ExercisePerWeek:  3,
	NoSweetsDays:     5,
}

func setupServiceStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store.New(gdb)
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func failingFallback() activity.Fallback {
	return activity.FallbackFunc(func(ctx context.Context, text string) activity.Classification {
		return activity.Unclassified(text)
	})
}

// seedActivity builds and stores a record the same way the pipeline does.
func seedActivity(t *testing.T, s *store.Store, userID, text string, at time.Time) db.Activity {
	t.Helper()
	classifier := activity.NewClassifier(nil, failingFallback(), zerolog.Nop())
	record := activity.Build(userID, classifier.Classify(context.Background(), text), text, at)
	require.NoError(t, s.AddActivity(context.Background(), &record))
	return record
}
