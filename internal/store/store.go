// Package store persists profiles, activities and mood entries with gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/activitylog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// ActivityQuery filters activities. Zero values leave a filter unset. From is
// inclusive and To is inclusive.
type ActivityQuery struct {
	UserID   string
	DateKey  string
	Category string
	From     time.Time
	To       time.Time
}

// MoodQuery filters mood entries.
type MoodQuery struct {
	UserID  string
	DateKey string
	From    time.Time
	To      time.Time
}

// Store is the gorm-backed persistence layer.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AddActivity inserts a record. Timestamps are stored in UTC so range filters
// compare consistently.
func (s *Store) AddActivity(ctx context.Context, record *db.Activity) error {
	record.Timestamp = record.Timestamp.UTC()
	if !record.CreatedAt.IsZero() {
		record.CreatedAt = record.CreatedAt.UTC()
		record.UpdatedAt = record.CreatedAt
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("add activity: %w", err)
	}
	return nil
}

// QueryActivities returns matching records ordered by timestamp.
func (s *Store) QueryActivities(ctx context.Context, q ActivityQuery) ([]db.Activity, error) {
	query := s.db.WithContext(ctx).Model(&db.Activity{})
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.DateKey != "" {
		query = query.Where("date_key = ?", q.DateKey)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if !q.From.IsZero() {
		query = query.Where("timestamp >= ?", q.From.UTC())
	}
	if !q.To.IsZero() {
		query = query.Where("timestamp <= ?", q.To.UTC())
	}

	var records []db.Activity
	if err := query.Order("timestamp ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	return records, nil
}

// GetOrCreateUser returns the profile with defaults.ExternalID, inserting
// defaults when it does not exist yet. The bool reports whether it was created.
func (s *Store) GetOrCreateUser(ctx context.Context, defaults db.User) (*db.User, bool, error) {
	if defaults.ExternalID == "" {
		return nil, false, errors.New("user external id is required")
	}

	insert := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(&defaults)
	if insert.Error != nil {
		return nil, false, fmt.Errorf("create user: %w", insert.Error)
	}
	created := insert.RowsAffected == 1

	user, err := s.GetUser(ctx, defaults.ExternalID)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// GetUser loads a profile by external id.
func (s *Store) GetUser(ctx context.Context, externalID string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// SaveUser writes every column of an existing profile.
func (s *Store) SaveUser(ctx context.Context, user *db.User) error {
	if user.ID == 0 {
		return errors.New("save user: missing id")
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// AddMood inserts a mood entry.
func (s *Store) AddMood(ctx context.Context, entry *db.MoodEntry) error {
	entry.Timestamp = entry.Timestamp.UTC()
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("add mood: %w", err)
	}
	return nil
}

// QueryMoods returns matching mood entries ordered by timestamp.
func (s *Store) QueryMoods(ctx context.Context, q MoodQuery) ([]db.MoodEntry, error) {
	query := s.db.WithContext(ctx).Model(&db.MoodEntry{})
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.DateKey != "" {
		query = query.Where("date_key = ?", q.DateKey)
	}
	if !q.From.IsZero() {
		query = query.Where("timestamp >= ?", q.From.UTC())
	}
	if !q.To.IsZero() {
		query = query.Where("timestamp <= ?", q.To.UTC())
	}

	var entries []db.MoodEntry
	if err := query.Order("timestamp ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("query moods: %w", err)
	}
	return entries, nil
}
