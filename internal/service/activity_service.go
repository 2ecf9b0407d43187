package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/metrics"
	"github.com/activitylog/internal/store"
	"github.com/rs/zerolog"
)

// Classification sources used as metric labels.
const (
	SourceLexicon  = "lexicon"
	SourceFallback = "fallback"
)

// Recorded 是一次记录流程的结果。
type Recorded struct {
	User           *db.User
	Activity       db.Activity
	Classification activity.Classification
}

// ActivityService 串联分类、构建记录与持久化。
type ActivityService struct {
	store      *store.Store
	users      *UserService
	classifier *activity.Classifier
	log        zerolog.Logger
}

// NewActivityService 构造 ActivityService。
func NewActivityService(s *store.Store, users *UserService, classifier *activity.Classifier, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		store:      s,
		users:      users,
		classifier: classifier,
		log:        log.With().Str("component", "activity_service").Logger(),
	}
}

// Classify 仅分类，不落库。
func (s *ActivityService) Classify(ctx context.Context, text string) activity.Classification {
	return s.classifier.Classify(ctx, text)
}

// Record 为用户分类并保存一条活动消息。receivedAt 为消息接收时刻，
// 会转换到用户时区以确定日期。
func (s *ActivityService) Record(ctx context.Context, profile Profile, text string, receivedAt time.Time) (*Recorded, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("record activity: empty message")
	}

	user, _, err := s.users.GetOrCreate(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	classification := s.classifier.Classify(ctx, text)
	record := activity.Build(user.ExternalID, classification, text, receivedAt.In(s.users.Location(user)))
	if err := s.store.AddActivity(ctx, &record); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	source := SourceFallback
	if classification.AutoDetected {
		source = SourceLexicon
	}
	metrics.ActivitiesRecordedTotal.WithLabelValues(record.Category, source).Inc()
	s.log.Info().
		Str("user", user.ExternalID).
		Str("category", record.Category).
		Str("subtype", record.Subtype).
		Str("source", source).
		Msg("activity recorded")

	return &Recorded{User: user, Activity: record, Classification: classification}, nil
}
