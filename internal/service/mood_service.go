package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/store"
)

// ErrInvalidMood 在情绪标签不在词表中时返回。
var ErrInvalidMood = errors.New("invalid mood")

// Mood labels stored in MoodEntry.Mood.
const (
	MoodExcellent = "excellent"
	MoodGood      = "good"
	MoodNeutral   = "neutral"
	MoodBad       = "bad"
	MoodTerrible  = "terrible"
)

// MoodLabels lists the vocabulary from best to worst.
var MoodLabels = []string{MoodExcellent, MoodGood, MoodNeutral, MoodBad, MoodTerrible}

var moodAliases = map[string]string{
	"відмінно":  MoodExcellent,
	"чудово":    MoodExcellent,
	"добре":     MoodGood,
	"нормально": MoodNeutral,
	"так собі":  MoodNeutral,
	"погано":    MoodBad,
	"жахливо":   MoodTerrible,
	"😄":         MoodExcellent,
	"🙂":         MoodGood,
	"😐":         MoodNeutral,
	"🙁":         MoodBad,
	"😫":         MoodTerrible,
}

// moodScores map labels onto 1..5 for averaging.
var moodScores = map[string]int{
	MoodExcellent: 5,
	MoodGood:      4,
	MoodNeutral:   3,
	MoodBad:       2,
	MoodTerrible:  1,
}

// ParseMood 将英文、乌克兰语或表情形式的标签映射到标准词表。
func ParseMood(raw string) (string, bool) {
	value := activity.Normalize(strings.TrimSpace(raw))
	if _, ok := moodScores[value]; ok {
		return value, true
	}
	if label, ok := moodAliases[value]; ok {
		return label, true
	}
	return "", false
}

// MoodStats 汇总一段时间内的情绪记录。
type MoodStats struct {
	Days    int         `json:"days"`
	Entries int         `json:"entries"`
	Average float64     `json:"average"`
	Latest  string      `json:"latest"`
	Counts  []NameCount `json:"counts"`
}

// MoodService 负责情绪打卡。
type MoodService struct {
	store *store.Store
	users *UserService
	now   func() time.Time
}

// NewMoodService 构造 MoodService。
func NewMoodService(s *store.Store, users *UserService) *MoodService {
	return &MoodService{store: s, users: users, now: time.Now}
}

// WithClock 替换当前时间来源，便于测试。
func (s *MoodService) WithClock(now func() time.Time) *MoodService {
	if now != nil {
		s.now = now
	}
	return s
}

// Log 记录一条情绪，label 支持词表中的任意形式。
func (s *MoodService) Log(ctx context.Context, profile Profile, label, note string) (*db.MoodEntry, error) {
	mood, ok := ParseMood(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMood, label)
	}
	user, _, err := s.users.GetOrCreate(ctx, profile)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.users.Location(user))
	entry := &db.MoodEntry{
		UserID:    user.ExternalID,
		Mood:      mood,
		Note:      strings.TrimSpace(note),
		Timestamp: now,
		DateKey:   activity.DateKey(now),
	}
	if err := s.store.AddMood(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Stats 统计最近 days 天的情绪分布。
func (s *MoodService) Stats(ctx context.Context, userID string, days int) (MoodStats, error) {
	days = clampDays(days, DefaultAnalysisDays)
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return MoodStats{}, err
	}
	now := s.now().In(s.users.Location(user))
	entries, err := s.store.QueryMoods(ctx, store.MoodQuery{
		UserID: userID,
		From:   now.AddDate(0, 0, -days),
		To:     now,
	})
	if err != nil {
		return MoodStats{}, err
	}
	return SummarizeMoods(entries, days), nil
}

// SummarizeMoods 计算分布、平均分（1..5）与最近一次情绪。
func SummarizeMoods(entries []db.MoodEntry, days int) MoodStats {
	stats := MoodStats{Days: days}
	counts := make(map[string]int)
	total := 0
	for _, e := range entries {
		score, ok := moodScores[e.Mood]
		if !ok {
			continue
		}
		counts[e.Mood]++
		total += score
		stats.Entries++
		stats.Latest = e.Mood
	}
	if stats.Entries > 0 {
		stats.Average = float64(total) / float64(stats.Entries)
	}
	stats.Counts = sortNameCounts(counts, 0)
	return stats
}
