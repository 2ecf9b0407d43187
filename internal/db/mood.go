package db

import (
	"time"

	"gorm.io/gorm"
)

// MoodEntry 记录一次情绪打卡，同一天可以有多条。
type MoodEntry struct {
	gorm.Model
	UserID    string    `gorm:"size:64;not null;index:idx_mood_user_time"`
	Mood      string    `gorm:"size:32;not null"`
	Note      string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"not null;index:idx_mood_user_time"`
	DateKey   string    `gorm:"size:10;not null;index"`
}

// TableName 固定表名。
func (MoodEntry) TableName() string {
	return "mood_entries"
}
