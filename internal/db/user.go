package db

import "gorm.io/gorm"

// User 是首次交互时惰性创建的用户档案。
// ExternalID 为消息平台上的用户标识（Telegram user id），全局唯一。
type User struct {
	gorm.Model
	ExternalID string       `gorm:"size:64;uniqueIndex;not null"`
	Username   string       `gorm:"size:128"`
	FirstName  string       `gorm:"size:128"`
	Settings   UserSettings `gorm:"embedded;embeddedPrefix:settings_"`
	Goals      UserGoals    `gorm:"embedded;embeddedPrefix:goal_"`
}

// UserSettings 保存用户可调整的偏好。
type UserSettings struct {
	ReminderInterval int    // minutes
	Timezone         string `gorm:"size:64"`
	DailySummaryTime string `gorm:"size:5"` // HH:MM
	MoodTracking     bool
	WaterGoal        int    // glasses per day
	Language         string `gorm:"size:8"`
}

// UserGoals 保存目标设置。
type UserGoals struct {
	ExercisePerWeek int
	NoSweetsDays    int
}
