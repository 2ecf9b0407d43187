package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity 是持久化的活动记录。
// Timestamp 为活动发生时间（存储为 UTC），DateKey 为用户时区下的日期 YYYY-MM-DD，
// CreatedAt 为消息接收时间。Details 保存按类别区分的结构化字段（扁平 JSON）。
type Activity struct {
	gorm.Model
	UserID       string    `gorm:"size:64;not null;index:idx_activity_user_date;index:idx_activity_user_time"`
	Timestamp    time.Time `gorm:"not null;index:idx_activity_user_time"`
	DateKey      string    `gorm:"size:10;not null;index:idx_activity_user_date"`
	Category     string    `gorm:"size:32;not null;index"`
	Subtype      string    `gorm:"size:64;not null;default:''"`
	Details      datatypes.JSON
	RawText      string `gorm:"type:text"`
	AutoDetected bool
	Mood         string `gorm:"size:32"`
}

// TableName 固定表名。
func (Activity) TableName() string {
	return "activities"
}
