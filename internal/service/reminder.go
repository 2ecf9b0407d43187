package service

import (
	"math/rand"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/db"
)

// Nudge 是记录活动后附带的提醒类型。
type Nudge string

const (
	NudgeNone      Nudge = ""
	NudgeHydration Nudge = "hydration"
	NudgeMood      Nudge = "mood"
)

// reminderBaseMinutes: an interval of 30 minutes or less nudges after every activity.
const reminderBaseMinutes = 30

// ReminderPolicy 在没有调度器的前提下，用概率决定是否附带提醒。
type ReminderPolicy struct {
	roll func() float64
}

// NewReminderPolicy 使用 math/rand 作为随机源。
func NewReminderPolicy() *ReminderPolicy {
	return &ReminderPolicy{roll: rand.Float64}
}

// WithRoll 替换随机源，便于测试。roll 需返回 [0,1) 内的值。
func (p *ReminderPolicy) WithRoll(roll func() float64) *ReminderPolicy {
	if roll != nil {
		p.roll = roll
	}
	return p
}

// Probability 返回 min(1, 30/interval)，interval<=0 时不提醒。
func Probability(reminderInterval int) float64 {
	if reminderInterval <= 0 {
		return 0
	}
	p := float64(reminderBaseMinutes) / float64(reminderInterval)
	if p > 1 {
		return 1
	}
	return p
}

// After 决定刚记录的活动后是否提醒。刚喝过水时不再提醒喝水。
func (p *ReminderPolicy) After(user *db.User, category activity.Category) Nudge {
	if user == nil || p.roll() >= Probability(user.Settings.ReminderInterval) {
		return NudgeNone
	}

	moodAllowed := user.Settings.MoodTracking
	if category == activity.CategoryDrink {
		if moodAllowed {
			return NudgeMood
		}
		return NudgeNone
	}
	if moodAllowed && p.roll() < 0.5 {
		return NudgeMood
	}
	return NudgeHydration
}
