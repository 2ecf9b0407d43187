package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/store"
)

var (
	// ErrUserNotFound 在用户档案不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidSetting 当设置项名称或取值不合法时返回
	ErrInvalidSetting = errors.New("invalid setting")
)

// 可通过 /settings 与 /goal 修改的键。
const (
	SettingReminderInterval = "reminder_interval"
	SettingTimezone         = "timezone"
	SettingSummaryTime      = "daily_summary_time"
	SettingMoodTracking     = "mood_tracking"
	SettingWaterGoal        = "water_goal"
	SettingLanguage         = "language"

	GoalExercisePerWeek = "exercise_per_week"
	GoalNoSweetsDays    = "no_sweets_days"
)

// SettingKeys lists the keys accepted by UpdateSetting.
var SettingKeys = []string{
	SettingReminderInterval,
	SettingTimezone,
	SettingSummaryTime,
	SettingMoodTracking,
	SettingWaterGoal,
	SettingLanguage,
}

// GoalKeys lists the keys accepted by UpdateGoal.
var GoalKeys = []string{GoalExercisePerWeek, GoalNoSweetsDays}

// Profile 描述首次交互时传入的用户信息。
type Profile struct {
	ExternalID string
	Username   string
	FirstName  string
}

// UserService 负责用户档案的惰性创建与设置更新。
type UserService struct {
	store    *store.Store
	defaults config.UserDefaults
}

// NewUserService 使用配置中的默认值构造 UserService。
func NewUserService(s *store.Store, defaults config.UserDefaults) *UserService {
	return &UserService{store: s, defaults: defaults}
}

// GetOrCreate 返回用户档案，不存在时以默认设置创建。bool 表示是否为新建。
func (s *UserService) GetOrCreate(ctx context.Context, profile Profile) (*db.User, bool, error) {
	externalID := strings.TrimSpace(profile.ExternalID)
	if externalID == "" {
		return nil, false, fmt.Errorf("%w: empty user id", ErrInvalidSetting)
	}
	return s.store.GetOrCreateUser(ctx, db.User{
		ExternalID: externalID,
		Username:   strings.TrimSpace(profile.Username),
		FirstName:  strings.TrimSpace(profile.FirstName),
		Settings: db.UserSettings{
			ReminderInterval: s.defaults.ReminderInterval,
			Timezone:         s.defaults.Timezone,
			DailySummaryTime: s.defaults.SummaryTime,
			MoodTracking:     true,
			WaterGoal:        s.defaults.WaterGoal,
			Language:         s.defaults.Language,
		},
		Goals: db.UserGoals{
			ExercisePerWeek: s.defaults.ExercisePerWeek,
			NoSweetsDays:    s.defaults.NoSweetsDays,
		},
	})
}

// Get 读取已有档案。
func (s *UserService) Get(ctx context.Context, externalID string) (*db.User, error) {
	user, err := s.store.GetUser(ctx, externalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Location 返回用户时区，无法解析时依次退回默认时区与 UTC。
func (s *UserService) Location(user *db.User) *time.Location {
	if user != nil {
		if loc, err := time.LoadLocation(user.Settings.Timezone); err == nil && user.Settings.Timezone != "" {
			return loc
		}
	}
	if loc, err := time.LoadLocation(s.defaults.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// UpdateSetting 校验并写入单个设置项。
func (s *UserService) UpdateSetting(ctx context.Context, externalID, key, value string) (*db.User, error) {
	user, err := s.Get(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if err := applySetting(&user.Settings, strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
		return nil, err
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateGoal 校验并写入单个目标值。
func (s *UserService) UpdateGoal(ctx context.Context, externalID, key string, value int) (*db.User, error) {
	user, err := s.Get(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if value < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, key)
	}
	switch strings.ToLower(strings.TrimSpace(key)) {
	case GoalExercisePerWeek:
		user.Goals.ExercisePerWeek = value
	case GoalNoSweetsDays:
		user.Goals.NoSweetsDays = value
	default:
		return nil, fmt.Errorf("%w: unknown goal %q", ErrInvalidSetting, key)
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func applySetting(settings *db.UserSettings, key, value string) error {
	switch key {
	case SettingReminderInterval, SettingWaterGoal:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidSetting, key)
		}
		if key == SettingWaterGoal {
			settings.WaterGoal = n
		} else {
			settings.ReminderInterval = n
		}
	case SettingTimezone:
		if value == "" {
			return fmt.Errorf("%w: empty timezone", ErrInvalidSetting)
		}
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidSetting, value)
		}
		settings.Timezone = value
	case SettingSummaryTime:
		parsed, err := time.Parse("15:04", value)
		if err != nil {
			return fmt.Errorf("%w: summary time must be HH:MM", ErrInvalidSetting)
		}
		settings.DailySummaryTime = parsed.Format("15:04")
	case SettingMoodTracking:
		enabled, err := parseSwitch(value)
		if err != nil {
			return err
		}
		settings.MoodTracking = enabled
	case SettingLanguage:
		lang := strings.ToLower(value)
		if lang != "uk" && lang != "en" {
			return fmt.Errorf("%w: language must be uk or en", ErrInvalidSetting)
		}
		settings.Language = lang
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidSetting, key)
	}
	return nil
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "1", "yes", "так", "увімк":
		return true, nil
	case "off", "false", "0", "no", "ні", "вимк":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off", ErrInvalidSetting)
}
