package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. ACTIVITYLOG_DATABASE_PATH.
const EnvPrefix = "ACTIVITYLOG"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:":8080"`
	GinMode      string `envconfig:"GIN_MODE" default:"release"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"activitylog.db"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	TelegramToken   string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIBase string `envconfig:"TELEGRAM_API_BASE" default:"https://api.telegram.org"`
	WebhookURL      string `envconfig:"TELEGRAM_WEBHOOK_URL"`
	WebhookSecret   string `envconfig:"TELEGRAM_WEBHOOK_SECRET"`
	PollingEnabled  bool   `envconfig:"TELEGRAM_POLLING" default:"false"`
	PollWorkers     int    `envconfig:"TELEGRAM_POLL_WORKERS" default:"4"`

	AIAPIKey   string        `envconfig:"AI_API_KEY"`
	AIEndpoint string        `envconfig:"AI_ENDPOINT" default:"https://api.abacus.ai/chatllm/v1/chat"`
	AIModel    string        `envconfig:"AI_MODEL" default:"claude-3-sonnet"`
	AITimeout  time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`

	Defaults UserDefaults `envconfig:"DEFAULT"`
}

// UserDefaults seed the settings of a profile created on first contact.
type UserDefaults struct {
	Timezone         string `envconfig:"TIMEZONE" default:"Europe/Kiev"`
	Language         string `envconfig:"LANGUAGE" default:"uk"`
	ReminderInterval int    `envconfig:"REMINDER_INTERVAL" default:"60"`
	WaterGoal        int    `envconfig:"WATER_GOAL" default:"8"`
	SummaryTime      string `envconfig:"SUMMARY_TIME" default:"23:00"`
	ExercisePerWeek  int    `envconfig:"EXERCISE_PER_WEEK" default:"3"`
	NoSweetsDays     int    `envconfig:"NO_SWEETS_DAYS" default:"5"`
}

// Load 从环境变量读取应用配置，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment: %w", err)
	}

	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.TelegramAPIBase = strings.TrimRight(strings.TrimSpace(cfg.TelegramAPIBase), "/")
	cfg.WebhookURL = strings.TrimSpace(cfg.WebhookURL)
	cfg.AIAPIKey = strings.TrimSpace(cfg.AIAPIKey)
	cfg.AIEndpoint = strings.TrimSpace(cfg.AIEndpoint)

	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 30 * time.Second
	}
	if cfg.PollWorkers <= 0 {
		cfg.PollWorkers = 1
	}
	if cfg.Defaults.ReminderInterval <= 0 {
		cfg.Defaults.ReminderInterval = 60
	}
	if cfg.Defaults.WaterGoal <= 0 {
		cfg.Defaults.WaterGoal = 8
	}

	return cfg, nil
}
