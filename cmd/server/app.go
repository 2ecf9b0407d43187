package main

import (
	"fmt"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/bot"
	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/handler"
	"github.com/activitylog/internal/logger"
	"github.com/activitylog/internal/service"
	"github.com/activitylog/internal/store"
	"github.com/activitylog/internal/telegram"
	"github.com/rs/zerolog"
)

const serviceName = "activitylog"

// app holds the wired components shared by the subcommands.
type app struct {
	cfg   config.AppConfig
	log   zerolog.Logger
	store *store.Store

	users      *service.UserService
	activities *service.ActivityService
	summaries  *service.SummaryService
	moods      *service.MoodService
	exports    *service.ExportService
	reports    *service.ReportService
	reminders  *service.ReminderPolicy
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(serviceName, cfg.LogLevel)

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := store.New(gdb)

	lexicon := activity.DefaultLexicon()
	fallback := service.NewAIClassifier(service.AIClientConfig{
		APIKey:   cfg.AIAPIKey,
		Endpoint: cfg.AIEndpoint,
		Model:    cfg.AIModel,
		Timeout:  cfg.AITimeout,
	}, log)
	if cfg.AIAPIKey == "" {
		log.Warn().Msg("AI API key not set; unmatched messages will be stored as other")
	}

	users := service.NewUserService(s, cfg.Defaults)
	summaries := service.NewSummaryService(s, users, lexicon)
	moods := service.NewMoodService(s, users)

	return &app{
		cfg:        cfg,
		log:        log,
		store:      s,
		users:      users,
		activities: service.NewActivityService(s, users, activity.NewClassifier(lexicon, fallback, log), log),
		summaries:  summaries,
		moods:      moods,
		exports:    service.NewExportService(s, users),
		reports:    service.NewReportService(summaries, moods, users),
		reminders:  service.NewReminderPolicy(),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.store.DB().DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *app) telegramClient() *telegram.Client {
	return telegram.New(telegram.Config{
		Token:   a.cfg.TelegramToken,
		APIBase: a.cfg.TelegramAPIBase,
	}, a.log)
}

func (a *app) newBot(sender bot.Sender) *bot.Bot {
	return bot.New(sender, bot.Services{
		Users:      a.users,
		Activities: a.activities,
		Summaries:  a.summaries,
		Moods:      a.moods,
		Exports:    a.exports,
		Reminders:  a.reminders,
	}, a.log)
}

func (a *app) api(updates handler.UpdateHandler) *handler.API {
	return handler.NewAPI(handler.Deps{
		Store:         a.store,
		Users:         a.users,
		Activities:    a.activities,
		Summaries:     a.summaries,
		Moods:         a.moods,
		Exports:       a.exports,
		Reports:       a.reports,
		Updates:       updates,
		WebhookSecret: a.cfg.WebhookSecret,
		Log:           a.log,
	})
}
