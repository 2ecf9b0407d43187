package handler

import (
	"context"

	"github.com/activitylog/internal/service"
	"github.com/activitylog/internal/store"
	"github.com/activitylog/internal/telegram"
	"github.com/rs/zerolog"
)

// UpdateHandler processes a Telegram update. *bot.Bot satisfies it.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update telegram.Update) error
}

// Deps lists what the HTTP handlers need. Updates may be nil when the
// webhook is not served.
type Deps struct {
	Store         *store.Store
	Users         *service.UserService
	Activities    *service.ActivityService
	Summaries     *service.SummaryService
	Moods         *service.MoodService
	Exports       *service.ExportService
	Reports       *service.ReportService
	Updates       UpdateHandler
	WebhookSecret string
	Log           zerolog.Logger
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	store         *store.Store
	users         *service.UserService
	activities    *service.ActivityService
	summaries     *service.SummaryService
	moods         *service.MoodService
	exports       *service.ExportService
	reports       *service.ReportService
	updates       UpdateHandler
	webhookSecret string
	log           zerolog.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(deps Deps) *API {
	return &API{
		store:         deps.Store,
		users:         deps.Users,
		activities:    deps.Activities,
		summaries:     deps.Summaries,
		moods:         deps.Moods,
		exports:       deps.Exports,
		reports:       deps.Reports,
		updates:       deps.Updates,
		webhookSecret: deps.WebhookSecret,
		log:           deps.Log.With().Str("component", "http").Logger(),
	}
}
