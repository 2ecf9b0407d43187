// Package bot turns Telegram updates into calls on the activity services and
// replies with formatted summaries.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/locale"
	"github.com/activitylog/internal/metrics"
	"github.com/activitylog/internal/service"
	"github.com/activitylog/internal/telegram"
	"github.com/rs/zerolog"
)

// Update kinds recorded in metrics.UpdatesHandledTotal.
const (
	kindCommand  = "command"
	kindButton   = "button"
	kindActivity = "activity"
	kindIgnored  = "ignored"
	kindError    = "error"
)

// Sender delivers replies. *telegram.Client satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, msg telegram.OutgoingMessage) error
	SendDocument(ctx context.Context, doc telegram.Document) error
}

// Services bundles what the bot dispatches to. Reminders may be nil.
type Services struct {
	Users      *service.UserService
	Activities *service.ActivityService
	Summaries  *service.SummaryService
	Moods      *service.MoodService
	Exports    *service.ExportService
	Reminders  *service.ReminderPolicy
}

// Bot handles updates. Updates from one user are processed one at a time.
type Bot struct {
	sender Sender
	svc    Services
	locks  *keyedMutex
	log    zerolog.Logger
	now    func() time.Time
}

// New builds a Bot.
func New(sender Sender, svc Services, log zerolog.Logger) *Bot {
	return &Bot{
		sender: sender,
		svc:    svc,
		locks:  newKeyedMutex(),
		log:    log.With().Str("component", "bot").Logger(),
		now:    time.Now,
	}
}

// WithClock replaces the clock used when an update carries no date.
func (b *Bot) WithClock(now func() time.Time) *Bot {
	if now != nil {
		b.now = now
	}
	return b
}

// conversation is the per-update state passed to handlers.
type conversation struct {
	chatID   int64
	profile  service.Profile
	user     *db.User
	language string
	received time.Time
}

func (c *conversation) userID() string {
	return c.user.ExternalID
}

// HandleUpdate processes one update. Failures are reported to the user and
// returned for logging; a nil error means the update was fully handled.
func (b *Bot) HandleUpdate(ctx context.Context, update telegram.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		metrics.UpdatesHandledTotal.WithLabelValues(kindIgnored).Inc()
		return nil
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		metrics.UpdatesHandledTotal.WithLabelValues(kindIgnored).Inc()
		return nil
	}

	unlock := b.locks.Lock(msg.From.IDString())
	defer unlock()

	conv := &conversation{
		chatID: msg.Chat.ID,
		profile: service.Profile{
			ExternalID: msg.From.IDString(),
			Username:   msg.From.Username,
			FirstName:  msg.From.FirstName,
		},
		received: msg.Time(),
	}
	if msg.Date == 0 {
		conv.received = b.now().UTC()
	}

	user, created, err := b.svc.Users.GetOrCreate(ctx, conv.profile)
	if err != nil {
		b.log.Error().Err(err).Str("user_id", conv.profile.ExternalID).Msg("load profile failed")
		metrics.UpdatesHandledTotal.WithLabelValues(kindError).Inc()
		_ = b.reply(ctx, conv, genericErrorText(locale.LanguageUkrainian), nil)
		return err
	}
	if created {
		user = b.adoptClientLanguage(ctx, user, msg.From.LanguageCode)
	}
	conv.user = user
	conv.language = user.Settings.Language

	kind := kindActivity
	switch {
	case strings.HasPrefix(text, "/"):
		kind = kindCommand
		err = b.handleCommand(ctx, conv, text)
	default:
		var handled bool
		handled, err = b.handleButton(ctx, conv, text)
		if handled {
			kind = kindButton
		} else {
			err = b.handleActivity(ctx, conv, text)
		}
	}

	if err != nil {
		metrics.UpdatesHandledTotal.WithLabelValues(kindError).Inc()
		b.log.Error().Err(err).Str("user_id", conv.userID()).Str("kind", kind).Msg("update failed")
		return err
	}
	metrics.UpdatesHandledTotal.WithLabelValues(kind).Inc()
	return nil
}

// adoptClientLanguage stores the Telegram client language on a fresh profile
// when it is one the bot speaks.
func (b *Bot) adoptClientLanguage(ctx context.Context, user *db.User, code string) *db.User {
	language := locale.NormalizeLanguage(code)
	if language == "" || language == user.Settings.Language {
		return user
	}
	updated, err := b.svc.Users.UpdateSetting(ctx, user.ExternalID, service.SettingLanguage, language)
	if err != nil {
		b.log.Warn().Err(err).Str("user_id", user.ExternalID).Msg("store client language failed")
		return user
	}
	return updated
}

func (b *Bot) handleActivity(ctx context.Context, conv *conversation, text string) error {
	rec, err := b.svc.Activities.Record(ctx, conv.profile, text, conv.received)
	if err != nil {
		_ = b.reply(ctx, conv, activityErrorText(conv.language), mainMenu(conv.language))
		return err
	}
	if err := b.reply(ctx, conv, recordedText(conv.language, rec), mainMenu(conv.language)); err != nil {
		return err
	}

	if b.svc.Reminders == nil {
		return nil
	}
	nudge := b.svc.Reminders.After(rec.User, activity.Category(rec.Activity.Category))
	switch nudge {
	case service.NudgeMood:
		return b.reply(ctx, conv, nudgeText(conv.language, nudge), moodMenu(conv.language))
	case service.NudgeHydration:
		return b.reply(ctx, conv, nudgeText(conv.language, nudge), nil)
	}
	return nil
}

// handleButton reacts to reply keyboard labels. It reports false when text
// is not a known button.
func (b *Bot) handleButton(ctx context.Context, conv *conversation, text string) (bool, error) {
	lang := conv.language
	switch {
	case btnAddActivity.matches(text):
		return true, b.reply(ctx, conv, pick(lang, "Pick an activity type or just write what you are doing:", "Обери тип активності або просто напиши, що робиш:"), activityTypesMenu(lang))
	case btnStats.matches(text):
		return true, b.cmdStats(ctx, conv, "")
	case btnDaySummary.matches(text):
		return true, b.cmdSummary(ctx, conv, "")
	case btnSettings.matches(text):
		return true, b.cmdSettings(ctx, conv, "")
	case btnBack.matches(text):
		return true, b.reply(ctx, conv, pick(lang, "Main menu", "Головне меню"), mainMenu(lang))
	case btnReminders.matches(text):
		return true, b.reply(ctx, conv, remindersText(lang, conv.user.Settings.ReminderInterval), settingsMenu(lang))
	case btnLanguage.matches(text):
		return true, b.toggleLanguage(ctx, conv)
	}

	for _, h := range activityHints {
		if h.button.matches(text) {
			return true, b.reply(ctx, conv, h.hint.in(lang), activityTypesMenu(lang))
		}
	}

	if mood, ok := moodFromButton(text); ok {
		return true, b.logMood(ctx, conv, mood, "")
	}
	return false, nil
}

func (b *Bot) toggleLanguage(ctx context.Context, conv *conversation) error {
	next := locale.LanguageEnglish
	if conv.language == locale.LanguageEnglish {
		next = locale.LanguageUkrainian
	}
	user, err := b.svc.Users.UpdateSetting(ctx, conv.userID(), service.SettingLanguage, next)
	if err != nil {
		_ = b.reply(ctx, conv, genericErrorText(conv.language), nil)
		return err
	}
	conv.user = user
	conv.language = next
	return b.reply(ctx, conv, pick(next, "Language: English", "Мова: українська"), settingsMenu(next))
}

func (b *Bot) logMood(ctx context.Context, conv *conversation, label, note string) error {
	entry, err := b.svc.Moods.Log(ctx, conv.profile, label, note)
	if err != nil {
		_ = b.reply(ctx, conv, genericErrorText(conv.language), nil)
		return err
	}
	text := pick(conv.language, "✅ Mood saved: ", "✅ Настрій записано: ") + locale.MoodLabel(conv.language, entry.Mood)
	return b.reply(ctx, conv, text, mainMenu(conv.language))
}

func (b *Bot) reply(ctx context.Context, conv *conversation, text string, markup *telegram.ReplyKeyboardMarkup) error {
	return b.sender.SendMessage(ctx, telegram.OutgoingMessage{
		ChatID:      conv.chatID,
		Text:        text,
		ParseMode:   telegram.ParseModeHTML,
		ReplyMarkup: markup,
	})
}
