package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/activitylog/internal/service"
	"github.com/activitylog/internal/telegram"
)

type commandFunc func(b *Bot, ctx context.Context, conv *conversation, args string) error

var commands map[string]commandFunc

func init() {
	commands = map[string]commandFunc{
		"start":    (*Bot).cmdStart,
		"help":     (*Bot).cmdHelp,
		"summary":  (*Bot).cmdSummary,
		"week":     (*Bot).cmdWeek,
		"stats":    (*Bot).cmdStats,
		"diet":     (*Bot).cmdDiet,
		"exercise": (*Bot).cmdExercise,
		"goals":    (*Bot).cmdGoals,
		"mood":     (*Bot).cmdMood,
		"water":    (*Bot).cmdWater,
		"export":   (*Bot).cmdExport,
		"settings": (*Bot).cmdSettings,
		"goal":     (*Bot).cmdGoal,
	}
}

// parseCommand splits "/name@bot args" into name and args.
func parseCommand(text string) (string, string) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "/")
	name, args, _ := strings.Cut(text, " ")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), strings.TrimSpace(args)
}

// parseDays reads an optional day count. Anything unparsable means the default.
func parseDays(args string) int {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0
	}
	days, err := strconv.Atoi(fields[0])
	if err != nil || days <= 0 {
		return 0
	}
	return days
}

func (b *Bot) handleCommand(ctx context.Context, conv *conversation, text string) error {
	name, args := parseCommand(text)
	cmd, ok := commands[name]
	if !ok {
		return b.reply(ctx, conv, pick(conv.language, "Unknown command. Send /help for the list.", "Невідома команда. Надішли /help для списку команд."), nil)
	}
	return cmd(b, ctx, conv, args)
}

func (b *Bot) cmdStart(ctx context.Context, conv *conversation, _ string) error {
	return b.reply(ctx, conv, welcomeText(conv.language, conv.user.FirstName), mainMenu(conv.language))
}

func (b *Bot) cmdHelp(ctx context.Context, conv *conversation, _ string) error {
	return b.reply(ctx, conv, helpText(conv.language), nil)
}

func (b *Bot) cmdSummary(ctx context.Context, conv *conversation, _ string) error {
	summary, err := b.svc.Summaries.Daily(ctx, conv.userID())
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	return b.reply(ctx, conv, dailyText(conv.language, summary), nil)
}

func (b *Bot) cmdWeek(ctx context.Context, conv *conversation, _ string) error {
	summary, err := b.svc.Summaries.Weekly(ctx, conv.userID())
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	return b.reply(ctx, conv, weeklyText(conv.language, summary), nil)
}

func (b *Bot) cmdStats(ctx context.Context, conv *conversation, _ string) error {
	overview, err := b.svc.Summaries.Overview(ctx, conv.userID())
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	return b.reply(ctx, conv, statsText(conv.language, overview), nil)
}

func (b *Bot) cmdDiet(ctx context.Context, conv *conversation, args string) error {
	diet, err := b.svc.Summaries.Diet(ctx, conv.userID(), parseDays(args))
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	return b.reply(ctx, conv, dietText(conv.language, diet), nil)
}

func (b *Bot) cmdExercise(ctx context.Context, conv *conversation, args string) error {
	exercise, err := b.svc.Summaries.Exercise(ctx, conv.userID(), parseDays(args))
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	return b.reply(ctx, conv, exerciseText(conv.language, exercise), nil)
}

func (b *Bot) cmdGoals(ctx context.Context, conv *conversation, _ string) error {
	goals, err := b.svc.Summaries.Goals(ctx, conv.userID())
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	return b.reply(ctx, conv, goalsText(conv.language, goals), nil)
}

func (b *Bot) cmdWater(ctx context.Context, conv *conversation, _ string) error {
	hydration, err := b.svc.Summaries.Hydration(ctx, conv.userID())
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	return b.reply(ctx, conv, hydrationText(conv.language, hydration), nil)
}

// cmdMood logs "/mood <label> [note]" or shows recent stats without arguments.
// Labels may span words, e.g. "так собі".
func (b *Bot) cmdMood(ctx context.Context, conv *conversation, args string) error {
	if args == "" {
		stats, err := b.svc.Moods.Stats(ctx, conv.userID(), 0)
		if err != nil {
			return b.fail(ctx, conv, err)
		}
		return b.reply(ctx, conv, moodStatsText(conv.language, stats), moodMenu(conv.language))
	}

	words := strings.Fields(args)
	for i := len(words); i > 0; i-- {
		if mood, ok := service.ParseMood(strings.Join(words[:i], " ")); ok {
			return b.logMood(ctx, conv, mood, strings.Join(words[i:], " "))
		}
	}
	return b.reply(ctx, conv, pick(conv.language,
		"Unknown mood. Use one of: "+strings.Join(service.MoodLabels, ", "),
		"Невідомий настрій. Варіанти: відмінно, добре, нормально, погано, жахливо"), moodMenu(conv.language))
}

func (b *Bot) cmdExport(ctx context.Context, conv *conversation, args string) error {
	var buf bytes.Buffer
	rows, err := b.svc.Exports.Export(ctx, conv.userID(), parseDays(args), &buf)
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	if rows == 0 {
		return b.reply(ctx, conv, pick(conv.language, "Nothing to export yet.", "Поки що нічого експортувати."), nil)
	}
	return b.sender.SendDocument(ctx, telegram.Document{
		ChatID:   conv.chatID,
		FileName: b.svc.Exports.FileName(conv.userID()),
		Content:  buf.Bytes(),
		Caption:  fmt.Sprintf("%s: %d", pick(conv.language, "Activities", "Активностей"), rows),
	})
}

// cmdSettings shows settings, or updates one with "/settings key value".
func (b *Bot) cmdSettings(ctx context.Context, conv *conversation, args string) error {
	key, value, _ := strings.Cut(args, " ")
	if key == "" {
		return b.reply(ctx, conv, settingsText(conv.language, conv.user), settingsMenu(conv.language))
	}

	user, err := b.svc.Users.UpdateSetting(ctx, conv.userID(), key, value)
	if errors.Is(err, service.ErrInvalidSetting) {
		return b.reply(ctx, conv, pick(conv.language,
			"Invalid setting. Keys: ",
			"Некоректне налаштування. Ключі: ")+strings.Join(service.SettingKeys, ", "), nil)
	}
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	conv.user = user
	conv.language = user.Settings.Language
	return b.reply(ctx, conv, settingsText(conv.language, user), settingsMenu(conv.language))
}

// cmdGoal sets a goal with "/goal <name> <n>".
func (b *Bot) cmdGoal(ctx context.Context, conv *conversation, args string) error {
	usage := pick(conv.language, "Usage: /goal <name> <n>. Goals: ", "Формат: /goal &lt;назва&gt; &lt;n&gt;. Цілі: ") +
		strings.Join(service.GoalKeys, ", ")

	fields := strings.Fields(args)
	if len(fields) != 2 {
		return b.reply(ctx, conv, usage, nil)
	}
	target, err := strconv.Atoi(fields[1])
	if err != nil {
		return b.reply(ctx, conv, usage, nil)
	}

	user, err := b.svc.Users.UpdateGoal(ctx, conv.userID(), fields[0], target)
	if errors.Is(err, service.ErrInvalidSetting) {
		return b.reply(ctx, conv, usage, nil)
	}
	if err != nil {
		return b.fail(ctx, conv, err)
	}
	conv.user = user
	return b.cmdGoals(ctx, conv, "")
}

// fail reports an internal error to the user and passes it on.
func (b *Bot) fail(ctx context.Context, conv *conversation, err error) error {
	_ = b.reply(ctx, conv, genericErrorText(conv.language), nil)
	return err
}
