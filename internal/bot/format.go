package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/locale"
	"github.com/activitylog/internal/service"
	"github.com/microcosm-cc/bluemonday"
)

// Replies use Telegram HTML; anything that came from the user goes through escape.
var strictPolicy = bluemonday.StrictPolicy()

func escape(s string) string {
	return strictPolicy.Sanitize(s)
}

func pick(language, english, ukrainian string) string {
	return locale.Pick(language, english, ukrainian)
}

func formatDate(dateKey string) string {
	t, err := time.Parse(activity.DateKeyLayout, dateKey)
	if err != nil {
		return dateKey
	}
	return t.Format("02.01.2006")
}

func welcomeText(language, name string) string {
	if name == "" {
		name = pick(language, "there", "друже")
	}
	return pick(language,
		fmt.Sprintf(`🤖 Hi, %s!

I'm your personal activity tracking assistant.

Just tell me what you're doing, for example:
• "12:45 lunch, chicken and pasta"
• "14:00 working on the project"
• "15:30 20 squats"

Commands:
/help - help
/summary - daily summary
/stats - statistics
/settings - settings`, escape(name)),
		fmt.Sprintf(`🤖 Привіт, %s!

Я твій особистий асистент для відстеження активностей.

Просто пиши мені, що ти робиш, наприклад:
• "12:45 роблю обід, курку і макарон"
• "14:00 почав роботу над проектом"
• "15:30 зробив 20 присідань"

Команди:
/help - допомога
/summary - підсумок дня
/stats - статистика
/settings - налаштування`, escape(name)))
}

func helpText(language string) string {
	return pick(language,
		`📋 <b>Available commands:</b>

/start - start working with the bot
/summary - daily summary
/week - weekly summary
/stats - detailed statistics
/diet [days] - diet analysis
/exercise [days] - exercise analysis
/goals - goal progress
/mood [mood note] - log your mood
/water - water intake today
/export [days] - export to CSV
/settings [key value] - bot settings
/goal &lt;name&gt; &lt;n&gt; - set a goal
/help - this help

<b>How to use:</b>
Just write your activities in free form!`,
		`📋 <b>Доступні команди:</b>

/start - почати роботу з ботом
/summary - підсумок дня
/week - підсумок тижня
/stats - детальна статистика
/diet [днів] - аналіз раціону
/exercise [днів] - аналіз фізичних вправ
/goals - прогрес цілей
/mood [настрій нотатка] - записати настрій
/water - випито води сьогодні
/export [днів] - експорт у CSV
/settings [ключ значення] - налаштування бота
/goal &lt;назва&gt; &lt;n&gt; - встановити ціль
/help - ця довідка

<b>Як користуватися:</b>
Просто пиши свої активності у вільній формі!`)
}

func recordedText(language string, rec *service.Recorded) string {
	var b strings.Builder
	b.WriteString(pick(language, "✅ Saved: ", "✅ Записав: "))
	b.WriteString(escape(rec.Activity.Category))
	if rec.Activity.Subtype != "" {
		fmt.Fprintf(&b, " (%s)", escape(rec.Activity.Subtype))
	}

	details := rec.Classification.Details
	switch {
	case details.Meal != nil && len(details.Meal.FoodItems) > 0:
		fmt.Fprintf(&b, "\n🍽 %s %s", pick(language, "Foods:", "Продукти:"), escape(strings.Join(details.Meal.FoodItems, ", ")))
	case details.Exercise != nil && details.Exercise.Repetitions > 0:
		fmt.Fprintf(&b, "\n💪 %d %s", details.Exercise.Repetitions, pick(language, "reps", "повторень"))
	case details.Drink != nil:
		fmt.Fprintf(&b, "\n🥤 %d %s", details.Drink.Amount, escape(details.Drink.DrinkType))
	}
	return b.String()
}

func categoryLines(b *strings.Builder, language string, counts []service.CategoryCount) {
	for _, c := range counts {
		fmt.Fprintf(b, "\n%s %s: %d", locale.CategoryEmoji(string(c.Category)), locale.CategoryLabel(language, string(c.Category)), c.Count)
	}
}

func dailyText(language string, s service.DailySummary) string {
	if s.Empty {
		return pick(language, "No activity for this period.", "За цей період не було жодної активності.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s %s:</b>", pick(language, "Summary for", "Підсумок за"), formatDate(s.DateKey))
	fmt.Fprintf(&b, "\n%s: %d", pick(language, "Total activities", "Всього активностей"), s.Total)
	categoryLines(&b, language, s.Categories)
	return b.String()
}

func weeklyText(language string, s service.WeeklySummary) string {
	if s.Total == 0 {
		return pick(language, "No activity for this period.", "За цей період не було жодної активності.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s %s – %s:</b>", pick(language, "Summary for", "Підсумок за"), s.From.Format("02.01.2006"), s.To.Format("02.01.2006"))
	fmt.Fprintf(&b, "\n%s: %d", pick(language, "Total activities", "Всього активностей"), s.Total)
	fmt.Fprintf(&b, "\n%s: %s (%d)", pick(language, "Most active day", "Найактивніший день"), formatDate(s.MostActiveDay), s.MostActiveCount)
	categoryLines(&b, language, s.Categories)
	return b.String()
}

func dietText(language string, d service.DietAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 <b>%s (%d %s)</b>", pick(language, "Diet analysis", "Аналіз раціону"), d.Days, pick(language, "days", "днів"))
	if d.Meals == 0 {
		b.WriteString("\n")
		b.WriteString(pick(language, "No meals recorded.", "Прийомів їжі не записано."))
		return b.String()
	}
	fmt.Fprintf(&b, "\n%s: %d", pick(language, "Meals", "Прийомів їжі"), d.Meals)
	for _, m := range d.MealTypes {
		fmt.Fprintf(&b, "\n• %s: %d", escape(locale.MealLabel(language, m.Name)), m.Count)
	}
	if len(d.TopFoods) > 0 {
		fmt.Fprintf(&b, "\n\n%s:", pick(language, "Top foods", "Найчастіші продукти"))
		for i, f := range d.TopFoods {
			fmt.Fprintf(&b, "\n%d. %s: %d", i+1, escape(f.Name), f.Count)
		}
	}
	return b.String()
}

func exerciseText(language string, e service.ExerciseAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💪 <b>%s (%d %s)</b>", pick(language, "Exercise analysis", "Аналіз фізичних вправ"), e.Days, pick(language, "days", "днів"))
	if e.Sessions == 0 {
		b.WriteString("\n")
		b.WriteString(pick(language, "No workouts recorded.", "Тренувань не записано."))
		return b.String()
	}
	fmt.Fprintf(&b, "\n%s: %d", pick(language, "Sessions", "Тренувань"), e.Sessions)
	fmt.Fprintf(&b, "\n%s: %d", pick(language, "Total repetitions", "Всього повторень"), e.TotalRepetitions)
	for _, t := range e.Types {
		fmt.Fprintf(&b, "\n• %s: %d", escape(t.Name), t.Count)
	}
	return b.String()
}

func goalsText(language string, g service.GoalProgress) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 <b>%s</b>", pick(language, "Goals", "Цілі"))
	fmt.Fprintf(&b, "\n💪 %s: %d/%d%s", pick(language, "Workouts this week", "Тренувань за тиждень"), g.ExerciseCount, g.ExerciseGoal, doneSuffix(g.ExerciseDone))
	fmt.Fprintf(&b, "\n🍬 %s: %d/%d%s", pick(language, "Days without sweets", "Днів без солодкого"), g.NoSweetsStreak, g.NoSweetsGoal, doneSuffix(g.NoSweetsDone))
	return b.String()
}

func doneSuffix(done bool) string {
	if done {
		return " ✅"
	}
	return ""
}

func hydrationText(language string, h service.Hydration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💧 %s: %d/%d%s", pick(language, "Water today", "Вода сьогодні"), h.Glasses, h.Goal, doneSuffix(h.Reached))
	for _, d := range h.Drinks {
		if d.Name == "water" {
			continue
		}
		fmt.Fprintf(&b, "\n🥤 %s: %d", escape(d.Name), d.Count)
	}
	return b.String()
}

func moodStatsText(language string, m service.MoodStats) string {
	if m.Entries == 0 {
		return pick(language, "No mood entries yet. Send /mood good", "Записів настрою ще немає. Надішли /mood добре")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🙂 <b>%s (%d %s)</b>", pick(language, "Mood", "Настрій"), m.Days, pick(language, "days", "днів"))
	fmt.Fprintf(&b, "\n%s: %.1f/5", pick(language, "Average", "Середній"), m.Average)
	for _, c := range m.Counts {
		fmt.Fprintf(&b, "\n%s: %d", locale.MoodLabel(language, c.Name), c.Count)
	}
	return b.String()
}

func statsText(language string, o service.Overview) string {
	return strings.Join([]string{
		dailyText(language, o.Daily),
		weeklyText(language, o.Weekly),
		goalsText(language, o.Goals),
	}, "\n\n")
}

func settingsText(language string, user *db.User) string {
	s := user.Settings
	onOff := pick(language, "off", "вимк")
	if s.MoodTracking {
		onOff = pick(language, "on", "увімк")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "⚙️ <b>%s</b>", pick(language, "Settings", "Налаштування"))
	fmt.Fprintf(&b, "\n%s = %d", service.SettingReminderInterval, s.ReminderInterval)
	fmt.Fprintf(&b, "\n%s = %s", service.SettingTimezone, escape(s.Timezone))
	fmt.Fprintf(&b, "\n%s = %s", service.SettingSummaryTime, escape(s.DailySummaryTime))
	fmt.Fprintf(&b, "\n%s = %s", service.SettingMoodTracking, onOff)
	fmt.Fprintf(&b, "\n%s = %d", service.SettingWaterGoal, s.WaterGoal)
	fmt.Fprintf(&b, "\n%s = %s", service.SettingLanguage, escape(s.Language))
	fmt.Fprintf(&b, "\n\n%s: /settings water_goal 10", pick(language, "Change", "Змінити"))
	return b.String()
}

func nudgeText(language string, nudge service.Nudge) string {
	switch nudge {
	case service.NudgeHydration:
		return pick(language, "💧 Don't forget to drink some water!", "💧 Не забудь випити склянку води!")
	case service.NudgeMood:
		return pick(language, "🙂 How are you feeling? Pick a mood below.", "🙂 Як настрій? Обери нижче.")
	}
	return ""
}

func genericErrorText(language string) string {
	return pick(language, "❌ Something went wrong. Please try again.", "❌ Виникла помилка. Спробуй ще раз.")
}

func activityErrorText(language string) string {
	return pick(language, "❌ Failed to save the activity. Please try again.", "❌ Виникла помилка при збереженні активності. Спробуй ще раз.")
}

func remindersText(language string, interval int) string {
	return pick(language,
		fmt.Sprintf("🔔 Reminders come after roughly every %d minutes of logging.\nChange: /settings reminder_interval 60", interval),
		fmt.Sprintf("🔔 Нагадування приходять приблизно раз на %d хвилин.\nЗмінити: /settings reminder_interval 60", interval))
}
