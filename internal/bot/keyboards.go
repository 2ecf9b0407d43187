package bot

import (
	"github.com/activitylog/internal/locale"
	"github.com/activitylog/internal/service"
	"github.com/activitylog/internal/telegram"
)

// Reply keyboard labels. Ukrainian labels match the original menu; English
// labels are used when the profile language is en.
var (
	btnAddActivity = label{"➕ Add activity", "➕ Додати активність"}
	btnStats       = label{"📊 Statistics", "📊 Статистика"}
	btnDaySummary  = label{"📝 Daily summary", "📝 Підсумок дня"}
	btnSettings    = label{"⚙️ Settings", "⚙️ Налаштування"}
	btnBack        = label{"⬅️ Back", "⬅️ Назад"}

	btnFood     = label{"🍽 Food", "🍽 Їжа"}
	btnWater    = label{"💧 Water", "💧 Вода"}
	btnSport    = label{"💪 Sport", "💪 Спорт"}
	btnSleep    = label{"😴 Sleep", "😴 Сон"}
	btnWork     = label{"🏢 Work", "🏢 Робота"}
	btnCleaning = label{"🧹 Cleaning", "🧹 Прибирання"}

	btnReminders = label{"🔔 Reminders", "🔔 Нагадування"}
	btnLanguage  = label{"🌐 Language", "🌐 Мова"}
)

type label struct {
	english   string
	ukrainian string
}

func (l label) in(language string) string {
	return locale.Pick(language, l.english, l.ukrainian)
}

// matches accepts either language so a stale keyboard keeps working after a language switch.
func (l label) matches(text string) bool {
	return text == l.english || text == l.ukrainian
}

func mainMenu(language string) *telegram.ReplyKeyboardMarkup {
	return telegram.Keyboard(
		[]string{btnAddActivity.in(language)},
		[]string{btnStats.in(language), btnDaySummary.in(language)},
		[]string{btnSettings.in(language)},
	)
}

func activityTypesMenu(language string) *telegram.ReplyKeyboardMarkup {
	return telegram.Keyboard(
		[]string{btnFood.in(language), btnWater.in(language)},
		[]string{btnSport.in(language), btnSleep.in(language)},
		[]string{btnWork.in(language), btnCleaning.in(language)},
		[]string{btnBack.in(language)},
	)
}

func settingsMenu(language string) *telegram.ReplyKeyboardMarkup {
	return telegram.Keyboard(
		[]string{btnReminders.in(language), btnLanguage.in(language)},
		[]string{btnBack.in(language)},
	)
}

func moodMenu(language string) *telegram.ReplyKeyboardMarkup {
	labels := service.MoodLabels
	return telegram.Keyboard(
		[]string{locale.MoodLabel(language, labels[0]), locale.MoodLabel(language, labels[1])},
		[]string{locale.MoodLabel(language, labels[2])},
		[]string{locale.MoodLabel(language, labels[3]), locale.MoodLabel(language, labels[4])},
		[]string{btnBack.in(language)},
	)
}

// moodFromButton maps a mood keyboard label back to its mood.
func moodFromButton(text string) (string, bool) {
	for _, mood := range service.MoodLabels {
		if text == locale.MoodLabel(locale.LanguageUkrainian, mood) || text == locale.MoodLabel(locale.LanguageEnglish, mood) {
			return mood, true
		}
	}
	return "", false
}

// activityHints are the examples shown after tapping an activity type button.
var activityHints = []struct {
	button label
	hint   label
}{
	{btnFood, label{"Describe the meal, e.g. \"12:45 lunch, chicken and pasta\"", "Опиши прийом їжі, наприклад: \"12:45 роблю обід, курку і макарон\""}},
	{btnWater, label{"How much did you drink? e.g. \"drank 2 glasses of water\"", "Скільки випив? Наприклад: \"випив 2 склянки води\""}},
	{btnSport, label{"Describe the workout, e.g. \"15:30 20 squats\"", "Опиши тренування, наприклад: \"15:30 зробив 20 присідань\""}},
	{btnSleep, label{"e.g. \"23:00 going to bed\"", "Наприклад: \"23:00 йду спати\""}},
	{btnWork, label{"e.g. \"14:00 working on the project\"", "Наприклад: \"14:00 почав роботу над проектом\""}},
	{btnCleaning, label{"e.g. \"cleaning the kitchen\"", "Наприклад: \"прибираю кухню\""}},
}
