package locale

// Pick returns the text matching the language, defaulting to Ukrainian.
func Pick(language, english, ukrainian string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		if english != "" {
			return english
		}
		return ukrainian
	}
	if ukrainian != "" {
		return ukrainian
	}
	return english
}

type label struct {
	english   string
	ukrainian string
}

var categoryEmoji = map[string]string{
	"meal":     "🍽",
	"exercise": "💪",
	"sleep":    "😴",
	"work":     "🏢",
	"rest":     "🛋",
	"drink":    "💧",
	"cleaning": "🧹",
	"meeting":  "👥",
	"other":    "❓",
}

var categoryLabels = map[string]label{
	"meal":     {"meal", "їжа"},
	"exercise": {"exercise", "спорт"},
	"sleep":    {"sleep", "сон"},
	"work":     {"work", "робота"},
	"rest":     {"rest", "відпочинок"},
	"drink":    {"drink", "напій"},
	"cleaning": {"cleaning", "прибирання"},
	"meeting":  {"meeting", "зустріч"},
	"other":    {"other", "інше"},
}

var mealLabels = map[string]label{
	"breakfast": {"breakfast", "сніданок"},
	"lunch":     {"lunch", "обід"},
	"dinner":    {"dinner", "вечеря"},
	"snack":     {"snack", "перекус"},
}

var moodLabels = map[string]label{
	"excellent": {"😄 excellent", "😄 відмінно"},
	"good":      {"🙂 good", "🙂 добре"},
	"neutral":   {"😐 neutral", "😐 нормально"},
	"bad":       {"🙁 bad", "🙁 погано"},
	"terrible":  {"😫 terrible", "😫 жахливо"},
}

// CategoryEmoji returns the icon for a category, "❓" for unknown values.
func CategoryEmoji(category string) string {
	if emoji, ok := categoryEmoji[category]; ok {
		return emoji
	}
	return categoryEmoji["other"]
}

// CategoryLabel returns the display name of a category.
func CategoryLabel(language, category string) string {
	return lookup(categoryLabels, language, category)
}

// MealLabel returns the display name of a meal subtype.
func MealLabel(language, subtype string) string {
	return lookup(mealLabels, language, subtype)
}

// MoodLabel returns the display name of a mood label.
func MoodLabel(language, mood string) string {
	return lookup(moodLabels, language, mood)
}

func lookup(table map[string]label, language, key string) string {
	l, ok := table[key]
	if !ok {
		return key
	}
	return Pick(language, l.english, l.ukrainian)
}
