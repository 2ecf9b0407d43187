package activity

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultExerciseType = "general"
	defaultDrinkType    = "water"
	defaultDrinkAmount  = 1

	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"

	SubtypeSleep = "sleep"
)

var (
	apostropheFixer = strings.NewReplacer("’", "'", "ʼ", "'", "`", "'")
	digitRun        = regexp.MustCompile(`\d+`)
)

// Normalize lowercases text and folds apostrophe variants to ASCII.
func Normalize(text string) string {
	// A Caser keeps state between calls and cannot be shared across goroutines.
	return apostropheFixer.Replace(cases.Lower(language.Ukrainian).String(text))
}

// Extract runs the detail extractor for category. It is pure: the same text
// always yields the same subtype and details.
func (l *Lexicon) Extract(category Category, text string) (string, Details) {
	normalized := Normalize(text)
	body := stripTimePrefix(text)
	details := Details{Description: text}

	switch category {
	case CategoryMeal:
		details.Meal = &MealDetails{FoodItems: l.foodItems(normalized)}
		return l.mealType(normalized), details
	case CategoryExercise:
		details.Exercise = &ExerciseDetails{
			ExerciseType: firstCanonical(normalized, l.Exercises, defaultExerciseType),
			Repetitions:  firstInt(body, 0),
		}
	case CategoryMeeting:
		details.Meeting = &MeetingDetails{People: extractPeople(normalized)}
	case CategoryDrink:
		details.Drink = &DrinkDetails{
			DrinkType: firstCanonical(normalized, l.Drinks, defaultDrinkType),
			Amount:    firstInt(body, defaultDrinkAmount),
		}
	case CategorySleep:
		return SubtypeSleep, details
	}
	return "", details
}

func (l *Lexicon) foodItems(normalized string) []string {
	seen := make(map[string]bool)
	items := []string{}
	for _, food := range l.Foods {
		if seen[food.Canonical] || !strings.Contains(normalized, food.Keyword) {
			continue
		}
		seen[food.Canonical] = true
		items = append(items, food.Canonical)
	}
	return items
}

func (l *Lexicon) mealType(normalized string) string {
	switch {
	case containsAny(normalized, l.BreakfastWords):
		return MealBreakfast
	case containsAny(normalized, l.LunchWords):
		return MealLunch
	case containsAny(normalized, l.DinnerWords):
		return MealDinner
	default:
		return MealSnack
	}
}

// IsSweet reports whether a canonical food name counts as sweets.
func (l *Lexicon) IsSweet(food string) bool {
	return l.Sweets[food]
}

var peopleSeparators = []string{" з ", " with "}

// extractPeople takes the single token after the first separator.
// Multi-word names are truncated to their first word.
func extractPeople(normalized string) []string {
	for _, sep := range peopleSeparators {
		idx := strings.Index(normalized, sep)
		if idx < 0 {
			continue
		}
		fields := strings.Fields(normalized[idx+len(sep):])
		if len(fields) == 0 {
			return []string{}
		}
		return []string{fields[0]}
	}
	return []string{}
}

func firstInt(text string, fallback int) int {
	match := digitRun.FindString(text)
	if match == "" {
		return fallback
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return fallback
	}
	return n
}

func stripTimePrefix(text string) string {
	trimmed := strings.TrimSpace(text)
	if loc := timePrefix.FindStringIndex(trimmed); loc != nil {
		return trimmed[loc[1]:]
	}
	return trimmed
}
