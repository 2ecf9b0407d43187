// Package activity turns free-text activity messages into structured records.
//
// Classification is a case-insensitive substring scan over a fixed lexicon.
// Categories are scanned in PriorityOrder and the first category with a
// matching trigger wins, so the order is part of the behaviour.
package activity

import "strings"

// Category is the closed set of activity kinds.
type Category string

const (
	CategoryMeal     Category = "meal"
	CategoryWork     Category = "work"
	CategoryExercise Category = "exercise"
	CategoryRest     Category = "rest"
	CategoryCleaning Category = "cleaning"
	CategoryMeeting  Category = "meeting"
	CategoryDrink    Category = "drink"
	CategorySleep    Category = "sleep"
	CategoryOther    Category = "other"
)

// PriorityOrder is the order in which the lexicon is scanned.
// Meeting precedes work: "зустріч з" must win over the bare "зустріч".
var PriorityOrder = []Category{
	CategoryMeal,
	CategoryMeeting,
	CategoryWork,
	CategoryExercise,
	CategoryRest,
	CategoryCleaning,
	CategoryDrink,
	CategorySleep,
}

// AllCategories lists every category, "other" last.
func AllCategories() []Category {
	out := make([]Category, 0, len(PriorityOrder)+1)
	out = append(out, PriorityOrder...)
	return append(out, CategoryOther)
}

// ParseCategory maps a raw value onto the closed set. Unknown values report false.
func ParseCategory(raw string) (Category, bool) {
	value := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range AllCategories() {
		if c == value {
			return c, true
		}
	}
	return CategoryOther, false
}

// Rank returns the position of c in PriorityOrder; "other" and unknown values sort last.
func Rank(c Category) int {
	for i, candidate := range PriorityOrder {
		if candidate == c {
			return i
		}
	}
	return len(PriorityOrder)
}

// Term maps a keyword (usually a word stem) to a canonical name.
type Term struct {
	Keyword   string
	Canonical string
}

// Lexicon bundles the trigger phrases and extractor vocabularies.
// It is never mutated after construction.
type Lexicon struct {
	Triggers map[Category][]string

	Foods  []Term
	Sweets map[string]bool // canonical food names counted as sweets

	BreakfastWords []string
	LunchWords     []string
	DinnerWords    []string

	Exercises []Term
	Drinks    []Term
}

var defaultLexicon = &Lexicon{
	Triggers: map[Category][]string{
		CategoryMeal: {
			"роблю обід", "їм", "обід", "сніданок", "снідаю", "вечеря", "вечеряю",
			"перекус", "готую", "ланч",
			"breakfast", "lunch", "dinner", "snack",
		},
		CategoryMeeting: {
			"зустріч з", "бачився з", "бачилася з", "розмова з",
			"meeting with", "met with", "talked with",
		},
		CategoryWork: {
			"робота", "роботу", "працюю", "зустріч", "мітинг", "проект", "завдання",
			"working", "project",
		},
		CategoryExercise: {
			"спорт", "тренування", "біг", "присід", "віджим", "планк", "зал",
			"workout", "squat", "push-up", "pushup", "running",
		},
		CategoryRest: {
			"відпочинок", "перерва", "дивлюся", "читаю", "слухаю",
			"break time", "reading", "watching",
		},
		CategoryCleaning: {
			"прибирання", "прибираю", "миття", "мию", "прання", "перу", "порядок",
			"cleaning", "laundry", "vacuum",
		},
		CategoryDrink: {
			"п'ю", "випив", "випила", "кава", "каву", "чай", "вода", "воду", "сік",
			"coffee", "water", "juice",
		},
		CategorySleep: {
			"спати", "лягаю спати", "йду спати", "сон", "відпочивати", "засинаю",
			"sleep", "going to bed", "nap",
		},
	},
	Foods: []Term{
		{"курк", "курка"},
		{"макарон", "макарон"},
		{"рис", "рис"},
		{"картопл", "картопля"},
		{"м'яс", "м'ясо"},
		{"риб", "риба"},
		{"овоч", "овочі"},
		{"салат", "салат"},
		{"борщ", "борщ"},
		{"яйц", "яйця"},
		{"сир", "сир"},
		{"хліб", "хліб"},
		{"фрукт", "фрукти"},
		{"цукерк", "цукерки"},
		{"шоколад", "шоколад"},
		{"торт", "торт"},
		{"печив", "печиво"},
		{"морозив", "морозиво"},
		{"chicken", "курка"},
		{"pasta", "макарон"},
		{"rice", "рис"},
		{"chocolate", "шоколад"},
		{"cake", "торт"},
	},
	Sweets: map[string]bool{
		"цукерки":  true,
		"шоколад":  true,
		"торт":     true,
		"печиво":   true,
		"морозиво": true,
	},
	BreakfastWords: []string{"сніданок", "снідаю", "ранок", "breakfast", "morning"},
	LunchWords:     []string{"обід", "ланч", "lunch"},
	DinnerWords:    []string{"вечеря", "вечеряю", "вечір", "dinner", "supper"},
	Exercises: []Term{
		{"присід", "squats"},
		{"віджим", "push-ups"},
		{"біг", "running"},
		{"планк", "plank"},
		{"squat", "squats"},
		{"push-up", "push-ups"},
		{"pushup", "push-ups"},
		{"running", "running"},
		{"plank", "plank"},
	},
	Drinks: []Term{
		{"вод", "water"},
		{"кав", "coffee"},
		{"чай", "tea"},
		{"сік", "juice"},
		{"water", "water"},
		{"coffee", "coffee"},
		{"juice", "juice"},
	},
}

// DefaultLexicon returns the shared built-in lexicon.
func DefaultLexicon() *Lexicon {
	return defaultLexicon
}

// Match returns the first category in PriorityOrder whose trigger occurs in
// the normalized text.
func (l *Lexicon) Match(normalized string) (Category, bool) {
	for _, category := range PriorityOrder {
		if containsAny(normalized, l.Triggers[category]) {
			return category, true
		}
	}
	return CategoryOther, false
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func firstCanonical(text string, terms []Term, fallback string) string {
	for _, term := range terms {
		if strings.Contains(text, term.Keyword) {
			return term.Canonical
		}
	}
	return fallback
}
