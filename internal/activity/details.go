package activity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Details is the structured payload of an activity. Description always holds
// the original message; at most one of the typed variants is set, matching
// the record's category. Extra carries free-form fields supplied by the AI
// fallback and is empty for lexicon matches.
type Details struct {
	Description string

	Meal     *MealDetails
	Exercise *ExerciseDetails
	Meeting  *MeetingDetails
	Drink    *DrinkDetails

	Extra map[string]any
}

// MealDetails lists the known foods mentioned, in first-seen order.
type MealDetails struct {
	FoodItems []string
}

// ExerciseDetails describes a workout entry.
type ExerciseDetails struct {
	ExerciseType string
	Repetitions  int
}

// MeetingDetails lists the people met.
type MeetingDetails struct {
	People []string
}

// DrinkDetails describes a drink entry.
type DrinkDetails struct {
	DrinkType string
	Amount    int
}

const (
	keyDescription  = "description"
	keyFoodItems    = "food_items"
	keyExerciseType = "exercise_type"
	keyRepetitions  = "repetitions"
	keyPeople       = "people"
	keyDrinkType    = "drink_type"
	keyAmount       = "amount"
)

var reservedKeys = map[string]bool{
	keyDescription:  true,
	keyFoodItems:    true,
	keyExerciseType: true,
	keyRepetitions:  true,
	keyPeople:       true,
	keyDrinkType:    true,
	keyAmount:       true,
}

// Map flattens the details into the stored JSON shape.
func (d Details) Map() map[string]any {
	out := make(map[string]any, len(d.Extra)+3)
	for k, v := range d.Extra {
		if !reservedKeys[k] {
			out[k] = v
		}
	}
	out[keyDescription] = d.Description

	switch {
	case d.Meal != nil:
		items := d.Meal.FoodItems
		if items == nil {
			items = []string{}
		}
		out[keyFoodItems] = items
	case d.Exercise != nil:
		out[keyExerciseType] = d.Exercise.ExerciseType
		out[keyRepetitions] = d.Exercise.Repetitions
	case d.Meeting != nil:
		people := d.Meeting.People
		if people == nil {
			people = []string{}
		}
		out[keyPeople] = people
	case d.Drink != nil:
		out[keyDrinkType] = d.Drink.DrinkType
		out[keyAmount] = d.Drink.Amount
	}
	return out
}

// MarshalJSON encodes the flat shape.
func (d Details) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// DecodeDetails restores details stored for the given category.
func DecodeDetails(category Category, raw []byte) (Details, error) {
	if len(raw) == 0 {
		return Details{}, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Details{}, fmt.Errorf("decode details: %w", err)
	}
	return DetailsFromMap(category, fields), nil
}

// DetailsFromMap builds typed details from a loosely-typed map. Typed fields
// with the wrong JSON type fall back to the category defaults; unknown keys
// are kept in Extra.
func DetailsFromMap(category Category, fields map[string]any) Details {
	d := Details{}
	if desc, ok := fields[keyDescription].(string); ok {
		d.Description = desc
	}

	switch category {
	case CategoryMeal:
		d.Meal = &MealDetails{FoodItems: stringSlice(fields[keyFoodItems])}
	case CategoryExercise:
		d.Exercise = &ExerciseDetails{
			ExerciseType: stringOr(fields[keyExerciseType], defaultExerciseType),
			Repetitions:  intOr(fields[keyRepetitions], 0),
		}
	case CategoryMeeting:
		d.Meeting = &MeetingDetails{People: stringSlice(fields[keyPeople])}
	case CategoryDrink:
		d.Drink = &DrinkDetails{
			DrinkType: stringOr(fields[keyDrinkType], defaultDrinkType),
			Amount:    intOr(fields[keyAmount], defaultDrinkAmount),
		}
	}

	for k, v := range fields {
		if reservedKeys[k] {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]any)
		}
		d.Extra[k] = v
	}
	return d
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]string); ok {
			return append([]string{}, typed...)
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func intOr(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return int(n)
	case int:
		return n
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return fallback
}
