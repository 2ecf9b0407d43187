package activity

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFallback struct {
	calls  int
	result func(text string) Classification
}

func (f *countingFallback) ClassifyFallback(_ context.Context, text string) Classification {
	f.calls++
	if f.result == nil {
		return Unclassified(text)
	}
	return f.result(text)
}

func newTestClassifier(fb Fallback) *Classifier {
	return NewClassifier(nil, fb, zerolog.Nop())
}

func TestClassifyLexiconMatchIsAutoDetected(t *testing.T) {
	fb := &countingFallback{}
	c := newTestClassifier(fb)

	tests := []struct {
		text     string
		category Category
	}{
		{"12:45 роблю обід, курку і макарон", CategoryMeal},
		{"15:30 зробив 20 присідань", CategoryExercise},
		{"Працюю над звітом", CategoryWork},
		{"Зустріч з Олегом у кафе", CategoryMeeting},
		{"ВИПИВ 2 склянки води", CategoryDrink},
		{"Генеральне прибирання кухні", CategoryCleaning},
		{"читаю книжку", CategoryRest},
		{"йду спати", CategorySleep},
		{"Quick workout before lunch", CategoryMeal},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.text)
			assert.Equal(t, tt.category, got.Category)
			assert.True(t, got.AutoDetected)
			assert.Equal(t, tt.text, got.Details.Description)
		})
	}
	assert.Zero(t, fb.calls, "lexicon matches must not reach the fallback")
}

func TestClassifyPriorityOrderBreaksOverlaps(t *testing.T) {
	c := newTestClassifier(nil)

	// "зустріч з" (meeting) contains the work trigger "зустріч".
	got := c.Classify(context.Background(), "зустріч з командою по проекту")
	assert.Equal(t, CategoryMeeting, got.Category)

	// Meal is declared before drink.
	got = c.Classify(context.Background(), "обід і чай")
	assert.Equal(t, CategoryMeal, got.Category)

	// Work precedes exercise.
	got = c.Classify(context.Background(), "працюю, потім спорт")
	assert.Equal(t, CategoryWork, got.Category)
}

func TestPriorityOrderIsStable(t *testing.T) {
	assert.Equal(t, []Category{
		CategoryMeal, CategoryMeeting, CategoryWork, CategoryExercise,
		CategoryRest, CategoryCleaning, CategoryDrink, CategorySleep,
	}, PriorityOrder)

	for _, category := range PriorityOrder {
		assert.NotEmpty(t, DefaultLexicon().Triggers[category], "category %s has no triggers", category)
	}
	assert.Len(t, DefaultLexicon().Triggers, len(PriorityOrder))
}

func TestClassifyMissDelegatesToFallback(t *testing.T) {
	fb := &countingFallback{result: func(text string) Classification {
		return Classification{
			Category: CategoryRest,
			Subtype:  "thinking",
			Details:  Details{Description: text, Extra: map[string]any{"mood": "calm"}},
		}
	}}
	c := newTestClassifier(fb)

	got := c.Classify(context.Background(), "quiet afternoon thinking")
	require.Equal(t, 1, fb.calls)
	assert.Equal(t, CategoryRest, got.Category)
	assert.Equal(t, "thinking", got.Subtype)
	assert.False(t, got.AutoDetected)
	assert.Equal(t, "calm", got.Details.Extra["mood"])
}

func TestClassifyMissWithFailingFallbackIsUnclassified(t *testing.T) {
	text := "quiet afternoon thinking"
	c := newTestClassifier(&countingFallback{})

	got := c.Classify(context.Background(), text)
	assert.Equal(t, Unclassified(text), got)
	assert.Equal(t, CategoryOther, got.Category)
	assert.Equal(t, "", got.Subtype)
	assert.Equal(t, map[string]any{"description": text}, got.Details.Map())
	assert.False(t, got.AutoDetected)
}

func TestClassifyWithoutFallback(t *testing.T) {
	got := newTestClassifier(nil).Classify(context.Background(), "hmm")
	assert.Equal(t, Unclassified("hmm"), got)
}

func TestClassifyRecoversFromFallbackPanic(t *testing.T) {
	c := newTestClassifier(FallbackFunc(func(context.Context, string) Classification {
		panic("boom")
	}))

	got := c.Classify(context.Background(), "nothing matches here")
	assert.Equal(t, Unclassified("nothing matches here"), got)
}

func TestClassifyFillsEmptyFallbackResult(t *testing.T) {
	c := newTestClassifier(FallbackFunc(func(context.Context, string) Classification {
		return Classification{}
	}))

	got := c.Classify(context.Background(), "nothing matches here")
	assert.Equal(t, Unclassified("nothing matches here"), got)
}

func TestParseCategory(t *testing.T) {
	got, ok := ParseCategory(" Meal ")
	assert.True(t, ok)
	assert.Equal(t, CategoryMeal, got)

	got, ok = ParseCategory("gardening")
	assert.False(t, ok)
	assert.Equal(t, CategoryOther, got)

	assert.Equal(t, 0, Rank(CategoryMeal))
	assert.Equal(t, len(PriorityOrder), Rank(CategoryOther))
}
