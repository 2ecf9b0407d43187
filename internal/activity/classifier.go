package activity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Classification is the outcome of classifying one message.
type Classification struct {
	Category     Category
	Subtype      string
	Details      Details
	AutoDetected bool
}

// Unclassified is the canonical result when neither the lexicon nor the
// fallback produced a category.
func Unclassified(text string) Classification {
	return Classification{
		Category:     CategoryOther,
		Subtype:      "",
		Details:      Details{Description: text},
		AutoDetected: false,
	}
}

// Fallback classifies messages the lexicon could not place. Implementations
// must not fail; on error they return Unclassified(text).
type Fallback interface {
	ClassifyFallback(ctx context.Context, text string) Classification
}

// FallbackFunc adapts a function to Fallback.
type FallbackFunc func(ctx context.Context, text string) Classification

// ClassifyFallback implements Fallback.
func (f FallbackFunc) ClassifyFallback(ctx context.Context, text string) Classification {
	return f(ctx, text)
}

// Classifier matches messages against the lexicon and delegates misses to a Fallback.
type Classifier struct {
	lexicon  *Lexicon
	fallback Fallback
	log      zerolog.Logger
}

// NewClassifier builds a classifier. A nil lexicon selects DefaultLexicon; a
// nil fallback makes every miss Unclassified.
func NewClassifier(lexicon *Lexicon, fallback Fallback, log zerolog.Logger) *Classifier {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Classifier{lexicon: lexicon, fallback: fallback, log: log}
}

// Lexicon returns the lexicon in use.
func (c *Classifier) Lexicon() *Lexicon {
	return c.lexicon
}

// Classify never fails: every path ends in a full classification or Unclassified(text).
func (c *Classifier) Classify(ctx context.Context, text string) (result Classification) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("panic", fmt.Sprint(r)).Msg("classification panicked")
			result = Unclassified(text)
		}
	}()

	if category, ok := c.lexicon.Match(Normalize(text)); ok {
		subtype, details := c.lexicon.Extract(category, text)
		return Classification{
			Category:     category,
			Subtype:      subtype,
			Details:      details,
			AutoDetected: true,
		}
	}

	if c.fallback == nil {
		return Unclassified(text)
	}

	result = c.fallback.ClassifyFallback(ctx, text)
	if result.Category == "" {
		return Unclassified(text)
	}
	if result.Details.Description == "" {
		result.Details.Description = text
	}
	return result
}
