package activity

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/activitylog/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateKeyLayout is the layout of Activity.DateKey.
const DateKeyLayout = "2006-01-02"

var timePrefix = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)

// DateKey formats t as a calendar date in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ResolveTime returns the moment the activity happened. A leading H:MM or
// HH:MM in rawText sets the time of day on the receipt date; hours above 23
// or minutes above 59 are ignored and the receipt instant is used. The
// second result reports whether the time came from the text.
func ResolveTime(rawText string, receivedAt time.Time) (time.Time, bool) {
	match := timePrefix.FindStringSubmatch(strings.TrimSpace(rawText))
	if match == nil {
		return receivedAt, false
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 23 || minute > 59 {
		return receivedAt, false
	}
	y, m, d := receivedAt.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, receivedAt.Location()), true
}

// Build assembles the record to persist. receivedAt should already be in the
// user's location so that DateKey reflects the user's calendar day.
func Build(userID string, c Classification, rawText string, receivedAt time.Time) db.Activity {
	ts, _ := ResolveTime(rawText, receivedAt)

	details := c.Details
	if details.Description == "" {
		details.Description = rawText
	}
	payload, err := json.Marshal(details)
	if err != nil {
		// Extra came from the AI reply and failed to re-encode; keep the typed part.
		details.Extra = nil
		payload, _ = json.Marshal(details)
	}

	category := c.Category
	if category == "" {
		category = CategoryOther
	}

	return db.Activity{
		Model:        gorm.Model{CreatedAt: receivedAt, UpdatedAt: receivedAt},
		UserID:       userID,
		Timestamp:    ts,
		DateKey:      DateKey(ts),
		Category:     string(category),
		Subtype:      c.Subtype,
		Details:      datatypes.JSON(payload),
		RawText:      rawText,
		AutoDetected: c.AutoDetected,
		Mood:         "",
	}
}
