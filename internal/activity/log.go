package activity

import (
	"time"

	"github.com/invopop/jsonschema"
)

// DateLayout is the key format of a day log: DD-MM-YYYY.
const DateLayout = "02-01-2006"

// Log is the activity-log document: list identifier to that list's day log.
type Log map[string]DayLog

// DayLog maps a DD-MM-YYYY date key to the entries recorded that day, in order.
type DayLog map[string][]Entry

// Entry is one completed item as written by the tracker.
type Entry struct {
	Title      string  `json:"title,omitempty" jsonschema_description:"Task title"`
	Category   *string `json:"category,omitempty" jsonschema_description:"Category tag; Work, Health and Play have dedicated colors"`
	Difficulty string  `json:"difficulty,omitempty" jsonschema:"enum=EASY,enum=MEDIUM,enum=HARD"`
}

// Days is the per-day category lookup derived from one list. A date that is
// present with an empty category had activity but no category tag.
type Days map[time.Time]string

// Category returns the representative category recorded for the calendar
// date of t, and whether the day has any activity.
func (d Days) Category(t time.Time) (string, bool) {
	c, ok := d[Day(t)]
	return c, ok
}

// Day truncates t to its calendar date at UTC midnight so it can key Days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as a day-log key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Schema describes the activity-log document.
func Schema() *jsonschema.Schema {
	s := jsonschema.Reflect(&Log{})
	s.Title = "Activity log"
	s.Description = "List identifier to day log; day keys use DD-MM-YYYY and only the first entry of a day is rendered."
	return s
}
