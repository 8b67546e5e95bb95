package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/habitmap/internal/activity"
)

// Event represents a parsed calendar event.
type Event struct {
	Summary   string
	Category  string // first CATEGORIES value, if any
	StartTime time.Time
	EndTime   time.Time
}

// Fetch retrieves and parses iCalendar events from a URL or file path,
// returning events that overlap with the given time window.
func Fetch(ctx context.Context, source string, windowStart, windowEnd time.Time) ([]Event, error) {
	var r io.ReadCloser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	return Decode(r, windowStart, windowEnd)
}

// Decode parses every calendar in r.
func Decode(r io.Reader, windowStart, windowEnd time.Time) ([]Event, error) {
	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(nil)
			if err != nil {
				continue // skip malformed events
			}
			end, err := event.DateTimeEnd(nil)
			if err != nil {
				end = start
			}

			if start.Before(windowEnd) && !end.Before(windowStart) {
				summary, _ := event.Props.Text(ical.PropSummary)
				categories, _ := event.Props.Text(ical.PropCategories)
				category, _, _ := strings.Cut(categories, ",")
				events = append(events, Event{
					Summary:   summary,
					Category:  strings.TrimSpace(category),
					StartTime: start,
					EndTime:   end,
				})
			}
		}
	}

	return events, nil
}

// ToDayLog groups events by their local start date into day-log entries, in
// start-time order. Events without a category get fallback; an empty
// fallback leaves the entry uncategorized.
func ToDayLog(events []Event, fallback string) activity.DayLog {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	log := make(activity.DayLog)
	for _, e := range sorted {
		category := e.Category
		if category == "" {
			category = fallback
		}
		entry := activity.Entry{Title: e.Summary}
		if category != "" {
			entry.Category = &category
		}
		key := activity.FormatDate(e.StartTime.Local())
		log[key] = append(log[key], entry)
	}
	return log
}
