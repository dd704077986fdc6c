package sync

import (
	"fmt"
	"strings"
	"time"

	"bookastay/models"

	ics "github.com/arran4/golang-ical"
)

// Event is one external booking extracted from an iCal feed, with dates
// already converted to the half-open [check_in, check_out) interval used
// everywhere else. Airbnb publishes all-day events whose DTEND falls on the
// day after checkout, so the stored checkout is DTEND minus one day.
type Event struct {
	UID      string
	Summary  string
	CheckIn  string
	CheckOut string
}

// parseEvents extracts bookable events from raw iCal bytes. Events without
// a UID or parseable dates are reported individually so one malformed VEVENT
// never sinks the rest of the feed.
func parseEvents(raw []byte) ([]Event, []error) {
	cal, err := ics.ParseCalendar(strings.NewReader(string(raw)))
	if err != nil {
		return nil, []error{fmt.Errorf("failed to parse calendar: %w", err)}
	}

	var events []Event
	var failures []error
	for _, ve := range cal.Events() {
		ev, err := fromVEvent(ve)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		events = append(events, ev)
	}
	return events, failures
}

func fromVEvent(ve *ics.VEvent) (Event, error) {
	uid := ve.Id()
	if uid == "" {
		return Event{}, fmt.Errorf("event has no UID")
	}

	start := propertyValue(ve, ics.ComponentPropertyDtStart)
	end := propertyValue(ve, ics.ComponentPropertyDtEnd)

	checkIn, err := normalizeDate(start)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: bad DTSTART %q: %w", uid, start, err)
	}
	dtend, err := normalizeDate(end)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: bad DTEND %q: %w", uid, end, err)
	}

	// DTEND is exclusive; the last occupied night is the day before it.
	checkOut, err := addDays(dtend, -1)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: %w", uid, err)
	}
	if checkOut <= checkIn {
		return Event{}, fmt.Errorf("event %s: empty interval %s..%s", uid, checkIn, checkOut)
	}

	summary := propertyValue(ve, ics.ComponentPropertySummary)
	if summary == "" {
		summary = "Airbnb (Not available)"
	}

	return Event{UID: uid, Summary: summary, CheckIn: checkIn, CheckOut: checkOut}, nil
}

func propertyValue(ve *ics.VEvent, name ics.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// normalizeDate reduces an iCal date or datetime value (20250601,
// 20250601T140000Z, 2025-06-01) to the wall-clock calendar date. Only the
// digits matter; timezone suffixes are intentionally ignored because a stay
// spans local nights, not UTC instants.
func normalizeDate(v string) (string, error) {
	var digits strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 8 {
		return "", fmt.Errorf("not a calendar date")
	}
	d = d[:8]
	if _, err := time.Parse("20060102", d); err != nil {
		return "", err
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:8], nil
}

func addDays(date string, days int) (string, error) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(models.DateLayout), nil
}
