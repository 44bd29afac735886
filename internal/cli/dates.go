package cli

import (
	"strings"
	"time"

	"github.com/dori/getitdone/internal/model"
)

// dateLayouts are tried in order; the first that parses wins
var dateLayouts = []string{
	"06/01/02", "2006/01/02", "02/01/2006",
	"06-01-02", "2006-01-02", "02-01-2006",
	"060102", "20060102",
}

// ParseDate parses a deadline. Besides the numeric layouts it accepts
// today, tomorrow, weekday names and nextweek, relative to now. Every result
// is local midnight so that equal dates compare equal.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch s {
	case "today":
		return today, nil
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), nil
	case "nextweek":
		return today.AddDate(0, 0, 7), nil
	}
	if day, ok := weekdays[s]; ok {
		return nextWeekday(today, day), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, model.Validationf("unknown date format: %s", s)
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// nextWeekday returns the next day strictly after today falling on day
func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
