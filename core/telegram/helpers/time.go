package helpers

import (
	"strings"
	"time"
)

// DateLayout is the only calendar-date format accepted from users.
const DateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD calendar date in the local timezone.
func ParseDate(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDateOrToday behaves like ParseDate but also accepts the literal
// "today" (case-insensitive), resolved to the current calendar date.
func ParseDateOrToday(input string) (time.Time, bool) {
	if strings.EqualFold(strings.TrimSpace(input), "today") {
		return Today(), true
	}
	return ParseDate(input)
}

// Today returns the current calendar date truncated to midnight local time.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
