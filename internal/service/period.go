package service

import "time"

// periodStart returns the first instant of the calendar day, week (starting
// Sunday), month or year containing now, in now's location.
func periodStart(filter string, now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	loc := now.Location()

	switch filter {
	case "day":
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	case "week":
		return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc), true
	case "month":
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), true
	case "year":
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Microsecond)
}
