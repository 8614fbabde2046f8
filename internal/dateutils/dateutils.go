// Package dateutils parses the date bounds users give for statistics periods.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Accepted date layouts, tried in order.
const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutSwiss = "02.01.2006"
	DateLayoutSlash = "2006/01/02"
	MonthLayout     = "2006-01"
)

var commonFormats = []string{DateLayoutISO, DateLayoutSwiss, DateLayoutSlash}

// ParseDate parses s as a local calendar date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range commonFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q, expected YYYY-MM-DD", s)
}

// EndOfDay returns the last instant of date's day.
func EndOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfMonth returns midnight on the first day of date's month.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last instant of date's month.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Period turns optional from/to dates into inclusive bounds. An empty string
// leaves that bound open (zero time); the to date covers its whole day.
func Period(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if strings.TrimSpace(from) != "" {
		if start, err = ParseDate(from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if strings.TrimSpace(to) != "" {
		if end, err = ParseDate(to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
		end = EndOfDay(end)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return start, end, nil
}

// MonthPeriod returns the bounds of a "YYYY-MM" month.
func MonthPeriod(month string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(month), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	return StartOfMonth(t), EndOfMonth(t), nil
}
