package journal

import (
	"fmt"
	"time"
)

// DateLayout is the canonical textual date representation exchanged with
// the store and the user.
const DateLayout = "2006-01-02 15:04:05"

const (
	dateLen     = len("2006-01-02")
	dateTimeLen = len(DateLayout)

	// Lengths of a space-separated pair of dates, with and without time.
	dualDateLen     = dateLen*2 + 1
	dualDateTimeLen = dateTimeLen*2 + 1
)

// CurrentDate returns the present moment in the canonical format.
func CurrentDate() string {
	return time.Now().Format(DateLayout)
}

// ParseDate converts a canonical date string to epoch seconds.
func ParseDate(date string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.Unix(), nil
}

// FormatTimestamp converts epoch seconds back to the canonical format.
// Exact inverse of ParseDate for any valid canonical string.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).Format(DateLayout)
}

// DaysAgo returns midnight of `from` minus n calendar days, canonical format.
func DaysAgo(n int, from time.Time) string {
	midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	return midnight.AddDate(0, 0, -n).Format(DateLayout)
}

// NormalizeDateInput widens a date-only input to midnight. The exact flag
// reports whether the input already carried a time component, meaning a
// lookup should address one precise entry rather than a whole day. Inputs
// of any other length are invalid and no query should be issued for them.
func NormalizeDateInput(raw string) (date string, exact bool, ok bool) {
	switch len(raw) {
	case dateLen:
		return raw + " 00:00:00", false, true
	case dateTimeLen:
		return raw, true, true
	default:
		return "", false, false
	}
}

// SplitDualDateInput splits a space-separated pair of dates. Date-only
// pairs are widened to cover the full days (00:00:00 through 23:59:59).
func SplitDualDateInput(raw string) (date1, date2 string, ok bool) {
	switch len(raw) {
	case dualDateLen:
		raw = raw[:dateLen] + " 00:00:00 " + raw[dateLen+1:] + " 23:59:59"
	case dualDateTimeLen:
	default:
		return "", "", false
	}
	return raw[:dateTimeLen], raw[dateTimeLen+1:], true
}

// RangeBounds converts two canonical dates into an inclusive timestamp
// range, swapping reversed bounds.
func RangeBounds(date1, date2 string) (minTS, maxTS int64, err error) {
	ts1, err := ParseDate(date1)
	if err != nil {
		return 0, 0, err
	}
	ts2, err := ParseDate(date2)
	if err != nil {
		return 0, 0, err
	}
	if ts1 > ts2 {
		ts1, ts2 = ts2, ts1
	}
	return ts1, ts2, nil
}

// DayBounds returns the half-open timestamp window covering the calendar
// day that starts at dayStart (a canonical midnight date).
func DayBounds(dayStart string) (start, end int64, err error) {
	t, err := time.ParseInLocation(DateLayout, dayStart, time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("parse date %q: %w", dayStart, err)
	}
	return t.Unix(), t.AddDate(0, 0, 1).Unix(), nil
}
