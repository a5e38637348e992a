package journal

import (
	"testing"
	"time"
)

func TestParseFormatRoundTrip(t *testing.T) {
	dates := []string{
		"2024-01-05 00:00:00",
		"2024-02-29 12:30:45",
		"1999-12-31 23:59:59",
		"2031-07-01 06:00:01",
	}
	for _, d := range dates {
		ts, err := ParseDate(d)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", d, err)
		}
		if got := FormatTimestamp(ts); got != d {
			t.Errorf("round trip %q: got %q", d, got)
		}
	}
}

func TestParseDateRejectsMalformedInput(t *testing.T) {
	for _, d := range []string{"", "2024-01-05", "05.01.2024 10:00:00", "not a date", "2024-13-40 99:99:99"} {
		if _, err := ParseDate(d); err == nil {
			t.Errorf("ParseDate(%q): expected error", d)
		}
	}
}

func TestDaysAgoStepsByWholeDays(t *testing.T) {
	// Compare calendar days, not seconds: a DST transition inside the
	// window shifts the epoch delta without being a bug.
	from := time.Date(2024, 3, 14, 15, 9, 26, 0, time.Local)
	base := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	for n := 0; n <= 10; n++ {
		got := DaysAgo(n, from)
		day, err := time.Parse("2006-01-02 15:04:05", got)
		if err != nil {
			t.Fatalf("DaysAgo(%d) = %q: %v", n, got, err)
		}
		if h, m, s := day.Clock(); h != 0 || m != 0 || s != 0 {
			t.Errorf("DaysAgo(%d) = %q, want midnight", n, got)
		}
		want := base.AddDate(0, 0, -n)
		gotDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		if !gotDay.Equal(want) {
			t.Errorf("DaysAgo(%d): got day %v, want %v", n, gotDay, want)
		}
	}
}

func TestDaysAgoReturnsMidnight(t *testing.T) {
	got := DaysAgo(1, time.Date(2024, 3, 14, 15, 9, 26, 0, time.Local))
	if got != "2024-03-13 00:00:00" {
		t.Errorf("DaysAgo(1): got %q", got)
	}
}

func TestNormalizeDateInput(t *testing.T) {
	tests := []struct {
		raw   string
		date  string
		exact bool
		ok    bool
	}{
		{"2024-01-05", "2024-01-05 00:00:00", false, true},
		{"2024-01-05 10:20:30", "2024-01-05 10:20:30", true, true},
		{"2024-01-5", "", false, false},
		{"", "", false, false},
		{"2024-01-05 10:20", "", false, false},
	}
	for _, tc := range tests {
		date, exact, ok := NormalizeDateInput(tc.raw)
		if date != tc.date || exact != tc.exact || ok != tc.ok {
			t.Errorf("NormalizeDateInput(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tc.raw, date, exact, ok, tc.date, tc.exact, tc.ok)
		}
	}
}

func TestSplitDualDateInput(t *testing.T) {
	tests := []struct {
		raw    string
		date1  string
		date2  string
		ok     bool
	}{
		{
			"2024-01-01 2024-01-05",
			"2024-01-01 00:00:00", "2024-01-05 23:59:59", true,
		},
		{
			"2024-01-01 08:00:00 2024-01-05 20:30:00",
			"2024-01-01 08:00:00", "2024-01-05 20:30:00", true,
		},
		{"2024-01-01", "", "", false},
		{"2024-01-01 2024-01-05 extra", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range tests {
		d1, d2, ok := SplitDualDateInput(tc.raw)
		if d1 != tc.date1 || d2 != tc.date2 || ok != tc.ok {
			t.Errorf("SplitDualDateInput(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.raw, d1, d2, ok, tc.date1, tc.date2, tc.ok)
		}
	}
}

func TestRangeBoundsSwapsReversedDates(t *testing.T) {
	lo, hi, err := RangeBounds("2024-01-05 00:00:00", "2024-01-01 00:00:00")
	if err != nil {
		t.Fatalf("RangeBounds: %v", err)
	}
	lo2, hi2, err := RangeBounds("2024-01-01 00:00:00", "2024-01-05 00:00:00")
	if err != nil {
		t.Fatalf("RangeBounds: %v", err)
	}
	if lo != lo2 || hi != hi2 {
		t.Errorf("reversed bounds differ: (%d,%d) vs (%d,%d)", lo, hi, lo2, hi2)
	}
	if lo >= hi {
		t.Errorf("bounds not ordered: %d >= %d", lo, hi)
	}
}

func TestDayBoundsCoverOneCalendarDay(t *testing.T) {
	start, end, err := DayBounds("2024-03-13 00:00:00")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if end-start != 86400 {
		t.Errorf("day width = %d seconds", end-start)
	}
}
