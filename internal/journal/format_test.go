package journal

import (
	"strings"
	"testing"
)

func TestSegmentTranscript(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello there", "hello there."},
		{"hello world How are you", "hello world. How are you."},
		{"done. Next thing", "done. Next thing."},
		{"one Two Three", "one. Two. Three."},
	}
	for _, tc := range tests {
		if got := SegmentTranscript(tc.in); got != tc.want {
			t.Errorf("SegmentTranscript(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSortEntriesAscending(t *testing.T) {
	entries := []Entry{
		{Timestamp: 30}, {Timestamp: 10}, {Timestamp: 20},
	}
	sorted := SortEntries(entries)
	for i, want := range []int64{10, 20, 30} {
		if sorted[i].Timestamp != want {
			t.Fatalf("position %d: got %d, want %d", i, sorted[i].Timestamp, want)
		}
	}
}

func TestFormatEntry(t *testing.T) {
	ts, err := ParseDate("2024-03-13 10:00:00")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	card := FormatEntry(Entry{
		EntryDate: "2024-03-13 10:00:00",
		Timestamp: ts,
		Topic:     "Meeting",
		Text:      "Hello world.",
		Language:  "en-US",
	})

	for _, want := range []string{
		"2024-03-13 10:00:00",
		"🇺🇸 Meeting",
		"<i>2 words</i>",
		"Hello world.",
		"/d_",
	} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
}

func TestFormatEntryUnknownLanguageOmitsFlag(t *testing.T) {
	card := FormatEntry(Entry{Timestamp: 0, Topic: "None", Language: "fr-FR"})
	if strings.Contains(card, "🇺🇸") {
		t.Errorf("unexpected flag in card:\n%s", card)
	}
	if !strings.Contains(card, "| None") {
		t.Errorf("header missing topic:\n%s", card)
	}
}
