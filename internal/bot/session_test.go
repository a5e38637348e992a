package bot

import (
	"testing"

	"github.com/voicediary/voicediary/internal/journal"
)

func TestSessionStoreCreatesIdleSession(t *testing.T) {
	st := NewSessionStore()
	s := st.Get(42)

	if s.State != StateIdle {
		t.Errorf("state = %q, want %q", s.State, StateIdle)
	}
	if s.UserID != 42 {
		t.Errorf("user = %d, want 42", s.UserID)
	}
	if st.Get(42) != s {
		t.Error("second Get returned a different session")
	}
}

func TestSessionCacheFirstWriteWins(t *testing.T) {
	s := &Session{UserID: 42, State: StateIdle}
	s.Cache(journal.Entry{EntryDate: "2023-04-01 10:30:00", Timestamp: 1680345000})
	s.Cache(journal.Entry{Topic: "Meeting"})
	s.Cache(journal.Entry{Topic: "Other", Text: "hello."})

	p := s.Pending
	if p.EntryDate != "2023-04-01 10:30:00" || p.Timestamp != 1680345000 {
		t.Errorf("date key = %q/%d", p.EntryDate, p.Timestamp)
	}
	if p.Topic != "Meeting" {
		t.Errorf("topic = %q, want first write to win", p.Topic)
	}
	if p.Text != "hello." {
		t.Errorf("text = %q", p.Text)
	}
}

func TestSessionAudioName(t *testing.T) {
	s := &Session{UserID: 42}
	if got := s.AudioName(); got != "" {
		t.Errorf("name without pending = %q, want empty", got)
	}

	s.Cache(journal.Entry{Timestamp: 1680345000})
	if got := s.AudioName(); got != "42_1680345000" {
		t.Errorf("name = %q, want %q", got, "42_1680345000")
	}
}

func TestSessionResetReturnsToIdle(t *testing.T) {
	s := &Session{UserID: 42, State: StateProcessing}
	s.Cache(journal.Entry{Topic: "Meeting", Timestamp: 1})

	s.Reset()
	if s.State != StateIdle || s.Pending != nil {
		t.Errorf("after reset: state %q, pending %v", s.State, s.Pending)
	}
}

func TestStateClassification(t *testing.T) {
	capture := []State{StateCaptureTopic, StateCaptureLanguage, StateAutoDetect, StateProcessing}
	for _, st := range capture {
		if !st.IsCapture() {
			t.Errorf("%q not classified as capture", st)
		}
	}
	for _, st := range []State{StateIdle, StateQueryByDate, StateQueryLastN} {
		if st.IsCapture() {
			t.Errorf("%q wrongly classified as capture", st)
		}
	}
	if !StateQueryByDate.IsSingleDateQuery() || !StateQueryAfter.IsSingleDateQuery() {
		t.Error("date query states not classified")
	}
	if StateQueryBetween.IsSingleDateQuery() {
		t.Error("between wrongly classified as a single-date query")
	}
}
