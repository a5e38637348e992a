package bot

import (
	"fmt"
	"sync"

	"github.com/voicediary/voicediary/internal/journal"
)

// State names the input the conversation currently expects from a user.
type State string

const (
	StateIdle            State = "IDLE"
	StateCaptureTopic    State = "CAPTURE_TOPIC"
	StateCaptureLanguage State = "CAPTURE_LANGUAGE"
	StateAutoDetect      State = "AUTO_DETECT"
	StateProcessing      State = "PROCESSING"
	StateQueryAll        State = "QUERY_ALL"
	StateQueryLastN      State = "QUERY_LAST_N"
	StateQueryByDate     State = "QUERY_BY_DATE"
	StateQueryBetween    State = "QUERY_BETWEEN"
	StateQueryAfter      State = "QUERY_AFTER"
	StateQueryByTopic    State = "QUERY_BY_TOPIC"
)

// IsCapture reports whether the state belongs to an in-flight voice
// capture. While a user is in any capture state, new voice messages and
// query triggers are ignored: at most one entry may be in flight per user.
func (s State) IsCapture() bool {
	switch s {
	case StateCaptureTopic, StateCaptureLanguage, StateAutoDetect, StateProcessing:
		return true
	}
	return false
}

// IsSingleDateQuery reports whether the state consumes one date input.
func (s State) IsSingleDateQuery() bool {
	return s == StateQueryByDate || s == StateQueryAfter
}

// Session is the ephemeral per-user conversation state plus the entry under
// construction. Sessions live for the process lifetime only: a restart
// returns every user to idle and loses any unpersisted pending entry.
type Session struct {
	UserID  int64
	State   State
	Pending *journal.Entry
}

// AudioName is the work-dir filename stem for the session's voice message.
func (s *Session) AudioName() string {
	if s.Pending == nil {
		return ""
	}
	return fmt.Sprintf("%d_%d", s.UserID, s.Pending.Timestamp)
}

// Cache merges captured fields into the pending entry. The first write to a
// field wins: re-entering the entry-building flow after an auto-detect
// failure must not discard previously captured fields.
func (s *Session) Cache(fields journal.Entry) {
	if s.Pending == nil {
		p := fields
		s.Pending = &p
		return
	}
	if s.Pending.Topic == "" {
		s.Pending.Topic = fields.Topic
	}
	if s.Pending.Text == "" {
		s.Pending.Text = fields.Text
	}
	if s.Pending.EntryDate == "" {
		s.Pending.EntryDate = fields.EntryDate
	}
	if s.Pending.Timestamp == 0 {
		s.Pending.Timestamp = fields.Timestamp
	}
	if s.Pending.Language == "" {
		s.Pending.Language = fields.Language
	}
}

// Reset discards the pending entry and returns the session to idle.
func (s *Session) Reset() {
	s.Pending = nil
	s.State = StateIdle
}

// SessionStore holds the per-user sessions for one process. It replaces the
// legacy global state map with an explicit object handed to the handler.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the user's session, creating an idle one on first contact.
func (st *SessionStore) Get(userID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		s = &Session{UserID: userID, State: StateIdle}
		st.sessions[userID] = s
	}
	return s
}

// Upsert stores the session under its user id.
func (st *SessionStore) Upsert(userID int64, s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.UserID = userID
	st.sessions[userID] = s
}
