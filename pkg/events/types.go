package events

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of event flowing through the system.
type EventType string

const (
	EntryCreated     EventType = "entry.created"
	EntryDeleted     EventType = "entry.deleted"
	EntriesFetched   EventType = "entries.fetched"
	TranscriptReady  EventType = "transcript.ready"
	RecognitionError EventType = "recognition.error"
	SystemError      EventType = "error"
)

// Envelope is the standard event wrapper published to the event bus.
type Envelope struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Source    string            `json:"source"`
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Data      json.RawMessage   `json:"data"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EntryCreatedData is the payload for entry.created events.
type EntryCreatedData struct {
	Date     string `json:"date"`
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Words    int    `json:"words,omitempty"`
}

// EntryDeletedData is the payload for entry.deleted events.
type EntryDeletedData struct {
	Date string `json:"date"`
}

// EntriesFetchedData is the payload for entries.fetched events.
type EntriesFetchedData struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// TranscriptReadyData is the payload for transcript.ready events.
type TranscriptReadyData struct {
	Transcript string `json:"transcript"`
	Language   string `json:"language"`
}

// RecognitionErrorData is the payload for recognition.error events.
type RecognitionErrorData struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}
