package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEnvelopeSerialization(t *testing.T) {
	data := &EntryCreatedData{
		Date:     "2023-04-01 10:30:00",
		Topic:    "Meeting",
		Language: "en-US",
		Words:    2,
	}

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}

	env := Envelope{
		ID:        "test-id",
		Type:      EntryCreated,
		Source:    "bot",
		SessionID: "42",
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	var decoded Envelope
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	if decoded.Type != EntryCreated {
		t.Errorf("type = %q, want %q", decoded.Type, EntryCreated)
	}
	if decoded.Source != "bot" {
		t.Errorf("source = %q, want %q", decoded.Source, "bot")
	}
	if decoded.SessionID != "42" {
		t.Errorf("session_id = %q, want %q", decoded.SessionID, "42")
	}

	var payload EntryCreatedData
	if err := json.Unmarshal(decoded.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Topic != "Meeting" {
		t.Errorf("topic = %q, want %q", payload.Topic, "Meeting")
	}
}

func TestLocalFanOut(t *testing.T) {
	pub := NewPublisher(nil, "bot", "events")
	ch := pub.Subscribe("stream", 4)

	err := pub.Emit(context.Background(), EntryDeleted, "42", EntryDeletedData{Date: "2023-04-01 10:30:00"})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	select {
	case env := <-ch:
		if env.Type != EntryDeleted || env.Source != "bot" || env.SessionID != "42" {
			t.Errorf("envelope = %+v", env)
		}
		var payload EntryDeletedData
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if payload.Date != "2023-04-01 10:30:00" {
			t.Errorf("date = %q", payload.Date)
		}
	default:
		t.Fatal("subscriber received nothing")
	}

	pub.Unsubscribe("stream")
	if _, open := <-ch; open {
		t.Error("channel still open after unsubscribe")
	}
}

func TestFullSubscriberDropsWithoutBlocking(t *testing.T) {
	pub := NewPublisher(nil, "bot", "events")
	ch := pub.Subscribe("slow", 1)
	defer pub.Unsubscribe("slow")

	for i := 0; i < 3; i++ {
		if err := pub.Emit(context.Background(), EntryCreated, "42", nil); err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
	}
	if got := len(ch); got != 1 {
		t.Errorf("buffered = %d, want 1", got)
	}
}

func TestEventTypeConstants(t *testing.T) {
	types := []EventType{
		EntryCreated, EntryDeleted, EntriesFetched,
		TranscriptReady, RecognitionError, SystemError,
	}
	seen := make(map[EventType]bool, len(types))
	for _, et := range types {
		if et == "" {
			t.Error("empty event type constant")
		}
		if seen[et] {
			t.Errorf("duplicate event type %q", et)
		}
		seen[et] = true
	}
}
