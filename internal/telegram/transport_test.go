package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/voicediary/voicediary/internal/bot"
)

func TestEventFromUpdate(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   bot.Event
		ok     bool
	}{
		{
			name:   "no message",
			update: tgbotapi.Update{},
		},
		{
			name: "text message",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				From: &tgbotapi.User{ID: 42},
				Chat: &tgbotapi.Chat{ID: 42},
				Text: "by date",
			}},
			want: bot.Event{UserID: 42, ChatID: 42, Text: "by date"},
			ok:   true,
		},
		{
			name: "voice message",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				From:  &tgbotapi.User{ID: 42},
				Chat:  &tgbotapi.Chat{ID: 7},
				Voice: &tgbotapi.Voice{FileID: "voice-file-1"},
			}},
			want: bot.Event{UserID: 42, ChatID: 7, VoiceFileID: "voice-file-1"},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eventFromUpdate(tt.update)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("event = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestKeyboardMarkup(t *testing.T) {
	markup := keyboardMarkup(bot.Keyboard{{"Today"}, {"Yesterday", "Past week"}})

	if len(markup.Keyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.Keyboard))
	}
	if markup.Keyboard[1][1].Text != "Past week" {
		t.Errorf("button = %q, want %q", markup.Keyboard[1][1].Text, "Past week")
	}
	if !markup.ResizeKeyboard {
		t.Error("keyboard not resized")
	}
}
