// Package telegram adapts the Telegram Bot API to the conversation core:
// inbound updates become bot events, replies become chat messages, and voice
// attachments are downloaded into the audio work dir.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pitabwire/util"

	"github.com/voicediary/voicediary/internal/bot"
)

// Handler consumes the events the transport produces.
type Handler interface {
	HandleEvent(ctx context.Context, ev bot.Event)
}

// Transport long-polls Telegram for updates and sends replies back.
type Transport struct {
	api     *tgbotapi.BotAPI
	client  *http.Client
	pollSec int
}

// New connects to the Telegram Bot API with the given token.
func New(token string, pollSec int) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	if pollSec <= 0 {
		pollSec = 30
	}
	return &Transport{
		api:     api,
		client:  &http.Client{Timeout: 60 * time.Second},
		pollSec: pollSec,
	}, nil
}

// Run consumes the update stream until the context is cancelled. Each update
// is dispatched synchronously; per-user ordering is what keeps the session
// state machine coherent.
func (t *Transport) Run(ctx context.Context, h Handler) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = t.pollSec
	updates := t.api.GetUpdatesChan(cfg)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := eventFromUpdate(update)
			if !ok {
				continue
			}
			h.HandleEvent(ctx, ev)
		}
	}
}

func eventFromUpdate(update tgbotapi.Update) (bot.Event, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return bot.Event{}, false
	}
	ev := bot.Event{
		UserID: msg.From.ID,
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.Voice != nil {
		ev.VoiceFileID = msg.Voice.FileID
	}
	return ev, true
}

// Reply sends one outbound message, attaching the reply keyboard when the
// core provided one.
func (t *Transport) Reply(ctx context.Context, ev bot.Event, r bot.Reply) error {
	msg := tgbotapi.NewMessage(ev.ChatID, r.Text)
	if r.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	if len(r.Keyboard) > 0 {
		msg.ReplyMarkup = keyboardMarkup(r.Keyboard)
	}
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func keyboardMarkup(kb bot.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb))
	for _, labels := range kb {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

// Fetch downloads a voice attachment to dest.
func (t *Transport) Fetch(ctx context.Context, fileID, dest string) error {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return fmt.Errorf("telegram file info: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(t.api.Token), nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram file download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram file download: status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("write voice file: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	util.Log(ctx).WithField("file", dest).Debug("voice message downloaded")
	return nil
}
