package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pitabwire/util"

	"github.com/voicediary/voicediary/internal/journal"
	"github.com/voicediary/voicediary/internal/speech"
	"github.com/voicediary/voicediary/pkg/events"
)

// SpeechGateway recognizes a converted voice file.
type SpeechGateway interface {
	Recognize(ctx context.Context, variant speech.Variant, wavPath, languageHint string) (speech.Result, error)
}

// AudioConverter manages the per-message voice artifacts in the work dir.
type AudioConverter interface {
	SourcePath(name string) string
	Convert(ctx context.Context, name string) (string, error)
	Remove(name string)
}

// EventSink publishes domain events. May be nil when eventing is disabled.
type EventSink interface {
	Emit(ctx context.Context, eventType events.EventType, sessionID string, data interface{}) error
}

// Handler drives the per-user conversation. One inbound message advances one
// user's session; sessions are independent, so concurrent users never block
// each other.
type Handler struct {
	sessions  *SessionStore
	store     journal.Store
	speech    SpeechGateway
	converter AudioConverter
	fetcher   VoiceFetcher
	replier   Replier
	prompts   *PromptSet
	sink      EventSink

	autoVariant speech.Variant
	languages   []string
}

// NewHandler wires the conversation core. autoVariant selects the backend
// tried first on a new voice message; when it is the dictation variant, the
// auto-detect step is skipped and the user is asked for the language up
// front. languages lists the locales offered on the language keyboard.
func NewHandler(
	sessions *SessionStore,
	store journal.Store,
	gw SpeechGateway,
	converter AudioConverter,
	fetcher VoiceFetcher,
	replier Replier,
	prompts *PromptSet,
	sink EventSink,
	autoVariant speech.Variant,
	languages []string,
) *Handler {
	return &Handler{
		sessions:    sessions,
		store:       store,
		speech:      gw,
		converter:   converter,
		fetcher:     fetcher,
		replier:     replier,
		prompts:     prompts,
		sink:        sink,
		autoVariant: autoVariant,
		languages:   languages,
	}
}

// HandleEvent processes one inbound message. It never panics outward: the
// bot must keep serving other users whatever a single update does.
func (h *Handler) HandleEvent(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			util.Log(ctx).WithField("user", ev.UserID).WithField("panic", r).Error("panic handling update")
		}
	}()

	s := h.sessions.Get(ev.UserID)
	if ev.VoiceFileID != "" {
		h.handleVoice(ctx, s, ev)
		return
	}
	h.handleText(ctx, s, ev)
}

func (h *Handler) handleText(ctx context.Context, s *Session, ev Event) {
	text := strings.TrimSpace(ev.Text)
	if text == "/start" {
		h.handleStart(ctx, s, ev)
		return
	}

	switch s.State {
	case StateCaptureTopic:
		h.captureTopic(ctx, s, ev, text)
	case StateCaptureLanguage:
		h.captureLanguage(ctx, s, ev, text)
	case StateQueryByDate, StateQueryAfter:
		h.queryDateInput(ctx, s, ev, text)
	case StateQueryBetween:
		h.queryBetween(ctx, s, ev, text)
	case StateQueryLastN:
		h.queryLastN(ctx, s, ev, text)
	case StateQueryByTopic:
		h.queryByTopic(ctx, s, ev, text)
	case StateIdle:
		h.idleText(ctx, s, ev, text)
	default:
		// Transient states never expect text.
		util.Log(ctx).WithField("user", ev.UserID).WithField("state", string(s.State)).Debug("text ignored")
	}
}

// handleStart registers the user and abandons any in-flight capture.
func (h *Handler) handleStart(ctx context.Context, s *Session, ev Event) {
	if s.Pending != nil {
		h.converter.Remove(s.AudioName())
	}
	s.Reset()
	p := h.prompts.Current()
	h.reply(ctx, ev, Reply{
		Text:     fmt.Sprintf(p.Start, ev.UserID),
		Keyboard: menuKeyboard(),
		HTML:     true,
	})
}

func (h *Handler) idleText(ctx context.Context, s *Session, ev Event, text string) {
	if m := deletePattern.FindStringSubmatch(text); m != nil {
		h.deleteEntry(ctx, ev, m[1])
		return
	}

	p := h.prompts.Current()
	switch text {
	case btnGetAll:
		entries, err := h.store.FetchAll(ctx, ev.UserID)
		h.renderEntries(ctx, ev, "all", entries, err)
	case btnByDate:
		s.State = StateQueryByDate
		h.reply(ctx, ev, Reply{Text: p.AskDate, Keyboard: datesKeyboard(), HTML: true})
	case btnAfter:
		s.State = StateQueryAfter
		h.reply(ctx, ev, Reply{Text: p.AskDate, Keyboard: datesKeyboard(), HTML: true})
	case btnBetween:
		s.State = StateQueryBetween
		h.reply(ctx, ev, Reply{Text: p.AskTwoDates, HTML: true})
	case btnLastN:
		s.State = StateQueryLastN
		h.reply(ctx, ev, Reply{Text: p.AskCount})
	case btnByTopic:
		s.State = StateQueryByTopic
		h.reply(ctx, ev, Reply{Text: p.AskTopicQuery, Keyboard: topicsKeyboard()})
	default:
		// Unrecognized idle chatter is dropped.
	}
}

// queryDateInput consumes one date in the by-date and after-date states.
// Free text that matches neither a relative-date button nor the date pattern
// leaves the state unchanged so the user can retry.
func (h *Handler) queryDateInput(ctx context.Context, s *Session, ev Event, text string) {
	if days, ok := relativeDates[text]; ok {
		date := journal.DaysAgo(days, time.Now())
		h.runDateQuery(ctx, s, ev, date, false)
		return
	}
	if !datePattern.MatchString(text) {
		return
	}
	date, exact, ok := journal.NormalizeDateInput(text)
	if !ok {
		s.State = StateIdle
		return
	}
	h.runDateQuery(ctx, s, ev, date, exact)
}

func (h *Handler) runDateQuery(ctx context.Context, s *Session, ev Event, date string, exact bool) {
	var (
		entries []journal.Entry
		err     error
		query   string
	)
	if s.State == StateQueryAfter {
		query = "after"
		entries, err = h.store.FetchAfter(ctx, ev.UserID, date)
	} else if exact {
		query = "exact"
		entries, err = h.store.FetchExact(ctx, ev.UserID, date)
	} else {
		query = "day"
		entries, err = h.store.FetchByDay(ctx, ev.UserID, date)
	}
	s.State = StateIdle
	h.renderEntries(ctx, ev, query, entries, err)
}

func (h *Handler) queryBetween(ctx context.Context, s *Session, ev Event, text string) {
	if !dualDatePattern.MatchString(text) {
		return
	}
	date1, date2, ok := journal.SplitDualDateInput(text)
	if !ok {
		s.State = StateIdle
		return
	}
	entries, err := h.store.FetchBetween(ctx, ev.UserID, date1, date2)
	s.State = StateIdle
	h.renderEntries(ctx, ev, "between", entries, err)
}

func (h *Handler) queryLastN(ctx context.Context, s *Session, ev Event, text string) {
	if !numberPattern.MatchString(text) {
		return
	}
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		s.State = StateIdle
		return
	}
	entries, ferr := h.store.FetchLastN(ctx, ev.UserID, n)
	s.State = StateIdle
	h.renderEntries(ctx, ev, "last_n", entries, ferr)
}

func (h *Handler) queryByTopic(ctx context.Context, s *Session, ev Event, text string) {
	entries, err := h.store.FetchByTopic(ctx, ev.UserID, text)
	s.State = StateIdle
	h.renderEntries(ctx, ev, "topic", entries, err)
}

// renderEntries sends one card per entry, oldest first. Store failures
// render the same as an empty result: the user sees "not found", the cause
// goes to the log.
func (h *Handler) renderEntries(ctx context.Context, ev Event, query string, entries []journal.Entry, err error) {
	p := h.prompts.Current()
	if err != nil {
		util.Log(ctx).WithError(err).WithField("user", ev.UserID).WithField("query", query).Error("fetch failed")
		h.reply(ctx, ev, Reply{Text: p.NotFound, Keyboard: menuKeyboard()})
		return
	}
	if len(entries) == 0 {
		h.reply(ctx, ev, Reply{Text: p.NotFound, Keyboard: menuKeyboard()})
		return
	}

	journal.SortEntries(entries)
	for _, e := range entries {
		h.reply(ctx, ev, Reply{Text: journal.FormatEntry(e), Keyboard: menuKeyboard(), HTML: true})
	}
	h.emit(ctx, ev, events.EntriesFetched, events.EntriesFetchedData{Query: query, Count: len(entries)})
}

func (h *Handler) deleteEntry(ctx context.Context, ev Event, rawTS string) {
	p := h.prompts.Current()
	ts, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil {
		h.reply(ctx, ev, Reply{Text: p.Error, Keyboard: menuKeyboard()})
		return
	}
	key, err := h.store.Delete(ctx, ev.UserID, ts)
	if err != nil {
		util.Log(ctx).WithError(err).WithField("user", ev.UserID).Error("delete failed")
		h.reply(ctx, ev, Reply{Text: p.Error, Keyboard: menuKeyboard()})
		return
	}
	h.reply(ctx, ev, Reply{
		Text:     fmt.Sprintf(p.Removed, key),
		Keyboard: topicsKeyboard(),
		HTML:     true,
	})
	h.emit(ctx, ev, events.EntryDeleted, events.EntryDeletedData{Date: key})
}

// handleVoice starts a new capture. A voice message arriving while another
// capture is in flight is dropped.
func (h *Handler) handleVoice(ctx context.Context, s *Session, ev Event) {
	if s.State.IsCapture() {
		util.Log(ctx).WithField("user", ev.UserID).WithField("state", string(s.State)).Debug("voice ignored: capture in flight")
		return
	}

	date := journal.CurrentDate()
	ts, err := journal.ParseDate(date)
	if err != nil {
		h.failTurn(ctx, s, ev, err)
		return
	}
	s.Reset()
	s.Cache(journal.Entry{EntryDate: date, Timestamp: ts})

	if err := h.fetcher.Fetch(ctx, ev.VoiceFileID, h.converter.SourcePath(s.AudioName())); err != nil {
		h.failTurn(ctx, s, ev, fmt.Errorf("download voice: %w", err))
		return
	}

	s.State = StateCaptureTopic
	p := h.prompts.Current()
	h.reply(ctx, ev, Reply{Text: p.AskTopic, Keyboard: topicsKeyboard()})
}

// captureTopic records the topic and runs the auto-detect recognition pass.
// A credential failure on the auto-detect backend falls back to asking the
// user for the language; file and conversion errors end the capture.
func (h *Handler) captureTopic(ctx context.Context, s *Session, ev Event, text string) {
	s.Cache(journal.Entry{Topic: text})
	p := h.prompts.Current()

	if h.autoVariant == speech.VariantDictation {
		s.State = StateCaptureLanguage
		h.reply(ctx, ev, Reply{Text: p.AskLanguage, Keyboard: languageKeyboard(h.languages)})
		return
	}

	s.State = StateAutoDetect
	wav, err := h.converter.Convert(ctx, s.AudioName())
	if err != nil {
		h.failTurn(ctx, s, ev, err)
		return
	}

	res, err := h.speech.Recognize(ctx, h.autoVariant, wav, "")
	switch {
	case errors.Is(err, speech.ErrAccessDenied):
		s.State = StateCaptureLanguage
		h.emit(ctx, ev, events.RecognitionError, events.RecognitionErrorData{
			Stage: "auto_detect", Error: err.Error(),
		})
		h.reply(ctx, ev, Reply{Text: p.AskLanguage, Keyboard: languageKeyboard(h.languages)})
	case err != nil:
		h.failTurn(ctx, s, ev, err)
	case res.Text == "":
		h.converter.Remove(s.AudioName())
		s.Reset()
		h.reply(ctx, ev, Reply{Text: p.NotRecognized, Keyboard: menuKeyboard()})
	default:
		s.Cache(journal.Entry{Text: res.Text, Language: res.Language})
		h.emit(ctx, ev, events.TranscriptReady, events.TranscriptReadyData{
			Transcript: res.Text, Language: res.Language,
		})
		h.persist(ctx, s, ev)
	}
}

// captureLanguage consumes the manual language choice and runs the
// dictation pass. Errors here are terminal for the capture.
func (h *Handler) captureLanguage(ctx context.Context, s *Session, ev Event, text string) {
	lang := languageFromChoice(text)
	s.Cache(journal.Entry{Language: lang})
	s.State = StateProcessing

	wav, err := h.converter.Convert(ctx, s.AudioName())
	if err != nil {
		h.failTurn(ctx, s, ev, err)
		return
	}

	res, err := h.speech.Recognize(ctx, speech.VariantDictation, wav, lang)
	if err != nil {
		h.failTurn(ctx, s, ev, err)
		return
	}

	p := h.prompts.Current()
	if res.Text == "" {
		h.converter.Remove(s.AudioName())
		s.Reset()
		h.reply(ctx, ev, Reply{Text: p.NotRecognized, Keyboard: menuKeyboard()})
		return
	}

	text = journal.SegmentTranscript(res.Text)
	s.Cache(journal.Entry{Text: text})
	h.emit(ctx, ev, events.TranscriptReady, events.TranscriptReadyData{
		Transcript: text, Language: lang,
	})
	h.persist(ctx, s, ev)
}

// persist writes the pending entry, confirms to the user and releases the
// voice artifacts.
func (h *Handler) persist(ctx context.Context, s *Session, ev Event) {
	name := s.AudioName()
	entry := s.Pending
	p := h.prompts.Current()

	key, err := h.store.Create(ctx, ev.UserID, entry)
	if err != nil {
		util.Log(ctx).WithError(err).WithField("user", ev.UserID).Error("store entry failed")
		h.converter.Remove(name)
		s.Reset()
		h.reply(ctx, ev, Reply{Text: p.Error, Keyboard: menuKeyboard()})
		return
	}

	h.converter.Remove(name)
	s.Reset()
	h.reply(ctx, ev, Reply{
		Text:     fmt.Sprintf(p.Stored, key),
		Keyboard: menuKeyboard(),
		HTML:     true,
	})
	h.emit(ctx, ev, events.EntryCreated, events.EntryCreatedData{
		Date:     entry.EntryDate,
		Topic:    entry.Topic,
		Language: entry.Language,
		Words:    journal.WordCount(entry.Text),
	})
}

// failTurn ends the capture after an unrecoverable error.
func (h *Handler) failTurn(ctx context.Context, s *Session, ev Event, err error) {
	util.Log(ctx).WithError(err).WithField("user", ev.UserID).WithField("state", string(s.State)).Error("capture failed")
	if s.Pending != nil {
		h.converter.Remove(s.AudioName())
	}
	s.Reset()
	p := h.prompts.Current()
	h.reply(ctx, ev, Reply{Text: p.Error, Keyboard: menuKeyboard()})
}

func (h *Handler) reply(ctx context.Context, ev Event, r Reply) {
	if err := h.replier.Reply(ctx, ev, r); err != nil {
		util.Log(ctx).WithError(err).WithField("user", ev.UserID).Error("send reply failed")
	}
}

func (h *Handler) emit(ctx context.Context, ev Event, et events.EventType, data interface{}) {
	if h.sink == nil {
		return
	}
	sessionID := strconv.FormatInt(ev.UserID, 10)
	if err := h.sink.Emit(ctx, et, sessionID, data); err != nil {
		util.Log(ctx).WithError(err).WithField("type", string(et)).Error("emit event failed")
	}
}
