package bot

import (
	"context"
	"regexp"
	"strings"

	"github.com/voicediary/voicediary/internal/journal"
)

// Event is one inbound chat message, reduced to what the conversation core
// needs from the transport.
type Event struct {
	UserID      int64
	ChatID      int64
	Text        string
	VoiceFileID string
}

// Keyboard is a reply-keyboard layout, rows of button labels.
type Keyboard [][]string

// Reply is an outbound message handed back to the transport.
type Reply struct {
	Text     string
	Keyboard Keyboard
	HTML     bool
}

// Replier delivers a reply to the chat transport.
type Replier interface {
	Reply(ctx context.Context, ev Event, r Reply) error
}

// VoiceFetcher downloads a voice attachment to a local file.
type VoiceFetcher interface {
	Fetch(ctx context.Context, fileID, dest string) error
}

// Menu button labels.
const (
	btnGetAll    = "Get all the entries"
	btnByDate    = "by date"
	btnByTopic   = "by topic"
	btnLastN     = "last N entries"
	btnBetween   = "between two dates"
	btnAfter     = "after date"
	btnToday     = "Today"
	btnYesterday = "Yesterday"
	btnPastWeek  = "Past week"
)

// relativeDates maps the frequently-used date buttons to day offsets.
var relativeDates = map[string]int{
	btnToday:     0,
	btnYesterday: 1,
	btnPastWeek:  7,
}

// menuKeyboard is the entries menu shown after most replies.
func menuKeyboard() Keyboard {
	return Keyboard{
		{btnGetAll},
		{btnByDate, btnByTopic},
		{btnLastN},
		{btnBetween, btnAfter},
	}
}

// languageKeyboard offers the supported locales, each prefixed with its
// flag glyph.
func languageKeyboard(languages []string) Keyboard {
	row := make([]string, 0, len(languages))
	for _, lang := range languages {
		label := lang
		if flag := journal.LanguageFlag(lang); flag != "" {
			label = flag + " " + lang
		}
		row = append(row, label)
	}
	return Keyboard{row}
}

func datesKeyboard() Keyboard {
	return Keyboard{{btnToday}, {btnYesterday}, {btnPastWeek}}
}

func topicsKeyboard() Keyboard {
	return Keyboard{{journal.DefaultTopic}}
}

// Input patterns recognized from free text.
var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}( \d{2}:\d{2}:\d{2})?$`)
	dualDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}( \d{2}:\d{2}:\d{2})? \d{4}-\d{2}-\d{2}( \d{2}:\d{2}:\d{2})?$`)
	numberPattern   = regexp.MustCompile(`^\d+$`)
	deletePattern   = regexp.MustCompile(`^/d_(\d{10})$`)
)

// languageFromChoice strips the decorative flag prefix from a language
// keyboard choice ("🇺🇸 en-US" -> "en-US").
func languageFromChoice(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
