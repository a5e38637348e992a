package journal

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`\w+`)

var languageFlags = map[string]string{
	"en-US": "🇺🇸",
	"uk-UA": "🇺🇦",
	"ru-RU": "🇷🇺",
}

// SegmentTranscript splits a raw recognized-text blob into sentences by
// inserting a period before any capitalized word that follows a space, unless
// one is already there, and terminates the text with a period. The heuristic
// mis-segments proper nouns; it is kept as-is for compatibility with stored
// transcripts.
func SegmentTranscript(text string) string {
	if text == "" {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		if r == ' ' && i > 0 && i+1 < len(runes) &&
			unicode.IsUpper(runes[i+1]) && runes[i-1] != '.' {
			b.WriteRune('.')
		}
		b.WriteRune(r)
	}
	if runes[len(runes)-1] != '.' {
		b.WriteRune('.')
	}
	return b.String()
}

// LanguageFlag returns the flag glyph for a supported locale tag, or the
// empty string when the locale has no flag.
func LanguageFlag(lang string) string {
	return languageFlags[lang]
}

// WordCount counts the word tokens in a transcript.
func WordCount(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}

// SortEntries orders entries by timestamp ascending for display.
func SortEntries(entries []Entry) []Entry {
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
	return entries
}

// FormatEntry renders a stored entry as an HTML card with a header line,
// word count, transcript body and a delete shortcut command.
func FormatEntry(e Entry) string {
	header := FormatTimestamp(e.Timestamp) + " | "
	if flag, ok := languageFlags[e.Language]; ok {
		header += flag + " "
	}
	header += e.Topic

	words := WordCount(e.Text)
	rule := strings.Repeat("-", int(float64(utf8.RuneCountInString(header))*1.6))

	return fmt.Sprintf(
		"<b>%s</b>\n%s\n<i>%d words</i>\n\n%s\n\n🗑️ /d_%d",
		header, rule, words, e.Text, e.Timestamp,
	)
}
