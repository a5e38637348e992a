package bot

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Prompts holds every canned reply text the bot sends. Any field can be
// overridden from a YAML file, which is how deployments localize the bot.
type Prompts struct {
	Start         string `yaml:"start"`
	AskTopic      string `yaml:"ask_topic"`
	AskLanguage   string `yaml:"ask_language"`
	AskDate       string `yaml:"ask_date"`
	AskTwoDates   string `yaml:"ask_two_dates"`
	AskCount      string `yaml:"ask_count"`
	AskTopicQuery string `yaml:"ask_topic_query"`
	Stored        string `yaml:"stored"`
	Removed       string `yaml:"removed"`
	NotRecognized string `yaml:"not_recognized"`
	NotFound      string `yaml:"not_found"`
	Error         string `yaml:"error"`
}

// DefaultPrompts returns the built-in English reply texts.
func DefaultPrompts() Prompts {
	return Prompts{
		Start: "Hello there!\n" +
			"I can recognize phrases from your voice messages, convert them to text, " +
			"and store them as diary entries. Send me a voice message to start.\n" +
			"Your voice messages are downloaded for processing and deleted right " +
			"after the entry is stored. Your chat ID %d separates you from other users.\n\n" +
			"I support messages in <b>English</b> 🇺🇸 and <b>Ukrainian</b> 🇺🇦",
		AskTopic:    "Please select the topic for this entry.",
		AskLanguage: "Now select the language of your voice message.",
		AskDate: "Send me a date in format: <b>YYYY-mm-dd HH:MM:SS</b> or just " +
			"<b>YYYY-mm-dd</b>.",
		AskTwoDates: "Send me two dates separated by space in format: " +
			"<b>YYYY-mm-dd HH:MM:SS YYYY-mm-dd HH:MM:SS</b> or just " +
			"<b>YYYY-mm-dd YYYY-mm-dd</b>.",
		AskCount:      "Send me a number of entries you want to get.",
		AskTopicQuery: "Send me a topic name to search for.",
		Stored:        "Message stored: <b>%s</b>",
		Removed:       "Successfully removed the entry: <b>%s</b>",
		NotRecognized: "Unable to process your voice message. Try re-recording it.",
		NotFound:      "No entries found!",
		Error:         "An error has occurred. Please try again later.",
	}
}

// PromptSet serves the current prompt texts and supports hot reload of the
// override file.
type PromptSet struct {
	path string

	mu      sync.RWMutex
	prompts Prompts
}

// LoadPrompts builds a prompt set from the defaults, overlaid with the YAML
// file at path when one is configured.
func LoadPrompts(path string) (*PromptSet, error) {
	ps := &PromptSet{path: path, prompts: DefaultPrompts()}
	if path == "" {
		return ps, nil
	}
	if err := ps.reload(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Current returns the active prompt texts.
func (ps *PromptSet) Current() Prompts {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.prompts
}

func (ps *PromptSet) reload() error {
	raw, err := os.ReadFile(ps.path)
	if err != nil {
		return fmt.Errorf("read prompts file %q: %w", ps.path, err)
	}

	merged := DefaultPrompts()
	if err := yaml.Unmarshal(raw, &merged); err != nil {
		return fmt.Errorf("parse prompts file %q: %w", ps.path, err)
	}

	ps.mu.Lock()
	ps.prompts = merged
	ps.mu.Unlock()
	return nil
}

// WatchAndReload watches the override file and reloads it on change. This
// blocks until the done channel is closed. A no-op when no file is
// configured.
func (ps *PromptSet) WatchAndReload(done <-chan struct{}) error {
	if ps.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(ps.path); err != nil {
		return fmt.Errorf("watch %q: %w", ps.path, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				ps.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
