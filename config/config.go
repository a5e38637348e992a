package config

import (
	"strings"

	"github.com/pitabwire/frame/config"
)

// BotConfig holds configuration for the voice diary bot service.
type BotConfig struct {
	config.ConfigurationDefault

	TelegramBotToken string `envDefault:""   env:"TELEGRAM_BOT_TOKEN"`
	TelegramPollSec  int    `envDefault:"30" env:"TELEGRAM_POLL_TIMEOUT_SEC"`

	SpeechAPIKey         string `envDefault:""                                         env:"SPEECH_API_KEY"`
	SpeechAPIBaseURL     string `envDefault:"https://speech.googleapis.com/v1p1beta1"  env:"SPEECH_API_BASE_URL"`
	RecognizerVariant    string `envDefault:"cloudstt"                                 env:"RECOGNIZER_VARIANT"`
	PrimaryLanguage      string `envDefault:"en-US"                                    env:"PRIMARY_LANGUAGE"`
	AlternativeLanguages string `envDefault:"uk-UA,ru-RU"                              env:"ALTERNATIVE_LANGUAGES"`

	FFmpegPath        string `envDefault:"ffmpeg"   env:"FFMPEG_PATH"`
	VoiceWorkDir      string `envDefault:"./voices" env:"VOICE_WORK_DIR"`
	ConvertTimeoutSec int    `envDefault:"20"       env:"CONVERT_TIMEOUT_SEC"`

	PromptsFile string `envDefault:"" env:"PROMPTS_FILE"`
}

// AlternativeLanguageCodes splits the configured alternative language list.
func (c *BotConfig) AlternativeLanguageCodes() []string {
	if c.AlternativeLanguages == "" {
		return nil
	}
	parts := strings.Split(c.AlternativeLanguages, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
