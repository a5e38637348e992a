// Package speech talks to the cloud speech-recognition APIs. Two strategies
// exist behind one gateway: a dictation call that needs the language up
// front, and a speech-to-text call that detects the spoken language among a
// fixed set of locale candidates.
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Variant selects one of the two recognition strategies.
type Variant string

const (
	// VariantDictation transcribes with an explicit language hint.
	VariantDictation Variant = "dictation"
	// VariantCloudSTT transcribes and detects the language automatically.
	VariantCloudSTT Variant = "cloudstt"
)

// ParseVariant validates a configured variant key.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantDictation, VariantCloudSTT:
		return v, nil
	default:
		return "", fmt.Errorf("unknown recognizer variant %q", s)
	}
}

// ErrAccessDenied reports a credential or permission failure from the
// recognition backend. The auto-detect flow treats it as recoverable by
// falling back to manual language selection.
var ErrAccessDenied = errors.New("speech: access denied")

// Config holds gateway settings shared by both variants.
type Config struct {
	APIKey               string
	BaseURL              string
	PrimaryLanguage      string
	AlternativeLanguages []string
	Client               *http.Client
}

// Result is the outcome of one recognition call. An empty Text with a nil
// error means the backend heard no speech, which is a valid outcome and not
// a failure.
type Result struct {
	Text     string
	Language string
}

// Gateway dispatches recognition calls to the selected variant.
type Gateway struct {
	cfg    Config
	client *http.Client
}

// NewGateway creates a recognition gateway.
func NewGateway(cfg Config) *Gateway {
	client := cfg.Client
	if client == nil {
		client = defaultClient
	}
	return &Gateway{cfg: cfg, client: client}
}

// Recognize transcribes the WAV file at wavPath using the given variant.
// The language hint is consulted only by the dictation variant; the
// auto-detect variant reports the majority-vote language it heard instead.
func (g *Gateway) Recognize(ctx context.Context, variant Variant, wavPath, languageHint string) (Result, error) {
	switch variant {
	case VariantDictation:
		return g.dictate(ctx, wavPath, languageHint)
	case VariantCloudSTT:
		return g.detectTranscribe(ctx, wavPath)
	default:
		return Result{}, fmt.Errorf("unknown recognizer variant %q", variant)
	}
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding                   string   `json:"encoding"`
	AudioChannelCount          int      `json:"audioChannelCount,omitempty"`
	EnableAutomaticPunctuation bool     `json:"enableAutomaticPunctuation"`
	LanguageCode               string   `json:"languageCode"`
	AlternativeLanguageCodes   []string `json:"alternativeLanguageCodes,omitempty"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		LanguageCode string `json:"languageCode"`
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float32 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

func (g *Gateway) dictate(ctx context.Context, wavPath, language string) (Result, error) {
	if language == "" {
		language = g.cfg.PrimaryLanguage
	}
	content, err := os.ReadFile(wavPath)
	if err != nil {
		return Result{}, fmt.Errorf("read audio file: %w", err)
	}

	req := recognizeRequest{
		Config: recognizeConfig{
			Encoding:                   "LINEAR16",
			EnableAutomaticPunctuation: true,
			LanguageCode:               language,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(content)},
	}

	resp, err := g.call(ctx, req)
	if err != nil {
		return Result{}, err
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 && result.Alternatives[0].Transcript != "" {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return Result{Text: strings.Join(parts, " "), Language: language}, nil
}

func (g *Gateway) detectTranscribe(ctx context.Context, wavPath string) (Result, error) {
	content, err := os.ReadFile(wavPath)
	if err != nil {
		return Result{}, fmt.Errorf("read audio file: %w", err)
	}
	channels, err := readWAVChannels(wavPath)
	if err != nil {
		return Result{}, fmt.Errorf("inspect audio file: %w", err)
	}

	req := recognizeRequest{
		Config: recognizeConfig{
			Encoding:                   "LINEAR16",
			AudioChannelCount:          channels,
			EnableAutomaticPunctuation: true,
			LanguageCode:               g.cfg.PrimaryLanguage,
			AlternativeLanguageCodes:   g.cfg.AlternativeLanguages,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(content)},
	}

	resp, err := g.call(ctx, req)
	if err != nil {
		return Result{}, err
	}

	// Tally which candidate locale each segment was recognized in; the
	// majority vote wins. Segments are joined with period separators.
	votes := make(map[string]int, len(g.cfg.AlternativeLanguages)+1)
	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		votes[normalizeLocale(result.LanguageCode)]++
		transcript.WriteString(result.Alternatives[0].Transcript)
		transcript.WriteString(".")
	}

	return Result{
		Text:     transcript.String(),
		Language: g.majorityLanguage(votes),
	}, nil
}

func (g *Gateway) call(ctx context.Context, req recognizeRequest) (*recognizeResponse, error) {
	url := g.cfg.BaseURL + "/speech:recognize?key=" + g.cfg.APIKey

	var resp recognizeResponse
	if err := doJSON(ctx, g.client, http.MethodPost, url, req, &resp); err != nil {
		var he *httpError
		if errors.As(err, &he) && (he.status == http.StatusUnauthorized || he.status == http.StatusForbidden) {
			return nil, fmt.Errorf("%w (status %d)", ErrAccessDenied, he.status)
		}
		return nil, fmt.Errorf("speech recognize: %w", err)
	}
	return &resp, nil
}

// majorityLanguage picks the most voted candidate locale, walking the fixed
// candidate list in order so ties resolve deterministically.
func (g *Gateway) majorityLanguage(votes map[string]int) string {
	candidates := append([]string{g.cfg.PrimaryLanguage}, g.cfg.AlternativeLanguages...)
	best := g.cfg.PrimaryLanguage
	bestVotes := -1
	for _, c := range candidates {
		if votes[c] > bestVotes {
			best, bestVotes = c, votes[c]
		}
	}
	return best
}

// normalizeLocale restores the uppercase region tail the API lowercases
// (en-us -> en-US).
func normalizeLocale(code string) string {
	if len(code) == 5 {
		return code[:3] + strings.ToUpper(code[3:])
	}
	return code
}
