package tts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rapidlu/backend/internal/tts/jobstore"
)

const (
	ProviderAutoContent = "autocontent"
	ProviderElevenLabs  = "elevenlabs"
	ProviderPlayHT      = "playht"
	ProviderMock        = "mock"
)

type Quality string

const (
	QualityStandard Quality = "standard"
	QualityPodcast  Quality = "podcast"
	QualityPremium  Quality = "premium"
)

const (
	DefaultVoice    = "default"
	DefaultLanguage = "en"
	DefaultSpeed    = 1.0
)

// Request is one text-to-speech generation request.
type Request struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice,omitempty"`
	Language string  `json:"language,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Quality  Quality `json:"quality,omitempty"`
}

// Normalize applies defaults and validates the request. A zero speed means
// "unset"; a negative one is rejected.
func (r Request) Normalize() (Request, error) {
	if strings.TrimSpace(r.Text) == "" {
		return r, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if r.Speed < 0 {
		return r, fmt.Errorf("%w: speed must be greater than zero", ErrValidation)
	}
	if r.Speed == 0 {
		r.Speed = DefaultSpeed
	}
	if r.Voice == "" {
		r.Voice = DefaultVoice
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	switch r.Quality {
	case "":
		r.Quality = QualityPodcast
	case QualityStandard, QualityPodcast, QualityPremium:
	default:
		return r, fmt.Errorf("%w: unknown quality %q", ErrValidation, r.Quality)
	}
	return r, nil
}

// Result is the normalised output of a provider or the mock generator.
// While a job is processing both AudioData and AudioURL are nil and JobID is
// set.
type Result struct {
	AudioData *string         `json:"audioData"`
	AudioURL  *string         `json:"audioUrl"`
	Duration  *float64        `json:"duration"`
	Format    string          `json:"format"`
	Quality   Quality         `json:"quality,omitempty"`
	Provider  string          `json:"provider"`
	JobID     string          `json:"jobId,omitempty"`
	Status    jobstore.Status `json:"status,omitempty"`
	Message   string          `json:"message,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
}

// Async reports whether the provider accepted the text as a background job
// without returning audio yet.
func (r *Result) Async() bool {
	return r.JobID != "" && r.AudioData == nil && r.AudioURL == nil
}

// Voice describes one selectable voice.
type Voice struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Gender      string   `json:"gender"`
	Provider    string   `json:"provider"`
	Category    string   `json:"category,omitempty"`
	Quality     string   `json:"quality,omitempty"`
	Description string   `json:"description,omitempty"`
	SampleURL   string   `json:"sample_url,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// FilterByLanguage keeps voices whose language contains language,
// case-insensitively. An empty language keeps everything.
func FilterByLanguage(voices []Voice, language string) []Voice {
	if language == "" {
		return voices
	}
	needle := strings.ToLower(language)
	out := make([]Voice, 0, len(voices))
	for _, v := range voices {
		if strings.Contains(strings.ToLower(v.Language), needle) {
			out = append(out, v)
		}
	}
	return out
}

// EstimateDuration is the rough seconds-of-audio estimate used when a
// provider does not report one: one second per ten characters.
func EstimateDuration(text string) float64 {
	return float64(utf8.RuneCountInString(text) / 10)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
