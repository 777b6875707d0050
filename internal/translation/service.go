// Package translation summarizes and translates transcripts through the LLM
// gateway. With no LLM configured, or when a call fails, it answers with
// canned text so the app keeps working offline.
package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/rapidlu/backend/internal/llm"
)

var ErrValidation = errors.New("invalid translation request")

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// ParseLength maps unknown values to medium.
func ParseLength(s string) Length {
	switch Length(strings.ToLower(strings.TrimSpace(s))) {
	case LengthShort:
		return LengthShort
	case LengthLong:
		return LengthLong
	default:
		return LengthMedium
	}
}

func (l Length) instruction() string {
	switch l {
	case LengthShort:
		return "in 2-3 sentences"
	case LengthLong:
		return "in 3-4 paragraphs with key details"
	default:
		return "in 1-2 paragraphs"
	}
}

func (l Length) maxTokens() int {
	switch l {
	case LengthShort:
		return 150
	case LengthLong:
		return 1000
	default:
		return 500
	}
}

const DefaultSourceLanguage = "English"

type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

var supportedLanguages = []Language{
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
	{Code: "it", Name: "Italian", NativeName: "Italiano"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português"},
	{Code: "ru", Name: "Russian", NativeName: "Русский"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語"},
	{Code: "ko", Name: "Korean", NativeName: "한국어"},
	{Code: "zh", Name: "Chinese", NativeName: "中文"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe"},
	{Code: "pl", Name: "Polish", NativeName: "Polski"},
	{Code: "nl", Name: "Dutch", NativeName: "Nederlands"},
	{Code: "sv", Name: "Swedish", NativeName: "Svenska"},
}

// Chatter is the part of the LLM gateway this package needs.
type Chatter interface {
	Available() bool
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

type Service struct {
	llm    Chatter
	logger *slog.Logger
}

func NewService(chatter Chatter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{llm: chatter, logger: logger}
}

// Languages lists the supported translation targets.
func (s *Service) Languages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

func (s *Service) enabled() bool {
	return s.llm != nil && s.llm.Available()
}

func (s *Service) Summarize(ctx context.Context, text string, length Length) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required for summarization", ErrValidation)
	}
	length = ParseLength(string(length))
	if !s.enabled() {
		return MockSummary(length), nil
	}

	user, err := render(summarizeUser, map[string]string{"instruction": length.instruction(), "text": text})
	if err != nil {
		return "", err
	}
	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "system", Content: summarizeSystem}, {Role: "user", Content: user}},
		Temperature: 0.3,
		MaxTokens:   length.maxTokens(),
		Endpoint:    "summarize",
	})
	if err != nil {
		s.logger.Error("summarizing with llm, using mock summary", "error", err)
		return MockSummary(length), nil
	}
	return strings.TrimSpace(resp.Content), nil
}

func (s *Service) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("%w: text and target language are required", ErrValidation)
	}
	if source == "" {
		source = DefaultSourceLanguage
	}
	if !s.enabled() {
		return MockTranslation(text, target), nil
	}

	user, err := render(translateUser, map[string]string{"source": source, "target": target, "text": text})
	if err != nil {
		return "", err
	}
	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "system", Content: translateSystem}, {Role: "user", Content: user}},
		Temperature: 0.2,
		MaxTokens:   min(4000, utf8.RuneCountInString(text)*2),
		Endpoint:    "translate",
	})
	if err != nil {
		s.logger.Error("translating with llm, using mock translation", "error", err)
		return MockTranslation(text, target), nil
	}
	return strings.TrimSpace(resp.Content), nil
}

// Combined is the answer of SummarizeAndTranslate.
type Combined struct {
	Summary     string `json:"summary"`
	Translation string `json:"translation"`
}

// SummarizeAndTranslate produces a summary and its translation with a single
// LLM call.
func (s *Service) SummarizeAndTranslate(ctx context.Context, text, source, target string, length Length) (*Combined, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("%w: text and target language are required", ErrValidation)
	}
	if source == "" {
		source = DefaultSourceLanguage
	}
	length = ParseLength(string(length))
	if !s.enabled() {
		return mockCombined(length, target), nil
	}

	user, err := render(combinedUser, map[string]string{
		"instruction": length.instruction(),
		"source":      source,
		"target":      target,
		"text":        text,
	})
	if err != nil {
		return nil, err
	}
	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "system", Content: combinedSystem}, {Role: "user", Content: user}},
		Temperature: 0.3,
		MaxTokens:   length.maxTokens() * 2,
		Endpoint:    "summarize-and-translate",
	})
	if err != nil {
		s.logger.Error("summarize and translate with llm, using mock", "error", err)
		return mockCombined(length, target), nil
	}

	summary, translation := splitSummaryAndTranslation(resp.Content)
	return &Combined{Summary: summary, Translation: translation}, nil
}

func mockCombined(length Length, target string) *Combined {
	summary := MockSummary(length)
	return &Combined{Summary: summary, Translation: MockTranslation(summary, target)}
}
