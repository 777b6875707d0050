package tts

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rapidlu/backend/internal/tts/jobstore"
)

const defaultElevenLabsURL = "https://api.elevenlabs.io/v1"

const elevenLabsModel = "eleven_monolingual_v1"

// elevenLabsVoiceIDs maps friendly names to ElevenLabs voice ids. Unknown
// names resolve to Rachel.
var elevenLabsVoiceIDs = map[string]string{
	"default": "21m00Tcm4TlvDq8ikWAM",
	"rachel":  "21m00Tcm4TlvDq8ikWAM",
	"domi":    "AZnzlk1XvdvUeBnXmlld",
	"bella":   "EXAVITQu4vr4xnSDxMaL",
	"antoni":  "ErXwobaYiN019PkySvjV",
	"elli":    "MF3mGyEYCl7XYWbV9V6O",
}

func elevenLabsVoiceID(name string) string {
	if id, ok := elevenLabsVoiceIDs[strings.ToLower(name)]; ok {
		return id
	}
	return elevenLabsVoiceIDs["default"]
}

// ElevenLabsProvider returns synthesized audio synchronously.
type ElevenLabsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type ElevenLabsOption func(*ElevenLabsProvider)

func WithElevenLabsBaseURL(u string) ElevenLabsOption {
	return func(p *ElevenLabsProvider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithElevenLabsHTTPClient(c *http.Client) ElevenLabsOption {
	return func(p *ElevenLabsProvider) { p.httpClient = c }
}

func NewElevenLabsProvider(apiKey string, opts ...ElevenLabsOption) *ElevenLabsProvider {
	p := &ElevenLabsProvider{
		apiKey:  apiKey,
		baseURL: defaultElevenLabsURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ElevenLabsProvider) Name() string { return ProviderElevenLabs }

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsReq struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

func (p *ElevenLabsProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	body := elevenLabsReq{
		Text:    req.Text,
		ModelID: elevenLabsModel,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
			UseSpeakerBoost: true,
		},
	}
	headers := map[string]string{
		"xi-api-key": p.apiKey,
		"Accept":     "audio/mpeg",
	}
	endpoint := p.baseURL + "/text-to-speech/" + url.PathEscape(elevenLabsVoiceID(req.Voice))

	audio, err := doRequest(ctx, p.httpClient, p.Name(), http.MethodPost, endpoint, headers, body)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(audio)
	return &Result{
		AudioData: &encoded,
		Duration:  floatPtr(EstimateDuration(req.Text)),
		Format:    "mp3",
		Quality:   req.Quality,
		Provider:  p.Name(),
		Status:    jobstore.StatusCompleted,
	}, nil
}

type elevenLabsVoice struct {
	VoiceID    string            `json:"voice_id"`
	Name       string            `json:"name"`
	PreviewURL string            `json:"preview_url"`
	Labels     map[string]string `json:"labels"`
}

// ListVoices returns an empty list when the catalog cannot be fetched.
func (p *ElevenLabsProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	var resp struct {
		Voices []elevenLabsVoice `json:"voices"`
	}
	headers := map[string]string{"xi-api-key": p.apiKey}
	if err := doJSON(ctx, p.httpClient, p.Name(), http.MethodGet, p.baseURL+"/voices", headers, nil, &resp); err != nil {
		return []Voice{}, nil
	}

	voices := make([]Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		gender := v.Labels["gender"]
		if gender == "" {
			gender = "unknown"
		}
		voices = append(voices, Voice{
			ID:         v.VoiceID,
			Name:       v.Name,
			Language:   "English",
			Gender:     gender,
			Provider:   ProviderElevenLabs,
			PreviewURL: v.PreviewURL,
		})
	}
	return voices, nil
}
