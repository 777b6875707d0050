package tts

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rapidlu/backend/internal/tts/jobstore"
)

const defaultAutoContentURL = "https://api.autocontent.ai/v1"

// AutoContentProvider talks to the AutoContent podcast TTS API. Long texts
// are accepted as background jobs and looked up with CheckStatus.
type AutoContentProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type AutoContentOption func(*AutoContentProvider)

func WithAutoContentBaseURL(u string) AutoContentOption {
	return func(p *AutoContentProvider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithAutoContentHTTPClient(c *http.Client) AutoContentOption {
	return func(p *AutoContentProvider) { p.httpClient = c }
}

func NewAutoContentProvider(apiKey string, opts ...AutoContentOption) *AutoContentProvider {
	p := &AutoContentProvider{
		apiKey:  apiKey,
		baseURL: defaultAutoContentURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *AutoContentProvider) Name() string { return ProviderAutoContent }

func (p *AutoContentProvider) StatusContract() StatusContract { return ContractAsync }

type autoContentEmotions struct {
	Enthusiasm float64 `json:"enthusiasm"`
	Clarity    float64 `json:"clarity"`
	Pace       float64 `json:"pace"`
}

type autoContentPodcastSettings struct {
	IntroPause     float64 `json:"intro_pause"`
	OutroPause     float64 `json:"outro_pause"`
	ParagraphPause float64 `json:"paragraph_pause"`
	SentencePause  float64 `json:"sentence_pause"`
}

type autoContentGenerateReq struct {
	Text            string                     `json:"text"`
	Voice           string                     `json:"voice"`
	Language        string                     `json:"language"`
	Speed           float64                    `json:"speed"`
	Quality         Quality                    `json:"quality"`
	OutputFormat    string                     `json:"output_format"`
	SampleRate      int                        `json:"sample_rate"`
	Bitrate         int                        `json:"bitrate"`
	Emotions        autoContentEmotions        `json:"emotions"`
	PodcastSettings autoContentPodcastSettings `json:"podcast_settings"`
}

type autoContentGenerateResp struct {
	Status         string   `json:"status"`
	JobID          string   `json:"job_id"`
	AudioData      string   `json:"audio_data"`
	AudioURL       string   `json:"audio_url"`
	Duration       *float64 `json:"duration"`
	VoiceInfo      any      `json:"voice_info"`
	ProcessingTime any      `json:"processing_time"`
}

func (p *AutoContentProvider) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.apiKey}
}

func (p *AutoContentProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" || voice == DefaultVoice {
		voice = "podcast-narrator"
	}
	body := autoContentGenerateReq{
		Text:         req.Text,
		Voice:        voice,
		Language:     req.Language,
		Speed:        req.Speed,
		Quality:      req.Quality,
		OutputFormat: "mp3",
		SampleRate:   44100,
		Bitrate:      192,
		Emotions:     autoContentEmotions{Enthusiasm: 0.3, Clarity: 0.9, Pace: 0.7},
		PodcastSettings: autoContentPodcastSettings{
			IntroPause:     1.0,
			OutroPause:     1.5,
			ParagraphPause: 0.8,
			SentencePause:  0.4,
		},
	}
	headers := p.headers()
	headers["X-Request-Type"] = "podcast-generation"

	var resp autoContentGenerateResp
	if err := doJSON(ctx, p.httpClient, p.Name(), http.MethodPost, p.baseURL+"/tts/generate", headers, body, &resp); err != nil {
		return nil, err
	}

	switch {
	case jobstore.ParseStatus(resp.Status) == jobstore.StatusCompleted:
		if resp.AudioURL == "" && resp.AudioData == "" {
			return nil, &ProviderError{Provider: p.Name(), Message: "completed without audio", Cause: ErrUnexpectedResponse}
		}
		return &Result{
			AudioData: strPtr(resp.AudioData),
			AudioURL:  strPtr(resp.AudioURL),
			Duration:  resp.Duration,
			Format:    "mp3",
			Quality:   req.Quality,
			Provider:  p.Name(),
			Status:    jobstore.StatusCompleted,
			Metadata: map[string]any{
				"voice_used":            resp.VoiceInfo,
				"processing_time":       resp.ProcessingTime,
				"word_count":            wordCount(req.Text),
				"estimated_listen_time": resp.Duration,
			},
		}, nil
	case resp.JobID != "":
		return &Result{
			Format:   "mp3",
			Quality:  req.Quality,
			Provider: p.Name(),
			JobID:    resp.JobID,
			Status:   jobstore.StatusProcessing,
			Message:  "Audio is being generated. Check status with job ID.",
		}, nil
	default:
		return nil, &ProviderError{Provider: p.Name(), Message: "generate", Cause: ErrUnexpectedResponse}
	}
}

type autoContentVoice struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Gender      string   `json:"gender"`
	Category    string   `json:"category"`
	Quality     string   `json:"quality"`
	Description string   `json:"description"`
	SampleURL   string   `json:"sample_url"`
	Tags        []string `json:"tags"`
}

// ListVoices returns the vendor's voice catalog, or the three curated
// podcast voices when the catalog cannot be fetched. It never errors.
func (p *AutoContentProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	var resp struct {
		Voices []autoContentVoice `json:"voices"`
	}
	if err := doJSON(ctx, p.httpClient, p.Name(), http.MethodGet, p.baseURL+"/voices", p.headers(), nil, &resp); err != nil {
		return autoContentDefaultVoices(), nil
	}

	voices := make([]Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voice := Voice{
			ID:          v.ID,
			Name:        v.Name,
			Language:    v.Language,
			Gender:      v.Gender,
			Provider:    ProviderAutoContent,
			Category:    v.Category,
			Quality:     v.Quality,
			Description: v.Description,
			SampleURL:   v.SampleURL,
			Tags:        v.Tags,
		}
		if voice.Category == "" {
			voice.Category = "podcast"
		}
		if voice.Quality == "" {
			voice.Quality = "premium"
		}
		if len(voice.Tags) == 0 {
			voice.Tags = []string{"podcast", "narrative"}
		}
		voices = append(voices, voice)
	}
	return voices, nil
}

func autoContentDefaultVoices() []Voice {
	return []Voice{
		{
			ID: "podcast-narrator-male", Name: "Professional Male Narrator", Language: "English (US)",
			Gender: "male", Provider: ProviderAutoContent, Category: "podcast", Quality: "premium",
			Description: "Deep, authoritative voice perfect for podcasts",
		},
		{
			ID: "podcast-narrator-female", Name: "Professional Female Narrator", Language: "English (US)",
			Gender: "female", Provider: ProviderAutoContent, Category: "podcast", Quality: "premium",
			Description: "Clear, engaging voice ideal for storytelling",
		},
		{
			ID: "podcast-conversational", Name: "Conversational Host", Language: "English (US)",
			Gender: "neutral", Provider: ProviderAutoContent, Category: "podcast", Quality: "premium",
			Description: "Natural, friendly tone for talk shows",
		},
	}
}

type autoContentStatusResp struct {
	Status              string         `json:"status"`
	Progress            float64        `json:"progress"`
	AudioURL            string         `json:"audio_url"`
	AudioData           string         `json:"audio_data"`
	Duration            *float64       `json:"duration"`
	Error               string         `json:"error"`
	Metadata            map[string]any `json:"metadata"`
	EstimatedCompletion any            `json:"estimated_completion"`
	ProcessingTime      any            `json:"processing_time"`
}

func (p *AutoContentProvider) CheckStatus(ctx context.Context, jobID string) (*jobstore.Job, error) {
	var resp autoContentStatusResp
	endpoint := p.baseURL + "/tts/status/" + url.PathEscape(jobID)
	if err := doJSON(ctx, p.httpClient, p.Name(), http.MethodGet, endpoint, p.headers(), nil, &resp); err != nil {
		return nil, err
	}

	metadata := resp.Metadata
	if resp.EstimatedCompletion != nil || resp.ProcessingTime != nil {
		if metadata == nil {
			metadata = map[string]any{}
		}
		if resp.EstimatedCompletion != nil {
			metadata["estimated_completion"] = resp.EstimatedCompletion
		}
		if resp.ProcessingTime != nil {
			metadata["processing_time"] = resp.ProcessingTime
		}
	}

	return &jobstore.Job{
		JobID:     jobID,
		Status:    jobstore.ParseStatus(resp.Status),
		Progress:  jobstore.NormalizeProgress(resp.Progress),
		Provider:  p.Name(),
		AudioURL:  strPtr(resp.AudioURL),
		AudioData: strPtr(resp.AudioData),
		Duration:  resp.Duration,
		Metadata:  metadata,
		Error:     resp.Error,
	}, nil
}
