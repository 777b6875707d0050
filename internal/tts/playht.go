package tts

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rapidlu/backend/internal/tts/jobstore"
)

const defaultPlayHTURL = "https://play.ht/api/v2"

// PlayHTProvider creates a job and waits for it by polling.
type PlayHTProvider struct {
	apiKey       string
	userID       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
}

type PlayHTOption func(*PlayHTProvider)

func WithPlayHTBaseURL(u string) PlayHTOption {
	return func(p *PlayHTProvider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithPlayHTHTTPClient(c *http.Client) PlayHTOption {
	return func(p *PlayHTProvider) { p.httpClient = c }
}

// WithPlayHTPolling sets the wait between status polls and the poll cap.
func WithPlayHTPolling(interval time.Duration, maxPolls int) PlayHTOption {
	return func(p *PlayHTProvider) {
		p.pollInterval = interval
		if maxPolls > 0 {
			p.maxPolls = maxPolls
		}
	}
}

func NewPlayHTProvider(apiKey, userID string, opts ...PlayHTOption) *PlayHTProvider {
	p := &PlayHTProvider{
		apiKey:  apiKey,
		userID:  userID,
		baseURL: defaultPlayHTURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pollInterval: time.Second,
		maxPolls:     30,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PlayHTProvider) Name() string { return ProviderPlayHT }

func (p *PlayHTProvider) StatusContract() StatusContract { return ContractPolling }

func (p *PlayHTProvider) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.apiKey,
		"X-User-ID":     p.userID,
	}
}

type playHTCreateReq struct {
	Text         string  `json:"text"`
	Voice        string  `json:"voice"`
	OutputFormat string  `json:"output_format"`
	Speed        float64 `json:"speed"`
	SampleRate   int     `json:"sample_rate"`
}

type playHTJobResp struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error"`
	Output   *struct {
		URL      string   `json:"url"`
		Duration *float64 `json:"duration"`
	} `json:"output"`
}

func (p *PlayHTProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" || voice == DefaultVoice {
		voice = "en-US-JennyNeural"
	}
	body := playHTCreateReq{
		Text:         req.Text,
		Voice:        voice,
		OutputFormat: "mp3",
		Speed:        req.Speed,
		SampleRate:   24000,
	}

	var created playHTJobResp
	if err := doJSON(ctx, p.httpClient, p.Name(), http.MethodPost, p.baseURL+"/tts", p.headers(), body, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, &ProviderError{Provider: p.Name(), Message: "create job", Cause: ErrUnexpectedResponse}
	}

	for attempt := 0; attempt < p.maxPolls; attempt++ {
		job, err := p.fetch(ctx, created.ID)
		if err != nil {
			return nil, err
		}

		switch jobstore.ParseStatus(job.Status) {
		case jobstore.StatusCompleted:
			if job.Output == nil || job.Output.URL == "" {
				return nil, &ProviderError{Provider: p.Name(), Message: "completed job " + created.ID + " has no output", Cause: ErrUnexpectedResponse}
			}
			return &Result{
				AudioURL: strPtr(job.Output.URL),
				Duration: job.Output.Duration,
				Format:   "mp3",
				Quality:  req.Quality,
				Provider: p.Name(),
				JobID:    created.ID,
				Status:   jobstore.StatusCompleted,
			}, nil
		case jobstore.StatusFailed:
			return nil, &ProviderError{Provider: p.Name(), Message: "TTS generation failed"}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}

	return nil, &ProviderError{Provider: p.Name(), Message: "poll job " + created.ID, Cause: ErrTimeout}
}

func (p *PlayHTProvider) fetch(ctx context.Context, jobID string) (*playHTJobResp, error) {
	var resp playHTJobResp
	endpoint := p.baseURL + "/tts/" + url.PathEscape(jobID)
	if err := doJSON(ctx, p.httpClient, p.Name(), http.MethodGet, endpoint, p.headers(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *PlayHTProvider) CheckStatus(ctx context.Context, jobID string) (*jobstore.Job, error) {
	resp, err := p.fetch(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job := &jobstore.Job{
		JobID:    jobID,
		Status:   jobstore.ParseStatus(resp.Status),
		Progress: jobstore.NormalizeProgress(resp.Progress),
		Provider: p.Name(),
		Error:    resp.Error,
	}
	if resp.Output != nil {
		job.AudioURL = strPtr(resp.Output.URL)
		job.Duration = resp.Output.Duration
	}
	return job, nil
}

// ListVoices returns a curated subset of the PlayHT catalog.
func (p *PlayHTProvider) ListVoices(context.Context) ([]Voice, error) {
	return []Voice{
		{ID: "en-US-JennyNeural", Name: "Jenny", Language: "English (US)", Gender: "female", Provider: ProviderPlayHT},
		{ID: "en-US-GuyNeural", Name: "Guy", Language: "English (US)", Gender: "male", Provider: ProviderPlayHT},
		{ID: "en-GB-SoniaNeural", Name: "Sonia", Language: "English (UK)", Gender: "female", Provider: ProviderPlayHT},
		{ID: "es-ES-ElviraNeural", Name: "Elvira", Language: "Spanish (Spain)", Gender: "female", Provider: ProviderPlayHT},
		{ID: "fr-FR-DeniseNeural", Name: "Denise", Language: "French (France)", Gender: "female", Provider: ProviderPlayHT},
	}, nil
}
