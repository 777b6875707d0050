// Package podcast looks up podcasts and episodes in the ListenNotes
// directory. Without an API key, or when ListenNotes fails, it serves a small
// mock catalog.
package podcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rapidlu/backend/internal/observe"
)

var ErrValidation = errors.New("invalid podcast request")

const (
	DefaultSearchLimit  = 10
	DefaultEpisodeLimit = 20
	maxLimit            = 100

	defaultBaseURL = "https://listen-api.listennotes.com/api/v2"
	providerName   = "listennotes"
)

// SearchCache is the subset of cache.Cache used for search results.
type SearchCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      SearchCache
	cacheTTL   time.Duration
	metrics    *observe.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithBaseURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

// WithSearchCache caches search results for ttl.
func WithSearchCache(c SearchCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(apiKey string, opts ...Option) *Service {
	s := &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheTTL: 10 * time.Minute,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseLimit reads a limit query value, falling back to def for missing or
// invalid input and capping large values.
func ParseLimit(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return min(n, maxLimit)
}

type searchResp struct {
	Results []struct {
		ID                  string `json:"id"`
		TitleOriginal       string `json:"title_original"`
		DescriptionOriginal string `json:"description_original"`
		Image               string `json:"image"`
		PublisherOriginal   string `json:"publisher_original"`
		TotalEpisodes       int    `json:"total_episodes"`
		Language            string `json:"language"`
		ExplicitContent     bool   `json:"explicit_content"`
	} `json:"results"`
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]Podcast, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: Query parameter is required", ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if s.apiKey == "" {
		return mockSearch(query, limit), nil
	}

	cacheKey := fmt.Sprintf("podcast:search:%s:%d", strings.ToLower(query), limit)
	if s.cache != nil {
		var cached []Podcast
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		s.logger.Debug("podcast search cache miss", "query", query, "error", err)
	}

	params := url.Values{
		"q":            {query},
		"type":         {"podcast"},
		"offset":       {"0"},
		"len_min":      {"10"},
		"len_max":      {"30"},
		"sort_by_date": {"0"},
		"language":     {"English"},
		"only_in":      {"title,description"},
		"page_size":    {strconv.Itoa(limit)},
	}
	var resp searchResp
	if err := s.get(ctx, "/search", params, &resp); err != nil {
		s.fallback(ctx, "search", err)
		return mockSearch(query, limit), nil
	}

	results := make([]Podcast, 0, len(resp.Results))
	for _, p := range resp.Results {
		results = append(results, Podcast{
			ID:            p.ID,
			Title:         p.TitleOriginal,
			Description:   p.DescriptionOriginal,
			Image:         p.Image,
			Publisher:     p.PublisherOriginal,
			TotalEpisodes: p.TotalEpisodes,
			Language:      p.Language,
			Explicit:      p.ExplicitContent,
		})
		if len(results) == limit {
			break
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, results, s.cacheTTL); err != nil {
			s.logger.Warn("caching podcast search", "error", err)
		}
	}
	return results, nil
}

type podcastResp struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Image           string `json:"image"`
	Publisher       string `json:"publisher"`
	TotalEpisodes   int    `json:"total_episodes"`
	Language        string `json:"language"`
	Website         string `json:"website"`
	RSS             string `json:"rss"`
	ExplicitContent bool   `json:"explicit_content"`
	Episodes        []struct {
		ID              string `json:"id"`
		Title           string `json:"title"`
		Description     string `json:"description"`
		Audio           string `json:"audio"`
		AudioLengthSec  int    `json:"audio_length_sec"`
		PubDateMs       int64  `json:"pub_date_ms"`
		Image           string `json:"image"`
		ExplicitContent bool   `json:"explicit_content"`
	} `json:"episodes"`
}

func (s *Service) Podcast(ctx context.Context, id string) (*Podcast, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: podcast id is required", ErrValidation)
	}
	if s.apiKey == "" {
		return mockPodcast(id), nil
	}

	var p podcastResp
	if err := s.get(ctx, "/podcasts/"+url.PathEscape(id), nil, &p); err != nil {
		s.fallback(ctx, "podcast", err)
		return mockPodcast(id), nil
	}
	return &Podcast{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Image:         p.Image,
		Publisher:     p.Publisher,
		TotalEpisodes: p.TotalEpisodes,
		Language:      p.Language,
		Website:       p.Website,
		RSS:           p.RSS,
		Explicit:      p.ExplicitContent,
	}, nil
}

// Episodes returns up to limit of the most recent episodes of a podcast.
func (s *Service) Episodes(ctx context.Context, podcastID string, limit int) ([]Episode, error) {
	if strings.TrimSpace(podcastID) == "" {
		return nil, fmt.Errorf("%w: podcast id is required", ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultEpisodeLimit
	}
	if s.apiKey == "" {
		return mockEpisodes(limit, s.now()), nil
	}

	params := url.Values{
		"next_episode_pub_date": {strconv.FormatInt(s.now().UnixMilli(), 10)},
		"sort":                  {"recent_first"},
	}
	var p podcastResp
	if err := s.get(ctx, "/podcasts/"+url.PathEscape(podcastID), params, &p); err != nil {
		s.fallback(ctx, "episodes", err)
		return mockEpisodes(limit, s.now()), nil
	}

	episodes := make([]Episode, 0, min(limit, len(p.Episodes)))
	for _, e := range p.Episodes {
		if len(episodes) == limit {
			break
		}
		episodes = append(episodes, Episode{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Audio:       e.Audio,
			AudioLength: e.AudioLengthSec,
			PubDate:     e.PubDateMs,
			Image:       e.Image,
			Explicit:    e.ExplicitContent,
		})
	}
	return episodes, nil
}

// Transcript returns the transcript of an episode. No transcription backend
// is wired yet, so every episode gets the placeholder transcript.
func (s *Service) Transcript(_ context.Context, episodeID string) (*Transcript, error) {
	if strings.TrimSpace(episodeID) == "" {
		return nil, fmt.Errorf("%w: episode id is required", ErrValidation)
	}
	return mockTranscript(episodeID), nil
}

func (s *Service) fallback(ctx context.Context, op string, err error) {
	s.logger.Error("listennotes request failed, using mock data", "op", op, "error", err)
	s.metrics.RecordProviderError(ctx, providerName, "podcast")
	s.metrics.RecordFallback(ctx, "podcast")
}

func (s *Service) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-ListenAPI-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.metrics.RecordProviderRequest(ctx, providerName, "podcast", "error")
		return fmt.Errorf("listennotes %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.metrics.RecordProviderRequest(ctx, providerName, "podcast", "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("listennotes %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	s.metrics.RecordProviderRequest(ctx, providerName, "podcast", "ok")

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode listennotes %s: %w", path, err)
	}
	return nil
}
