// Package tts turns text into audio through the first configured vendor
// (AutoContent, ElevenLabs, PlayHT) and falls back to a placeholder clip when
// none is configured or the chosen one fails.
package tts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/rapidlu/backend/internal/config"
	"github.com/rapidlu/backend/internal/observe"
	"github.com/rapidlu/backend/internal/tts/jobstore"
	"github.com/rapidlu/backend/internal/usage"
)

// RefreshScheduler queues a later status refresh for an asynchronous job.
type RefreshScheduler interface {
	ScheduleRefresh(ctx context.Context, jobID string, attempt int) error
}

type Service struct {
	generators []Generator
	listers    []VoiceLister
	checkers   []StatusChecker
	store      jobstore.Store
	usage      usage.Recorder
	metrics    *observe.Metrics
	refresh    RefreshScheduler
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

// WithProviders registers providers in priority order. Providers that also
// list voices or report job status are registered for those roles too.
func WithProviders(providers ...Generator) Option {
	return func(s *Service) {
		for _, p := range providers {
			if p == nil {
				continue
			}
			s.generators = append(s.generators, p)
			if l, ok := p.(VoiceLister); ok {
				s.listers = append(s.listers, l)
			}
			if c, ok := p.(StatusChecker); ok {
				s.checkers = append(s.checkers, c)
			}
		}
	}
}

func WithUsageRecorder(r usage.Recorder) Option {
	return func(s *Service) { s.usage = r }
}

func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithRefreshScheduler(r RefreshScheduler) Option {
	return func(s *Service) { s.refresh = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store jobstore.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		usage:  usage.Nop{},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProvidersFromConfig builds every vendor that has a credential, highest
// priority first.
func ProvidersFromConfig(cfg config.TTSConfig) []Generator {
	var providers []Generator
	if cfg.AutoContentKey != "" {
		providers = append(providers, NewAutoContentProvider(cfg.AutoContentKey, WithAutoContentBaseURL(cfg.AutoContentBaseURL)))
	}
	if cfg.ElevenLabsKey != "" {
		providers = append(providers, NewElevenLabsProvider(cfg.ElevenLabsKey, WithElevenLabsBaseURL(cfg.ElevenLabsBaseURL)))
	}
	if cfg.PlayHTKey != "" {
		providers = append(providers, NewPlayHTProvider(cfg.PlayHTKey, cfg.PlayHTUserID, WithPlayHTBaseURL(cfg.PlayHTBaseURL)))
	}
	return providers
}

// Providers returns the names of the configured vendors in priority order.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.generators))
	for _, g := range s.generators {
		names = append(names, g.Name())
	}
	return names
}

// Generate synthesizes req with the highest-priority configured provider.
// Only validation failures are returned as errors; provider failures yield
// the mock result.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	if len(s.generators) == 0 {
		s.metrics.RecordFallback(ctx, usage.KindTTS)
		res := Mock(req.Text)
		s.recordUsage(ctx, req, res, 0, true)
		return res, nil
	}

	provider := s.generators[0]
	start := s.now()
	res, err := provider.Generate(ctx, req)
	elapsed := s.now().Sub(start)

	if err != nil {
		s.logger.Error("tts provider failed, using mock audio",
			"provider", provider.Name(),
			"error", err,
		)
		s.metrics.RecordProviderRequest(ctx, provider.Name(), usage.KindTTS, "error")
		s.metrics.RecordProviderError(ctx, provider.Name(), usage.KindTTS)
		s.metrics.RecordFallback(ctx, usage.KindTTS)
		res = Mock(req.Text)
		s.recordUsage(ctx, req, res, elapsed, true)
		return res, nil
	}

	s.metrics.RecordProviderRequest(ctx, provider.Name(), usage.KindTTS, "ok")
	s.metrics.ObserveTTS(ctx, provider.Name(), elapsed.Seconds())

	if res.Async() && res.Status != jobstore.StatusCompleted {
		s.track(ctx, res, req)
	}

	s.recordUsage(ctx, req, res, elapsed, false)
	return res, nil
}

// track stores a processing record for an asynchronous job and schedules a
// background refresh when one is wired.
func (s *Service) track(ctx context.Context, res *Result, req Request) {
	now := s.now()
	job := &jobstore.Job{
		JobID:      res.JobID,
		Status:     jobstore.StatusProcessing,
		Progress:   0,
		Provider:   res.Provider,
		CreatedAt:  now,
		UpdatedAt:  now,
		TextLength: utf8.RuneCountInString(req.Text),
	}
	if err := s.store.Put(ctx, job); err != nil {
		s.logger.Error("storing tts job", "job_id", res.JobID, "error", err)
		return
	}
	if s.refresh == nil {
		return
	}
	if err := s.refresh.ScheduleRefresh(ctx, res.JobID, 1); err != nil {
		s.logger.Warn("scheduling tts job refresh", "job_id", res.JobID, "error", err)
	}
}

func (s *Service) recordUsage(ctx context.Context, req Request, res *Result, elapsed time.Duration, fallback bool) {
	entry := usage.Entry{
		Kind:       usage.KindTTS,
		Provider:   res.Provider,
		Endpoint:   "generate",
		Characters: utf8.RuneCountInString(req.Text),
		LatencyMs:  elapsed.Milliseconds(),
		JobID:      res.JobID,
		Fallback:   fallback,
		Timestamp:  s.now(),
	}
	if res.Duration != nil {
		entry.AudioSeconds = *res.Duration
	}
	if err := s.usage.Record(ctx, entry); err != nil {
		s.logger.Warn("recording tts usage", "provider", res.Provider, "error", err)
	}
}

// Voices lists the voices of every configured provider, filtered by
// language. When nothing matches the mock voices are returned instead.
func (s *Service) Voices(ctx context.Context, language string) []Voice {
	results := make([][]Voice, len(s.listers))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range s.listers {
		g.Go(func() error {
			voices, err := l.ListVoices(gctx)
			if err != nil {
				return fmt.Errorf("listing voices: %w", err)
			}
			results[i] = voices
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("listing tts voices", "error", err)
		return MockVoices(language)
	}

	var voices []Voice
	for _, r := range results {
		voices = append(voices, r...)
	}
	voices = FilterByLanguage(voices, language)
	if len(voices) == 0 {
		return MockVoices(language)
	}
	return voices
}

// PodcastRecommendations picks a suggested voice per narration style. Any
// field may be nil.
type PodcastRecommendations struct {
	MaleNarrator   *Voice `json:"male_narrator"`
	FemaleNarrator *Voice `json:"female_narrator"`
	Conversational *Voice `json:"conversational"`
}

// PodcastVoices narrows Voices to podcast-optimised voices and suggests one
// per style.
func (s *Service) PodcastVoices(ctx context.Context, language string) ([]Voice, PodcastRecommendations) {
	var podcast []Voice
	for _, v := range s.Voices(ctx, language) {
		if isPodcastVoice(v) {
			podcast = append(podcast, v)
		}
	}

	var rec PodcastRecommendations
	for i := range podcast {
		v := &podcast[i]
		switch {
		case rec.MaleNarrator == nil && v.Gender == "male" && v.Category == "podcast":
			rec.MaleNarrator = v
		case rec.FemaleNarrator == nil && v.Gender == "female" && v.Category == "podcast":
			rec.FemaleNarrator = v
		}
		if rec.Conversational == nil && strings.Contains(v.ID, "conversational") {
			rec.Conversational = v
		}
	}
	if podcast == nil {
		podcast = []Voice{}
	}
	return podcast, rec
}

func isPodcastVoice(v Voice) bool {
	if v.Category == "podcast" || v.Provider == ProviderAutoContent {
		return true
	}
	for _, t := range v.Tags {
		if t == "podcast" {
			return true
		}
	}
	return false
}
