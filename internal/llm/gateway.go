package llm

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/rapidlu/backend/internal/config"
	"github.com/rapidlu/backend/internal/observe"
	"github.com/rapidlu/backend/internal/usage"
)

// ErrNoProvider is returned when no LLM credential is configured.
var ErrNoProvider = errors.New("no llm provider configured")

// providerOrder is the preference order used when the configured default
// provider has no credential.
var providerOrder = []string{"openai", "anthropic", "ollama"}

// Gateway routes chat requests to a provider with retry and an optional
// fallback provider.
type Gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	defaultModel     string
	fallbackProvider string
	maxRetries       int
	backoff          func(attempt int) time.Duration

	usage   usage.Recorder
	metrics *observe.Metrics
}

type Option func(*Gateway)

// WithProvider registers p under its own name, replacing any provider built
// from config.
func WithProvider(p Provider) Option {
	return func(g *Gateway) { g.providers[p.Name()] = p }
}

func WithUsageRecorder(r usage.Recorder) Option {
	return func(g *Gateway) { g.usage = r }
}

func WithMetrics(m *observe.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithBackoff replaces the retry delay schedule.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(g *Gateway) { g.backoff = f }
}

func NewGateway(cfg config.LLMConfig, opts ...Option) *Gateway {
	g := &Gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  cfg.DefaultProvider,
		defaultModel:     cfg.DefaultModel,
		fallbackProvider: cfg.FallbackProvider,
		maxRetries:       cfg.MaxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * 500 * time.Millisecond
		},
		usage: usage.Nop{},
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL)
	}

	for _, opt := range opts {
		opt(g)
	}

	if _, ok := g.providers[g.defaultProvider]; !ok {
		for _, name := range providerOrder {
			if _, ok := g.providers[name]; ok {
				slog.Info("default llm provider not configured, using another",
					"configured", g.defaultProvider,
					"using", name,
				)
				g.defaultProvider = name
				g.defaultModel = ""
				break
			}
		}
	}
	return g
}

// Available reports whether any provider is configured.
func (g *Gateway) Available() bool {
	return len(g.providers) > 0
}

func (g *Gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if !g.Available() {
		return nil, ErrNoProvider
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	resp, err := g.chatWithRetry(ctx, providerName, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != providerName {
		slog.Warn("primary provider failed, trying fallback",
			"primary", providerName,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		g.metrics.RecordFallback(ctx, usage.KindLLM)
		fallbackReq := req
		fallbackReq.Model = ""
		return g.chatWithRetry(ctx, g.fallbackProvider, fallbackReq)
	}
	return resp, err
}

func (g *Gateway) chatWithRetry(ctx context.Context, providerName string, req ChatRequest) (*ChatResponse, error) {
	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}
	req.Model = g.modelFor(p, req.Model)

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.backoff(attempt)):
			}
			slog.Debug("retrying LLM call", "provider", providerName, "attempt", attempt)
		}

		resp, err := p.ChatCompletion(ctx, req)
		if err == nil {
			g.metrics.RecordProviderRequest(ctx, providerName, usage.KindLLM, "ok")
			g.metrics.ObserveLLM(ctx, providerName, float64(resp.LatencyMs)/1000)
			g.record(ctx, req, resp)
			return resp, nil
		}
		g.metrics.RecordProviderRequest(ctx, providerName, usage.KindLLM, "error")
		g.metrics.RecordProviderError(ctx, providerName, usage.KindLLM)
		lastErr = err
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", providerName, lastErr)
}

func (g *Gateway) modelFor(p Provider, model string) string {
	if model != "" {
		return model
	}
	if p.Name() == g.defaultProvider && g.defaultModel != "" {
		return g.defaultModel
	}
	if models := p.Models(); len(models) > 0 {
		return models[0]
	}
	return ""
}

func (g *Gateway) record(ctx context.Context, req ChatRequest, resp *ChatResponse) {
	err := g.usage.Record(ctx, usage.Entry{
		Kind:         usage.KindLLM,
		Provider:     resp.Provider,
		Model:        resp.Model,
		Endpoint:     req.Endpoint,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		CostUSD:      resp.CostUSD,
		LatencyMs:    resp.LatencyMs,
		Timestamp:    time.Now(),
	})
	if err != nil {
		slog.Warn("recording llm usage", "provider", resp.Provider, "error", err)
	}
}

func (g *Gateway) ListModels() []ModelInfo {
	var models []ModelInfo
	for _, p := range g.providers {
		for _, m := range p.Models() {
			models = append(models, ModelInfo{Provider: p.Name(), Model: m})
		}
	}
	slices.SortStableFunc(models, func(a, b ModelInfo) int {
		return cmp.Compare(a.Provider, b.Provider)
	})
	return models
}
