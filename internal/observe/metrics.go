// Package observe provides the OpenTelemetry metric instruments used across
// the backend and the Prometheus exporter bridge that serves them on /metrics.
//
// Components take a *Metrics explicitly. Tests build one with NewMetrics over
// a ManualReader; production code uses DefaultMetrics after InitProvider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/rapidlu/backend"

// Metrics holds all metric instruments. The OTel types are safe for
// concurrent use.
type Metrics struct {
	// ProviderRequests counts upstream calls by provider, kind and status.
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts upstream failures by provider and kind.
	ProviderErrors metric.Int64Counter

	// FallbackResponses counts responses served from mock data, by kind.
	FallbackResponses metric.Int64Counter

	// StatusChecks counts TTS job status checks by resolution source.
	StatusChecks metric.Int64Counter

	TTSDuration         metric.Float64Histogram
	LLMDuration         metric.Float64Histogram
	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
}

// NewMetrics creates every instrument from the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ProviderRequests, err = m.Int64Counter("rapidlu.provider.requests",
		metric.WithDescription("Upstream provider requests by provider, kind, and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("rapidlu.provider.errors",
		metric.WithDescription("Upstream provider errors by provider and kind."),
	); err != nil {
		return nil, err
	}
	if met.FallbackResponses, err = m.Int64Counter("rapidlu.fallback.responses",
		metric.WithDescription("Responses served from mock data by kind."),
	); err != nil {
		return nil, err
	}
	if met.StatusChecks, err = m.Int64Counter("rapidlu.tts.status_checks",
		metric.WithDescription("TTS job status checks by resolution source."),
	); err != nil {
		return nil, err
	}
	if met.TTSDuration, err = m.Float64Histogram("rapidlu.tts.duration",
		metric.WithDescription("Latency of text-to-speech generation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMDuration, err = m.Float64Histogram("rapidlu.llm.duration",
		metric.WithDescription("Latency of LLM completions."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("rapidlu.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route, and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics built from the global
// MeterProvider. Call InitProvider first so the instruments are exported.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordProviderRequest increments the request counter for one upstream call.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, kind, status string) {
	if m == nil {
		return
	}
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	if m == nil {
		return
	}
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		),
	)
}

func (m *Metrics) RecordFallback(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.FallbackResponses.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *Metrics) RecordStatusCheck(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.StatusChecks.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// ObserveTTS records generation latency for provider.
func (m *Metrics) ObserveTTS(ctx context.Context, provider string, seconds float64) {
	if m == nil {
		return
	}
	m.TTSDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("provider", provider)))
}

func (m *Metrics) ObserveLLM(ctx context.Context, provider string, seconds float64) {
	if m == nil {
		return
	}
	m.LLMDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("provider", provider)))
}

// ObserveHTTP records the latency of one served request. route is the chi
// route pattern so path parameters do not explode cardinality.
func (m *Metrics) ObserveHTTP(ctx context.Context, method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.Record(ctx, seconds,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("route", route),
			attribute.Int("status", status),
		),
	)
}
