package observe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func findSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordProviderRequest(ctx, "elevenlabs", "tts", "ok")
	m.RecordProviderRequest(ctx, "elevenlabs", "tts", "error")
	m.RecordProviderError(ctx, "elevenlabs", "tts")
	m.RecordFallback(ctx, "tts")
	m.RecordStatusCheck(ctx, "cache")

	assert.Equal(t, int64(2), findSum(t, reader, "rapidlu.provider.requests"))
	assert.Equal(t, int64(1), findSum(t, reader, "rapidlu.provider.errors"))
	assert.Equal(t, int64(1), findSum(t, reader, "rapidlu.fallback.responses"))
	assert.Equal(t, int64(1), findSum(t, reader, "rapidlu.tts.status_checks"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordProviderRequest(ctx, "p", "k", "s")
		m.RecordProviderError(ctx, "p", "k")
		m.RecordFallback(ctx, "k")
		m.RecordStatusCheck(ctx, "s")
		m.ObserveTTS(ctx, "p", 1)
		m.ObserveLLM(ctx, "p", 1)
		m.ObserveHTTP(ctx, "GET", "/health", 200, 0.1)
	})
}

func TestObserveHTTP(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.ObserveHTTP(context.Background(), "GET", "/api/tts/status/{jobId}", 200, 0.2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var count uint64
	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			if met.Name != "rapidlu.http.request.duration" {
				continue
			}
			hist, ok := met.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			for _, dp := range hist.DataPoints {
				count += dp.Count
				route, _ := dp.Attributes.Value("route")
				assert.Equal(t, "/api/tts/status/{jobId}", route.AsString())
			}
		}
	}
	assert.Equal(t, uint64(1), count)
}
