package usage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidlu/backend/internal/config"
	"github.com/rapidlu/backend/internal/database"
	"github.com/rapidlu/backend/internal/usage"
	"github.com/rapidlu/backend/migrations"
)

// newTestPool connects to DATABASE_URL and applies the embedded migrations.
// Tests using it are skipped when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, config.DatabaseConfig{URL: url, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(ctx, pool, migrations.FS))
	return pool
}

func summaryFor(summaries []usage.Summary, provider, model string) (usage.Summary, bool) {
	for _, s := range summaries {
		if s.Provider == provider && s.Model == model {
			return s, true
		}
	}
	return usage.Summary{}, false
}

func TestPostgresRecorder_RecordAndSummary(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	// A unique provider name and a fixed window in the past keep this run
	// apart from rows written by the service or earlier runs.
	provider := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(), "DELETE FROM usage_logs WHERE provider = $1", provider)
		assert.NoError(t, err)
	})
	base := time.Date(2001, 3, 4, 12, 0, 0, 0, time.UTC)

	rec := usage.NewPostgresRecorder(pool)
	entries := []usage.Entry{
		{Kind: usage.KindTTS, Provider: provider, Characters: 100, AudioSeconds: 6, JobID: "job-1", Timestamp: base},
		{Kind: usage.KindTTS, Provider: provider, Characters: 20, AudioSeconds: 1.5, Fallback: true, Timestamp: base.Add(time.Minute)},
		{Kind: usage.KindLLM, Provider: provider, Model: "gpt-4o-mini", InputTokens: 30, OutputTokens: 12, CostUSD: 0.25, Timestamp: base.Add(2 * time.Minute)},
		{Kind: usage.KindTTS, Provider: provider, Characters: 999, Timestamp: base.Add(48 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, rec.Record(ctx, e))
	}

	start := base.Add(-time.Hour)
	end := base.Add(time.Hour)
	summaries, err := rec.Summary(ctx, &start, &end)
	require.NoError(t, err)

	tts, ok := summaryFor(summaries, provider, "")
	require.True(t, ok, "tts summary missing")
	assert.Equal(t, usage.KindTTS, tts.Kind)
	assert.Equal(t, 2, tts.TotalCalls)
	assert.Equal(t, 1, tts.FallbackCalls)
	assert.Equal(t, 120, tts.TotalCharacters)
	assert.InDelta(t, 7.5, tts.TotalAudioSeconds, 1e-9)

	llm, ok := summaryFor(summaries, provider, "gpt-4o-mini")
	require.True(t, ok, "llm summary missing")
	assert.Equal(t, usage.KindLLM, llm.Kind)
	assert.Equal(t, 1, llm.TotalCalls)
	assert.Equal(t, 42, llm.TotalTokens)
	assert.InDelta(t, 0.25, llm.TotalCostUSD, 1e-9)

	all, err := rec.Summary(ctx, nil, nil)
	require.NoError(t, err)
	tts, ok = summaryFor(all, provider, "")
	require.True(t, ok)
	assert.Equal(t, 3, tts.TotalCalls)
	assert.Equal(t, 1119, tts.TotalCharacters)
}

func TestPostgresRecorder_RecordDefaultsTimestamp(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	provider := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(), "DELETE FROM usage_logs WHERE provider = $1", provider)
		assert.NoError(t, err)
	})

	before := time.Now().Add(-time.Minute)
	require.NoError(t, usage.NewPostgresRecorder(pool).Record(ctx, usage.Entry{Kind: usage.KindTTS, Provider: provider}))

	var createdAt time.Time
	var jobID *string
	err := pool.QueryRow(ctx, "SELECT created_at, job_id FROM usage_logs WHERE provider = $1", provider).Scan(&createdAt, &jobID)
	require.NoError(t, err)
	assert.True(t, createdAt.After(before))
	assert.Nil(t, jobID)
}
