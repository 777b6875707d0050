package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rapidlu/backend/internal/api"
	"github.com/rapidlu/backend/internal/api/handlers"
	"github.com/rapidlu/backend/internal/api/middleware"
	"github.com/rapidlu/backend/internal/cache"
	"github.com/rapidlu/backend/internal/config"
	"github.com/rapidlu/backend/internal/database"
	"github.com/rapidlu/backend/internal/llm"
	"github.com/rapidlu/backend/internal/observe"
	"github.com/rapidlu/backend/internal/podcast"
	"github.com/rapidlu/backend/internal/queue"
	"github.com/rapidlu/backend/internal/translation"
	"github.com/rapidlu/backend/internal/tts"
	"github.com/rapidlu/backend/internal/tts/jobstore"
	"github.com/rapidlu/backend/internal/usage"
	"github.com/rapidlu/backend/migrations"
)

var version = "dev"

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mp, metricsHandler, err := observe.InitProvider("rapidlu-api", version)
	if err != nil {
		slog.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = mp.Shutdown(context.Background()) }()
	metrics := observe.DefaultMetrics()

	// Database connection (optional, backs the usage log only)
	var recorder usage.Recorder = usage.Nop{}
	var summarizer handlers.UsageSummarizer
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Warn("database unavailable, running without usage log", "error", err)
	}
	if db != nil {
		defer db.Close()
		if err := database.RunMigrations(ctx, db, migrationsFS(cfg.Database.MigrationsPath)); err != nil {
			slog.Warn("migrations failed", "error", err)
		}
		pg := usage.NewPostgresRecorder(db)
		recorder, summarizer = pg, pg
	}

	rdb := connectRedis(ctx, cfg.Redis, cfg.TTS.JobStore == "redis")
	if rdb != nil {
		defer rdb.Close()
	}

	ttsOpts := []tts.Option{
		tts.WithProviders(tts.ProvidersFromConfig(cfg.TTS)...),
		tts.WithUsageRecorder(recorder),
		tts.WithMetrics(metrics),
	}

	var store jobstore.Store
	if cfg.TTS.JobStore == "redis" {
		if rdb == nil {
			slog.Error("TTS_JOB_STORE=redis but redis is unreachable", "addr", cfg.Redis.Addr)
			os.Exit(1)
		}
		store = jobstore.NewRedisStore(rdb,
			jobstore.WithPrefix(cfg.Redis.Prefix),
			jobstore.WithRedisTTL(cfg.TTS.JobTTL),
		)
		qc := queue.NewClient(cfg.Redis, cfg.TTS.RefreshDelay)
		defer qc.Close()
		ttsOpts = append(ttsOpts, tts.WithRefreshScheduler(qc))
	} else {
		mem := jobstore.NewMemoryStore(jobstore.WithTTL(cfg.TTS.JobTTL))
		go mem.Run(ctx, cfg.TTS.SweepInterval)
		store = mem
	}
	ttsSvc := tts.NewService(store, ttsOpts...)
	slog.Info("tts providers", "configured", ttsSvc.Providers(), "job_store", cfg.TTS.JobStore)

	gw := llm.NewGateway(cfg.LLM,
		llm.WithUsageRecorder(recorder),
		llm.WithMetrics(metrics),
	)

	podcastOpts := []podcast.Option{
		podcast.WithBaseURL(cfg.Podcast.ListenNotesBaseURL),
		podcast.WithMetrics(metrics),
	}
	if rdb != nil {
		podcastOpts = append(podcastOpts,
			podcast.WithSearchCache(cache.NewCache(rdb, cfg.Redis.Prefix), cfg.Podcast.SearchCacheTTL))
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	go limiter.Run(ctx)

	deps := api.Deps{
		Config:         cfg,
		DB:             db,
		Redis:          rdb,
		TTS:            ttsSvc,
		Podcasts:       podcast.NewService(cfg.Podcast.ListenNotesKey, podcastOpts...),
		Translation:    translation.NewService(gw, nil),
		LLM:            gw,
		Usage:          summarizer,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		RateLimiter:    limiter,
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(deps).Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// connectRedis returns nil when Redis is unreachable. Redis is optional unless
// it backs the job store.
func connectRedis(ctx context.Context, cfg config.RedisConfig, required bool) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		level := slog.LevelWarn
		if required {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "redis unavailable, running without cache", "addr", cfg.Addr, "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// migrationsFS prefers an on-disk directory so operators can add migrations
// without a rebuild; otherwise the embedded set is used.
func migrationsFS(dir string) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}
	return migrations.FS
}
