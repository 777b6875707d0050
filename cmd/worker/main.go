package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/rapidlu/backend/internal/config"
	"github.com/rapidlu/backend/internal/database"
	"github.com/rapidlu/backend/internal/observe"
	"github.com/rapidlu/backend/internal/queue"
	"github.com/rapidlu/backend/internal/queue/workers"
	"github.com/rapidlu/backend/internal/tts"
	"github.com/rapidlu/backend/internal/tts/jobstore"
	"github.com/rapidlu/backend/internal/usage"
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
	ctx := context.Background()

	mp, _, err := observe.InitProvider("rapidlu-worker", version)
	if err != nil {
		slog.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = mp.Shutdown(context.Background()) }()

	var recorder usage.Recorder = usage.Nop{}
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Warn("database unavailable, running without usage log", "error", err)
	} else if db != nil {
		defer db.Close()
		recorder = usage.NewPostgresRecorder(db)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	store := jobstore.NewRedisStore(rdb,
		jobstore.WithPrefix(cfg.Redis.Prefix),
		jobstore.WithRedisTTL(cfg.TTS.JobTTL),
	)
	ttsSvc := tts.NewService(store,
		tts.WithProviders(tts.ProvidersFromConfig(cfg.TTS)...),
		tts.WithUsageRecorder(recorder),
		tts.WithMetrics(observe.DefaultMetrics()),
	)

	qc := queue.NewClient(cfg.Redis, cfg.TTS.RefreshDelay)
	defer qc.Close()

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypeTTSRefresh, workers.NewRefreshWorker(ttsSvc, qc, cfg.TTS.RefreshMaxAttempts))

	slog.Info("starting worker", "concurrency", cfg.Worker.Concurrency, "tts_providers", ttsSvc.Providers())
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
