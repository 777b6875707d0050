package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rapidlu/backend/internal/api/handlers"
	"github.com/rapidlu/backend/internal/api/middleware"
	"github.com/rapidlu/backend/internal/config"
	"github.com/rapidlu/backend/internal/llm"
	"github.com/rapidlu/backend/internal/observe"
	"github.com/rapidlu/backend/internal/podcast"
	"github.com/rapidlu/backend/internal/translation"
	"github.com/rapidlu/backend/internal/tts"
)

const maxBodyBytes = 10 << 20

// Deps are the services the router exposes. DB, Redis, Usage, Metrics and
// MetricsHandler are optional.
type Deps struct {
	Config         *config.Config
	DB             *pgxpool.Pool
	Redis          *redis.Client
	TTS            *tts.Service
	Podcasts       *podcast.Service
	Translation    *translation.Service
	LLM            *llm.Gateway
	Usage          handlers.UsageSummarizer
	Metrics        *observe.Metrics
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
}

type Router struct {
	mux  *chi.Mux
	deps Deps
}

func NewRouter(deps Deps) *Router {
	return &Router{mux: chi.NewRouter(), deps: deps}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux
	d := rt.deps

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(d.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{d.Config.Server.FrontendURL}))
	r.Use(middleware.BodyLimit(maxBodyBytes))
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Limit)
	}

	health := handlers.NewHealthHandler(d.DB, d.Redis)
	r.NotFound(health.NotFound)
	r.MethodNotAllowed(health.NotFound)
	r.Get("/", health.Root)
	r.Get("/health", health.Health)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		ttsH := handlers.NewTTSHandler(d.TTS)
		r.Route("/tts", func(r chi.Router) {
			r.Post("/generate", ttsH.Generate)
			r.Post("/podcast", ttsH.Podcast)
			r.Get("/voices", ttsH.Voices)
			r.Get("/voices/podcast", ttsH.PodcastVoices)
			r.Get("/status/{jobId}", ttsH.Status)
		})

		podcastH := handlers.NewPodcastHandler(d.Podcasts)
		r.Route("/podcasts", func(r chi.Router) {
			r.Get("/search", podcastH.Search)
			r.Post("/analyze", podcastH.Analyze)
			r.Get("/episode/{episodeId}/transcript", podcastH.Transcript)
			r.Get("/{id}", podcastH.Get)
			r.Get("/{id}/episodes", podcastH.Episodes)
		})

		translationH := handlers.NewTranslationHandler(d.Translation)
		r.Route("/translation", func(r chi.Router) {
			r.Post("/summarize", translationH.Summarize)
			r.Post("/translate", translationH.Translate)
			r.Post("/summarize-and-translate", translationH.SummarizeAndTranslate)
			r.Get("/languages", translationH.Languages)
		})

		adminH := handlers.NewAdminHandler(d.Usage, d.TTS, d.LLM)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/usage", adminH.Usage)
			r.Get("/providers", adminH.Providers)
		})
	})

	return r
}
