package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	LLM      LLMConfig      `mapstructure:"llm"`
	TTS      TTSConfig      `mapstructure:"tts"`
	Podcast  PodcastConfig  `mapstructure:"podcast"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

type ServerConfig struct {
	Host           string  `mapstructure:"host"`
	Port           int     `mapstructure:"port"`
	FrontendURL    string  `mapstructure:"frontend_url"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConns       int    `mapstructure:"max_conns"`
	MinConns       int    `mapstructure:"min_conns"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type LLMConfig struct {
	OpenAIKey        string `mapstructure:"openai_key"`
	AnthropicKey     string `mapstructure:"anthropic_key"`
	OllamaURL        string `mapstructure:"ollama_url"`
	DefaultProvider  string `mapstructure:"default_provider"`
	DefaultModel     string `mapstructure:"default_model"`
	FallbackProvider string `mapstructure:"fallback_provider"`
	MaxRetries       int    `mapstructure:"max_retries"`
}

// TTSConfig holds the credentials of the three TTS vendors and the job store
// settings. A vendor with an empty key is treated as not configured.
type TTSConfig struct {
	AutoContentKey     string        `mapstructure:"autocontent_key"`
	AutoContentBaseURL string        `mapstructure:"autocontent_base_url"`
	ElevenLabsKey      string        `mapstructure:"elevenlabs_key"`
	ElevenLabsBaseURL  string        `mapstructure:"elevenlabs_base_url"`
	PlayHTKey          string        `mapstructure:"playht_key"`
	PlayHTUserID       string        `mapstructure:"playht_user_id"`
	PlayHTBaseURL      string        `mapstructure:"playht_base_url"`
	JobStore           string        `mapstructure:"job_store"` // "memory" or "redis"
	JobTTL             time.Duration `mapstructure:"job_ttl"`
	SweepInterval      time.Duration `mapstructure:"sweep_interval"`
	RefreshDelay       time.Duration `mapstructure:"refresh_delay"`
	RefreshMaxAttempts int           `mapstructure:"refresh_max_attempts"`
}

type PodcastConfig struct {
	ListenNotesKey     string        `mapstructure:"listennotes_key"`
	ListenNotesBaseURL string        `mapstructure:"listennotes_base_url"`
	SearchCacheTTL     time.Duration `mapstructure:"search_cache_ttl"`
}

type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// envBindings maps config keys to the environment variables that may set
// them, in precedence order.
var envBindings = map[string][]string{
	"server.host":             {"SERVER_HOST"},
	"server.port":             {"PORT", "SERVER_PORT"},
	"server.frontend_url":     {"FRONTEND_URL"},
	"server.rate_limit_rps":   {"RATE_LIMIT_RPS"},
	"server.rate_limit_burst": {"RATE_LIMIT_BURST"},

	"logging.level":  {"LOG_LEVEL"},
	"logging.format": {"LOG_FORMAT"},

	"database.url":             {"DATABASE_URL"},
	"database.max_conns":       {"DB_MAX_CONNS"},
	"database.min_conns":       {"DB_MIN_CONNS"},
	"database.migrations_path": {"MIGRATIONS_PATH"},

	"redis.addr":     {"REDIS_ADDR"},
	"redis.password": {"REDIS_PASSWORD"},
	"redis.db":       {"REDIS_DB"},
	"redis.prefix":   {"REDIS_PREFIX"},

	"llm.openai_key":        {"OPENAI_API_KEY"},
	"llm.anthropic_key":     {"ANTHROPIC_API_KEY"},
	"llm.ollama_url":        {"OLLAMA_URL"},
	"llm.default_provider":  {"LLM_DEFAULT_PROVIDER"},
	"llm.default_model":     {"LLM_DEFAULT_MODEL"},
	"llm.fallback_provider": {"LLM_FALLBACK_PROVIDER"},
	"llm.max_retries":       {"LLM_MAX_RETRIES"},

	"tts.autocontent_key":      {"AUTOCONTENT_API_KEY"},
	"tts.autocontent_base_url": {"AUTOCONTENT_BASE_URL"},
	"tts.elevenlabs_key":       {"ELEVENLABS_API_KEY"},
	"tts.elevenlabs_base_url":  {"ELEVENLABS_BASE_URL"},
	"tts.playht_key":           {"PLAYHT_API_KEY"},
	"tts.playht_user_id":       {"PLAYHT_USER_ID"},
	"tts.playht_base_url":      {"PLAYHT_BASE_URL"},
	"tts.job_store":            {"TTS_JOB_STORE"},
	"tts.job_ttl":              {"TTS_JOB_TTL"},
	"tts.sweep_interval":       {"TTS_SWEEP_INTERVAL"},
	"tts.refresh_delay":        {"TTS_REFRESH_DELAY"},
	"tts.refresh_max_attempts": {"TTS_REFRESH_MAX_ATTEMPTS"},

	"podcast.listennotes_key":      {"LISTEN_NOTES_API_KEY"},
	"podcast.listennotes_base_url": {"LISTEN_NOTES_BASE_URL"},
	"podcast.search_cache_ttl":     {"PODCAST_SEARCH_CACHE_TTL"},

	"worker.concurrency": {"WORKER_CONCURRENCY"},
}

// Load reads configuration from defaults, an optional YAML file and the
// environment. If configFile is empty, RAPIDLU_CONFIG is consulted; with
// neither set only defaults and environment variables apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.frontend_url", "http://localhost:8081")
	v.SetDefault("server.rate_limit_rps", 100)
	v.SetDefault("server.rate_limit_burst", 200)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "rapidlu")
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.default_model", "gpt-3.5-turbo")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("tts.autocontent_base_url", "https://api.autocontent.ai/v1")
	v.SetDefault("tts.elevenlabs_base_url", "https://api.elevenlabs.io/v1")
	v.SetDefault("tts.playht_base_url", "https://play.ht/api/v2")
	v.SetDefault("tts.job_store", "memory")
	v.SetDefault("tts.job_ttl", "24h")
	v.SetDefault("tts.sweep_interval", "10m")
	v.SetDefault("tts.refresh_delay", "5s")
	v.SetDefault("tts.refresh_max_attempts", 60)
	v.SetDefault("podcast.listennotes_base_url", "https://listen-api.listennotes.com/api/v2")
	v.SetDefault("podcast.search_cache_ttl", "10m")
	v.SetDefault("worker.concurrency", 10)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if configFile == "" {
		configFile = os.Getenv("RAPIDLU_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate rejects settings that cannot work at all. Missing credentials are
// not errors: every upstream falls back to mock data.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d", c.Server.Port))
	}
	switch c.TTS.JobStore {
	case "memory", "redis":
	default:
		problems = append(problems, fmt.Sprintf("unknown TTS_JOB_STORE %q", c.TTS.JobStore))
	}
	if c.TTS.JobTTL < 0 {
		problems = append(problems, "TTS_JOB_TTL must not be negative")
	}
	if c.LLM.MaxRetries < 0 {
		problems = append(problems, "LLM_MAX_RETRIES must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, ", "))
	}
	return nil
}

// SetupLogging configures the global slog logger.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
