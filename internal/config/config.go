package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Engine   EngineConfig
	Ingest   IngestConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	RunMigrations bool
	RunSeeders    bool
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type EngineConfig struct {
	WeightCosine  float64
	WeightLLR     float64
	Workers       int
	GapTopJobs    int
	GapMaxSkills  int
	SuggestTopN   int
	SuggestMaxOut int
	SuggestTTL    time.Duration
}

// IngestConfig selects which corpus sources run. A source with an empty
// base URL is disabled.
type IngestConfig struct {
	Workers int

	FeedName    string
	FeedAPIBase string
	FeedPages   int

	BoardName        string
	BoardBaseURL     string
	BoardListPath    string
	BoardLinkPattern string
	BoardPages       int

	HeadlessName        string
	HeadlessBaseURL     string
	HeadlessListPath    string
	HeadlessLinkPattern string
	HeadlessPages       int
	HeadlessLimit       int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return def
		}
		return v
	}
	optFloat := func(key string, def float64) float64 {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return def
		}
		return v
	}
	optBool := func(key string) bool {
		raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		return raw == "1" || raw == "true" || raw == "yes"
	}
	optSeconds := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return def
		}
		return time.Duration(v) * time.Second
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        optSeconds("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optSeconds("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optSeconds("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optSeconds("DB_POOL_HEALTH_CHECK_PERIOD", 0),

		RunMigrations: optBool("DB_RUN_MIGRATIONS"),
		RunSeeders:    optBool("DB_RUN_SEEDERS"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:  req("JWT_ACCESS_SECRET"),
		RefreshSecret: req("JWT_REFRESH_SECRET"),
		AccessTTL:     optSeconds("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    optSeconds("JWT_REFRESH_TTL", 7*24*time.Hour),
	}

	cfg.Engine = EngineConfig{
		WeightCosine:  optFloat("ENGINE_WEIGHT_COSINE", 0.6),
		WeightLLR:     optFloat("ENGINE_WEIGHT_LLR", 0.4),
		Workers:       optInt("ENGINE_WORKERS", 8),
		GapTopJobs:    optInt("ENGINE_GAP_TOP_JOBS", 5),
		GapMaxSkills:  optInt("ENGINE_GAP_MAX_SKILLS", 10),
		SuggestTopN:   optInt("ENGINE_SUGGEST_TOP_USERS", 5),
		SuggestMaxOut: optInt("ENGINE_SUGGEST_MAX_SKILLS", 10),
		SuggestTTL:    optSeconds("ENGINE_SUGGEST_TTL", time.Minute),
	}

	cfg.Ingest = IngestConfig{
		Workers: optInt("INGEST_WORKERS", 4),

		FeedName:    optDefault("INGEST_FEED_NAME", "Dev.to Jobs"),
		FeedAPIBase: optDefault("INGEST_FEED_API_BASE", "https://dev.to"),
		FeedPages:   optInt("INGEST_FEED_PAGES", 1),

		BoardName:        optDefault("INGEST_BOARD_NAME", "Job Board"),
		BoardBaseURL:     opt("INGEST_BOARD_BASE_URL"),
		BoardListPath:    optDefault("INGEST_BOARD_LIST_PATH", "/jobs?page=%d"),
		BoardLinkPattern: optDefault("INGEST_BOARD_LINK_PATTERN", "/job/"),
		BoardPages:       optInt("INGEST_BOARD_PAGES", 1),

		HeadlessName:        optDefault("INGEST_HEADLESS_NAME", "Rendered Board"),
		HeadlessBaseURL:     opt("INGEST_HEADLESS_BASE_URL"),
		HeadlessListPath:    optDefault("INGEST_HEADLESS_LIST_PATH", "/jobs?page=%d"),
		HeadlessLinkPattern: optDefault("INGEST_HEADLESS_LINK_PATTERN", "/jobs/"),
		HeadlessPages:       optInt("INGEST_HEADLESS_PAGES", 1),
		HeadlessLimit:       optInt("INGEST_HEADLESS_LIMIT", 30),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
