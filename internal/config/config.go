package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the environment-driven configuration surface. Every knob the
// acquisition and scoring layers consume is a named option here, not a magic
// number buried in a component.
type Config struct {
	HTTPBind string
	RedisURL string

	// Rate limiting, shared by all provider adapters.
	RequestMinInterval   time.Duration
	RequestJitterMax     time.Duration
	MaxRequestsPerMinute int

	// Cascade retry policy for RateLimited/Timeout/Unreachable failures.
	RetryMaxAttempts int
	BackoffBase      time.Duration
	BackoffCap       time.Duration

	// Cache TTLs per data category.
	TTLAsset     time.Duration
	TTLSentiment time.Duration
	TTLSocial    time.Duration
	TTLResolve   time.Duration

	// Elimination gates.
	MinMarketCap      float64
	MinVolume24h      float64
	MinAgeDays        int
	MinLiquidityRatio float64

	// Batch analysis inter-item delay.
	BatchDelay time.Duration

	LunarCrushAPIKey string
	APIKey           string
}

func Load() *Config {
	cfg := &Config{
		HTTPBind:         envString("HTTP_BIND", ":8080"),
		RedisURL:         os.Getenv("REDIS_URL"),
		LunarCrushAPIKey: strings.TrimSpace(os.Getenv("LUNARCRUSH_API_KEY")),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),

		RequestMinInterval:   envDurationMs("REQUEST_MIN_INTERVAL_MS", 2500*time.Millisecond),
		RequestJitterMax:     envDurationMs("REQUEST_JITTER_MS", 500*time.Millisecond),
		MaxRequestsPerMinute: envInt("MAX_REQUESTS_PER_MINUTE", 25),

		RetryMaxAttempts: envInt("RETRY_MAX_ATTEMPTS", 3),
		BackoffBase:      envDurationSecs("BACKOFF_BASE_SECS", 10*time.Second),
		BackoffCap:       envDurationSecs("BACKOFF_CAP_SECS", 60*time.Second),

		TTLAsset:     envDurationSecs("CACHE_TTL_ASSET_SECS", 5*time.Minute),
		TTLSentiment: envDurationSecs("CACHE_TTL_SENTIMENT_SECS", 60*time.Minute),
		TTLSocial:    envDurationSecs("CACHE_TTL_SOCIAL_SECS", 30*time.Minute),
		TTLResolve:   envDurationSecs("CACHE_TTL_RESOLVE_SECS", 24*time.Hour),

		MinMarketCap:      envFloat("MIN_MARKET_CAP", 1_000_000),
		MinVolume24h:      envFloat("MIN_VOLUME_24H", 100_000),
		MinAgeDays:        envInt("MIN_AGE_DAYS", 180),
		MinLiquidityRatio: envFloat("MIN_LIQUIDITY_RATIO", 0.001),

		BatchDelay: envDurationSecs("BATCH_DELAY_SECS", 3*time.Second),
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, using in-memory cache")
	}
	if cfg.LunarCrushAPIKey == "" {
		log.Println("Warning: LUNARCRUSH_API_KEY not set, social analysis will fall back to Reddit")
	}

	return cfg
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using default %d", key, v, fallback)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using default %g", key, v, fallback)
	}
	return fallback
}

func envDurationMs(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Millisecond
		}
		log.Printf("Warning: invalid %s=%q, using default %v", key, v, fallback)
	}
	return fallback
}

func envDurationSecs(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("Warning: invalid %s=%q, using default %v", key, v, fallback)
	}
	return fallback
}
