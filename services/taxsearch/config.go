package taxsearch

import (
	"os"
	"strconv"
	"time"

	"nhctax-backend/lib/scrapers/nhctax"
)

// Config carries every knob the search engine consumes. Defaults
// match the live deployment; ConfigFromEnv overrides them from the
// environment.
type Config struct {
	BaseUrl        string
	RequestTimeout time.Duration

	RetryAttempts int
	RetryDelay    time.Duration
	RetryBackoff  float64

	RateLimitEnabled bool
	RateLimitDelay   time.Duration

	CacheEnabled  bool
	CacheDuration time.Duration
	CacheMaxSize  int

	MaxResults int
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:          nhctax.DefaultBaseUrl,
		RequestTimeout:   30 * time.Second,
		RetryAttempts:    3,
		RetryDelay:       2 * time.Second,
		RetryBackoff:     2.0,
		RateLimitEnabled: true,
		RateLimitDelay:   time.Second,
		CacheEnabled:     true,
		CacheDuration:    24 * time.Hour,
		CacheMaxSize:     5000,
		MaxResults:       500,
	}
}

// ConfigFromEnv reads overrides from BASE_URL, REQUEST_TIMEOUT,
// RETRY_ATTEMPTS, RETRY_DELAY, RETRY_BACKOFF, RATE_LIMIT_ENABLED,
// RATE_LIMIT_DELAY, CACHE_ENABLED, CACHE_DURATION_HOURS,
// CACHE_MAX_SIZE and MAX_RESULTS. Durations are in seconds except
// CACHE_DURATION_HOURS.
func ConfigFromEnv() Config {
	config := DefaultConfig()

	if v := os.Getenv("BASE_URL"); v != "" {
		config.BaseUrl = v
	}
	config.RequestTimeout = envSeconds("REQUEST_TIMEOUT", config.RequestTimeout)
	config.RetryAttempts = envInt("RETRY_ATTEMPTS", config.RetryAttempts)
	config.RetryDelay = envSeconds("RETRY_DELAY", config.RetryDelay)
	config.RetryBackoff = envFloat("RETRY_BACKOFF", config.RetryBackoff)
	config.RateLimitEnabled = envBool("RATE_LIMIT_ENABLED", config.RateLimitEnabled)
	config.RateLimitDelay = envSeconds("RATE_LIMIT_DELAY", config.RateLimitDelay)
	config.CacheEnabled = envBool("CACHE_ENABLED", config.CacheEnabled)
	if hours := envInt("CACHE_DURATION_HOURS", 0); hours > 0 {
		config.CacheDuration = time.Duration(hours) * time.Hour
	}
	config.CacheMaxSize = envInt("CACHE_MAX_SIZE", config.CacheMaxSize)
	config.MaxResults = envInt("MAX_RESULTS", config.MaxResults)

	return config
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return time.Duration(v * float64(time.Second))
}
