package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every setting the application reads, populated once at startup
// and never mutated afterwards. Components receive it (or the slice of it they
// need) at construction time.
type Config struct {
	OpenAIKey         string
	MeteoblueKey      string
	OpenCageKey       string
	VisualCrossingKey string

	OpenCageBaseURL       string
	MeteoblueBaseURL      string
	VisualCrossingBaseURL string

	OpenAIModel     string
	DefaultLocation string

	Cache CacheConfig
	Retry RetryConfig

	// RequestTimeout is the per-request socket timeout inside the pipeline.
	RequestTimeout time.Duration

	// RateLimitRPS throttles outbound API calls; 0 disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int

	// SequentialFetch disables the concurrent 7-day fan-out and fetches one
	// day at a time instead.
	SequentialFetch bool

	ListenAddr string
}

// CacheConfig governs the response cache. When RedisAddr is set the cache is
// backed by Redis instead of local files.
type CacheConfig struct {
	Enabled   bool
	Directory string
	RedisAddr string

	CoordinatesTTL time.Duration
	WeatherTTL     time.Duration
	HistoricalTTL  time.Duration
}

// RetryConfig bounds the pipeline's exponential backoff.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Load reads configuration from the environment with sensible defaults.
// API keys are required; everything else falls back to a default.
func Load() (*Config, error) {
	cfg := &Config{
		OpenCageBaseURL:       getenvDefault("OPENCAGE_BASEURL", "https://api.opencagedata.com/geocode/v1/json"),
		MeteoblueBaseURL:      getenvDefault("METEOBLUE_BASEURL", "https://my.meteoblue.com/packages/basic-1h"),
		VisualCrossingBaseURL: getenvDefault("VISUALCROSSING_BASEURL", "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"),
		OpenAIModel:           getenvDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		DefaultLocation:       getenvDefault("DEFAULT_LOCATION", "Berlin"),
		ListenAddr:            getenvDefault("LISTEN_ADDR", ":8080"),
	}

	for _, k := range []struct {
		env  string
		dest *string
	}{
		{"OPENAI_API_KEY", &cfg.OpenAIKey},
		{"METEOBLUE_API_KEY", &cfg.MeteoblueKey},
		{"OPENCAGE_API_KEY", &cfg.OpenCageKey},
		{"VISUALCROSSING_API_KEY", &cfg.VisualCrossingKey},
	} {
		v := os.Getenv(k.env)
		if v == "" {
			return nil, fmt.Errorf("required configuration %s is missing", k.env)
		}
		*k.dest = v
	}

	cfg.Cache = CacheConfig{
		Enabled:   getenvBool("CACHE_ENABLED", true),
		Directory: getenvDefault("CACHE_DIRECTORY", "cache"),
		RedisAddr: os.Getenv("REDIS_ADDRESS"),
	}

	var err error
	if cfg.Cache.CoordinatesTTL, err = getenvDuration("CACHE_TTL_COORDINATES", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Cache.WeatherTTL, err = getenvDuration("CACHE_TTL_WEATHER", time.Hour); err != nil {
		return nil, err
	}
	if cfg.Cache.HistoricalTTL, err = getenvDuration("CACHE_TTL_HISTORICAL", 365*24*time.Hour); err != nil {
		return nil, err
	}

	cfg.Retry = RetryConfig{
		MaxRetries: getenvInt("MAX_RETRIES", 3),
	}
	if cfg.Retry.BaseDelay, err = getenvDuration("BASE_RETRY_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.Retry.MaxDelay, err = getenvDuration("MAX_RETRY_DELAY", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getenvDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.RateLimitRPS = getenvFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 5)
	cfg.SequentialFetch = getenvBool("SEQUENTIAL_FETCH", false)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
