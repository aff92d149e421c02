// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MetricsAddr configures the /metrics listen address.
	MetricsAddr string `koanf:"metrics_addr"`

	// PostgresDSN points at the booking application's database. Empty means
	// run on in-memory stores (dev mode).
	PostgresDSN string `koanf:"postgres_dsn"`

	// RedisAddr enables the Redis snapshot backend. Empty means in-memory.
	RedisAddr string `koanf:"redis_addr"`

	// CacheMaxAgeSeconds is the leaderboard freshness window.
	CacheMaxAgeSeconds int `koanf:"cache_max_age_seconds"`

	// ConfidenceConstant is the shrinkage constant C in skill = winRate * n/(n+C).
	ConfidenceConstant float64 `koanf:"confidence_constant"`

	// DedupeSize bounds the aggregator's per-fold seen set. Zero means
	// unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	// StrongThreshold splits suggestion candidates into strong vs balanced.
	StrongThreshold float64 `koanf:"strong_threshold"`

	// PredictorSensitivity, DrawBase and DrawDecay calibrate the outcome predictor.
	PredictorSensitivity float64 `koanf:"predictor_sensitivity"`
	DrawBase             float64 `koanf:"draw_base"`
	DrawDecay            float64 `koanf:"draw_decay"`

	// DefaultSuggestionLimit is used when a request omits or clamps limit.
	DefaultSuggestionLimit int `koanf:"default_suggestion_limit"`

	// MaxSuggestionLimit caps GET suggestions?limit.
	MaxSuggestionLimit int `koanf:"max_suggestion_limit"`

	// HeuristicMinConfidence drops weak booking-derived pseudo-outcomes.
	HeuristicMinConfidence float64 `koanf:"heuristic_min_confidence"`

	// RefreshIntervalSeconds drives the background snapshot refresher.
	// Zero disables it.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// RefreshWorkers sets the number of background recompute workers.
	RefreshWorkers int `koanf:"refresh_workers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		MetricsAddr:            ":9091",
		CacheMaxAgeSeconds:     600,
		ConfidenceConstant:     10,
		StrongThreshold:        0.5,
		PredictorSensitivity:   6,
		DrawBase:               0.25,
		DrawDecay:              4,
		DefaultSuggestionLimit: 5,
		MaxSuggestionLimit:     50,
		HeuristicMinConfidence: 0.3,
		RefreshIntervalSeconds: 300,
		RefreshWorkers:         2,
	}
}

// CacheMaxAge returns the freshness window as a duration.
func (c *Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeSeconds) * time.Second
}

// RefreshInterval returns the refresher sweep interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}
