package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SKILLRANK_CONFIG is set
//  3. env (prefix SKILLRANK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SKILLRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SKILLRANK_ADDR, SKILLRANK_CACHE_MAX_AGE_SECONDS, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SKILLRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "skillrank_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.ConfidenceConstant <= 0:
		return fmt.Errorf("%w: confidence_constant must be positive", ErrInvalidConfig)
	case cfg.StrongThreshold <= 0 || cfg.StrongThreshold >= 1:
		return fmt.Errorf("%w: strong_threshold must be in (0,1)", ErrInvalidConfig)
	case cfg.DrawBase < 0 || cfg.DrawBase >= 1:
		return fmt.Errorf("%w: draw_base must be in [0,1)", ErrInvalidConfig)
	case cfg.CacheMaxAgeSeconds <= 0:
		return fmt.Errorf("%w: cache_max_age_seconds must be positive", ErrInvalidConfig)
	case cfg.MaxSuggestionLimit < cfg.DefaultSuggestionLimit:
		return fmt.Errorf("%w: max_suggestion_limit below default_suggestion_limit", ErrInvalidConfig)
	}
	return nil
}
