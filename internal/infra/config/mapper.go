package config

import (
	"fmt"
	"strings"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// Map applies parsed values on top of the defaults and validates them.
func Map(path string, y YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	m := y.URLMiner

	if m.Masking.Enabled != nil {
		cfg.Masking.Enabled = *m.Masking.Enabled
	}

	if m.Defaults.Feed != "" {
		cfg.Defaults.Feed = strings.TrimSpace(m.Defaults.Feed)
	}
	if m.Defaults.DaysBack != 0 {
		if m.Defaults.DaysBack < 0 {
			return cfg, invalidField(path, "defaults.days_back", "must not be negative")
		}
		cfg.Defaults.DaysBack = m.Defaults.DaysBack
	}
	if m.Defaults.PageSize != 0 {
		if m.Defaults.PageSize < 0 {
			return cfg, invalidField(path, "defaults.page_size", "must not be negative")
		}
		cfg.Defaults.PageSize = m.Defaults.PageSize
		if cfg.Defaults.PageSize > domain.MaxPageSize {
			cfg.Defaults.PageSize = domain.MaxPageSize
		}
	}
	if m.Defaults.Language != "" {
		lang := strings.TrimSpace(m.Defaults.Language)
		if len(lang) != 2 {
			return cfg, invalidField(path, "defaults.language", fmt.Sprintf("expected a two-letter code, got %q", lang))
		}
		cfg.Defaults.Language = lang
	}

	if m.Paths.FeedsDir != "" {
		cfg.Paths.FeedsDir = m.Paths.FeedsDir
	}
	if m.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = m.Paths.RunsDir
	}

	if m.Fetch.MaxConcurrent != 0 {
		if m.Fetch.MaxConcurrent < 0 {
			return cfg, invalidField(path, "fetch.max_concurrent", "must not be negative")
		}
		cfg.Fetch.MaxConcurrent = m.Fetch.MaxConcurrent
	}

	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
