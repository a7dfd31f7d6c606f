package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// Enabled reports whether an external scoring provider is configured.
// Running without one is a supported configuration: the deterministic
// fallback scorer becomes the sole scoring mechanism.
func (c LLMConfig) Enabled() bool {
	return c.Provider != ""
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type MatchingConfig struct {
	SuggestThreshold   float64 `toml:"suggest_threshold"`
	AutoMatchThreshold float64 `toml:"auto_match_threshold"`
	AutoMatchLimit     int     `toml:"auto_match_limit"`
	LLMTimeoutSeconds  int     `toml:"llm_timeout_seconds"`
	Concurrency        int     `toml:"concurrency"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Database DatabaseConfig `toml:"database"`
	Matching MatchingConfig `toml:"matching"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "reclaim.db"},
		Matching: DefaultMatching(),
	}
}

// DefaultMatching mirrors the thresholds the web handlers assume:
// 60 for interactive suggestions, 80 for the auto-match flow.
func DefaultMatching() MatchingConfig {
	return MatchingConfig{
		SuggestThreshold:   60,
		AutoMatchThreshold: 80,
		AutoMatchLimit:     5,
		LLMTimeoutSeconds:  10,
		Concurrency:        4,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.Matching = cfg.Matching.withDefaults()

	return cfg, nil
}

func (m MatchingConfig) withDefaults() MatchingConfig {
	d := DefaultMatching()
	if m.SuggestThreshold <= 0 {
		m.SuggestThreshold = d.SuggestThreshold
	}
	if m.AutoMatchThreshold <= 0 {
		m.AutoMatchThreshold = d.AutoMatchThreshold
	}
	if m.AutoMatchLimit <= 0 {
		m.AutoMatchLimit = d.AutoMatchLimit
	}
	if m.LLMTimeoutSeconds <= 0 {
		m.LLMTimeoutSeconds = d.LLMTimeoutSeconds
	}
	if m.Concurrency <= 0 {
		m.Concurrency = d.Concurrency
	}
	return m
}
