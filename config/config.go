// Package config loads treelate server configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider kinds accepted in the config file.
const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Config is the top-level configuration structure.
type Config struct {
	// Listen is the HTTP listen address (default ":8080").
	Listen string `yaml:"listen,omitempty"`
	// StorePath is the translation file location (default "translations.json"
	// next to the config file).
	StorePath string `yaml:"store_path,omitempty"`
	// SourceLang is the source language code (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Provider selects and configures the translation backend.
	Provider ProviderConfig `yaml:"provider,omitempty"`
	// Retry configures retry behavior around the provider.
	Retry RetryConfig `yaml:"retry,omitempty"`
	// RateLimit configures request throttling around the provider.
	RateLimit RateLimitConfig `yaml:"rate_limit,omitempty"`
}

// ProviderConfig describes which translation backend to use.
type ProviderConfig struct {
	// Kind: "http", "openai", "mock".
	Kind string `yaml:"kind,omitempty"`
	// URL is the endpoint for the http provider.
	URL string `yaml:"url,omitempty"`
	// APIKey is the credential for http or openai providers. Falls back to
	// TRANSLATE_API_KEY or OPENAI_API_KEY environment variables.
	APIKey string `yaml:"api_key,omitempty"`
	// Model is the model name for the openai provider.
	Model string `yaml:"model,omitempty"`
}

// RetryConfig mirrors the retry wrapper settings.
type RetryConfig struct {
	Enabled      bool `yaml:"enabled,omitempty"`
	MaxAttempts  int  `yaml:"max_attempts,omitempty"`
	DelaySeconds int  `yaml:"delay_seconds,omitempty"`
}

// Delay returns the base retry delay as a duration.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// RateLimitConfig mirrors the rate limiter settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled,omitempty"`
	RequestsPerMinute int  `yaml:"requests_per_minute,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(".")
	return cfg
}

// Load reads the config file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.applyDefaults(filepath.Dir(path))
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	switch c.Provider.Kind {
	case "", ProviderHTTP, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("%s: unknown provider kind %q (valid: http, openai, mock)", path, c.Provider.Kind)
	}
	if c.Provider.Kind == ProviderHTTP && c.Provider.URL == "" {
		return fmt.Errorf("%s: http provider requires a url", path)
	}
	return nil
}

func (c *Config) applyDefaults(baseDir string) {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.StorePath == "" {
		c.StorePath = filepath.Join(baseDir, "translations.json")
	}
	if c.SourceLang == "" {
		c.SourceLang = "en"
	}
	if c.Provider.Kind == "" {
		c.Provider.Kind = ProviderMock
	}
	if c.Provider.APIKey == "" {
		c.Provider.APIKey = os.Getenv("TRANSLATE_API_KEY")
	}
	if c.Provider.APIKey == "" && c.Provider.Kind == ProviderOpenAI {
		c.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.DelaySeconds <= 0 {
		c.Retry.DelaySeconds = 1
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
}
