package config

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultModel        = "claude-sonnet-4-5"
	defaultModelTimeout = 30 * time.Second
	defaultQueryTimeout = 15 * time.Second
)

// Config holds all configuration for the bot process.
type Config struct {
	// Transport
	BotToken string

	// Database
	DatabaseURL string

	// Model service
	AnthropicAPIKey string
	Model           string
	RulePromptFile  string

	// Server
	MetricsAddr string

	// Feature flags
	Verbose     bool
	EnablePprof bool

	// Bounded waits on the external calls
	ModelTimeout time.Duration
	QueryTimeout time.Duration
}

// LoadFromEnv loads configuration from environment variables and flags.
// A missing bot token is a fatal startup condition.
func LoadFromEnv(metricsAddrFlag string, verbose, enablePprof bool) (*Config, error) {
	cfg := &Config{
		MetricsAddr: metricsAddrFlag,
		Verbose:     verbose,
		EnablePprof: enablePprof,
	}

	cfg.BotToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	cfg.DatabaseURL = os.Getenv("DB_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	cfg.Model = getenv("MODEL_NAME", defaultModel)
	cfg.RulePromptFile = os.Getenv("RULE_PROMPT_FILE")

	var err error
	cfg.ModelTimeout, err = getenvDuration("MODEL_TIMEOUT", defaultModelTimeout)
	if err != nil {
		return nil, err
	}
	cfg.QueryTimeout, err = getenvDuration("QUERY_TIMEOUT", defaultQueryTimeout)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return d, nil
}
