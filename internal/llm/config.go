package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Supported provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ErrNoProvider is returned by DiscoverConfig when no API key is found.
var ErrNoProvider = errors.New("no LLM provider configured")

// Config selects one provider and how to talk to it.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the endpoint for OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds a single Generate call, retries included.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry is used when a Config carries a zero RetryConfig.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// DefaultModel returns the friendly model name used for a provider when
// none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "claude-haiku"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-flash"
	case ProviderOpenRouter:
		return "google/gemini-2.0-flash-001"
	default:
		return ""
	}
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel(c.Provider)
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry = DefaultRetry()
	}
	if c.Timeout <= 0 {
		c.Timeout = 45 * time.Second
	}
	return c
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
		return nil
	case "":
		return ErrNoProvider
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

// discoveryOrder lists the conventional key variables probed by
// DiscoverConfig, in priority order.
var discoveryOrder = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig picks the first provider whose conventional API key
// variable is set. It returns ErrNoProvider when none is.
func DiscoverConfig() (Config, error) {
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			return Config{Provider: d.provider, APIKey: k}.WithDefaults(), nil
		}
	}
	return Config{}, ErrNoProvider
}
