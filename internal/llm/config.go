package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Settings holds per-provider credentials and model selection.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config holds all LLM provider configuration.
type Config struct {
	Provider  string
	Providers map[string]Settings
	Retry     RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Selected returns the settings of the configured provider.
func (c Config) Selected() Settings {
	return c.Providers[c.Provider]
}

// envVars lists, per provider, the ETHIQ_* variables read by ConfigFromEnv
// and the vendor key variable checked by DiscoverConfig. Order is discovery
// priority.
var envVars = []struct {
	provider, prefix, vendorKey string
}{
	{ProviderGemini, "ETHIQ_GEMINI", "GEMINI_API_KEY"},
	{ProviderOpenAI, "ETHIQ_OPENAI", "OPENAI_API_KEY"},
	{ProviderAnthropic, "ETHIQ_ANTHROPIC", "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "ETHIQ_OPENROUTER", "OPENROUTER_API_KEY"},
}

// DefaultConfig returns a Config with default models and retry policy.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderAnthropic,
		Providers: map[string]Settings{
			ProviderAnthropic:  {Model: "claude-haiku"},
			ProviderOpenAI:     {Model: "gpt-4o-mini"},
			ProviderGemini:     {Model: "gemini-flash"},
			ProviderOpenRouter: {Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv reads ETHIQ_LLM_PROVIDER and ETHIQ_<PROVIDER>_{API_KEY,MODEL,BASE_URL}.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("ETHIQ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	for _, ev := range envVars {
		s := cfg.Providers[ev.provider]
		if v := os.Getenv(ev.prefix + "_API_KEY"); v != "" {
			s.APIKey = v
		}
		if v := os.Getenv(ev.prefix + "_MODEL"); v != "" {
			s.Model = v
		}
		if v := os.Getenv(ev.prefix + "_BASE_URL"); v != "" {
			s.BaseURL = v
		}
		cfg.Providers[ev.provider] = s
	}
	if v := os.Getenv("ETHIQ_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// DiscoverConfig picks the first provider whose vendor API key variable is
// set. It returns false when none is.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, ev := range envVars {
		if k := os.Getenv(ev.vendorKey); k != "" {
			s := cfg.Providers[ev.provider]
			s.APIKey = k
			cfg.Providers[ev.provider] = s
			cfg.Provider = ev.provider
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	for _, ev := range envVars {
		if ev.provider != c.Provider {
			continue
		}
		if c.Selected().APIKey == "" {
			return fmt.Errorf("%s_API_KEY is required for the %s provider", ev.prefix, c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
