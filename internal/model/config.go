package model

import "time"

// Config is the full application configuration tree.
type Config struct {
	LLM          LLMConfig          `yaml:"llm" json:"llm"`
	Refine       RefineConfig       `yaml:"refine" json:"refine"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" json:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" json:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" json:"cache"`
	Output       OutputConfig       `yaml:"output" json:"output"`
}

// LLMConfig configures the generation adapter.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai", "anthropic", "ollama"
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key" json:"-"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds, per generation call
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// RefineConfig bounds the refinement loop.
type RefineConfig struct {
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
}

// ConcurrencyConfig controls batch-level parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimitingConfig throttles calls against the generation endpoint.
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// CacheConfig controls the in-process refinement result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults for all settings.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "",
			Timeout:   30,
			MaxTokens: 1200,
		},
		Refine: RefineConfig{
			MaxAttempts: 3,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     1 * time.Hour,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
