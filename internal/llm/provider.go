// Package llm wraps the generative backends behind a narrow text-in/JSON-out
// contract. Providers turn product facts (plus optional prior-violation
// feedback) into a raw candidate content bundle; everything downstream treats
// that output as advisory raw material only.
package llm

import (
	"context"

	"github.com/prodtext/refinery/internal/model"
)

// Provider defines the interface for generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// GenerateListing produces one candidate content bundle for the product
	GenerateListing(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation attempt
type GenerateRequest struct {
	// Facts are the immutable product inputs
	Facts model.ProductFacts

	// PriorViolations are the violation messages from the previous attempt
	// (empty on the first attempt). Providers may use them to bias output;
	// they are not required to fix anything.
	PriorViolations []string

	// Attempt is the 1-based attempt counter; retries run hotter
	Attempt int

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains a parsed candidate bundle
type GenerateResponse struct {
	// Candidate is the parsed raw candidate; fields missing from the model
	// output are present but empty
	Candidate *model.ContentBundle

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds generation provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama or a mock server)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   30,
		MaxTokens: 1200,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}
