package cli

import (
	"fmt"
	"os"

	"github.com/prodtext/refinery/internal/model"
)

// resolveLLMConfig fills in the provider API key and base URL from the
// environment for the configured provider. Shared by the refine, batch, and
// serve commands.
func resolveLLMConfig(cfg *model.Config, provider, modelName string, timeoutSec int) error {
	cfg.LLM.Provider = provider
	cfg.LLM.Model = modelName
	if timeoutSec > 0 {
		cfg.LLM.Timeout = timeoutSec
	}

	switch provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unknown provider: %s (supported: openai, anthropic, ollama)", provider)
	}

	return nil
}
