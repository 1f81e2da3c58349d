package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prodtext/refinery/internal/api"
	"github.com/prodtext/refinery/internal/llm"
	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the single-item refinement API over HTTP",
	Long: `Serve exposes refinement as an HTTP API:
  POST /refine   product facts JSON in, refined content + violations out
  GET  /healthz  liveness check

Example:
  refinery serve --addr :8080 --provider openai`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&llmProvider, "provider", "openai", "generation provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "model", "", "model name (provider default if empty)")
	serveCmd.Flags().IntVar(&llmTimeout, "timeout", 30, "per-attempt generation timeout in seconds")
	serveCmd.Flags().IntVar(&maxAttempts, "max-attempts", refine.DefaultMaxAttempts, "maximum generation attempts")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	if err := resolveLLMConfig(cfg, llmProvider, llmModel, llmTimeout); err != nil {
		return err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	refiner := refine.NewRefiner(provider,
		refine.WithMaxAttempts(maxAttempts),
		refine.WithTimeout(time.Duration(cfg.LLM.Timeout)*time.Second),
		refine.WithVerbose(verbose),
	)

	server, err := api.New(refiner)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Listening on %s (provider: %s)\n", serveAddr, provider.Name())
	return server.ListenAndServe(serveAddr)
}
