package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prodtext/refinery/internal/llm"
	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

var (
	refineBrand       string
	refineType        string
	refineAttributes  string
	refineDescription string
	refineBullets     string
	llmProvider       string
	llmModel          string
	llmTimeout        int
	maxAttempts       int
)

// refineCmd represents the refine command
var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a single product's listing content",
	Long: `Refine generates compliant listing content for one product and prints
the result as JSON. Residual violations, if any, are listed alongside the
content rather than failing the command.

Example:
  refinery refine --brand Acme --type Widget --attributes '{"Color":"Blue"}'
  refinery refine --brand Acme --type Widget --provider ollama --model llama3.2`,
	RunE: runRefine,
}

func init() {
	rootCmd.AddCommand(refineCmd)

	refineCmd.Flags().StringVar(&refineBrand, "brand", "", "product brand (required)")
	refineCmd.Flags().StringVar(&refineType, "type", "", "product type (required)")
	refineCmd.Flags().StringVar(&refineAttributes, "attributes", "", "product attributes as a JSON object")
	refineCmd.Flags().StringVar(&refineDescription, "description", "", "current product description")
	refineCmd.Flags().StringVar(&refineBullets, "bullets", "", "current bullets (newline/semicolon/pipe-delimited)")
	_ = refineCmd.MarkFlagRequired("brand")
	_ = refineCmd.MarkFlagRequired("type")

	refineCmd.Flags().StringVar(&llmProvider, "provider", "openai", "generation provider (openai, anthropic, ollama)")
	refineCmd.Flags().StringVar(&llmModel, "model", "", "model name (provider default if empty)")
	refineCmd.Flags().IntVar(&llmTimeout, "timeout", 30, "per-attempt generation timeout in seconds")
	refineCmd.Flags().IntVar(&maxAttempts, "max-attempts", refine.DefaultMaxAttempts, "maximum generation attempts")
}

func runRefine(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	if err := resolveLLMConfig(cfg, llmProvider, llmModel, llmTimeout); err != nil {
		return err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	facts := &model.ProductFacts{
		Brand:              refineBrand,
		ProductType:        refineType,
		Attributes:         model.ParseAttributes(refineAttributes),
		CurrentDescription: refineDescription,
		CurrentBullets:     model.ParseBullets(refineBullets),
	}
	if err := facts.Validate(); err != nil {
		return err
	}

	refiner := refine.NewRefiner(provider,
		refine.WithMaxAttempts(maxAttempts),
		refine.WithTimeout(time.Duration(cfg.LLM.Timeout)*time.Second),
		refine.WithVerbose(verbose),
	)

	result := refiner.Refine(context.Background(), facts)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if len(result.Violations) > 0 {
		fmt.Fprintf(os.Stderr, "⚠ %d residual violation(s) after %d attempt(s)\n", len(result.Violations), result.Attempts)
	} else if verbose {
		fmt.Fprintf(os.Stderr, "✓ Fully compliant after %d attempt(s)\n", result.Attempts)
	}

	return nil
}
