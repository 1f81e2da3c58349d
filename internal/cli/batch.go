package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/prodtext/refinery/internal/cache"
	"github.com/prodtext/refinery/internal/csvio"
	"github.com/prodtext/refinery/internal/llm"
	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
	"github.com/prodtext/refinery/internal/worker"
)

var (
	batchOutput       string
	concurrency       int
	batchTimeout      time.Duration
	requestsPerSecond float64
	burstSize         int
	noCache           bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <input.csv>",
	Short: "Refine products from a CSV file in parallel",
	Long: `Batch refines every product row of a CSV file concurrently:
- Read products from the input CSV (brand, product_type, attributes,
  current_description, current_bullets)
- Refine rows in parallel with a configurable worker count
- Rate-limit generation calls across all workers
- Write the original columns plus the refined content and violations

A failing row never aborts the batch; its error lands in the violations
column of the output file.

Example:
  refinery batch products.csv --output refined.csv
  refinery batch products.csv --concurrency 8 --rate 4 --provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOutput, "output", "refined.csv", "output CSV path")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&requestsPerSecond, "rate", 2.0, "generation calls per second across all workers")
	batchCmd.Flags().IntVar(&burstSize, "burst", 4, "rate limiter burst size")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the duplicate-row result cache")

	batchCmd.Flags().StringVar(&llmProvider, "provider", "openai", "generation provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "model", "", "model name (provider default if empty)")
	batchCmd.Flags().IntVar(&llmTimeout, "llm-timeout", 30, "per-attempt generation timeout in seconds")
	batchCmd.Flags().IntVar(&maxAttempts, "max-attempts", refine.DefaultMaxAttempts, "maximum generation attempts per product")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Concurrency.Workers = concurrency
	cfg.RateLimiting.RequestsPerSecond = requestsPerSecond
	cfg.RateLimiting.BurstSize = burstSize
	cfg.Cache.Enabled = !noCache
	if err := resolveLLMConfig(cfg, llmProvider, llmModel, llmTimeout); err != nil {
		return err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Input file:  %s\n", inputPath)
	fmt.Fprintf(os.Stderr, "Output file: %s\n", batchOutput)
	fmt.Fprintf(os.Stderr, "Workers:     %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "Provider:    %s\n", provider.Name())
	fmt.Fprintln(os.Stderr)

	table, err := csvio.Load(inputPath)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d products\n", len(table.Rows))

	refiner := refine.NewRefiner(provider,
		refine.WithMaxAttempts(maxAttempts),
		refine.WithTimeout(time.Duration(cfg.LLM.Timeout)*time.Second),
		refine.WithVerbose(verbose),
	)

	var results *cache.ResultCache
	if cfg.Cache.Enabled {
		results = cache.NewResultCache(cfg.Cache.TTL, 10*time.Minute)
	}
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	processor := worker.NewBatchProcessor(refiner, cfg.Concurrency.Workers, limiter, results)

	products := make([]*model.ProductFacts, len(table.Rows))
	for i, row := range table.Rows {
		products[i] = row.Facts
	}

	start := time.Now()
	outcomes := processor.Process(ctx, products)

	refined := make([]*refine.RefineResult, len(outcomes))
	rowErrs := make([]error, len(outcomes))
	clean := 0
	failed := 0
	for i, outcome := range outcomes {
		refined[i] = outcome.Result
		rowErrs[i] = outcome.Err
		switch {
		case outcome.Err != nil:
			failed++
		case len(outcome.Result.Violations) == 0:
			clean++
		}
	}

	if err := csvio.Save(batchOutput, table, refined, rowErrs); err != nil {
		return fmt.Errorf("save output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nProcessed %d products in %v\n", len(outcomes), time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  fully compliant: %d\n", clean)
	fmt.Fprintf(os.Stderr, "  with violations: %d\n", len(outcomes)-clean-failed)
	fmt.Fprintf(os.Stderr, "  failed rows:     %d\n", failed)
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", batchOutput)

	return nil
}
