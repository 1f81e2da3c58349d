package worker

import (
	"context"
	"fmt"

	"github.com/prodtext/refinery/internal/cache"
	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

// ProductRefiner refines one product's content.
type ProductRefiner interface {
	Refine(ctx context.Context, facts *model.ProductFacts) *refine.RefineResult
}

// BatchProcessor refines many products concurrently. A per-batch result
// cache short-circuits duplicate rows; the limiter spaces out generation
// calls across workers.
type BatchProcessor struct {
	refiner     ProductRefiner
	concurrency int
	limiter     *Limiter
	results     *cache.ResultCache
}

// NewBatchProcessor creates a batch processor. cacheResults may be nil to
// disable caching.
func NewBatchProcessor(refiner ProductRefiner, concurrency int, limiter *Limiter, cacheResults *cache.ResultCache) *BatchProcessor {
	return &BatchProcessor{
		refiner:     refiner,
		concurrency: concurrency,
		limiter:     limiter,
		results:     cacheResults,
	}
}

// Process refines all products and returns exactly one outcome per product,
// in input order. A malformed row yields an outcome with Err set; it never
// aborts the batch. Jobs the pool never reported (the context expired
// mid-batch) come back as error outcomes too, so completed rows survive an
// interrupted run. Jobs are submitted from a separate goroutine while the
// pool's results are drained here, since the pool pipeline is bounded.
func (b *BatchProcessor) Process(ctx context.Context, products []*model.ProductFacts) []Outcome {
	if len(products) == 0 {
		return []Outcome{}
	}

	pool := NewPool(ctx, b.concurrency, b)
	pool.Start()

	go func() {
		for i, facts := range products {
			pool.Submit(Job{Index: i, Facts: facts})
		}
		pool.Close()
	}()

	outcomes := pool.Wait()

	full := make([]Outcome, len(products))
	seen := make([]bool, len(products))
	for _, outcome := range outcomes {
		if outcome.Index < 0 || outcome.Index >= len(products) {
			continue
		}
		full[outcome.Index] = outcome
		seen[outcome.Index] = true
	}
	for i := range full {
		if seen[i] {
			continue
		}
		err := ctx.Err()
		if err != nil {
			full[i] = Outcome{Index: i, Err: fmt.Errorf("batch interrupted: %w", err)}
		} else {
			full[i] = Outcome{Index: i, Err: fmt.Errorf("row was not processed")}
		}
	}
	return full
}

// Run executes one job: validate facts, consult the cache, then refine.
func (b *BatchProcessor) Run(ctx context.Context, job Job) Outcome {
	if job.Facts == nil {
		return Outcome{Index: job.Index, Err: fmt.Errorf("missing product facts")}
	}
	if err := job.Facts.Validate(); err != nil {
		return Outcome{Index: job.Index, Err: fmt.Errorf("invalid product facts: %w", err)}
	}

	fingerprint := job.Facts.Fingerprint()
	if b.results != nil {
		if cached, found := b.results.Get(fingerprint); found {
			return Outcome{Index: job.Index, Result: cached}
		}
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return Outcome{Index: job.Index, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	result := b.refiner.Refine(ctx, job.Facts)
	if b.results != nil {
		b.results.Set(fingerprint, result)
	}
	return Outcome{Index: job.Index, Result: result}
}
