package worker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

// countingRunner records how many jobs it ran and echoes the job index back.
type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) Run(ctx context.Context, job Job) Outcome {
	r.calls.Add(1)
	return Outcome{
		Index:  job.Index,
		Result: &refine.RefineResult{Bundle: &model.ContentBundle{Title: job.Facts.Brand}},
	}
}

func TestPoolRunsAllJobs(t *testing.T) {
	runner := &countingRunner{}
	pool := NewPool(context.Background(), 4, runner)
	pool.Start()

	// Far more jobs than the bounded pipeline (queue + workers + results)
	// can hold, so draining must overlap with submission.
	const jobs = 100
	go func() {
		for i := 0; i < jobs; i++ {
			pool.Submit(Job{Index: i, Facts: &model.ProductFacts{Brand: "Acme", ProductType: "Widget"}})
		}
		pool.Close()
	}()

	outcomes := pool.Wait()
	if len(outcomes) != jobs {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), jobs)
	}
	if got := runner.calls.Load(); got != jobs {
		t.Errorf("runner ran %d jobs, want %d", got, jobs)
	}

	seen := make(map[int]bool)
	for _, o := range outcomes {
		if seen[o.Index] {
			t.Errorf("index %d reported twice", o.Index)
		}
		seen[o.Index] = true
	}
}

func TestPoolClampsWorkerCount(t *testing.T) {
	runner := &countingRunner{}
	pool := NewPool(context.Background(), 0, runner)
	pool.Start()

	pool.Submit(Job{Index: 0, Facts: &model.ProductFacts{Brand: "Acme", ProductType: "Widget"}})
	pool.Close()
	outcomes := pool.Wait()

	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
}

func TestPoolShutdown(t *testing.T) {
	runner := &countingRunner{}
	pool := NewPool(context.Background(), 2, runner)
	pool.Start()

	// Shutdown before submitting: workers exit, later submits are dropped.
	pool.Shutdown()
	pool.Submit(Job{Index: 0, Facts: &model.ProductFacts{Brand: "Acme", ProductType: "Widget"}})

	if got := runner.calls.Load(); got != 0 {
		t.Errorf("runner ran %d jobs after shutdown, want 0", got)
	}
}

func TestPoolHonorsParentContext(t *testing.T) {
	runner := &countingRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 2, runner)
	pool.Start()

	// Cancelling the parent releases the workers, so Wait returns even
	// though Close was never called.
	cancel()
	outcomes := pool.Wait()

	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes without submissions, want 0", len(outcomes))
	}
}

func TestLimiterAllow(t *testing.T) {
	limiter := NewLimiter(1, 2)

	if !limiter.Allow() || !limiter.Allow() {
		t.Fatal("burst of 2 should allow two immediate calls")
	}
	if limiter.Allow() {
		t.Error("third immediate call should be throttled")
	}
}

func TestLimiterClampsInvalidConfig(t *testing.T) {
	limiter := NewLimiter(0, 0)
	if !limiter.Allow() {
		t.Error("clamped limiter should allow at least one call")
	}
}

func TestLimiterWaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	limiter.Allow() // drain the burst

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}
