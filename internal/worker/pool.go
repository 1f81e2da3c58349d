// Package worker runs batches of product refinements concurrently. Each
// product is an independent unit of work; the pool imposes no ordering
// between products and shares nothing across them beyond the generation
// endpoint limiter.
package worker

import (
	"context"
	"sync"

	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

// Job is one product's refinement work within a batch.
type Job struct {
	// Index is the product's position in the batch input, used to reorder
	// results after concurrent execution.
	Index int
	Facts *model.ProductFacts
}

// Outcome pairs a job index with its refinement result. Err is set only for
// jobs that never produced a result (e.g. invalid facts); refinement itself
// contains its failures and always yields a bundle.
type Outcome struct {
	Index  int
	Result *refine.RefineResult
	Err    error
}

// Runner executes one job. The batch processor is the production
// implementation; tests substitute their own.
type Runner interface {
	Run(ctx context.Context, job Job) Outcome
}

// Pool manages a fixed set of workers draining a job queue. The queue and
// result channels are bounded, so a producer must submit jobs concurrently
// with a consumer draining Wait; submitting an unbounded batch before anyone
// reads results would fill the pipeline and block.
type Pool struct {
	workers    int
	runner     Runner
	jobQueue   chan Job
	results    chan Outcome
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a worker pool with the specified number of workers. The
// pool stops accepting and running work when ctx is cancelled.
func NewPool(ctx context.Context, workers int, runner Runner) *Pool {
	if workers <= 0 {
		workers = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		runner:     runner,
		jobQueue:   make(chan Job, workers*2), // Buffered to prevent blocking
		results:    make(chan Outcome, workers*2),
		ctx:        poolCtx,
		cancelFunc: cancel,
	}
}

// Start starts the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			outcome := p.runner.Run(p.ctx, job)
			select {
			case p.results <- outcome:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job for execution. Jobs submitted after cancellation are
// dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Close marks the job queue complete. No Submit may follow.
func (p *Pool) Close() {
	close(p.jobQueue)
}

// Wait drains outcomes until every worker has finished and returns them in
// completion order. Run the submit-then-Close sequence in its own goroutine
// so Wait drains results while jobs are still being queued.
func (p *Pool) Wait() []Outcome {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var outcomes []Outcome
	for outcome := range p.results {
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// Shutdown stops the pool immediately.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
