// Package refine drives the validate-generate-repair loop: it turns
// unreliable free-form model output into a rule-compliant content bundle,
// keeping the best candidate seen when perfection is unreachable.
package refine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prodtext/refinery/internal/llm"
	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/repair"
	"github.com/prodtext/refinery/internal/rules"
)

// DefaultMaxAttempts bounds the generation loop.
const DefaultMaxAttempts = 3

// RefineResult is the outcome of one product refinement. It is always a
// usable bundle: total generation failure surfaces as the deterministic
// fallback bundle with a single explanatory violation, never as an error.
type RefineResult struct {
	Bundle     *model.ContentBundle `json:"bundle"`
	Violations []model.Violation    `json:"violations"`
	Attempts   int                  `json:"attempts"`
	Fallback   bool                 `json:"fallback"`
}

// attemptRecord holds one loop iteration's outcome while the loop decides
// whether it beats the running best.
type attemptRecord struct {
	bundle     *model.ContentBundle
	violations []model.Violation
	index      int
}

// Refiner orchestrates generate -> validate -> repair -> record cycles for
// single products. It is safe for concurrent use across products: all
// per-product state lives in the Refine call.
type Refiner struct {
	provider    llm.Provider
	validator   *rules.Validator
	engine      *repair.Engine
	maxAttempts int
	timeout     time.Duration
	verbose     bool
}

// Option configures a Refiner.
type Option func(*Refiner)

// WithMaxAttempts overrides the attempt bound.
func WithMaxAttempts(n int) Option {
	return func(r *Refiner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithTimeout sets the per-attempt generation timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Refiner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithVerbose enables progress logging to stderr.
func WithVerbose(verbose bool) Option {
	return func(r *Refiner) {
		r.verbose = verbose
	}
}

// NewRefiner creates a refiner around the given generation provider. The
// provider is injected once and reused across products.
func NewRefiner(provider llm.Provider, opts ...Option) *Refiner {
	r := &Refiner{
		provider:    provider,
		validator:   rules.NewValidator(),
		engine:      repair.NewEngine(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refine runs the refinement loop for one product:
//
//  1. GENERATE: call the provider with the facts and the previous attempt's
//     violations (empty on attempt 1). Failures become failed attempts.
//  2. VALIDATE: run the rule validator on the raw candidate.
//  3. REPAIR: if violations remain, apply the deterministic fix battery once
//     and re-validate; the repaired bundle is the attempt's result.
//  4. RECORD: keep the attempt with strictly fewer violations than the best
//     so far; ties keep the earlier attempt.
//
// The loop stops early on a fully compliant attempt and never runs more than
// the configured maximum. If no attempt yields a usable candidate, the
// deterministic fallback bundle is returned.
func (r *Refiner) Refine(ctx context.Context, facts *model.ProductFacts) *RefineResult {
	keywords := facts.Attributes.FlattenValues()

	var best *attemptRecord
	var priorViolations []string
	attempts := 0

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		attempts = attempt

		candidate, err := r.generate(ctx, facts, priorViolations, attempt)
		if err != nil {
			r.logf("attempt %d/%d for %s failed: %v\n", attempt, r.maxAttempts, facts.Brand, err)
			continue
		}

		violations := r.validator.Validate(candidate, keywords, facts.Brand)

		if len(violations) > 0 {
			r.engine.Repair(candidate, violations, facts)
			violations = r.validator.Validate(candidate, keywords, facts.Brand)
		}

		r.logf("attempt %d/%d for %s: %d violations\n", attempt, r.maxAttempts, facts.Brand, len(violations))

		if best == nil || len(violations) < len(best.violations) {
			best = &attemptRecord{bundle: candidate, violations: violations, index: attempt}
		}

		priorViolations = model.ViolationMessages(violations)

		if len(violations) == 0 {
			break
		}
	}

	if best == nil {
		return &RefineResult{
			Bundle:     FallbackBundle(facts),
			Violations: []model.Violation{failedViolation(attempts)},
			Attempts:   attempts,
			Fallback:   true,
		}
	}

	return &RefineResult{
		Bundle:     best.bundle,
		Violations: best.violations,
		Attempts:   attempts,
	}
}

// generate wraps one provider call with the per-attempt timeout. Timeouts and
// provider errors are equivalent: the attempt produced nothing.
func (r *Refiner) generate(ctx context.Context, facts *model.ProductFacts, priorViolations []string, attempt int) (*model.ContentBundle, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.provider.GenerateListing(ctx, llm.GenerateRequest{
		Facts:           *facts,
		PriorViolations: priorViolations,
		Attempt:         attempt,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Candidate == nil {
		return nil, fmt.Errorf("provider returned no candidate")
	}
	return resp.Candidate, nil
}

func (r *Refiner) logf(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// FallbackBundle builds a deterministic bundle purely from facts, used when
// every generation attempt failed.
func FallbackBundle(facts *model.ProductFacts) *model.ContentBundle {
	name := strings.TrimSpace(facts.Brand + " " + facts.ProductType)

	bullets := make([]string, rules.BulletCount)
	for i := range bullets {
		bullets[i] = model.WrapBullet("Product feature")
	}

	return &model.ContentBundle{
		Title:           name,
		Bullets:         bullets,
		Description:     name + " - Product description.",
		MetaTitle:       name,
		MetaDescription: name + " - Product description.",
	}
}

func failedViolation(attempts int) model.Violation {
	return model.Violation{
		Kind:    model.ViolationGenerationFailed,
		Message: fmt.Sprintf("generation failed after %d attempts", attempts),
	}
}
