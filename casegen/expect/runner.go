package expect

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/casegen/casegen/domain"
)

// RunnerConfig controls how annotations are scheduled.
type RunnerConfig struct {
	// Concurrency is the number of cases annotated at once.
	// Default: 4
	Concurrency int

	// Retries is the number of extra attempts after a failed one.
	// Default: 2
	Retries int

	// Backoff is the wait before the first retry; it doubles each retry.
	// Default: 200ms
	Backoff time.Duration
}

// DefaultRunnerConfig returns the default configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Concurrency: 4,
		Retries:     2,
		Backoff:     200 * time.Millisecond,
	}
}

// WithDefaults returns a new config with defaults applied for zero values.
// A negative Retries disables retrying.
func (c RunnerConfig) WithDefaults() RunnerConfig {
	defaults := DefaultRunnerConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.Retries == 0 {
		c.Retries = defaults.Retries
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Backoff == 0 {
		c.Backoff = defaults.Backoff
	}
	return c
}

// Runner annotates every case of a suite through an Annotator.
type Runner struct {
	annotator Annotator
	config    RunnerConfig
	logger    *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(annotator Annotator, config RunnerConfig) *Runner {
	return &Runner{
		annotator: annotator,
		config:    config.WithDefaults(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for per-case failures.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Run annotates cases and returns one annotation per case, in case order.
// Cases whose every attempt failed get an annotation with Error set and
// VerdictUnknown. The returned error is non-nil only when ctx is done.
func (r *Runner) Run(ctx context.Context, cases []domain.TestCase, classes []domain.EquivalenceClass) ([]domain.Annotation, error) {
	results := make([]domain.Annotation, len(cases))

	var g errgroup.Group
	g.SetLimit(r.config.Concurrency)

	for i := range cases {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Only cancellation fails the group; annotation errors stay on the item.
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.annotateOne(ctx, cases[i], classes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// annotateOne retries a single case with exponential backoff.
func (r *Runner) annotateOne(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) domain.Annotation {
	backoff := r.config.Backoff
	var lastErr error

	for attempt := 1; attempt <= r.config.Retries+1; attempt++ {
		ann, err := r.annotator.Annotate(ctx, tc, classes)
		if err == nil && ann != nil {
			out := *ann
			out.CaseID = tc.ID
			out.Attempts = attempt
			out.Error = ""
			return out
		}
		if err == nil {
			err = errNilAnnotation
		}
		lastErr = err
		r.logger.Warn("annotation attempt failed",
			"case", tc.ID, "attempt", attempt, "error", err)

		if attempt > r.config.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return domain.Annotation{
				CaseID:   tc.ID,
				Verdict:  domain.VerdictUnknown,
				Attempts: attempt,
				Error:    ctx.Err().Error(),
			}
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return domain.Annotation{
		CaseID:   tc.ID,
		Verdict:  domain.VerdictUnknown,
		Attempts: r.config.Retries + 1,
		Error:    lastErr.Error(),
	}
}
