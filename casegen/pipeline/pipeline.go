// Package pipeline wires the generation steps together: source classes go
// through the generator (or are taken verbatim from tabular records), the
// coverage matrix is derived from the emitted cases, and each case is
// optionally annotated.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/example/casegen/casegen/coverage"
	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/casegen/expect"
	"github.com/example/casegen/casegen/generator"
	"github.com/example/casegen/casegen/source"
)

// Options configures a Pipeline.
type Options struct {
	// Config caps and seeds structured generation.
	Config domain.GenerationConfig

	// Annotator is run over every case when set.
	Annotator expect.Annotator

	// Annotation controls concurrency and retries of the annotator.
	Annotation expect.RunnerConfig

	// Logger receives progress and per-case failures.
	Logger *slog.Logger

	// IDGenerator names the suite. Required.
	IDGenerator func() string
}

// Result is everything produced by one run.
type Result struct {
	Source      *source.Result
	Suite       *domain.TestSuite
	Coverage    *domain.CoverageMatrix
	Annotations []domain.Annotation

	// Warnings lists values declared under more than one state of the same
	// variable. They are reported, not resolved.
	Warnings []domain.StateCollision
}

// Classes returns the classes the run was built from.
func (r *Result) Classes() []domain.EquivalenceClass {
	return r.Source.Classes
}

// Pipeline runs generation end to end.
type Pipeline struct {
	builder generator.Builder
	opts    Options
	logger  *slog.Logger
}

// New creates a new Pipeline.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		builder: generator.NewBuilder(opts.IDGenerator),
		opts:    opts,
		logger:  logger,
	}
}

// Run processes a loaded source.
func (p *Pipeline) Run(ctx context.Context, src *source.Result) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("pipeline: nil source")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Source: src}
	// Derived tabular classes share values across states on ordinary input,
	// so only declared classes are checked.
	if src.Mode == domain.ModeStructured {
		res.Warnings = domain.NewRepresentativeSet(src.Classes).Collisions()
	}
	for _, w := range res.Warnings {
		p.logger.Warn("value declared under several states",
			"variable", w.Variable, "value", string(w.Value), "states", w.States)
	}

	suite, err := p.buildSuite(src)
	if err != nil {
		return nil, err
	}
	res.Suite = suite
	p.logger.Info("test cases ready",
		"suite", suite.ID,
		"mode", suite.Mode,
		"cases", suite.NumCases(),
		"product", suite.ProductSize,
		"sampled", suite.Sampled,
		"seed", suite.Seed)

	matrix, err := coverage.Build(src.Classes, suite.Cases)
	if err != nil {
		return nil, fmt.Errorf("failed to build coverage matrix: %w", err)
	}
	res.Coverage = matrix
	if uncovered := matrix.Uncovered(); len(uncovered) > 0 {
		p.logger.Info("classes without covering case", "count", len(uncovered))
	}

	if p.opts.Annotator != nil {
		runner := expect.NewRunner(p.opts.Annotator, p.opts.Annotation).WithLogger(p.logger)
		anns, err := runner.Run(ctx, suite.Cases, src.Classes)
		if err != nil {
			return nil, fmt.Errorf("annotation interrupted: %w", err)
		}
		res.Annotations = anns
	}

	return res, nil
}

// buildSuite generates cases for structured sources and adopts the records
// of tabular ones. Tabular suites are never capped.
func (p *Pipeline) buildSuite(src *source.Result) (*domain.TestSuite, error) {
	if src.Mode != domain.ModeTabular {
		suite, err := p.builder.Build(src.Classes, p.opts.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to generate test cases: %w", err)
		}
		return suite, nil
	}

	config := p.opts.Config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &domain.TestSuite{
		ID:          p.opts.IDGenerator(),
		Mode:        domain.ModeTabular,
		Variables:   append([]string(nil), src.Variables...),
		Cases:       src.Cases,
		ProductSize: len(src.Cases),
		Config:      config,
	}, nil
}

// NewRun captures a result as a persistable run.
func NewRun(res *Result, sourceName string) *domain.Run {
	return &domain.Run{
		ID:          res.Suite.ID,
		Source:      sourceName,
		Mode:        res.Suite.Mode,
		Config:      res.Suite.Config,
		Seed:        res.Suite.Seed,
		ProductSize: res.Suite.ProductSize,
		Sampled:     res.Suite.Sampled,
		Variables:   res.Suite.Variables,
		Classes:     res.Source.Classes,
		Cases:       res.Suite.Cases,
		Annotations: res.Annotations,
	}
}
