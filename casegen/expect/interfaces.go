// Package expect annotates generated test cases with their expected outcome.
//
// Annotation is a per-case step composed around the core: every case is
// annotated independently, may be retried, and a failure on one case never
// affects another case or the coverage matrix.
package expect

import (
	"context"

	"github.com/example/casegen/casegen/domain"
)

// Annotator produces the annotation of a single test case.
// Implementations backed by external services must be safe for concurrent
// use; the runner calls Annotate from several goroutines.
type Annotator interface {
	Annotate(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) (*domain.Annotation, error)
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) (*domain.Annotation, error)

// Annotate implements Annotator.
func (f AnnotatorFunc) Annotate(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) (*domain.Annotation, error) {
	return f(ctx, tc, classes)
}
