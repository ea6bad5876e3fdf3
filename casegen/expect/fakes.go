package expect

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/casegen/casegen/domain"
)

var errNilAnnotation = errors.New("annotator returned no annotation")

// FakeAnnotator is a test double for Annotator.
// It delegates to a RuleAnnotator and can be told to fail.
type FakeAnnotator struct {
	mu sync.Mutex

	// FailTimes makes the first n attempts for a case ID fail.
	FailTimes map[string]int

	// FailAlways makes every attempt for these case IDs fail.
	FailAlways map[string]bool

	// Calls counts attempts per case ID.
	Calls map[string]int

	rule *RuleAnnotator
}

// NewFakeAnnotator creates a new FakeAnnotator.
func NewFakeAnnotator() *FakeAnnotator {
	return &FakeAnnotator{
		FailTimes:  make(map[string]int),
		FailAlways: make(map[string]bool),
		Calls:      make(map[string]int),
		rule:       NewRuleAnnotator(),
	}
}

// WithFailTimes makes the first n attempts for caseID fail.
func (f *FakeAnnotator) WithFailTimes(caseID string, n int) *FakeAnnotator {
	f.FailTimes[caseID] = n
	return f
}

// WithFailAlways makes every attempt for the given cases fail.
func (f *FakeAnnotator) WithFailAlways(caseIDs ...string) *FakeAnnotator {
	for _, id := range caseIDs {
		f.FailAlways[id] = true
	}
	return f
}

// Annotate implements Annotator.
func (f *FakeAnnotator) Annotate(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) (*domain.Annotation, error) {
	f.mu.Lock()
	f.Calls[tc.ID]++
	calls := f.Calls[tc.ID]
	failAlways := f.FailAlways[tc.ID]
	failTimes := f.FailTimes[tc.ID]
	f.mu.Unlock()

	if failAlways || calls <= failTimes {
		return nil, fmt.Errorf("fake failure for %s (attempt %d)", tc.ID, calls)
	}
	return f.rule.Annotate(ctx, tc, classes)
}

// CallCount returns the number of attempts made for a case.
func (f *FakeAnnotator) CallCount(caseID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[caseID]
}
