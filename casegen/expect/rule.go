package expect

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/casegen/casegen/domain"
)

// RuleAnnotator derives the verdict from class membership alone:
// a case is rejected when any of its values belongs to an Invalid class,
// accepted when every value belongs to a Valid class, and unknown otherwise.
type RuleAnnotator struct{}

// NewRuleAnnotator creates a new RuleAnnotator.
func NewRuleAnnotator() *RuleAnnotator {
	return &RuleAnnotator{}
}

// Annotate implements Annotator.
func (r *RuleAnnotator) Annotate(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) (*domain.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	validVars := make(map[string]bool)
	var invalid []string
	for _, c := range classes {
		v, ok := tc.Value(c.Variable)
		if !ok {
			return nil, &domain.VariableLookupMissError{CaseID: tc.ID, Variable: c.Variable}
		}
		if !c.Contains(v) {
			continue
		}
		switch {
		case c.State.IsInvalid():
			invalid = append(invalid, c.Label)
		case c.State.IsValid():
			validVars[c.Variable] = true
		}
	}

	ann := &domain.Annotation{CaseID: tc.ID, InvalidClasses: invalid}
	var unclassified []string
	for _, a := range tc.Values {
		if !validVars[a.Variable] {
			unclassified = append(unclassified, a.Variable)
		}
	}

	switch {
	case len(invalid) > 0:
		ann.Verdict = domain.VerdictReject
		ann.Description = fmt.Sprintf("expected rejection: exercises %s", strings.Join(invalid, ", "))
	case len(unclassified) == 0:
		ann.Verdict = domain.VerdictAccept
		ann.Description = "expected acceptance: every value is in a valid class"
	default:
		ann.Verdict = domain.VerdictUnknown
		ann.Description = fmt.Sprintf("no valid class covers %s", strings.Join(unclassified, ", "))
	}
	return ann, nil
}
