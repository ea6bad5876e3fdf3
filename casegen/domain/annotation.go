package domain

// Verdict is the expected outcome of executing a test case.
type Verdict string

const (
	VerdictUnknown Verdict = "unknown"
	VerdictAccept  Verdict = "accept" // every value belongs to a Valid class
	VerdictReject  Verdict = "reject" // at least one value belongs to an Invalid class
)

// Annotation carries the per-case output of the annotation step.
// A failed annotation keeps its error text; it never removes the case.
type Annotation struct {
	// CaseID is the annotated test case.
	CaseID string `json:"case_id"`

	// Verdict is the expected outcome.
	Verdict Verdict `json:"verdict"`

	// InvalidClasses are the labels of Invalid classes the case exercises.
	InvalidClasses []string `json:"invalid_classes,omitempty"`

	// Description is free text produced by the annotator.
	Description string `json:"description,omitempty"`

	// Attempts is how many times the annotator was called for this case.
	Attempts int `json:"attempts"`

	// Error is set when every attempt failed.
	Error string `json:"error,omitempty"`
}

// Failed returns true if the annotation could not be produced.
func (a Annotation) Failed() bool {
	return a.Error != ""
}
