package domain

import "time"

// Run is the persisted record of one generation run. It holds enough to
// rebuild both output tables without the original source file.
type Run struct {
	ID          string
	Source      string
	Mode        SourceMode
	CreatedAt   time.Time
	Config      GenerationConfig
	Seed        int64
	ProductSize int
	Sampled     bool
	Variables   []string
	Classes     []EquivalenceClass
	Cases       []TestCase
	Annotations []Annotation
}

// Suite rebuilds the test suite recorded by the run.
func (r *Run) Suite() *TestSuite {
	return &TestSuite{
		ID:          r.ID,
		Mode:        r.Mode,
		Variables:   r.Variables,
		Cases:       r.Cases,
		ProductSize: r.ProductSize,
		Sampled:     r.Sampled,
		Seed:        r.Seed,
		Config:      r.Config,
	}
}
