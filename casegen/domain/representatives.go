package domain

// Representative is one (value, state) pair contributed by a class.
type Representative struct {
	Value Value
	State State
}

// Combination holds one representative per variable, aligned with the
// variable order of the RepresentativeSet it was drawn from.
type Combination []Representative

// RepresentativeSet aggregates the representatives of all classes by
// variable. Variables keep the order of their first appearance and each
// variable keeps the order in which representatives were contributed.
type RepresentativeSet struct {
	variables []string
	index     map[string]int
	reps      [][]Representative
}

// NewRepresentativeSet builds the aggregated set from classes in input order.
// Duplicate values are kept as distinct positions.
func NewRepresentativeSet(classes []EquivalenceClass) *RepresentativeSet {
	s := &RepresentativeSet{index: make(map[string]int)}
	for _, c := range classes {
		idx, ok := s.index[c.Variable]
		if !ok {
			idx = len(s.variables)
			s.index[c.Variable] = idx
			s.variables = append(s.variables, c.Variable)
			s.reps = append(s.reps, nil)
		}
		for _, v := range c.Representatives {
			s.reps[idx] = append(s.reps[idx], Representative{Value: v, State: c.State})
		}
	}
	return s
}

// Len returns the number of distinct variables.
func (s *RepresentativeSet) Len() int {
	return len(s.variables)
}

// Variables returns the canonical variable order.
func (s *RepresentativeSet) Variables() []string {
	return append([]string(nil), s.variables...)
}

// Representatives returns the aggregated list for a variable.
func (s *RepresentativeSet) Representatives(variable string) []Representative {
	idx, ok := s.index[variable]
	if !ok {
		return nil
	}
	return s.reps[idx]
}

// At returns the representative list of the variable at position i.
func (s *RepresentativeSet) At(i int) []Representative {
	return s.reps[i]
}

// Radices returns the per-variable representative counts in variable order.
func (s *RepresentativeSet) Radices() []int {
	radices := make([]int, len(s.reps))
	for i, r := range s.reps {
		radices[i] = len(r)
	}
	return radices
}

// ProductSize returns the size of the Cartesian product, saturating at
// limit. The boolean is false when the real size exceeds limit.
func (s *RepresentativeSet) ProductSize(limit int) (int, bool) {
	if len(s.reps) == 0 {
		return 0, true
	}
	size := 1
	for _, r := range s.reps {
		n := len(r)
		if n == 0 {
			return 0, true
		}
		if size > limit/n {
			return limit, false
		}
		size *= n
	}
	if size > limit {
		return limit, false
	}
	return size, true
}

// StateCollision records a representative value that appears under more than
// one state within the same variable.
type StateCollision struct {
	Variable string
	Value    Value
	States   []State
}

// Collisions lists the values whose state is ambiguous. This is a data
// quality report only; generation and coverage are unaffected.
func (s *RepresentativeSet) Collisions() []StateCollision {
	var out []StateCollision
	for i, variable := range s.variables {
		var order []Value
		states := make(map[Value][]State)
		for _, r := range s.reps[i] {
			seen, ok := states[r.Value]
			if !ok {
				order = append(order, r.Value)
			}
			if !containsState(seen, r.State) {
				states[r.Value] = append(seen, r.State)
			}
		}
		for _, v := range order {
			if len(states[v]) > 1 {
				out = append(out, StateCollision{Variable: variable, Value: v, States: states[v]})
			}
		}
	}
	return out
}

func containsState(states []State, s State) bool {
	for _, x := range states {
		if x == s {
			return true
		}
	}
	return false
}
