package generator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/casegen/casegen/domain"
)

func class(variable string, state domain.State, reps ...domain.Value) domain.EquivalenceClass {
	return domain.EquivalenceClass{
		Variable:        variable,
		Label:           fmt.Sprintf("%s-%s", variable, state),
		State:           state,
		Representatives: reps,
	}
}

// makeClasses returns n variables with one Valid class of k representatives each.
func makeClasses(n, k int) []domain.EquivalenceClass {
	classes := make([]domain.EquivalenceClass, n)
	for i := 0; i < n; i++ {
		variable := fmt.Sprintf("v%d", i)
		reps := make([]domain.Value, k)
		for j := 0; j < k; j++ {
			reps[j] = domain.Value(fmt.Sprintf("%s-r%d", variable, j))
		}
		classes[i] = class(variable, domain.StateValid, reps...)
	}
	return classes
}

func idGen() func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("id-%d", counter)
	}
}

func caseKey(tc domain.TestCase) string {
	key := ""
	for _, a := range tc.Values {
		key += a.Variable + "=" + string(a.Value) + ";"
	}
	return key
}

func TestBuilderSampleScenario(t *testing.T) {
	classes := []domain.EquivalenceClass{
		class("A", domain.StateValid, "a1"),
		class("A", domain.StateInvalid, "a2"),
		class("B", domain.StateValid, "b1"),
	}

	suite, err := NewBuilder(idGen()).Build(classes, domain.GenerationConfig{MaxCases: 10})
	require.NoError(t, err)

	assert.Equal(t, "id-1", suite.ID)
	assert.Equal(t, domain.ModeStructured, suite.Mode)
	assert.Equal(t, []string{"A", "B"}, suite.Variables)
	assert.Equal(t, 2, suite.ProductSize)
	assert.False(t, suite.Sampled)
	assert.Equal(t, []domain.TestCase{
		{ID: "CP001", Values: []domain.Assignment{{Variable: "A", Value: "a1"}, {Variable: "B", Value: "b1"}}},
		{ID: "CP002", Values: []domain.Assignment{{Variable: "A", Value: "a2"}, {Variable: "B", Value: "b1"}}},
	}, suite.Cases)
}

func TestBuilderSamplingScenario(t *testing.T) {
	classes := makeClasses(3, 3)
	config := domain.GenerationConfig{MaxCases: 6, RandomSeed: 42}

	first, err := NewBuilder(idGen()).Build(classes, config)
	require.NoError(t, err)
	second, err := NewBuilder(idGen()).Build(classes, config)
	require.NoError(t, err)

	assert.Equal(t, 27, first.ProductSize)
	assert.True(t, first.Sampled)
	assert.Equal(t, int64(42), first.Seed)
	require.Len(t, first.Cases, 6)
	assert.Equal(t, first.Cases, second.Cases, "fixed seed must reproduce the sample")

	set := domain.NewRepresentativeSet(classes)
	seen := make(map[string]bool)
	for _, tc := range first.Cases {
		key := caseKey(tc)
		assert.False(t, seen[key], "duplicate case %s", key)
		seen[key] = true

		for _, a := range tc.Values {
			found := false
			for _, r := range set.Representatives(a.Variable) {
				if r.Value == a.Value {
					found = true
				}
			}
			assert.True(t, found, "value %q not drawn from %s", a.Value, a.Variable)
		}
	}
}

func TestBuilderCaseCountIsMinOfCapAndProduct(t *testing.T) {
	tests := []struct {
		vars, reps, maxCases int
		want                 int
	}{
		{1, 1, 1, 1},
		{2, 2, 10, 4},
		{2, 3, 9, 9},
		{3, 3, 6, 6},
		{4, 5, 100, 100},
		{5, 4, 1024, 1024},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%dx%d/M=%d", tc.vars, tc.reps, tc.maxCases), func(t *testing.T) {
			suite, err := NewBuilder(idGen()).Build(makeClasses(tc.vars, tc.reps), domain.GenerationConfig{
				MaxCases:   tc.maxCases,
				RandomSeed: 7,
			})
			require.NoError(t, err)
			assert.Len(t, suite.Cases, tc.want)

			for i, c := range suite.Cases {
				assert.Equal(t, domain.FormatCaseID(i+1), c.ID)
			}
		})
	}
}

func TestBuilderIdempotentWithoutSampling(t *testing.T) {
	classes := makeClasses(3, 2)
	a, err := NewBuilder(idGen()).Build(classes, domain.GenerationConfig{MaxCases: 8, RandomSeed: 1})
	require.NoError(t, err)
	b, err := NewBuilder(idGen()).Build(classes, domain.GenerationConfig{MaxCases: 8, RandomSeed: 99})
	require.NoError(t, err)
	assert.Equal(t, a.Cases, b.Cases)
}

func TestBuilderInvalidConfig(t *testing.T) {
	builder := NewBuilder(idGen())
	classes := makeClasses(2, 2)

	tests := []struct {
		name   string
		config domain.GenerationConfig
	}{
		// Note: zero MaxCases gets replaced by the default, so only explicit
		// out-of-range values are tested
		{"negative cap", domain.GenerationConfig{MaxCases: -3}},
		{"cap beyond identifier space", domain.GenerationConfig{MaxCases: domain.MaxIdentifierSpace + 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.Build(classes, tc.config)
			assert.ErrorIs(t, err, domain.ErrSampling)
		})
	}
}

func TestBuilderNoClasses(t *testing.T) {
	_, err := NewBuilder(idGen()).Build(nil, domain.DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrNoVariables)
}

func TestBuilderFreshSeedIsRecorded(t *testing.T) {
	suite, err := NewBuilder(idGen()).Build(makeClasses(3, 3), domain.GenerationConfig{MaxCases: 5})
	require.NoError(t, err)
	require.NotZero(t, suite.Seed)

	replay, err := NewBuilder(idGen()).Build(makeClasses(3, 3), domain.GenerationConfig{MaxCases: 5, RandomSeed: suite.Seed})
	require.NoError(t, err)
	assert.Equal(t, suite.Cases, replay.Cases)
}

func TestGenerateCombinationsProductOrder(t *testing.T) {
	set := domain.NewRepresentativeSet([]domain.EquivalenceClass{
		class("x", domain.StateValid, "x1", "x2"),
		class("y", domain.StateValid, "y1"),
		class("y", domain.StateInvalid, "y2"),
	})

	combos, size, err := GenerateCombinations(set, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	got := make([]string, len(combos))
	for i, c := range combos {
		got[i] = string(c[0].Value) + string(c[1].Value)
	}
	assert.Equal(t, []string{"x1y1", "x1y2", "x2y1", "x2y2"}, got)
	assert.Equal(t, domain.StateInvalid, combos[1][1].State)
}

func TestGenerateCombinationsDuplicatePositions(t *testing.T) {
	// The same literal under two states yields two positions and therefore
	// two identical-looking combinations.
	set := domain.NewRepresentativeSet([]domain.EquivalenceClass{
		class("x", domain.StateValid, "dup"),
		class("x", domain.StateInvalid, "dup"),
	})
	combos, size, err := GenerateCombinations(set, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
	require.Len(t, combos, 2)
	assert.Equal(t, combos[0][0].Value, combos[1][0].Value)
	assert.NotEqual(t, combos[0][0].State, combos[1][0].State)
}

func TestGenerateCombinationsErrors(t *testing.T) {
	set := domain.NewRepresentativeSet(makeClasses(2, 2))
	rng := rand.New(rand.NewSource(1))

	_, _, err := GenerateCombinations(set, 0, rng)
	assert.ErrorIs(t, err, domain.ErrSampling)

	_, _, err = GenerateCombinations(set, 3, nil)
	assert.ErrorIs(t, err, domain.ErrSampling)

	_, _, err = GenerateCombinations(domain.NewRepresentativeSet(nil), 3, rng)
	assert.ErrorIs(t, err, domain.ErrNoVariables)
}

func TestSampleByIndexLargeProduct(t *testing.T) {
	// 10^7 combinations: too large to enumerate, sampled per index
	classes := makeClasses(7, 10)
	suite, err := NewBuilder(idGen()).Build(classes, domain.GenerationConfig{MaxCases: 50, RandomSeed: 3})
	require.NoError(t, err)
	assert.Equal(t, 10_000_000, suite.ProductSize)
	require.Len(t, suite.Cases, 50)

	seen := make(map[string]bool)
	for _, tc := range suite.Cases {
		require.Len(t, tc.Values, 7)
		key := caseKey(tc)
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestSampleCombinationsUniformity(t *testing.T) {
	// Each of 4 combinations should be picked about half the time when
	// sampling 2 of 4.
	set := domain.NewRepresentativeSet(makeClasses(2, 2))
	counts := make(map[string]int)
	rng := rand.New(rand.NewSource(11))
	const trials = 4000
	for i := 0; i < trials; i++ {
		combos, _, err := GenerateCombinations(set, 2, rng)
		require.NoError(t, err)
		for _, c := range combos {
			counts[string(c[0].Value)+string(c[1].Value)]++
		}
	}
	require.Len(t, counts, 4)
	for k, n := range counts {
		ratio := float64(n) / trials
		assert.InDelta(t, 0.5, ratio, 0.05, "combination %s", k)
	}
}

func TestBuildTestCasesMismatch(t *testing.T) {
	_, err := BuildTestCases([]string{"a", "b"}, []domain.Combination{{{Value: "x"}}})
	assert.Error(t, err)
}

func TestBuildTestCasesWidth(t *testing.T) {
	combos := make([]domain.Combination, 1000)
	for i := range combos {
		combos[i] = domain.Combination{{Value: domain.Value(fmt.Sprint(i))}}
	}
	cases, err := BuildTestCases([]string{"n"}, combos)
	require.NoError(t, err)
	assert.Equal(t, "CP001", cases[0].ID)
	assert.Equal(t, "CP999", cases[998].ID)
	assert.Equal(t, "CP1000", cases[999].ID)
}
