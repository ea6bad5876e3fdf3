package generator

import (
	"fmt"
	"math/rand"

	"github.com/example/casegen/casegen/domain"
)

// Builder constructs test suites from equivalence classes.
type Builder interface {
	// Build creates a test suite for the given classes and configuration.
	Build(classes []domain.EquivalenceClass, config domain.GenerationConfig) (*domain.TestSuite, error)
}

// CartesianBuilder combines the representatives of every variable and caps
// the result by uniform sampling.
type CartesianBuilder struct {
	idGenerator func() string
}

// NewBuilder creates a new CartesianBuilder.
func NewBuilder(idGenerator func() string) *CartesianBuilder {
	return &CartesianBuilder{
		idGenerator: idGenerator,
	}
}

// Build creates a test suite for the given classes.
// The suite holds min(config.MaxCases, product size) cases.
func (b *CartesianBuilder) Build(classes []domain.EquivalenceClass, config domain.GenerationConfig) (*domain.TestSuite, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	set := domain.NewRepresentativeSet(classes)
	if set.Len() == 0 {
		return nil, domain.ErrNoVariables
	}

	seed := ResolveSeed(config.RandomSeed)
	rng := rand.New(rand.NewSource(seed))

	combos, productSize, err := GenerateCombinations(set, config.MaxCases, rng)
	if err != nil {
		return nil, err
	}

	variables := set.Variables()
	cases, err := BuildTestCases(variables, combos)
	if err != nil {
		return nil, err
	}

	return &domain.TestSuite{
		ID:          b.idGenerator(),
		Mode:        domain.ModeStructured,
		Variables:   variables,
		Cases:       cases,
		ProductSize: productSize,
		Sampled:     productSize > config.MaxCases,
		Seed:        seed,
		Config:      config,
	}, nil
}

// ResolveSeed returns seed, or a fresh random seed when seed is 0.
func ResolveSeed(seed int64) int64 {
	for seed == 0 {
		seed = rand.Int63()
	}
	return seed
}

// BuildTestCases turns combinations into identified test cases.
// Identifiers run CP001, CP002, ... in combination order; the state of each
// representative is dropped.
func BuildTestCases(variables []string, combos []domain.Combination) ([]domain.TestCase, error) {
	cases := make([]domain.TestCase, len(combos))
	for i, combo := range combos {
		if len(combo) != len(variables) {
			return nil, fmt.Errorf("combination %d has %d values for %d variables", i, len(combo), len(variables))
		}
		values := make([]domain.Assignment, len(variables))
		for j, variable := range variables {
			values[j] = domain.Assignment{Variable: variable, Value: combo[j].Value}
		}
		cases[i] = domain.TestCase{
			ID:     domain.FormatCaseID(i+1),
			Values: values,
		}
	}
	return cases, nil
}
