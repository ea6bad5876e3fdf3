package domain

import "fmt"

// MaxIdentifierSpace is the largest number of generated cases. Identifiers
// stay at most six digits wide (CP999999).
const MaxIdentifierSpace = 999_999

// GenerationConfig holds configuration for one generation run.
type GenerationConfig struct {
	// MaxCases is the cap M on generated test cases. When the Cartesian
	// product is larger, exactly MaxCases combinations are sampled.
	// Default: 100
	MaxCases int `json:"max_cases" yaml:"max_cases"`

	// RandomSeed is the seed for sampling.
	// Use 0 for a fresh seed, or a specific value for reproducibility.
	// Default: 0
	RandomSeed int64 `json:"seed" yaml:"seed"`

	// ValidMarker is the outcome value that marks a tabular record as valid.
	// Comparison is case-insensitive.
	// Default: "V"
	ValidMarker string `json:"valid_marker" yaml:"valid_marker"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() GenerationConfig {
	return GenerationConfig{
		MaxCases:    100,
		RandomSeed:  0,
		ValidMarker: "V",
	}
}

// Validate checks that the configuration is valid.
func (c *GenerationConfig) Validate() error {
	if c.MaxCases <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig,
			&SamplingError{MaxCases: c.MaxCases, Reason: "must be positive"})
	}
	if c.MaxCases > MaxIdentifierSpace {
		return fmt.Errorf("%w: %w", ErrInvalidConfig,
			&SamplingError{MaxCases: c.MaxCases, Reason: fmt.Sprintf("exceeds identifier space of %d", MaxIdentifierSpace)})
	}
	if c.ValidMarker == "" {
		return fmt.Errorf("%w: ValidMarker must not be empty", ErrInvalidConfig)
	}
	return nil
}

// WithDefaults returns a new config with defaults applied for zero values.
// A negative MaxCases is left alone so that Validate can reject it.
func (c GenerationConfig) WithDefaults() GenerationConfig {
	defaults := DefaultConfig()
	if c.MaxCases == 0 {
		c.MaxCases = defaults.MaxCases
	}
	if c.ValidMarker == "" {
		c.ValidMarker = defaults.ValidMarker
	}
	return c
}
