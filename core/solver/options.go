package solver

import "fmt"

const (
	// DefaultTolerance is the sup-norm step below which iteration stops.
	DefaultTolerance = 1e-5
	// DefaultMaxIterations caps the number of Bellman updates.
	DefaultMaxIterations = 2000
)

// Options tunes the stopping rule of the solver.
type Options struct {
	Tolerance     float64 `json:"tolerance" yaml:"tolerance"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
	// LogEvery emits a debug line every LogEvery iterations; 0 disables it.
	LogEvery int `json:"log_every" yaml:"log_every"`
}

// SetDefaults replaces zero values with the package defaults.
func (o *Options) SetDefaults() {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
}

// Validate checks the options once defaults have been applied.
func (o Options) Validate() error {
	if !(o.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidOptions, o.Tolerance)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", ErrInvalidOptions, o.MaxIterations)
	}
	if o.LogEvery < 0 {
		return fmt.Errorf("%w: log_every must not be negative, got %d", ErrInvalidOptions, o.LogEvery)
	}
	return nil
}
