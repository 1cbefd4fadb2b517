package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions indicates a non-positive tolerance or iteration cap.
	ErrInvalidOptions = errors.New("invalid solver options")
	// ErrNonConvergence indicates the iteration cap was reached before the
	// tolerance was met.
	ErrNonConvergence = errors.New("value iteration did not converge")
	// ErrDimensionMismatch indicates a value function that does not match the wage grid.
	ErrDimensionMismatch = errors.New("value function and wage grid differ in length")
)

// NonConvergenceError carries the last iterate of a solve that hit the
// iteration cap.
type NonConvergenceError struct {
	Iterations int
	Distance   float64
	V          []float64
	U          float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%v after %d iterations (distance %g)", ErrNonConvergence, e.Iterations, e.Distance)
}

func (e *NonConvergenceError) Unwrap() error { return ErrNonConvergence }
