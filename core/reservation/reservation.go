package reservation

import (
	"fmt"
	"math"

	"github.com/kilianp07/mccall/core/model"
	"github.com/kilianp07/mccall/core/solver"
)

// Wage returns the reservation wage implied by a converged (v, u): the lowest
// grid wage whose value of acceptance is at least u. When every wage is
// acceptable this is wages[0]; when none is, the result is +Inf.
//
// v - u must be non-decreasing along the grid, which holds for any solution
// returned by the solver on a sorted grid.
func Wage(v []float64, u float64, wages []float64) (float64, error) {
	idx, err := thresholdIndex(v, u, wages)
	if err != nil {
		return 0, err
	}
	return wageAt(wages, idx), nil
}

// thresholdIndex returns the first accepted grid index, len(wages) when none is.
func thresholdIndex(v []float64, u float64, wages []float64) (int, error) {
	if len(v) != len(wages) {
		return 0, fmt.Errorf("%w: %d values for %d wages", ErrLengthMismatch, len(v), len(wages))
	}
	return SearchMonotone(len(v), func(i int) bool { return Accepts(v, u, i) }), nil
}

func wageAt(wages []float64, idx int) float64 {
	if idx == len(wages) {
		return math.Inf(1)
	}
	return wages[idx]
}

// CheckThreshold verifies in linear time that wbar splits the grid into
// rejected wages below it and accepted wages at or above it.
func CheckThreshold(v []float64, u float64, wages []float64, wbar float64) error {
	if len(v) != len(wages) {
		return fmt.Errorf("%w: %d values for %d wages", ErrLengthMismatch, len(v), len(wages))
	}
	for i, w := range wages {
		if Accepts(v, u, i) != (w >= wbar) {
			return fmt.Errorf("%w: wage %v (index %d) with reservation wage %v", ErrNotMonotone, w, i, wbar)
		}
	}
	return nil
}

// Outcome bundles the solver result with the reservation wage derived from it.
type Outcome struct {
	solver.Result
	ReservationWage float64
}

// Compute solves p with the given options and extracts the reservation wage.
func Compute(p model.Params, opts solver.Options) (Outcome, error) {
	s, err := solver.New(opts, nil, nil)
	if err != nil {
		return Outcome{}, err
	}
	return ComputeWith(s, p)
}

// ComputeWith is Compute using an existing solver.
func ComputeWith(s *solver.Solver, p model.Params) (Outcome, error) {
	res, err := s.Solve(p)
	if err != nil {
		return Outcome{Result: res}, err
	}
	wbar, err := Wage(res.V, res.U, p.Wages)
	if err != nil {
		return Outcome{Result: res}, err
	}
	return Outcome{Result: res, ReservationWage: wbar}, nil
}
