package solver

import (
	"fmt"
	"math"

	"github.com/kilianp07/mccall/core/model"
)

// Residual returns the largest absolute violation of the two Bellman
// equations at (v, u). p is assumed valid.
func Residual(p model.Params, v []float64, u float64) (float64, error) {
	if len(v) != p.N() {
		return 0, fmt.Errorf("%w: %d values for %d wages", ErrDimensionMismatch, len(v), p.N())
	}
	var worst, expect float64
	for i, w := range p.Wages {
		rhs := w + p.Beta*((1-p.Alpha)*v[i]+p.Alpha*u)
		worst = math.Max(worst, math.Abs(v[i]-rhs))
		expect += p.Probs[i] * math.Max(u, v[i])
	}
	worst = math.Max(worst, math.Abs(u-(p.C+p.Beta*expect)))
	return worst, nil
}
