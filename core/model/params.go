package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ProbTolerance is the allowed deviation of the offer distribution from a
// total mass of one.
const ProbTolerance = 1e-8

// ErrInvalidParameters is returned when model parameters violate the
// invariants required by the solver.
var ErrInvalidParameters = errors.New("invalid model parameters")

// Params describes a McCall job search model with job separation.
// Wages and Probs are index aligned: Probs[i] is the probability of
// receiving an offer of Wages[i] in a given period.
type Params struct {
	Beta  float64   `json:"beta" yaml:"beta"`   // discount factor in (0,1)
	Alpha float64   `json:"alpha" yaml:"alpha"` // job separation probability in [0,1]
	C     float64   `json:"c" yaml:"c"`         // unemployment compensation
	Wages []float64 `json:"wages" yaml:"wages"`
	Probs []float64 `json:"probs" yaml:"probs"`
}

// Validate checks the parameters before any iteration takes place.
//
//nolint:gocyclo
func (p Params) Validate() error {
	if math.IsNaN(p.Beta) || p.Beta <= 0 || p.Beta >= 1 {
		return fmt.Errorf("%w: beta must be in (0,1), got %v", ErrInvalidParameters, p.Beta)
	}
	if math.IsNaN(p.Alpha) || p.Alpha < 0 || p.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be in [0,1], got %v", ErrInvalidParameters, p.Alpha)
	}
	if math.IsNaN(p.C) || math.IsInf(p.C, 0) {
		return fmt.Errorf("%w: compensation must be finite, got %v", ErrInvalidParameters, p.C)
	}
	if len(p.Wages) == 0 {
		return fmt.Errorf("%w: wage grid is empty", ErrInvalidParameters)
	}
	if len(p.Probs) != len(p.Wages) {
		return fmt.Errorf("%w: %d probabilities for %d wages", ErrInvalidParameters, len(p.Probs), len(p.Wages))
	}
	if floats.HasNaN(p.Wages) || floats.HasNaN(p.Probs) {
		return fmt.Errorf("%w: NaN in wage grid or probabilities", ErrInvalidParameters)
	}
	for i, w := range p.Wages {
		if math.IsInf(w, 0) {
			return fmt.Errorf("%w: wage %d is infinite", ErrInvalidParameters, i)
		}
		if i > 0 && w <= p.Wages[i-1] {
			return fmt.Errorf("%w: wage grid must be strictly increasing at index %d", ErrInvalidParameters, i)
		}
	}
	for i, q := range p.Probs {
		if q < 0 || math.IsInf(q, 0) {
			return fmt.Errorf("%w: probability %d is %v", ErrInvalidParameters, i, q)
		}
	}
	if sum := floats.Sum(p.Probs); math.Abs(sum-1) > ProbTolerance {
		return fmt.Errorf("%w: probabilities sum to %v", ErrInvalidParameters, sum)
	}
	return nil
}

// N returns the size of the wage grid.
func (p Params) N() int { return len(p.Wages) }

// Clone returns a deep copy so callers can alter a parameter set without
// touching slices shared with another solve.
func (p Params) Clone() Params {
	cp := p
	cp.Wages = append([]float64(nil), p.Wages...)
	cp.Probs = append([]float64(nil), p.Probs...)
	return cp
}
