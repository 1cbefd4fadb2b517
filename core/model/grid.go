package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
)

// UniformGrid returns n evenly spaced wages from lo to hi inclusive.
func UniformGrid(lo, hi float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidParameters, n)
	}
	if n == 1 {
		return []float64{lo}, nil
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("%w: grid max %v must exceed min %v", ErrInvalidParameters, hi, lo)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// UniformPMF returns the uniform distribution over n grid points.
func UniformPMF(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidParameters, n)
	}
	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	return p, nil
}

// BetaBinomialPMF returns the beta-binomial distribution with shape a, b over
// the support {0, ..., n-1}, i.e. one probability per grid point.
func BetaBinomialPMF(n int, a, b float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidParameters, n)
	}
	if !(a > 0) || !(b > 0) {
		return nil, fmt.Errorf("%w: beta-binomial shapes must be positive, got a=%v b=%v", ErrInvalidParameters, a, b)
	}
	trials := float64(n - 1)
	norm := mathext.Lbeta(a, b)
	p := make([]float64, n)
	for k := range p {
		kf := float64(k)
		p[k] = math.Exp(lchoose(trials, kf) + mathext.Lbeta(kf+a, trials-kf+b) - norm)
	}
	// absorb rounding so the result passes Validate
	floats.Scale(1/floats.Sum(p), p)
	return p, nil
}

func lchoose(n, k float64) float64 {
	ln, _ := math.Lgamma(n + 1)
	lk, _ := math.Lgamma(k + 1)
	lnk, _ := math.Lgamma(n - k + 1)
	return ln - lk - lnk
}

// Default returns the textbook parameterisation: 60 wages between 10 and 20
// drawn from a BetaBinomial(59, 600, 400), beta 0.98, alpha 0.2 and c 6.
func Default() Params {
	const n = 60
	wages, _ := UniformGrid(10, 20, n)
	probs, _ := BetaBinomialPMF(n, 600, 400)
	return Params{Beta: 0.98, Alpha: 0.2, C: 6, Wages: wages, Probs: probs}
}
