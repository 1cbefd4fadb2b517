package reservation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/mccall/core/model"
)

// Summary describes the search behaviour implied by a solution.
type Summary struct {
	ReservationWage float64 `json:"reservation_wage" yaml:"reservation_wage"`
	// AcceptanceProbability is the per-period probability that a fresh
	// offer is accepted.
	AcceptanceProbability float64 `json:"acceptance_probability" yaml:"acceptance_probability"`
	// ExpectedSearchPeriods is the mean unemployment spell length, +Inf when
	// no offer is ever accepted.
	ExpectedSearchPeriods float64 `json:"expected_search_periods" yaml:"expected_search_periods"`
	// MeanOfferedWage is the mean of the offer distribution.
	MeanOfferedWage float64 `json:"mean_offered_wage" yaml:"mean_offered_wage"`
	// MeanAcceptedWage is the mean wage conditional on acceptance, NaN when
	// nothing is accepted.
	MeanAcceptedWage float64 `json:"mean_accepted_wage" yaml:"mean_accepted_wage"`
}

// Summarize derives the acceptance statistics of (v, u) under p.
func Summarize(p model.Params, v []float64, u float64) (Summary, error) {
	idx, err := thresholdIndex(v, u, p.Wages)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		ReservationWage: wageAt(p.Wages, idx),
		MeanOfferedWage: stat.Mean(p.Wages, p.Probs),
	}
	var mass float64
	for _, q := range p.Probs[idx:] {
		mass += q
	}
	s.AcceptanceProbability = mass
	if mass > 0 {
		s.ExpectedSearchPeriods = 1 / mass
		s.MeanAcceptedWage = stat.Mean(p.Wages[idx:], p.Probs[idx:])
	} else {
		s.ExpectedSearchPeriods = math.Inf(1)
		s.MeanAcceptedWage = math.NaN()
	}
	return s, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("w̄=%g accept=%.4f spell=%.2f", s.ReservationWage, s.AcceptanceProbability, s.ExpectedSearchPeriods)
}
