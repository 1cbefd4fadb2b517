package model

import (
	"fmt"

	"github.com/kilianp07/mccall/core/factory"
)

// Distribution produces the offer probabilities for a grid of n wages.
type Distribution interface {
	PMF(n int) ([]float64, error)
}

// Uniform assigns equal mass to every grid point.
type Uniform struct{}

func (Uniform) PMF(n int) ([]float64, error) { return UniformPMF(n) }

// BetaBinomial is the beta-binomial law over grid indices.
type BetaBinomial struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

func (d BetaBinomial) PMF(n int) ([]float64, error) { return BetaBinomialPMF(n, d.A, d.B) }

// Explicit uses caller supplied probabilities as-is.
type Explicit struct {
	Probs []float64 `json:"probs"`
}

func (d Explicit) PMF(n int) ([]float64, error) {
	if len(d.Probs) != n {
		return nil, fmt.Errorf("%w: %d probabilities for %d wages", ErrInvalidParameters, len(d.Probs), n)
	}
	return append([]float64(nil), d.Probs...), nil
}

var distributions = factory.NewRegistry[Distribution]()

func init() {
	_ = RegisterDistribution("uniform", func(map[string]any) (Distribution, error) {
		return Uniform{}, nil
	})
	_ = RegisterDistribution("beta_binomial", func(conf map[string]any) (Distribution, error) {
		var d BetaBinomial
		if err := factory.Decode(conf, &d); err != nil {
			return nil, err
		}
		return d, nil
	})
	_ = RegisterDistribution("explicit", func(conf map[string]any) (Distribution, error) {
		var d Explicit
		if err := factory.Decode(conf, &d); err != nil {
			return nil, err
		}
		return d, nil
	})
}

// RegisterDistribution adds an offer distribution identified by name.
func RegisterDistribution(name string, f factory.Factory[Distribution]) error {
	return distributions.Register(name, f)
}

// NewDistribution builds the distribution described by cfg. An empty type
// selects the uniform distribution.
func NewDistribution(cfg factory.ModuleConfig) (Distribution, error) {
	if cfg.Type == "" {
		return Uniform{}, nil
	}
	return distributions.Create(cfg)
}
