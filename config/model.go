package config

import (
	"fmt"

	"github.com/kilianp07/mccall/core/factory"
	"github.com/kilianp07/mccall/core/model"
)

// PresetDefault selects model.Default and ignores the other model fields.
const PresetDefault = "default"

// ModelConfig describes the search model.
type ModelConfig struct {
	Preset string     `json:"preset"`
	Beta   float64    `json:"beta"`
	Alpha  float64    `json:"alpha"`
	C      float64    `json:"c"`
	Grid   GridConfig `json:"grid"`
}

// GridConfig describes the wage grid and the offer distribution over it.
// An explicit Wages list takes precedence over Min, Max and N.
type GridConfig struct {
	Min          float64              `json:"min"`
	Max          float64              `json:"max"`
	N            int                  `json:"n"`
	Wages        []float64            `json:"wages"`
	Distribution factory.ModuleConfig `json:"distribution"`
}

// Params builds and validates the model parameters.
func (c ModelConfig) Params() (model.Params, error) {
	switch c.Preset {
	case "":
	case PresetDefault:
		return model.Default(), nil
	default:
		return model.Params{}, fmt.Errorf("unknown model preset %q", c.Preset)
	}
	wages, err := c.Grid.wages()
	if err != nil {
		return model.Params{}, err
	}
	dist, err := model.NewDistribution(c.Grid.Distribution)
	if err != nil {
		return model.Params{}, err
	}
	probs, err := dist.PMF(len(wages))
	if err != nil {
		return model.Params{}, err
	}
	p := model.Params{Beta: c.Beta, Alpha: c.Alpha, C: c.C, Wages: wages, Probs: probs}
	if err := p.Validate(); err != nil {
		return model.Params{}, err
	}
	return p, nil
}

func (g GridConfig) wages() ([]float64, error) {
	if len(g.Wages) > 0 {
		return append([]float64(nil), g.Wages...), nil
	}
	return model.UniformGrid(g.Min, g.Max, g.N)
}
