package cmd

import (
	"context"
	"math"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mccall/app"
	"github.com/kilianp07/mccall/core/sweep"
)

var (
	sweepParam   string
	sweepValues  []float64
	sweepWorkers int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Solve the model over a range of one parameter",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().StringVarP(&sweepParam, "param", "p", "", "parameter to vary (c|beta|alpha), overrides the config")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", nil, "values to solve for, overrides the config")
	sweepCmd.Flags().IntVarP(&sweepWorkers, "workers", "w", 0, "concurrent solves, overrides the config")
	rootCmd.AddCommand(sweepCmd)
}

type sweepPointView struct {
	Value           float64  `json:"value" yaml:"value"`
	ReservationWage *float64 `json:"reservation_wage" yaml:"reservation_wage"`
	Unbounded       bool     `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
	U               float64  `json:"u" yaml:"u"`
	Iterations      int      `json:"iterations" yaml:"iterations"`
	Error           string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type sweepView struct {
	ID        string           `json:"id" yaml:"id"`
	Parameter string           `json:"parameter" yaml:"parameter"`
	Failures  int              `json:"failures" yaml:"failures"`
	Points    []sweepPointView `json:"points" yaml:"points"`
}

func newSweepView(run *app.SweepRun) sweepView {
	v := sweepView{
		ID:        run.ID,
		Parameter: string(run.Parameter),
		Failures:  sweep.Failures(run.Points),
		Points:    make([]sweepPointView, 0, len(run.Points)),
	}
	for _, p := range run.Points {
		pv := sweepPointView{
			Value:           p.Value,
			ReservationWage: finite(p.ReservationWage),
			Unbounded:       math.IsInf(p.ReservationWage, 1),
			U:               p.Result.U,
			Iterations:      p.Result.Iterations,
		}
		if p.Err != nil {
			pv.Error = p.Err.Error()
		}
		v.Points = append(v.Points, pv)
	}
	return v
}

func runSweep(cmd *cobra.Command, args []string) error {
	overrides := app.SweepOverrides{
		Parameter: sweep.Parameter(sweepParam),
		Values:    sweepValues,
		Workers:   sweepWorkers,
	}
	return withService(func(ctx context.Context, svc *app.Service) error {
		if err := svc.OverrideSweep(overrides); err != nil {
			return err
		}
		run, err := svc.Sweep(ctx)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, newSweepView(run))
	})
}
