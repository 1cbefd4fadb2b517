package cmd

import (
	"context"
	"errors"
	"math"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mccall/app"
	"github.com/kilianp07/mccall/core/solver"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the model and print the reservation wage",
	RunE:  runSolve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Solve the model, then expose metrics until interrupted",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(serveCmd)
}

type solveView struct {
	ID                    string    `json:"id" yaml:"id"`
	Converged             bool      `json:"converged" yaml:"converged"`
	Iterations            int       `json:"iterations" yaml:"iterations"`
	Distance              float64   `json:"distance" yaml:"distance"`
	Residual              float64   `json:"residual" yaml:"residual"`
	U                     float64   `json:"u" yaml:"u"`
	V                     []float64 `json:"v" yaml:"v"`
	ReservationWage       *float64  `json:"reservation_wage" yaml:"reservation_wage"`
	Unbounded             bool      `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
	AcceptanceProbability float64   `json:"acceptance_probability" yaml:"acceptance_probability"`
	ExpectedSearchPeriods *float64  `json:"expected_search_periods,omitempty" yaml:"expected_search_periods,omitempty"`
	MeanAcceptedWage      *float64  `json:"mean_accepted_wage,omitempty" yaml:"mean_accepted_wage,omitempty"`
	MeanOfferedWage       float64   `json:"mean_offered_wage" yaml:"mean_offered_wage"`
}

func newSolveView(run *app.Run, converged bool) solveView {
	v := solveView{
		ID:                    run.ID,
		Converged:             converged,
		Iterations:            run.Outcome.Iterations,
		Distance:              run.Outcome.Distance,
		Residual:              run.Residual,
		U:                     run.Outcome.U,
		V:                     run.Outcome.V,
		AcceptanceProbability: run.Summary.AcceptanceProbability,
		ExpectedSearchPeriods: finite(run.Summary.ExpectedSearchPeriods),
		MeanAcceptedWage:      finite(run.Summary.MeanAcceptedWage),
		MeanOfferedWage:       run.Summary.MeanOfferedWage,
	}
	if converged {
		if math.IsInf(run.Outcome.ReservationWage, 1) {
			v.Unbounded = true
		} else {
			v.ReservationWage = finite(run.Outcome.ReservationWage)
		}
	}
	return v
}

// finite returns nil for values JSON cannot carry.
func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return &x
}

func solveAndPrint(ctx context.Context, cmd *cobra.Command, svc *app.Service) error {
	run, err := svc.Solve(ctx)
	if err != nil && !errors.Is(err, solver.ErrNonConvergence) {
		return err
	}
	if perr := render(cmd.OutOrStdout(), output, newSolveView(run, err == nil)); perr != nil {
		return perr
	}
	return err
}

func runSolve(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, svc *app.Service) error {
		return solveAndPrint(ctx, cmd, svc)
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, svc *app.Service) error {
		if err := solveAndPrint(ctx, cmd, svc); err != nil {
			return err
		}
		return svc.ServeMetrics(ctx)
	})
}
