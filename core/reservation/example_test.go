package reservation_test

import (
	"fmt"

	"github.com/kilianp07/mccall/core/model"
	"github.com/kilianp07/mccall/core/reservation"
	"github.com/kilianp07/mccall/core/solver"
)

func ExampleCompute() {
	wages, _ := model.UniformGrid(10, 20, 5)
	probs, _ := model.UniformPMF(5)
	p := model.Params{Beta: 0.96, Alpha: 0.05, C: 6, Wages: wages, Probs: probs}

	out, err := reservation.Compute(p, solver.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out.ReservationWage)
	// Output: 17.5
}

func ExampleWage() {
	v := []float64{90, 100, 110}
	w, _ := reservation.Wage(v, 95, []float64{1, 2, 3})
	fmt.Println(w)
	w, _ = reservation.Wage(v, 120, []float64{1, 2, 3})
	fmt.Println(w)
	// Output:
	// 2
	// +Inf
}
