package reservation

import "errors"

var (
	// ErrLengthMismatch is returned when V and the wage grid differ in length.
	ErrLengthMismatch = errors.New("value function and wage grid differ in length")
	// ErrNotMonotone is returned when the acceptance decision is not a
	// threshold rule on the wage grid.
	ErrNotMonotone = errors.New("acceptance gap is not monotone in wage")
)
