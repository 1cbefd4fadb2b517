// Package sweep computes comparative statics of the reservation wage by
// solving the model over a list of values of one parameter in parallel.
package sweep
