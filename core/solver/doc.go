// Package solver computes the value of employment V(w) on a wage grid and the
// value of unemployment U in the McCall search model with separation.
//
// Both values are updated simultaneously from the previous iterate until the
// largest change falls below Options.Tolerance. The iteration is a
// contraction with modulus β, so any β in (0,1) converges given enough
// iterations; Options.MaxIterations bounds the work and turns a slow solve
// into a *NonConvergenceError that still exposes the last iterate.
package solver
