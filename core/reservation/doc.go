// Package reservation turns a solved McCall model into a decision rule.
//
// Because V(w) - U is non-decreasing in w, the set of acceptable offers is an
// upper interval of the wage grid and its lower end, the reservation wage, is
// found by binary search. CheckThreshold verifies the property explicitly for
// inputs that did not come from the solver.
package reservation
