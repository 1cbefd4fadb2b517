package reservation

import "sort"

// SearchMonotone returns the smallest index i in [0, n) for which pred(i) is
// true, or n if there is none. pred must be monotone over [0, n): once true it
// stays true. Under that precondition the search costs O(log n) calls; if it
// does not hold the returned index is some crossing point but not necessarily
// the first one.
func SearchMonotone(n int, pred func(int) bool) int {
	return sort.Search(n, pred)
}

// Accepts reports whether accepting the offer at index i is at least as good
// as continuing to search.
func Accepts(v []float64, u float64, i int) bool {
	return v[i]-u >= 0
}
