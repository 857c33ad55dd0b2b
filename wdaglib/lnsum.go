// Package wdaglib implements a generic weighted directed acyclic graph
// (a "trellis") together with the log-space algorithms that solve it:
// longest-weight path and forward/backward message passing.
package wdaglib

import "math"

// LogZero is a finite sentinel treated as negative infinity by Lnsum.
// It is used as the accumulator seed for posterior sums and as the
// weight of an edge that can never be traversed.
const LogZero float64 = -1e20

// Lnsum computes log(exp(a) + exp(b)) in a numerically stable way.
// LogZero is treated as an additive identity: Lnsum(LogZero, x) == x.
func Lnsum(a, b float64) float64 {
	if a <= LogZero {
		return b
	}
	if b <= LogZero {
		return a
	}
	if a > b {
		return a + math.Log1p(math.Exp(b-a))
	}
	return b + math.Log1p(math.Exp(a-b))
}
