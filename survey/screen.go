// SPDX-License-Identifier: MIT

package survey

import (
	"fmt"
	"math"
)

// Screen drops readings that cannot enter an inversion of quantity q:
// non-finite values or electrode positions, and non-positive apparent
// resistivities (log space is undefined there).
//
// kept preserves input order; origin[i] is the input index of kept[i], and
// every rejection carries its input index and a human-readable reason.
//
// Complexity: O(n).
func Screen(points []DataPoint, q Quantity) (kept []DataPoint, origin []int, rejected []Rejection) {
	kept = make([]DataPoint, 0, len(points))
	origin = make([]int, 0, len(points))
	for i, p := range points {
		if reason := screenReason(p, q); reason != "" {
			rejected = append(rejected, Rejection{Index: i, Reason: reason})
			continue
		}
		kept = append(kept, p)
		origin = append(origin, i)
	}

	return kept, origin, rejected
}

func screenReason(p DataPoint, q Quantity) string {
	if !finite(p.Value) {
		return fmt.Sprintf("non-finite value %v", p.Value)
	}
	for k, e := range p.Electrodes() {
		if !finite(e) {
			return fmt.Sprintf("non-finite position of electrode %c", "ABMN"[k])
		}
	}
	if q.Logarithmic() && p.Value <= 0 {
		return fmt.Sprintf("non-positive apparent resistivity %g", p.Value)
	}

	return ""
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
