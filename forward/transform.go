// SPDX-License-Identifier: MIT

package forward

import (
	"fmt"
	"math"

	"github.com/katalvlaran/geoinv/survey"
)

// ToParam maps a measured or model value into parameter space.
func ToParam(q survey.Quantity, v float64) float64 {
	if q.Logarithmic() {
		return math.Log(v)
	}

	return v
}

// FromParam maps a parameter back to value space.
func FromParam(q survey.Quantity, p float64) float64 {
	if q.Logarithmic() {
		return math.Exp(p)
	}

	return p
}

// ToParams maps values into parameter space.
//
// Errors:
//   - ErrNonPositive for a resistivity ≤ 0 (wrapped with its index).
func ToParams(q survey.Quantity, values []float64) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		if q.Logarithmic() && !(v > 0) {
			return nil, fmt.Errorf("ToParams: value %d = %g: %w", i, v, ErrNonPositive)
		}
		out[i] = ToParam(q, v)
	}

	return out, nil
}

// FromParams maps parameters back to value space.
func FromParams(q survey.Quantity, params []float64) []float64 {
	out := make([]float64, len(params))
	for i, p := range params {
		out[i] = FromParam(q, p)
	}

	return out
}
