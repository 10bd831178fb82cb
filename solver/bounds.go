// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/geoinv/matrix"
	"github.com/katalvlaran/geoinv/survey"
)

// Epsilon is the resistivity floor in ohm·m.
const Epsilon = 1e-6

// Bounds are parameter-space limits applied after every update.
type Bounds struct {
	Lo, Hi float64
}

// Unbounded returns the limits used without constraints: resistivity is
// floored at Epsilon, chargeability is free.
func Unbounded(q survey.Quantity) Bounds {
	if q.Logarithmic() {
		return Bounds{Lo: math.Log(Epsilon), Hi: math.Inf(1)}
	}

	return Bounds{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// Clipped maps the value range [lo, hi] into parameter space. For resistivity
// the lower limit never drops below Epsilon.
//
// Errors:
//   - ErrInvalidBounds when lo > hi or a limit is NaN.
func Clipped(q survey.Quantity, lo, hi float64) (Bounds, error) {
	if !(lo <= hi) {
		return Bounds{}, fmt.Errorf("Clipped(%g, %g): %w", lo, hi, ErrInvalidBounds)
	}
	if q.Logarithmic() {
		return Bounds{Lo: math.Log(math.Max(lo, Epsilon)), Hi: math.Log(math.Max(hi, Epsilon))}, nil
	}

	return Bounds{Lo: lo, Hi: hi}, nil
}

// Clip limits p to [Lo, Hi].
func (b Bounds) Clip(p float64) float64 {
	return math.Min(math.Max(p, b.Lo), b.Hi)
}

// Apply returns clip(m + Δm) as a fresh slice; m is left untouched.
//
// Errors:
//   - matrix.ErrDimensionMismatch when the lengths differ.
func Apply(m, delta []float64, b Bounds) ([]float64, error) {
	if len(m) != len(delta) {
		return nil, fmt.Errorf("Apply: %d cells, %d updates: %w", len(m), len(delta), matrix.ErrDimensionMismatch)
	}
	out := make([]float64, len(m))
	for i := range m {
		out[i] = b.Clip(m[i] + delta[i])
	}

	return out, nil
}
