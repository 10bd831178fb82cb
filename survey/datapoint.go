// SPDX-License-Identifier: MIT
// Package survey - DataPoint geometry.
//
// Purpose:
//   - Derive everything the grid and forward operator need (array type,
//     array length, midpoint, pseudo-depth) from the four electrode positions.
//   - Keep DataPoint a plain immutable value: all methods use value receivers.

package survey

import "math"

// Array classifies a four-electrode configuration.
type Array int

const (
	// ArrayGeneric is any configuration that matches none of the named arrays.
	ArrayGeneric Array = iota
	// ArrayWenner has M, N inside AB with equal AM = MN = NB spacings.
	ArrayWenner
	// ArraySchlumberger has M, N inside AB with unequal spacings.
	ArraySchlumberger
	// ArrayDipoleDipole has disjoint current (AB) and potential (MN) dipoles.
	ArrayDipoleDipole
)

// Pseudo-depth factors per array type, applied to half the array length.
const (
	WennerDepthFactor       = 0.35
	SchlumbergerDepthFactor = 0.38
	DipoleDipoleDepthFactor = 0.42
	GenericDepthFactor      = 0.40
)

// spacingTolerance is the relative tolerance used when comparing electrode
// spacings during classification.
const spacingTolerance = 1e-9

var arrayNames = [...]string{
	ArrayGeneric:      "generic",
	ArrayWenner:       "wenner",
	ArraySchlumberger: "schlumberger",
	ArrayDipoleDipole: "dipole-dipole",
}

// String returns the lower-case array name.
func (a Array) String() string {
	if a < 0 || int(a) >= len(arrayNames) {
		return arrayNames[ArrayGeneric]
	}

	return arrayNames[a]
}

// DepthFactor returns the empirical pseudo-depth factor of the array type.
func (a Array) DepthFactor() float64 {
	switch a {
	case ArrayWenner:
		return WennerDepthFactor
	case ArraySchlumberger:
		return SchlumbergerDepthFactor
	case ArrayDipoleDipole:
		return DipoleDipoleDepthFactor
	default:
		return GenericDepthFactor
	}
}

// DataPoint is one field measurement.
//
// Value is apparent resistivity (ohm·m) or chargeability (ms). A, B are the
// current electrodes and M, N the potential electrodes, given as positions in
// metres along the profile. X and Y are the plotting position reported with
// the reading; they are informational and never enter the inversion.
type DataPoint struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Value float64 `json:"value" yaml:"value"`
	A     float64 `json:"a" yaml:"a"`
	B     float64 `json:"b" yaml:"b"`
	M     float64 `json:"m" yaml:"m"`
	N     float64 `json:"n" yaml:"n"`
}

// Electrodes returns the positions in A, B, M, N order.
func (p DataPoint) Electrodes() [4]float64 { return [4]float64{p.A, p.B, p.M, p.N} }

// Span returns the leftmost and rightmost electrode positions.
func (p DataPoint) Span() (lo, hi float64) {
	lo, hi = p.A, p.A
	for _, e := range [3]float64{p.B, p.M, p.N} {
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}

	return lo, hi
}

// Length returns the array length L, the distance between the outermost
// electrodes. It is the separation used for pseudo-depth and depth of
// investigation.
func (p DataPoint) Length() float64 {
	lo, hi := p.Span()

	return hi - lo
}

// Midpoint returns the centre of the array along the profile.
func (p DataPoint) Midpoint() float64 {
	lo, hi := p.Span()

	return 0.5 * (lo + hi)
}

// Array classifies the configuration.
//
// Implementation:
//   - Stage 1: order each dipole so that a0 ≤ a1 and m0 ≤ m1.
//   - Stage 2: disjoint dipoles → dipole-dipole; MN strictly inside AB →
//     Wenner when the three gaps are equal within tolerance, Schlumberger
//     otherwise; anything else is generic.
//
// Complexity: O(1).
func (p DataPoint) Array() Array {
	a0, a1 := math.Min(p.A, p.B), math.Max(p.A, p.B)
	m0, m1 := math.Min(p.M, p.N), math.Max(p.M, p.N)
	if a1 <= a0 || m1 <= m0 {
		return ArrayGeneric
	}
	if a1 <= m0 || m1 <= a0 {
		return ArrayDipoleDipole
	}
	if a0 < m0 && m1 < a1 {
		tol := spacingTolerance * (a1 - a0)
		g1, g2, g3 := m0-a0, m1-m0, a1-m1
		if math.Abs(g1-g2) <= tol && math.Abs(g2-g3) <= tol {
			return ArrayWenner
		}

		return ArraySchlumberger
	}

	return ArrayGeneric
}

// PseudoDepth returns 0.5 × Length × DepthFactor of the array type.
func (p DataPoint) PseudoDepth() float64 {
	return 0.5 * p.Length() * p.Array().DepthFactor()
}

// Rejection records a reading dropped before or during grid construction.
// Index refers to the position of the reading in the caller's input.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}
