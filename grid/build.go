// SPDX-License-Identifier: MIT
// Package grid - mesh construction from survey geometry.

package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/geoinv/survey"
)

// relTol scales with the profile span when comparing positions and lengths.
const relTol = 1e-9

// Grid is the outcome of Build: the mesh plus the readings it accepted.
//
// Points are the accepted readings in input order and Origin[i] is the input
// index of Points[i]. Rejected lists the readings dropped with their reason.
type Grid struct {
	Geometry Geometry
	Points   []survey.DataPoint
	Origin   []int
	Rejected []survey.Rejection
}

// Build derives the mesh from the electrode geometry of points.
//
// Implementation:
//   - Stage 1: require at least MinReadings readings.
//   - Stage 2: horizontal extent = min/max of all A, B, M, N positions; a zero
//     extent or all-zero array lengths is degenerate.
//   - Stage 3: reject zero-length arrays and, when opts.MaxDepth > 0, readings
//     whose pseudo-depth lies below it; then require MinReadings readings and
//     two distinct array lengths among the survivors.
//   - Stage 4: unit spacing = smallest positive gap between distinct electrode
//     positions; Nx = ⌈span/spacing⌉ and Nz = ⌈depth/spacing⌉, each capped,
//     with depth = padding × largest pseudo-depth (truncated at MaxDepth).
//
// Errors:
//   - ErrInsufficientData, ErrDegenerateGeometry (wrapped with counts).
//
// Determinism:
//   - Pure function of (points, opts).
//
// Complexity:
//   - Time O(n log n) for the position sort, Space O(n + Nx + Nz).
func Build(points []survey.DataPoint, opts Options) (*Grid, error) {
	opts = opts.WithDefaults()
	if len(points) < MinReadings {
		return nil, fmt.Errorf("Build: %d readings, need %d: %w", len(points), MinReadings, ErrInsufficientData)
	}

	xmin, xmax := math.Inf(1), math.Inf(-1)
	var maxLen float64
	for _, p := range points {
		lo, hi := p.Span()
		xmin = math.Min(xmin, lo)
		xmax = math.Max(xmax, hi)
		maxLen = math.Max(maxLen, hi-lo)
	}
	span := xmax - xmin
	if !(span > 0) || !(maxLen > 0) {
		return nil, fmt.Errorf("Build: profile span %g, longest array %g: %w", span, maxLen, ErrDegenerateGeometry)
	}
	tol := relTol * span

	g := &Grid{
		Points: make([]survey.DataPoint, 0, len(points)),
		Origin: make([]int, 0, len(points)),
	}
	for i, p := range points {
		switch l, pd := p.Length(), p.PseudoDepth(); {
		case l <= tol:
			g.reject(i, "zero-length electrode array")
		case opts.MaxDepth > 0 && pd > opts.MaxDepth:
			g.reject(i, fmt.Sprintf("pseudo-depth %g below maximum depth %g", pd, opts.MaxDepth))
		default:
			g.Points = append(g.Points, p)
			g.Origin = append(g.Origin, i)
		}
	}
	if len(g.Points) < MinReadings {
		return nil, fmt.Errorf("Build: %d usable readings, need %d: %w", len(g.Points), MinReadings, ErrInsufficientData)
	}

	lengths := make([]float64, len(g.Points))
	positions := make([]float64, 0, 4*len(g.Points))
	var maxPD float64
	xmin, xmax, maxLen = math.Inf(1), math.Inf(-1), 0
	for i, p := range g.Points {
		lengths[i] = p.Length()
		maxLen = math.Max(maxLen, lengths[i])
		maxPD = math.Max(maxPD, p.PseudoDepth())
		for _, e := range p.Electrodes() {
			positions = append(positions, e)
			xmin = math.Min(xmin, e)
			xmax = math.Max(xmax, e)
		}
	}
	if n := countDistinct(lengths, tol); n < 2 {
		return nil, fmt.Errorf("Build: %d distinct electrode separation(s), need 2: %w", n, ErrInsufficientData)
	}
	spacing := smallestGap(positions, tol)
	span = xmax - xmin

	depth := maxPD * opts.DepthPadding
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		depth = opts.MaxDepth
	}
	nx := cellCount(span, spacing, opts.MaxColumns)
	nz := cellCount(depth, spacing, opts.MaxLayers)

	g.Geometry = Geometry{
		Nx:            nx,
		Nz:            nz,
		XEdges:        edges(xmin, span, nx),
		ZEdges:        edges(0, depth, nz),
		Spacing:       spacing,
		MaxSeparation: maxLen,
	}

	return g, nil
}

func (g *Grid) reject(i int, reason string) {
	g.Rejected = append(g.Rejected, survey.Rejection{Index: i, Reason: reason})
}

// countDistinct counts values that differ by more than tol after sorting.
func countDistinct(vals []float64, tol float64) int {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := 1
	for i := 1; i < len(s); i++ {
		if s[i]-s[i-1] > tol {
			n++
		}
	}

	return n
}

// smallestGap returns the smallest gap > tol between sorted positions.
// At least two distinct positions exist whenever Build reaches this point.
func smallestGap(positions []float64, tol float64) float64 {
	sort.Float64s(positions)
	best := math.Inf(1)
	for i := 1; i < len(positions); i++ {
		if d := positions[i] - positions[i-1]; d > tol && d < best {
			best = d
		}
	}

	return best
}

// cellCount returns ⌈extent/spacing⌉ clamped to [1, limit].
func cellCount(extent, spacing float64, limit int) int {
	n := int(math.Ceil(extent/spacing - relTol))

	return max(1, min(n, limit))
}

// edges returns n+1 equally spaced boundaries from origin over extent.
func edges(origin, extent float64, n int) []float64 {
	out := make([]float64, n+1)
	step := extent / float64(n)
	for k := 0; k < n; k++ {
		out[k] = origin + float64(k)*step
	}
	out[n] = origin + extent

	return out
}
