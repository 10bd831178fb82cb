// SPDX-License-Identifier: MIT
// Package forward - weight assembly and prediction.

package forward

import (
	"fmt"
	"math"

	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/matrix"
	"github.com/katalvlaran/geoinv/survey"
)

// Operator holds the normalized weight matrix W (readings × cells).
// It is immutable after New and safe for concurrent use.
type Operator struct {
	geom    grid.Geometry
	weights *matrix.Dense
}

// New assembles W for points over geom.
//
// Implementation:
//   - Stage 1: per reading derive x_mid, L, z_p and the lateral width σx.
//   - Stage 2: sweep cells in index order, weight those inside the footprint.
//   - Stage 3: an all-zero row is an error; every row is then divided by
//     its sum in one pass over W.
//
// Errors:
//   - ErrEmptyFootprint (wrapped with the reading index).
//   - matrix.ErrInvalidDimensions for an empty survey or mesh.
//
// Determinism:
//   - Fixed reading→cell loop order.
//
// Complexity:
//   - Time O(n·cells), Space O(n·cells).
func New(geom grid.Geometry, points []survey.DataPoint) (*Operator, error) {
	cells := geom.Cells()
	w, err := matrix.NewDense(len(points), cells)
	if err != nil {
		return nil, fmt.Errorf("forward.New: %w", err)
	}
	centers := geom.Centers()
	dx := geom.Dx()
	row := make([]float64, cells)
	sums := make([]float64, len(points))

	for i, p := range points {
		length, xMid, zp := p.Length(), p.Midpoint(), p.PseudoDepth()
		if !(zp > 0) {
			return nil, fmt.Errorf("forward.New: reading %d: %w", i, ErrEmptyFootprint)
		}
		sigma := 0.5 * math.Max(0.5*length, dx)
		half := 0.5*length + 0.5*dx

		var sum float64
		for idx, c := range centers {
			row[idx] = 0
			layer, _ := geom.Coordinate(idx)
			off := c.X - xMid
			if math.Abs(off) > half || geom.ZEdges[layer] > 2*zp {
				continue
			}
			u := off / sigma
			row[idx] = math.Exp(-0.5*u*u) * math.Exp(-c.Z/zp)
			sum += row[idx]
		}
		if !(sum > 0) {
			return nil, fmt.Errorf("forward.New: reading %d: %w", i, ErrEmptyFootprint)
		}
		sums[i] = sum
		for idx, v := range row {
			if v == 0 {
				continue
			}
			if err = w.Set(i, idx, v); err != nil {
				return nil, fmt.Errorf("forward.New: %w", err)
			}
		}
	}
	if err = w.Apply(func(i, _ int, v float64) float64 { return v / sums[i] }); err != nil {
		return nil, fmt.Errorf("forward.New: %w", err)
	}

	return &Operator{geom: geom, weights: w}, nil
}

// Geometry returns the mesh the operator was built on.
func (o *Operator) Geometry() grid.Geometry { return o.geom }

// Rows returns the number of readings.
func (o *Operator) Rows() int { return o.weights.Rows() }

// Cells returns the number of model cells.
func (o *Operator) Cells() int { return o.weights.Cols() }

// Weights returns a copy of W.
func (o *Operator) Weights() *matrix.Dense { return o.weights.Clone().(*matrix.Dense) }

// Predict returns W·params, the predicted readings in parameter space.
//
// Errors:
//   - ErrModelSize when len(params) != Cells().
func (o *Operator) Predict(params []float64) ([]float64, error) {
	if len(params) != o.Cells() {
		return nil, fmt.Errorf("Predict: %d values for %d cells: %w", len(params), o.Cells(), ErrModelSize)
	}
	d, err := matrix.MatVec(o.weights, params)
	if err != nil {
		return nil, fmt.Errorf("Predict: %w", err)
	}

	return d, nil
}

// Synthesize returns a copy of points whose values are the readings model
// (value space, one entry per cell of geom) would produce.
//
// Errors:
//   - ErrEmptyFootprint, ErrModelSize, ErrNonPositive.
func Synthesize(geom grid.Geometry, points []survey.DataPoint, model []float64, q survey.Quantity) ([]survey.DataPoint, error) {
	op, err := New(geom, points)
	if err != nil {
		return nil, fmt.Errorf("Synthesize: %w", err)
	}
	params, err := ToParams(q, model)
	if err != nil {
		return nil, fmt.Errorf("Synthesize: %w", err)
	}
	pred, err := op.Predict(params)
	if err != nil {
		return nil, fmt.Errorf("Synthesize: %w", err)
	}
	out := make([]survey.DataPoint, len(points))
	copy(out, points)
	for i := range out {
		out[i].Value = FromParam(q, pred[i])
	}

	return out, nil
}
