// SPDX-License-Identifier: MIT
// Package solver - roughness operator.

package solver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/matrix"
)

// Roughness returns the discrete roughness operator C of geom.
//
// Implementation:
//   - Lateral rows first (layer by layer), then vertical rows (column by column).
//   - An axis with at least three cells contributes second differences
//     [1, −2, 1]; an axis with exactly two cells contributes the first
//     difference [−1, 1]; a single-cell axis contributes nothing.
//   - A mesh of one cell has no roughness rows; a single zero row is
//     returned so that CᵗC stays well formed.
//
// Complexity: O(rows·cells) memory for the dense operator.
func Roughness(geom grid.Geometry) (*matrix.Dense, error) {
	nx, nz := geom.Nx, geom.Nz
	type stencil struct {
		cells  []int
		coeffs []float64
	}
	var rows []stencil
	axis := func(n int, at func(k int) int) {
		switch {
		case n >= 3:
			for k := 1; k < n-1; k++ {
				rows = append(rows, stencil{[]int{at(k - 1), at(k), at(k + 1)}, []float64{1, -2, 1}})
			}
		case n == 2:
			rows = append(rows, stencil{[]int{at(0), at(1)}, []float64{-1, 1}})
		}
	}
	for layer := 0; layer < nz; layer++ {
		axis(nx, func(k int) int { return geom.Index(layer, k) })
	}
	for col := 0; col < nx; col++ {
		axis(nz, func(k int) int { return geom.Index(k, col) })
	}

	cells := geom.Cells()
	n := max(len(rows), 1)
	data := make([]float64, n*cells)
	for i, s := range rows {
		for k, idx := range s.cells {
			data[i*cells+idx] = s.coeffs[k]
		}
	}
	c, err := matrix.NewDenseFrom(n, cells, data)
	if err != nil {
		return nil, fmt.Errorf("Roughness: %w", err)
	}

	return c, nil
}

// Norm returns ‖C·m‖₂, the roughness of model m.
func Norm(c matrix.Matrix, m []float64) (float64, error) {
	cm, err := matrix.MatVec(c, m)
	if err != nil {
		return 0, fmt.Errorf("Norm: %w", err)
	}
	var ss float64
	for _, v := range cm {
		ss += v * v
	}

	return math.Sqrt(ss), nil
}
