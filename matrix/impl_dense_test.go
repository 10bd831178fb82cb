// SPDX-License-Identifier: MIT
package matrix_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/geoinv/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDenseDefaultZero(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{
		{3, 3},
		{2, 6},
	} {
		name := fmt.Sprintf("%dx%d", tc.rows, tc.cols)
		t.Run(name, func(t *testing.T) {
			m := MustDense(t, tc.rows, tc.cols)
			var i, j int
			for i = 0; i < tc.rows; i++ {
				for j = 0; j < tc.cols; j++ {
					if v := MustAt(t, m, i, j); v != 0.0 {
						t.Fatalf("element [%d,%d] of a new Dense(%dx%d) must be 0", i, j, tc.rows, tc.cols)
					}
				}
			}
		})
	}
}

func TestNewDense_InvalidDimensions(t *testing.T) {
	for _, shape := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := matrix.NewDense(shape[0], shape[1])
		assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	}
}

func TestNewDenseFrom(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	m := NewFilledDense(t, 2, 3, src)
	src[0] = 100 // caller keeps ownership
	CompareExact(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, m)

	_, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestDense_AtSetBounds(t *testing.T) {
	m := MustDense(t, 2, 2)
	_, err := m.At(2, 0)
	assert.True(t, errors.Is(err, matrix.ErrOutOfRange))
	assert.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

func TestDense_CloneIsDeep(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	c := m.Clone()
	MustSet(t, c, 0, 0, 9)
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))
	assert.Equal(t, 9.0, MustAt(t, c, 0, 0))
}

func TestDense_RowApplyDo(t *testing.T) {
	m := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, row)
	row[0] = -1
	assert.Equal(t, 4.0, MustAt(t, m, 1, 0))

	_, err = m.Row(2)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)

	require.NoError(t, m.Apply(func(i, j int, v float64) float64 { return v * 2 }))
	CompareExact(t, [][]float64{{2, 4, 6}, {8, 10, 12}}, m)

	visited := 0
	m.Do(func(i, j int, v float64) bool {
		visited++
		return visited < 4
	})
	assert.Equal(t, 4, visited)

	err = m.Apply(func(i, j int, v float64) float64 { return math.NaN() })
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestIdentityAndString(t *testing.T) {
	id, err := matrix.Identity(2)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 0}, {0, 1}}, id)
	assert.Equal(t, "[1, 0]\n[0, 1]\n", id.String())
}
