// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for universal Matrix (linear algebra) operations.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/geoinv/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 2, 2, []float64{4, 3, 2, 1})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{5, 5}, {5, 5}}, sum)

	_, err = matrix.Add(a, MustDense(t, 3, 2))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Add(nil, b)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMul(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := NewFilledDense(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})

	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{58, 64}, {139, 154}}, p)

	_, err = matrix.Mul(a, a)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestTransposeScale(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, at)

	s, err := matrix.Scale(a, -2)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{-2, -4, -6}, {-8, -10, -12}}, s)

	_, err = matrix.Transpose(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMatVecMatTVec(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	y, err := matrix.MatVec(a, []float64{1, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, y)

	z, err := matrix.MatTVec(a, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 12, 15}, z)

	_, err = matrix.MatVec(a, []float64{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatTVec(a, nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestFastPathMatchesFallback checks that hiding the concrete type yields
// bitwise-identical results.
func TestFastPathMatchesFallback(t *testing.T) {
	a := RandFilledDense(t, 5, 4, 1)
	b := RandFilledDense(t, 4, 3, 2)
	c := RandFilledDense(t, 5, 4, 3)
	x := []float64{0.5, 0, -1.25, 2}
	r := []float64{1, -1, 0, 0.5, 2}

	fast, err := matrix.Mul(a, b)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)
	assert.Equal(t, fast, slow)

	fast, err = matrix.Add(a, c)
	require.NoError(t, err)
	slow, err = matrix.Add(hide{a}, c)
	require.NoError(t, err)
	assert.Equal(t, fast, slow)

	fast, err = matrix.Transpose(a)
	require.NoError(t, err)
	slow, err = matrix.Transpose(hide{a})
	require.NoError(t, err)
	assert.Equal(t, fast, slow)

	fv, err := matrix.MatVec(a, x)
	require.NoError(t, err)
	sv, err := matrix.MatVec(hide{a}, x)
	require.NoError(t, err)
	assert.Equal(t, fv, sv)

	fv, err = matrix.MatTVec(a, r)
	require.NoError(t, err)
	sv, err = matrix.MatTVec(hide{a}, r)
	require.NoError(t, err)
	assert.Equal(t, fv, sv)
}
