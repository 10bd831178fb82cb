// SPDX-License-Identifier: MIT
// Package matrix - Cholesky factorization of symmetric positive definite
// matrices and the matching two-triangle solve.
//
// Purpose:
//   - Factor A = L·Lᵗ once and reuse L for any number of right-hand sides.
//   - Report loss of positive definiteness with a dedicated sentinel so that
//     callers can react (e.g. increase damping) instead of failing outright.
//
// Determinism:
//   - Fixed j→i→k loop order (Cholesky–Banachiewicz by columns); no pivoting,
//     so the factor is a pure function of A.

package matrix

import (
	"fmt"
	"math"
)

// Cholesky returns the lower-triangular factor L with A = L·Lᵗ.
//
// Implementation:
//   - Stage 1: ValidateSquareNonNil.
//   - Stage 2: copy A into a flat buffer (dense fast path or At fallback),
//     rejecting NaN/Inf and recording max|diag(A)|.
//   - Stage 3: ValidateSymmetric with tolerance DefaultEpsilon·max(1, max|diag|).
//   - Stage 4: for each column j compute d = A[j,j] − Σ L[j,k]²; fail when
//     d ≤ DefaultPivotTolerance·max|diag(A)|; then fill L[i,j] for i > j.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrNaNInf,
//     ErrNotPositiveDefinite (non-positive or numerically vanishing pivot).
//
// Complexity:
//   - Time O(n³/3), Space O(n²) for L.
func Cholesky(m Matrix) (Matrix, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	n := m.Rows()

	a := make([]float64, n*n)
	if d, ok := m.(*Dense); ok {
		copy(a, d.data)
	} else {
		var v float64
		var err error
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if v, err = m.At(i, j); err != nil {
					return nil, matrixErrorf(opCholesky, fmt.Errorf("At(%d,%d): %w", i, j, err))
				}
				a[i*n+j] = v
			}
		}
	}

	var maxDiag float64
	for idx, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, matrixErrorf(opCholesky, fmt.Errorf("(%d,%d): %w", idx/n, idx%n, ErrNaNInf))
		}
		if idx%(n+1) == 0 && math.Abs(v) > maxDiag {
			maxDiag = math.Abs(v)
		}
	}
	if err := ValidateSymmetric(m, DefaultEpsilon*math.Max(1, maxDiag)); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	pivotTol := DefaultPivotTolerance * maxDiag

	l, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	ld := l.data

	var (
		i, j, k  int
		sum, piv float64
	)
	for j = 0; j < n; j++ {
		sum = a[j*n+j]
		for k = 0; k < j; k++ {
			sum -= ld[j*n+k] * ld[j*n+k]
		}
		if sum <= pivotTol || sum <= ZeroPivot {
			return nil, matrixErrorf(opCholesky, fmt.Errorf("pivot %d = %g: %w", j, sum, ErrNotPositiveDefinite))
		}
		piv = math.Sqrt(sum)
		ld[j*n+j] = piv
		for i = j + 1; i < n; i++ {
			sum = a[i*n+j]
			for k = 0; k < j; k++ {
				sum -= ld[i*n+k] * ld[j*n+k]
			}
			ld[i*n+j] = sum / piv
		}
	}

	return l, nil
}

// CholeskySolve solves (L·Lᵗ)·x = b given the lower factor L from Cholesky.
//
// Implementation:
//   - Stage 1: forward substitution L·y = b.
//   - Stage 2: backward substitution Lᵗ·x = y (reads L by columns, no transpose copy).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular (zero diagonal in L).
//
// Complexity:
//   - Time O(n²), Space O(n).
func CholeskySolve(l Matrix, b []float64) ([]float64, error) {
	if err := ValidateSquareNonNil(l); err != nil {
		return nil, matrixErrorf(opCholSolve, err)
	}
	n := l.Rows()
	if err := ValidateVecLen(b, n); err != nil {
		return nil, matrixErrorf(opCholSolve, err)
	}

	at := func(i, j int) (float64, error) { return l.At(i, j) }
	if d, ok := l.(*Dense); ok {
		at = func(i, j int) (float64, error) { return d.data[i*n+j], nil }
	}

	y := make([]float64, n)
	var (
		i, k      int
		sum, v, d float64
		err       error
	)
	for i = 0; i < n; i++ {
		sum = b[i]
		for k = 0; k < i; k++ {
			if v, err = at(i, k); err != nil {
				return nil, matrixErrorf(opCholSolve, err)
			}
			sum -= v * y[k]
		}
		if d, err = at(i, i); err != nil {
			return nil, matrixErrorf(opCholSolve, err)
		}
		if d == ZeroPivot {
			return nil, matrixErrorf(opCholSolve, fmt.Errorf("row %d: %w", i, ErrSingular))
		}
		y[i] = sum / d
	}

	x := make([]float64, n)
	for i = n - 1; i >= 0; i-- {
		sum = y[i]
		for k = i + 1; k < n; k++ {
			if v, err = at(k, i); err != nil {
				return nil, matrixErrorf(opCholSolve, err)
			}
			sum -= v * x[k]
		}
		d, _ = at(i, i)
		x[i] = sum / d
	}

	return x, nil
}
