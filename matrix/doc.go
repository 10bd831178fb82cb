// SPDX-License-Identifier: MIT

// Package matrix offers the dense linear algebra used by the inversion engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe accessors (no panics on
//     bad indices) and an optional NaN/Inf guard.
//   - Elementwise and product kernels (Add, Scale, Mul, Transpose,
//     MatVec, MatTVec), each with a *Dense fast path and an interface fallback
//     that produce identical results.
//   - Cholesky factorization and CholeskySolve for the symmetric positive
//     definite normal equations assembled by the solver.
//   - Validators shared by all kernels and sentinel errors matched with errors.Is.
//
// Problem sizes here are bounded by the grid caps (at most a few thousand
// unknowns), so dense storage with O(n³) factorization is adequate.
package matrix
