// SPDX-License-Identifier: MIT
// Package matrix: numeric policy defaults.
//
// Purpose:
//   - Single source of truth for tolerances shared by validators and kernels.
//   - Keep constructors free of per-call configuration (one policy per Dense).

package matrix

const (
	// DefaultEpsilon is the non-negative tolerance used by structural checks
	// (symmetry) when callers have no better scale.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on Set/Apply.
	DefaultValidateNaNInf = true

	// DefaultPivotTolerance is the relative tolerance below which a Cholesky
	// pivot is treated as non-positive: pivot <= tol * max|diag(A)|.
	DefaultPivotTolerance = 1e-12
)
