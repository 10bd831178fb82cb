// SPDX-License-Identifier: MIT

package grid

import "errors"

var (
	// ErrInsufficientData indicates fewer than four usable readings or fewer
	// than two distinct electrode separations.
	ErrInsufficientData = errors.New("grid: insufficient data")

	// ErrDegenerateGeometry indicates an electrode layout that collapses to a
	// zero-extent grid.
	ErrDegenerateGeometry = errors.New("grid: degenerate electrode geometry")
)
