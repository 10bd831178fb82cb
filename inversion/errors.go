// SPDX-License-Identifier: MIT

package inversion

import (
	"errors"

	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/solver"
)

var (
	// ErrInsufficientData: fewer than four usable readings or fewer than two
	// distinct electrode separations.
	ErrInsufficientData = grid.ErrInsufficientData

	// ErrDegenerateGeometry: the electrode layout collapses to a zero-extent grid.
	ErrDegenerateGeometry = grid.ErrDegenerateGeometry

	// ErrNumericalInstability: the normal matrix stayed singular after the
	// bounded damping escalation. Retrying with a larger DampingFactor may help.
	ErrNumericalInstability = solver.ErrNumericalInstability

	// ErrInvalidParameters: Parameters failed validation.
	ErrInvalidParameters = errors.New("inversion: invalid parameters")
)
