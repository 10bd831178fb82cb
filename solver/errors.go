// SPDX-License-Identifier: MIT

package solver

import "errors"

var (
	// ErrNumericalInstability indicates the normal matrix stayed singular or
	// indefinite after the bounded damping escalation.
	ErrNumericalInstability = errors.New("solver: normal matrix singular after damping escalation")

	// ErrNilJacobian indicates New was called without sensitivities.
	ErrNilJacobian = errors.New("solver: nil jacobian")

	// ErrInvalidBounds indicates a lower bound above the upper bound.
	ErrInvalidBounds = errors.New("solver: lower bound exceeds upper bound")
)
