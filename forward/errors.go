// SPDX-License-Identifier: MIT

package forward

import "errors"

var (
	// ErrEmptyFootprint indicates a reading whose footprint holds no cell,
	// e.g. a zero-length array.
	ErrEmptyFootprint = errors.New("forward: reading has no cells in its footprint")

	// ErrModelSize indicates a model vector whose length differs from the
	// operator's cell count.
	ErrModelSize = errors.New("forward: model size does not match grid")

	// ErrNonPositive indicates a resistivity ≤ 0, which has no log-space image.
	ErrNonPositive = errors.New("forward: non-positive resistivity")
)
