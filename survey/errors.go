// SPDX-License-Identifier: MIT

package survey

import "errors"

var (
	// ErrMalformedCSV indicates a CSV header or record that cannot be parsed.
	ErrMalformedCSV = errors.New("survey: malformed CSV")

	// ErrInvalidLayout indicates impossible synthetic layout parameters
	// (too few electrodes, non-positive spacing or separation factor).
	ErrInvalidLayout = errors.New("survey: invalid electrode layout")

	// ErrUnknownQuantity indicates a quantity name other than
	// "resistivity" or "chargeability".
	ErrUnknownQuantity = errors.New("survey: unknown quantity")
)
