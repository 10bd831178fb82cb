// SPDX-License-Identifier: MIT

package survey

import (
	"fmt"
	"strings"
)

// Quantity names the measured property. The empty value means Resistivity.
type Quantity string

const (
	// Resistivity is apparent resistivity in ohm·m; inverted in log space.
	Resistivity Quantity = "resistivity"

	// Chargeability is IP chargeability in ms; inverted in linear space.
	Chargeability Quantity = "chargeability"
)

// ParseQuantity maps a case-insensitive name to a Quantity.
// The empty string yields Resistivity.
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Resistivity):
		return Resistivity, nil
	case string(Chargeability):
		return Chargeability, nil
	default:
		return "", fmt.Errorf("ParseQuantity(%q): %w", s, ErrUnknownQuantity)
	}
}

// Normalize returns Resistivity for the empty value and q otherwise.
func (q Quantity) Normalize() Quantity {
	if q == "" {
		return Resistivity
	}

	return q
}

// Logarithmic reports whether the quantity is inverted in log space.
func (q Quantity) Logarithmic() bool { return q.Normalize() == Resistivity }

// Unit returns the display unit.
func (q Quantity) Unit() string {
	if q.Logarithmic() {
		return "ohm·m"
	}

	return "ms"
}
