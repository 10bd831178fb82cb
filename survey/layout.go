// SPDX-License-Identifier: MIT

package survey

import "fmt"

// DipoleDipole generates the readings of a dipole-dipole profile over
// electrodes equally spaced from position 0 with the given spacing. Both
// dipoles have length spacing; the separation factor n runs 1..maxN, and for
// each n the array rolls along the line one electrode at a time. Values are
// zero; X is the midpoint and Y the pseudo-depth.
//
// 9 electrodes with maxN = 5 yield 6+5+4+3+2 = 20 readings.
//
// Errors:
//   - ErrInvalidLayout when electrodes < 4, spacing ≤ 0 or maxN < 1.
func DipoleDipole(electrodes int, spacing float64, maxN int) ([]DataPoint, error) {
	if electrodes < 4 || !(spacing > 0) || maxN < 1 {
		return nil, fmt.Errorf("DipoleDipole(%d, %g, %d): %w", electrodes, spacing, maxN, ErrInvalidLayout)
	}
	var points []DataPoint
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n+2 < electrodes; i++ {
			points = append(points, located(DataPoint{
				A: float64(i) * spacing,
				B: float64(i+1) * spacing,
				M: float64(i+1+n) * spacing,
				N: float64(i+2+n) * spacing,
			}))
		}
	}

	return points, nil
}

// Wenner generates the readings of a Wenner profile: for each level
// k = 1..maxLevel the spacing is k×spacing and the array rolls along the
// line one electrode at a time.
//
// Errors:
//   - ErrInvalidLayout when electrodes < 4, spacing ≤ 0 or maxLevel < 1.
func Wenner(electrodes int, spacing float64, maxLevel int) ([]DataPoint, error) {
	if electrodes < 4 || !(spacing > 0) || maxLevel < 1 {
		return nil, fmt.Errorf("Wenner(%d, %g, %d): %w", electrodes, spacing, maxLevel, ErrInvalidLayout)
	}
	var points []DataPoint
	for k := 1; k <= maxLevel; k++ {
		for i := 0; i+3*k < electrodes; i++ {
			points = append(points, located(DataPoint{
				A: float64(i) * spacing,
				M: float64(i+k) * spacing,
				N: float64(i+2*k) * spacing,
				B: float64(i+3*k) * spacing,
			}))
		}
	}

	return points, nil
}

func located(p DataPoint) DataPoint {
	p.X = p.Midpoint()
	p.Y = p.PseudoDepth()

	return p
}
