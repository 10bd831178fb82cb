// SPDX-License-Identifier: MIT
package survey_test

import (
	"testing"

	"github.com/katalvlaran/geoinv/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDipoleDipole(t *testing.T) {
	points, err := survey.DipoleDipole(9, 5, 5)
	require.NoError(t, err)
	require.Len(t, points, 20)

	first := points[0]
	assert.Equal(t, survey.DataPoint{X: 7.5, Y: first.PseudoDepth(), A: 0, B: 5, M: 10, N: 15}, first)
	last := points[len(points)-1]
	assert.Equal(t, 35.0, last.Length())
	for _, p := range points {
		assert.Equal(t, survey.ArrayDipoleDipole, p.Array())
		assert.LessOrEqual(t, p.N, 40.0)
	}

	_, err = survey.DipoleDipole(3, 5, 1)
	assert.ErrorIs(t, err, survey.ErrInvalidLayout)
	_, err = survey.DipoleDipole(9, 0, 1)
	assert.ErrorIs(t, err, survey.ErrInvalidLayout)
}

func TestWenner(t *testing.T) {
	points, err := survey.Wenner(10, 2, 3)
	require.NoError(t, err)
	// level k rolls over 10-3k positions: 7 + 4 + 1.
	require.Len(t, points, 12)
	for _, p := range points {
		assert.Equal(t, survey.ArrayWenner, p.Array())
	}

	_, err = survey.Wenner(10, 2, 0)
	assert.ErrorIs(t, err, survey.ErrInvalidLayout)
}
