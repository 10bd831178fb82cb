// SPDX-License-Identifier: MIT
package forward_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/geoinv/forward"
	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (grid.Geometry, []survey.DataPoint) {
	t.Helper()
	points, err := survey.DipoleDipole(9, 5, 5)
	require.NoError(t, err)
	g, err := grid.Build(points, grid.DefaultOptions())
	require.NoError(t, err)

	return g.Geometry, g.Points
}

func TestNew_RowsNormalized(t *testing.T) {
	geo, points := setup(t)
	op, err := forward.New(geo, points)
	require.NoError(t, err)
	assert.Equal(t, len(points), op.Rows())
	assert.Equal(t, geo.Cells(), op.Cells())

	w := op.Weights()
	for i := 0; i < w.Rows(); i++ {
		row, err := w.Row(i)
		require.NoError(t, err)
		var sum float64
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "row %d", i)
	}
}

func TestNew_Footprint(t *testing.T) {
	geo, points := setup(t)
	op, err := forward.New(geo, points)
	require.NoError(t, err)

	// Reading 0: A=0 B=5 M=10 N=15, midpoint 7.5, pseudo-depth 3.15.
	row, err := op.Weights().Row(0)
	require.NoError(t, err)
	for idx, v := range row {
		layer, col := geo.Coordinate(idx)
		inside := col <= 3 && layer <= 1
		if inside {
			assert.Greater(t, v, 0.0, "cell (%d,%d)", layer, col)
		} else {
			assert.Zero(t, v, "cell (%d,%d)", layer, col)
		}
	}
	// Shallower and closer cells weigh more.
	assert.Greater(t, row[geo.Index(0, 1)], row[geo.Index(1, 1)])
	assert.Greater(t, row[geo.Index(0, 1)], row[geo.Index(0, 3)])
}

func TestPredict(t *testing.T) {
	geo, points := setup(t)
	op, err := forward.New(geo, points)
	require.NoError(t, err)

	model := make([]float64, geo.Cells())
	for i := range model {
		model[i] = math.Log(80)
	}
	d, err := op.Predict(model)
	require.NoError(t, err)
	for _, v := range d {
		assert.InDelta(t, math.Log(80), v, 1e-12)
	}

	_, err = op.Predict(model[:3])
	assert.ErrorIs(t, err, forward.ErrModelSize)
}

func TestNew_EmptyFootprint(t *testing.T) {
	geo, points := setup(t)
	bad := append([]survey.DataPoint{{A: 5, B: 5, M: 5, N: 5}}, points...)
	_, err := forward.New(geo, bad)
	assert.ErrorIs(t, err, forward.ErrEmptyFootprint)
}

func TestSynthesize_TwoLayer(t *testing.T) {
	geo, points := setup(t)
	model := make([]float64, geo.Cells())
	for idx := range model {
		if layer, _ := geo.Coordinate(idx); layer == 0 {
			model[idx] = 30
		} else {
			model[idx] = 150
		}
	}

	synth, err := forward.Synthesize(geo, points, model, survey.Resistivity)
	require.NoError(t, err)
	require.Len(t, synth, len(points))
	assert.Zero(t, points[0].Value, "input left untouched")

	// Apparent resistivity grows with separation over a conductive cover.
	// Index 2 is n=1, index 18 is n=5; both sit mid-line.
	assert.Greater(t, synth[18].Value, synth[2].Value)
	for _, p := range synth {
		assert.Greater(t, p.Value, 30.0-1e-9)
		assert.Less(t, p.Value, 150.0+1e-9)
	}

	model[0] = 0
	_, err = forward.Synthesize(geo, points, model, survey.Resistivity)
	assert.ErrorIs(t, err, forward.ErrNonPositive)

	charge, err := forward.Synthesize(geo, points, model, survey.Chargeability)
	require.NoError(t, err)
	assert.Less(t, charge[0].Value, 150.0)
}

func TestTransforms(t *testing.T) {
	p, err := forward.ToParams(survey.Resistivity, []float64{1, math.E})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1}, p, 1e-15)
	assert.InDeltaSlice(t, []float64{1, math.E}, forward.FromParams(survey.Resistivity, p), 1e-15)

	lin, err := forward.ToParams(survey.Chargeability, []float64{-2, 0, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 0, 3}, lin)

	_, err = forward.ToParams(survey.Resistivity, []float64{1, -1})
	assert.ErrorIs(t, err, forward.ErrNonPositive)
}
