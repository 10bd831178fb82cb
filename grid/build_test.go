// SPDX-License-Identifier: MIT
package grid_test

import (
	"testing"

	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dipoleDipole(t *testing.T) []survey.DataPoint {
	t.Helper()
	points, err := survey.DipoleDipole(9, 5, 5)
	require.NoError(t, err)

	return points
}

func TestBuild_DipoleDipole(t *testing.T) {
	g, err := grid.Build(dipoleDipole(t), grid.DefaultOptions())
	require.NoError(t, err)

	geo := g.Geometry
	assert.Equal(t, 8, geo.Nx)
	assert.Equal(t, 3, geo.Nz)
	assert.Equal(t, 5.0, geo.Spacing)
	assert.Equal(t, 35.0, geo.MaxSeparation)
	assert.Equal(t, 5.0, geo.Dx())
	assert.InDelta(t, 0.5*35*survey.DipoleDipoleDepthFactor*grid.DefaultDepthPadding, geo.Depth(), 1e-12)
	assert.Equal(t, 0.0, geo.XEdges[0])
	assert.Equal(t, 40.0, geo.XEdges[geo.Nx])
	assert.Len(t, g.Points, 20)
	assert.Empty(t, g.Rejected)

	centers := geo.Centers()
	require.Len(t, centers, 24)
	assert.Equal(t, 2.5, centers[0].X)
	assert.InDelta(t, 0.5*geo.Dz(), centers[0].Z, 1e-12)
	assert.Equal(t, 37.5, centers[geo.Index(2, 7)].X)
}

func TestBuild_Caps(t *testing.T) {
	opts := grid.Options{MaxColumns: 4, MaxLayers: 2}
	g, err := grid.Build(dipoleDipole(t), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Geometry.Nx)
	assert.Equal(t, 2, g.Geometry.Nz)
	assert.Equal(t, 10.0, g.Geometry.Dx())
}

func TestBuild_MaxDepthRejects(t *testing.T) {
	points := dipoleDipole(t)
	// n = 4 and n = 5 lie deeper than 6 m (pseudo-depths 6.3 and 7.35).
	g, err := grid.Build(points, grid.Options{MaxDepth: 6})
	require.NoError(t, err)
	assert.Len(t, g.Points, 15)
	require.Len(t, g.Rejected, 5)
	assert.Equal(t, 15, g.Rejected[0].Index)
	assert.Contains(t, g.Rejected[0].Reason, "pseudo-depth")
	assert.Equal(t, 6.0, g.Geometry.Depth())
	for i, p := range g.Points {
		assert.Equal(t, points[g.Origin[i]], p)
	}
}

func TestBuild_Errors(t *testing.T) {
	points := dipoleDipole(t)
	sameLength := points[:6] // all n = 1
	coincident := []survey.DataPoint{{A: 0, B: 0, M: 0, N: 0}, {}, {}, {}}
	zeroLength := []survey.DataPoint{{A: 1, B: 1, M: 1, N: 1}, {A: 2, B: 2, M: 2, N: 2}, {}, {}}

	tests := []struct {
		name   string
		points []survey.DataPoint
		opts   grid.Options
		want   error
	}{
		{"three points", points[:3], grid.Options{}, grid.ErrInsufficientData},
		{"one separation", sameLength, grid.Options{}, grid.ErrInsufficientData},
		{"all coincident", coincident, grid.Options{}, grid.ErrDegenerateGeometry},
		{"zero-length arrays", zeroLength, grid.Options{}, grid.ErrDegenerateGeometry},
		{"max depth too shallow", points, grid.Options{MaxDepth: 1}, grid.ErrInsufficientData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.Build(tc.points, tc.opts)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGeometry_Locate(t *testing.T) {
	g, err := grid.Build(dipoleDipole(t), grid.DefaultOptions())
	require.NoError(t, err)
	geo := g.Geometry

	idx, ok := geo.Locate(12, 0.1)
	require.True(t, ok)
	layer, col := geo.Coordinate(idx)
	assert.Equal(t, 0, layer)
	assert.Equal(t, 2, col)

	idx, ok = geo.Locate(40, geo.Depth())
	require.True(t, ok)
	assert.Equal(t, geo.Cells()-1, idx)

	_, ok = geo.Locate(-1, 1)
	assert.False(t, ok)
	assert.False(t, geo.InBounds(3, 0))
}
