// SPDX-License-Identifier: MIT

package grid

import "math"

// Defaults for Options.
const (
	DefaultMaxColumns   = 64
	DefaultMaxLayers    = 32
	DefaultDepthPadding = 1.5
)

// MinReadings is the smallest dataset a grid can be built from.
const MinReadings = 4

// Options controls mesh construction.
//
// Fields:
//   - MaxColumns, MaxLayers cap the cell counts; spacing grows when capped.
//   - DepthPadding multiplies the largest pseudo-depth to get the mesh depth.
//   - MaxDepth, when positive, truncates the mesh; readings whose pseudo-depth
//     lies below it are rejected.
type Options struct {
	MaxColumns   int     `json:"max_columns" yaml:"max_columns" validate:"gte=1,lte=512"`
	MaxLayers    int     `json:"max_layers" yaml:"max_layers" validate:"gte=1,lte=256"`
	DepthPadding float64 `json:"depth_padding" yaml:"depth_padding" validate:"gte=1,lte=5"`
	MaxDepth     float64 `json:"max_depth" yaml:"max_depth" validate:"gte=0"`
}

// DefaultOptions returns the 64×32 cap with 1.5× depth padding.
func DefaultOptions() Options {
	return Options{
		MaxColumns:   DefaultMaxColumns,
		MaxLayers:    DefaultMaxLayers,
		DepthPadding: DefaultDepthPadding,
	}
}

// WithDefaults fills zero fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.MaxColumns == 0 {
		o.MaxColumns = d.MaxColumns
	}
	if o.MaxLayers == 0 {
		o.MaxLayers = d.MaxLayers
	}
	if o.DepthPadding == 0 {
		o.DepthPadding = d.DepthPadding
	}

	return o
}

// Point is a cell centre: X along the profile, Z depth below surface.
type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Geometry describes the mesh.
//
// XEdges has Nx+1 entries and ZEdges Nz+1 entries (ZEdges[0] == 0).
// Spacing is the unit electrode spacing the mesh was derived from;
// MaxSeparation is the longest array length among accepted readings.
type Geometry struct {
	Nx            int       `json:"nx"`
	Nz            int       `json:"nz"`
	XEdges        []float64 `json:"x_edges"`
	ZEdges        []float64 `json:"z_edges"`
	Spacing       float64   `json:"spacing"`
	MaxSeparation float64   `json:"max_separation"`
}

// Cells returns Nx*Nz.
func (g Geometry) Cells() int { return g.Nx * g.Nz }

// Dx returns the column width.
func (g Geometry) Dx() float64 { return (g.XEdges[g.Nx] - g.XEdges[0]) / float64(g.Nx) }

// Dz returns the layer thickness.
func (g Geometry) Dz() float64 { return g.ZEdges[g.Nz] / float64(g.Nz) }

// Depth returns the depth of the mesh bottom.
func (g Geometry) Depth() float64 { return g.ZEdges[g.Nz] }

// InBounds reports whether (layer, col) addresses a cell.
func (g Geometry) InBounds(layer, col int) bool {
	return layer >= 0 && layer < g.Nz && col >= 0 && col < g.Nx
}

// Index maps (layer, col) to the row-major cell index layer*Nx + col.
func (g Geometry) Index(layer, col int) int { return layer*g.Nx + col }

// Coordinate converts a cell index back to (layer, col).
func (g Geometry) Coordinate(idx int) (layer, col int) { return idx / g.Nx, idx % g.Nx }

// Center returns the centre of cell idx.
func (g Geometry) Center(idx int) Point {
	layer, col := g.Coordinate(idx)

	return Point{
		X: 0.5 * (g.XEdges[col] + g.XEdges[col+1]),
		Z: 0.5 * (g.ZEdges[layer] + g.ZEdges[layer+1]),
	}
}

// Centers returns the centre of every cell in index order.
// Complexity: O(Nx*Nz).
func (g Geometry) Centers() []Point {
	out := make([]Point, g.Cells())
	for idx := range out {
		out[idx] = g.Center(idx)
	}

	return out
}

// Locate returns the index of the cell containing (x, z); points on the
// outer boundary belong to the adjacent edge cell.
func (g Geometry) Locate(x, z float64) (int, bool) {
	if g.Nx == 0 || g.Nz == 0 {
		return 0, false
	}
	if x < g.XEdges[0] || x > g.XEdges[g.Nx] || z < 0 || z > g.ZEdges[g.Nz] {
		return 0, false
	}
	col := int(math.Floor((x - g.XEdges[0]) / g.Dx()))
	layer := int(math.Floor(z / g.Dz()))
	col = min(col, g.Nx-1)
	layer = min(layer, g.Nz-1)

	return g.Index(layer, col), true
}
