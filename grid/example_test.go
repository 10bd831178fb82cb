// SPDX-License-Identifier: MIT
package grid_test

import (
	"fmt"

	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/survey"
)

// ExampleBuild meshes a 9-electrode dipole-dipole line with 5 m spacing.
// The longest array (n = 5) is 35 m long, so the mesh reaches
// 1.5 × 0.5 × 35 × 0.42 ≈ 11 m in three 5 m-scale layers.
func ExampleBuild() {
	points, _ := survey.DipoleDipole(9, 5, 5)
	g, _ := grid.Build(points, grid.DefaultOptions())

	geo := g.Geometry
	fmt.Printf("cells: %d x %d\n", geo.Nx, geo.Nz)
	fmt.Printf("depth: %.3f m\n", geo.Depth())
	fmt.Printf("first centre: (%.1f, %.4f)\n", geo.Center(0).X, geo.Center(0).Z)

	// Output:
	// cells: 8 x 3
	// depth: 11.025 m
	// first centre: (2.5, 1.8375)
}
