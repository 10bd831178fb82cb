// SPDX-License-Identifier: MIT

// Package grid discretizes the 2D cross-section below a survey line into a
// rectangular mesh of cells.
//
// The horizontal extent covers every electrode; the depth extent follows the
// deepest pseudo-depth in the dataset, padded by Options.DepthPadding. Cells
// are one unit electrode spacing wide and deep, capped at
// Options.MaxColumns × Options.MaxLayers.
//
// Cells are addressed row-major by depth: index = layer*Nx + column, so
// layer 0 is the surface row. Coordinates are metres along the profile (x)
// and metres below the surface (z, positive downward).
package grid
