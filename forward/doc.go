// SPDX-License-Identifier: MIT

// Package forward predicts apparent measurements from a cell model.
//
// The operator is a geometry-weighted approximation of current flow, not a
// finite-element solution. For a reading with midpoint x_mid, array length L
// and pseudo-depth z_p, the weight of a cell with centre (x_c, z_c) is
//
//	w = exp(-½((x_c − x_mid)/σx)²) · exp(−z_c/z_p),   σx = ½·max(½L, dx)
//
// inside the footprint |x_c − x_mid| ≤ ½L + ½dx with the cell top no deeper
// than 2·z_p, and zero elsewhere. Each row is normalized to sum to 1.
//
// Weights depend on geometry only, so the prediction is linear in parameter
// space: d = W·p, where p = ln ρ for resistivity (a weighted geometric mean)
// and p = m for chargeability.
package forward
