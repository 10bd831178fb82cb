// SPDX-License-Identifier: MIT

// Package quality measures data fit, decides when an inversion has
// converged and reports the final diagnostics.
//
// Misfit is measured in the space of the solve: log space for resistivity,
// linear space for chargeability. Depth of investigation is an empirical
// fraction of the longest electrode array, a heuristic rather than a result
// of the forward model.
package quality
