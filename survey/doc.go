// SPDX-License-Identifier: MIT

// Package survey describes four-electrode field measurements along a 2D
// profile and the helpers the inversion engine needs around them.
//
// The survey package provides:
//
//   - DataPoint, one apparent resistivity or chargeability reading tied to
//     its A, B, M, N electrode positions (metres along the profile).
//   - Array classification (Wenner, Schlumberger, dipole-dipole, generic)
//     and the empirical pseudo-depth of each configuration.
//   - Screen, which drops unusable readings with a recorded reason.
//   - CSV reading and writing with the header x,y,value,a,b,m,n.
//   - Synthetic layouts (DipoleDipole, Wenner) for tests and forward modelling.
package survey
