// SPDX-License-Identifier: MIT

// Package solver computes damped, smoothness-constrained model updates.
//
// Each iteration solves
//
//	(JᵗJ + λ·I + α·β·CᵗC) Δm = Jᵗr − α·β·CᵗC·m
//
// where λ is the Marquardt damping, α the regularization factor, β the
// smoothing factor and C the roughness operator of the mesh. The last term
// makes the penalty act on the model itself, so the iteration settles on
// the smoothest model that explains the data; Config.SmoothUpdate drops it
// and penalizes only the roughness of Δm.
//
// JᵗJ + α·β·CᵗC is assembled once. The damped matrix is factored with
// Cholesky and the factor is reused until Relax lowers λ, which it does by
// a fixed ratio per iteration down to a floor.
//
// When factorization fails the damping grows tenfold and the factorization
// is retried a bounded number of times before ErrNumericalInstability.
package solver
