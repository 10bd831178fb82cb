// SPDX-License-Identifier: MIT

// Package inversion drives a 2D resistivity or chargeability inversion from
// field readings to a cell model.
//
// A run moves through the states
//
//	INIT → ITERATING → {CONVERGED | MAX_ITERATIONS | CANCELLED | FAILED}
//
// INIT validates the parameters, screens the readings, builds the mesh, the
// forward operator, the Jacobian, the roughness operator and the factored
// normal matrix, and seeds the starting model. Each iteration then runs
// Solve → Apply → Forward → Evaluate and reports a Progress value.
//
// Progress goes to an optional channel with a non-blocking send and to an
// optional synchronous Observer. Cancellation is cooperative: the context
// and an optional cancel channel are polled once before every iteration, so
// a returned model is always the outcome of complete solves. A cancelled run
// returns the lowest-misfit model seen so far without error.
//
// An Engine holds only immutable collaborators (logger, observer, tracer,
// validator); every run owns its own buffers, so one Engine may serve
// concurrent runs, as RunBatch does.
package inversion
