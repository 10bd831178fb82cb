// Package geoinv reconstructs 2D subsurface models from four-electrode
// resistivity (ERT) and induced-polarization (IP) surveys.
//
// What is in the box?
//
//	A deterministic, regularized Gauss–Newton inversion built from small,
//	separately testable packages:
//		• survey:      readings, array classification, pseudo-depth, CSV
//		• grid:        rectangular mesh derived from the electrode layout
//		• forward:     geometry-weighted forward operator W
//		• sensitivity: Jacobian J = W, JᵗJ and cell coverage
//		• solver:      damped, smoothness-constrained normal equations by Cholesky
//		• quality:     RMS, relative change, stopping rule, DOI
//		• inversion:   the iteration controller and batch runs
//		• matrix:      the dense linear algebra underneath
//
// Around the core sit metrics (Prometheus), store (SQLite or BadgerDB),
// config (YAML + env, slog) and the geoinv command.
//
// Quick example:
//
//	points, _ := survey.DipoleDipole(9, 5, 5)
//	...fill points[i].Value from the field...
//	res, err := inversion.Invert(ctx, points, inversion.DefaultParameters())
//
// A run moves INIT → ITERATING → CONVERGED | MAX_ITERATIONS | CANCELLED |
// FAILED. Slow convergence and cancellation still return a model; only bad
// input and numerical breakdown return an error.
//
//	go install github.com/katalvlaran/geoinv/cmd/geoinv@latest
package geoinv
