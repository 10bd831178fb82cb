// SPDX-License-Identifier: MIT
// Package solver - normal equations, factor cache and damping schedule.

package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/geoinv/matrix"
	"github.com/katalvlaran/geoinv/sensitivity"
)

// Damping policy.
const (
	// DampingGrowth multiplies the damping after a failed factorization.
	DampingGrowth = 10.0

	// DampingSeed replaces a zero damping on the first escalation.
	DampingSeed = 1e-6

	// DefaultMaxRetries bounds the number of escalations.
	DefaultMaxRetries = 5

	// DefaultDampingDecay shrinks the damping after every iteration.
	DefaultDampingDecay = 0.5

	// MinDampingRatio is the floor of the relaxed damping relative to the
	// damping the run started with.
	MinDampingRatio = 1e-3
)

// Config holds the solver weights for one run.
//
// Fields:
//   - Damping is λ, the Marquardt term added to the diagonal.
//   - Regularization (α) and Smoothing (β) scale CᵗC together.
//   - MaxRetries bounds the tenfold damping escalations.
//   - Decay in (0, 1) multiplies λ on every Relax down to
//     MinDampingRatio times the starting damping; 0 or 1 keeps λ fixed.
//   - SmoothUpdate penalizes the roughness of Δm alone. By default the
//     roughness of m+Δm is penalized, adding −α·β·CᵗC·m to the right-hand
//     side, so the iteration settles on the smoothest model that fits.
type Config struct {
	Damping        float64
	Regularization float64
	Smoothing      float64
	MaxRetries     int
	Decay          float64
	SmoothUpdate   bool
}

// Solver owns the factored normal matrix of one run. It is not safe for
// concurrent use.
type Solver struct {
	jac         *sensitivity.Jacobian
	c           matrix.Matrix
	ctc         *matrix.Dense
	base        matrix.Matrix
	eye         *matrix.Dense
	factor      matrix.Matrix
	cfg         Config
	weight      float64
	damping     float64
	start       float64
	floor       float64
	escalations int
}

// New assembles and factors JᵗJ + λI + αβCᵗC.
//
// Errors:
//   - ErrNilJacobian, matrix.ErrDimensionMismatch (C does not match the cells),
//     ErrNumericalInstability (wrapped with the final damping).
func New(jac *sensitivity.Jacobian, c matrix.Matrix, cfg Config) (*Solver, error) {
	if jac == nil {
		return nil, ErrNilJacobian
	}
	if err := matrix.ValidateNotNil(c); err != nil {
		return nil, fmt.Errorf("solver.New: %w", err)
	}
	_, cells := jac.JtJ.Shape()
	if c.Cols() != cells {
		return nil, fmt.Errorf("solver.New: roughness has %d columns for %d cells: %w",
			c.Cols(), cells, matrix.ErrDimensionMismatch)
	}
	ct, err := matrix.Transpose(c)
	if err != nil {
		return nil, fmt.Errorf("solver.New: %w", err)
	}
	ctc, err := matrix.Mul(ct, c)
	if err != nil {
		return nil, fmt.Errorf("solver.New: %w", err)
	}
	eye, err := matrix.Identity(cells)
	if err != nil {
		return nil, fmt.Errorf("solver.New: %w", err)
	}

	s := &Solver{
		jac:     jac,
		c:       c,
		ctc:     ctc.(*matrix.Dense),
		eye:     eye,
		cfg:     cfg,
		weight:  cfg.Regularization * cfg.Smoothing,
		damping: cfg.Damping,
	}
	if s.base, err = s.normal(); err != nil {
		return nil, fmt.Errorf("solver.New: %w", err)
	}
	if err = s.factorize(); err != nil {
		return nil, err
	}
	s.start = s.damping
	s.floor = s.damping * MinDampingRatio

	return s, nil
}

// normal returns JᵗJ + αβCᵗC, the undamped normal matrix.
func (s *Solver) normal() (matrix.Matrix, error) {
	if s.weight == 0 {
		return s.jac.JtJ.Clone(), nil
	}
	scaled, err := matrix.Scale(s.ctc, s.weight)
	if err != nil {
		return nil, err
	}

	return matrix.Add(s.jac.JtJ, scaled)
}

// factorAt factors the normal matrix damped by lambda.
func (s *Solver) factorAt(lambda float64) (matrix.Matrix, error) {
	damp, err := matrix.Scale(s.eye, lambda)
	if err != nil {
		return nil, err
	}
	a, err := matrix.Add(s.base, damp)
	if err != nil {
		return nil, err
	}

	return matrix.Cholesky(a)
}

// factorize factors the normal matrix for the current damping, escalating
// the damping on failure.
func (s *Solver) factorize() error {
	for {
		l, err := s.factorAt(s.damping)
		if err == nil {
			s.factor = l
			return nil
		}
		if !errors.Is(err, matrix.ErrNotPositiveDefinite) && !errors.Is(err, matrix.ErrSingular) {
			return fmt.Errorf("factorize: %w: %w", ErrNumericalInstability, err)
		}
		if s.escalations >= s.cfg.MaxRetries {
			return fmt.Errorf("factorize: damping %g after %d retries: %w", s.damping, s.escalations, ErrNumericalInstability)
		}
		s.escalate()
	}
}

func (s *Solver) escalate() {
	if s.damping <= 0 {
		s.damping = DampingSeed
	} else {
		s.damping *= DampingGrowth
	}
	s.escalations++
}

// Relax lowers the damping by the configured decay and refactors. When the
// lower damping cannot be factored the current factor is kept and the damping
// stays where it is for the rest of the run. It reports whether the damping
// changed.
//
// Errors:
//   - ErrNumericalInstability when the normal matrix is no longer finite.
func (s *Solver) Relax() (bool, error) {
	decay := s.cfg.Decay
	if decay <= 0 || decay >= 1 || s.damping <= s.floor {
		return false, nil
	}
	next := math.Max(s.damping*decay, s.floor)
	l, err := s.factorAt(next)
	switch {
	case err == nil:
		s.factor, s.damping = l, next
		return true, nil
	case errors.Is(err, matrix.ErrNotPositiveDefinite), errors.Is(err, matrix.ErrSingular):
		s.floor = s.damping
		return false, nil
	default:
		return false, fmt.Errorf("Relax: %w: %w", ErrNumericalInstability, err)
	}
}

// Damping returns the damping in effect.
func (s *Solver) Damping() float64 { return s.damping }

// StartDamping returns the damping the run started with, after any
// escalation and before any relaxation.
func (s *Solver) StartDamping() float64 { return s.start }

// Escalations returns how many times the damping was increased.
func (s *Solver) Escalations() int { return s.escalations }

// Step solves for the model update given residual r (parameter space) and
// the current model m.
//
// Implementation:
//   - Stage 1: rhs = Jᵗr; unless SmoothUpdate, rhs −= αβ·Cᵗ(C·m). C·m is
//     formed first so that a model in the null space of C leaves rhs
//     bit-identical to the update-only step.
//   - Stage 2: solve with the cached Cholesky factor.
//
// Errors:
//   - matrix.ErrDimensionMismatch for wrong vector lengths.
//   - ErrNumericalInstability when the update is not finite.
//
// Complexity: O(n·cells + cells²).
func (s *Solver) Step(r, m []float64) ([]float64, error) {
	rhs, err := s.jac.Gradient(r)
	if err != nil {
		return nil, fmt.Errorf("Step: %w", err)
	}
	if !s.cfg.SmoothUpdate && s.weight != 0 {
		cm, err := matrix.MatVec(s.c, m)
		if err != nil {
			return nil, fmt.Errorf("Step: %w", err)
		}
		ctcm, err := matrix.MatTVec(s.c, cm)
		if err != nil {
			return nil, fmt.Errorf("Step: %w", err)
		}
		for i := range rhs {
			rhs[i] -= s.weight * ctcm[i]
		}
	}

	delta, err := matrix.CholeskySolve(s.factor, rhs)
	if err != nil {
		return nil, fmt.Errorf("Step: %w: %w", ErrNumericalInstability, err)
	}
	for i, v := range delta {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("Step: update %d = %v: %w", i, v, ErrNumericalInstability)
		}
	}

	return delta, nil
}
