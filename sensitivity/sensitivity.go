// SPDX-License-Identifier: MIT

// Package sensitivity builds the Jacobian of the forward operator.
//
// Because the forward response is linear in parameter space, the Jacobian
// ∂d_i/∂p_j equals the normalized weight matrix. It is assembled once per
// run together with the Gram matrix JᵗJ, which the solver needs at every
// iteration and which therefore is not recomputed.
package sensitivity

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/geoinv/forward"
	"github.com/katalvlaran/geoinv/matrix"
)

// ErrNilOperator indicates Build was called without a forward operator.
var ErrNilOperator = errors.New("sensitivity: nil forward operator")

// Jacobian is the per-run sensitivity information.
//
// J has one row per reading and one column per cell. Coverage[j] is the
// cumulative sensitivity of cell j (column sum of J); cells with zero
// coverage are constrained by regularization alone.
type Jacobian struct {
	J        *matrix.Dense
	JtJ      *matrix.Dense
	Coverage []float64
}

// Build derives the Jacobian from op.
//
// Complexity: O(n·cells²) for JᵗJ.
func Build(op *forward.Operator) (*Jacobian, error) {
	if op == nil {
		return nil, ErrNilOperator
	}
	j := op.Weights()

	jt, err := matrix.Transpose(j)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.Build: %w", err)
	}
	jtj, err := matrix.Mul(jt, j)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.Build: %w", err)
	}
	_, cells := j.Shape()
	coverage := make([]float64, cells)
	j.Do(func(_, col int, v float64) bool {
		coverage[col] += v
		return true
	})

	return &Jacobian{J: j, JtJ: jtj.(*matrix.Dense), Coverage: coverage}, nil
}

// Gradient returns Jᵗr, the steepest-ascent direction of the data fit.
func (jac *Jacobian) Gradient(residual []float64) ([]float64, error) {
	g, err := matrix.MatTVec(jac.J, residual)
	if err != nil {
		return nil, fmt.Errorf("Gradient: %w", err)
	}

	return g, nil
}

// RelativeCoverage returns Coverage scaled so that its maximum is 1.
// An all-zero coverage is returned unchanged.
func (jac *Jacobian) RelativeCoverage() []float64 {
	out := make([]float64, len(jac.Coverage))
	var peak float64
	for _, c := range jac.Coverage {
		peak = max(peak, c)
	}
	if peak == 0 {
		return out
	}
	for i, c := range jac.Coverage {
		out[i] = c / peak
	}

	return out
}
