// SPDX-License-Identifier: MIT

package inversion

import (
	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/quality"
	"github.com/katalvlaran/geoinv/solver"
	"github.com/katalvlaran/geoinv/survey"
)

// Constraints bound the model values (ohm·m or ms).
type Constraints struct {
	Min float64 `json:"min" yaml:"min" validate:"ltfield=Max"`
	Max float64 `json:"max" yaml:"max"`
}

// Parameters configure one run and are never modified by it.
//
// Fields:
//   - MaxIterations caps the number of iterations (≥ 1).
//   - ConvergenceThreshold stops the run once the relative RMS change of an
//     iteration is at or below it.
//   - RegularizationFactor and SmoothingFactor together weight the roughness
//     penalty; DampingFactor is the starting Marquardt damping.
//   - DampingDecay multiplies the damping after every iteration, down to
//     solver.MinDampingRatio times its starting value; zero means
//     solver.DefaultDampingDecay and 1 keeps the damping fixed.
//   - TargetMisfit, when positive, also stops the run once the misfit reaches it
//     (log RMS for resistivity, RMS / mean |observed| for chargeability).
//   - SmoothUpdate penalizes the roughness of each update instead of the
//     roughness of the model. The misfit then keeps shrinking toward an exact
//     fit and the relative-change rule rarely stops noise-free runs.
//   - Quantity selects log (resistivity) or linear (chargeability) space;
//     empty means resistivity.
//   - DOIFactor scales the longest array into the depth of investigation;
//     zero means quality.DefaultDOIFactor.
//   - MaxDampingRetries bounds the tenfold damping escalations; zero means
//     solver.DefaultMaxRetries and a negative value disables escalation.
//   - InitialModel seeds the run when it has one valid value per cell.
//   - Constraints clip the model after every update.
//   - Grid tunes mesh construction; zero fields take grid defaults.
type Parameters struct {
	MaxIterations        int             `json:"max_iterations" yaml:"max_iterations" validate:"gte=1,lte=10000"`
	ConvergenceThreshold float64         `json:"convergence_threshold" yaml:"convergence_threshold" validate:"gte=0"`
	RegularizationFactor float64         `json:"regularization_factor" yaml:"regularization_factor" validate:"gte=0"`
	SmoothingFactor      float64         `json:"smoothing_factor" yaml:"smoothing_factor" validate:"gte=0"`
	DampingFactor        float64         `json:"damping_factor" yaml:"damping_factor" validate:"gte=0"`
	DampingDecay         float64         `json:"damping_decay" yaml:"damping_decay" validate:"gt=0,lte=1"`
	TargetMisfit         float64         `json:"target_misfit" yaml:"target_misfit" validate:"gte=0"`
	SmoothUpdate         bool            `json:"smooth_update" yaml:"smooth_update"`
	Quantity             survey.Quantity `json:"quantity" yaml:"quantity" validate:"omitempty,oneof=resistivity chargeability"`
	DOIFactor            float64         `json:"doi_factor" yaml:"doi_factor" validate:"gte=0.3,lte=0.4"`
	MaxDampingRetries    int             `json:"max_damping_retries" yaml:"max_damping_retries" validate:"gte=-1,lte=30"`
	InitialModel         []float64       `json:"initial_model,omitempty" yaml:"initial_model,omitempty"`
	Constraints          *Constraints    `json:"constraints,omitempty" yaml:"constraints,omitempty" validate:"omitempty"`
	Grid                 grid.Options    `json:"grid" yaml:"grid"`
}

// Defaults for DefaultParameters.
const (
	DefaultMaxIterations        = 20
	DefaultConvergenceThreshold = 0.001
	DefaultRegularizationFactor = 0.1
	DefaultSmoothingFactor      = 0.1
	DefaultDampingFactor        = 0.01
)

// DefaultParameters returns a resistivity configuration suited to noise-free
// or lightly noisy field data. It stops on the relative RMS change alone.
func DefaultParameters() Parameters {
	return Parameters{
		MaxIterations:        DefaultMaxIterations,
		ConvergenceThreshold: DefaultConvergenceThreshold,
		RegularizationFactor: DefaultRegularizationFactor,
		SmoothingFactor:      DefaultSmoothingFactor,
		DampingFactor:        DefaultDampingFactor,
		DampingDecay:         solver.DefaultDampingDecay,
		Quantity:             survey.Resistivity,
		DOIFactor:            quality.DefaultDOIFactor,
		MaxDampingRetries:    solver.DefaultMaxRetries,
		Grid:                 grid.DefaultOptions(),
	}
}

// withDefaults fills the zero fields that have a documented default.
func (p Parameters) withDefaults() Parameters {
	if p.DOIFactor == 0 {
		p.DOIFactor = quality.DefaultDOIFactor
	}
	if p.DampingDecay == 0 {
		p.DampingDecay = solver.DefaultDampingDecay
	}
	if p.MaxDampingRetries == 0 {
		p.MaxDampingRetries = solver.DefaultMaxRetries
	}
	p.Quantity = p.Quantity.Normalize()
	p.Grid = p.Grid.WithDefaults()

	return p
}

// solverConfig maps the parameters onto the solver.
func (p Parameters) solverConfig() solver.Config {
	return solver.Config{
		Damping:        p.DampingFactor,
		Regularization: p.RegularizationFactor,
		Smoothing:      p.SmoothingFactor,
		MaxRetries:     max(p.MaxDampingRetries, 0),
		Decay:          p.DampingDecay,
		SmoothUpdate:   p.SmoothUpdate,
	}
}

// bounds returns the parameter-space limits of the run.
func (p Parameters) bounds() (solver.Bounds, error) {
	if p.Constraints == nil {
		return solver.Unbounded(p.Quantity), nil
	}

	return solver.Clipped(p.Quantity, p.Constraints.Min, p.Constraints.Max)
}
