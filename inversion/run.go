// SPDX-License-Identifier: MIT

package inversion

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/geoinv/forward"
	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/matrix"
	"github.com/katalvlaran/geoinv/quality"
	"github.com/katalvlaran/geoinv/sensitivity"
	"github.com/katalvlaran/geoinv/solver"
	"github.com/katalvlaran/geoinv/survey"
)

// run is the state of one inversion. Models are held in parameter space
// and replaced, never mutated, on every update.
type run struct {
	engine *Engine
	cfg    runConfig
	span   trace.Span
	start  time.Time
	state  State

	params   Parameters
	mesh     *grid.Grid
	op       *forward.Operator
	jac      *sensitivity.Jacobian
	rough    *matrix.Dense
	slv      *solver.Solver
	bounds   solver.Bounds
	observed []float64
	values   []float64
	rejected []survey.Rejection
	monitor  *quality.Monitor

	model      []float64
	residual   []float64
	best       []float64
	bestRMS    float64
	iterations int
}

// init performs INIT: validation, screening, mesh, operators, starting model.
func (r *run) init(points []survey.DataPoint, params Parameters) error {
	log := r.engine.logger
	params = params.withDefaults()
	if err := r.engine.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	bounds, err := params.bounds()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	r.params, r.bounds = params, bounds
	q := params.Quantity

	kept, origin, rejected := survey.Screen(points, q)
	r.rejected = rejected
	mesh, err := grid.Build(kept, params.Grid)
	if err != nil {
		r.logRejected()
		return err
	}
	for _, rej := range mesh.Rejected {
		r.rejected = append(r.rejected, survey.Rejection{Index: origin[rej.Index], Reason: rej.Reason})
	}
	sort.Slice(r.rejected, func(i, j int) bool { return r.rejected[i].Index < r.rejected[j].Index })
	r.logRejected()
	r.mesh = mesh

	if r.op, err = forward.New(mesh.Geometry, mesh.Points); err != nil {
		return err
	}
	if r.jac, err = sensitivity.Build(r.op); err != nil {
		return err
	}
	if r.rough, err = solver.Roughness(mesh.Geometry); err != nil {
		return err
	}
	if r.slv, err = solver.New(r.jac, r.rough, params.solverConfig()); err != nil {
		return err
	}
	if n := r.slv.Escalations(); n > 0 {
		log.Warn("damping escalated", "escalations", n, "damping", r.slv.Damping())
	}

	values := make([]float64, len(mesh.Points))
	for i, p := range mesh.Points {
		values[i] = p.Value
	}
	r.values = values
	if r.observed, err = forward.ToParams(q, values); err != nil {
		return err
	}
	r.model = r.startingModel()
	if r.residual, err = r.residualOf(r.model); err != nil {
		return err
	}
	rms0 := quality.RMS(r.residual)
	r.monitor = quality.NewMonitor(rms0, quality.Rule{
		Threshold:    params.ConvergenceThreshold,
		TargetMisfit: params.TargetMisfit,
		Scale:        quality.MisfitScale(q, values),
	})
	r.best, r.bestRMS = r.model, rms0

	log.Debug("inversion initialised",
		"readings", len(mesh.Points),
		"rejected", len(r.rejected),
		"nx", mesh.Geometry.Nx,
		"nz", mesh.Geometry.Nz,
		"rms0", rms0,
	)
	r.span.AddEvent("initialised", trace.WithAttributes(
		attribute.Int("grid.nx", mesh.Geometry.Nx),
		attribute.Int("grid.nz", mesh.Geometry.Nz),
		attribute.Int("inversion.rejected", len(r.rejected)),
	))

	return nil
}

func (r *run) logRejected() {
	for _, rej := range r.rejected {
		r.engine.logger.Warn("reading rejected", "index", rej.Index, "reason", rej.Reason)
	}
}

// startingModel returns InitialModel when it fits the mesh and holds only
// valid values, else a homogeneous model at the mean observed parameter
// (the geometric mean for resistivity). Both are clipped to the bounds.
func (r *run) startingModel() []float64 {
	q := r.params.Quantity
	cells := r.mesh.Geometry.Cells()
	m := make([]float64, cells)

	if init := r.params.InitialModel; len(init) > 0 {
		p, err := forward.ToParams(q, init)
		switch {
		case len(init) != cells:
			r.engine.logger.Warn("initial model ignored", "reason", "size mismatch", "values", len(init), "cells", cells)
		case err != nil || !allFinite(p):
			r.engine.logger.Warn("initial model ignored", "reason", "invalid values")
		default:
			for i, v := range p {
				m[i] = r.bounds.Clip(v)
			}
			return m
		}
	}

	var mean float64
	for _, v := range r.observed {
		mean += v
	}
	mean = r.bounds.Clip(mean / float64(len(r.observed)))
	for i := range m {
		m[i] = mean
	}

	return m
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

func (r *run) residualOf(model []float64) ([]float64, error) {
	pred, err := r.op.Predict(model)
	if err != nil {
		return nil, err
	}

	return quality.Residuals(r.observed, pred)
}

// iterate runs ITERATING until a terminal state.
func (r *run) iterate(ctx context.Context) error {
	r.state = StateIterating
	for {
		if r.cancelled(ctx) {
			r.state = StateCancelled
			r.engine.logger.Info("inversion cancelled", "iterations", r.iterations)
			return nil
		}

		delta, err := r.slv.Step(r.residual, r.model)
		if err != nil {
			return err
		}
		next, err := solver.Apply(r.model, delta, r.bounds)
		if err != nil {
			return err
		}
		residual, err := r.residualOf(next)
		if err != nil {
			return err
		}
		r.model, r.residual = next, residual
		r.iterations++

		rms := quality.RMS(residual)
		change, converged := r.monitor.Observe(rms)
		if rms < r.bestRMS {
			r.best, r.bestRMS = next, rms
		}
		r.report(Progress{Iteration: r.iterations, RMS: rms, Delta: change})

		switch {
		case converged:
			r.state = StateConverged
			return nil
		case r.iterations >= r.params.MaxIterations:
			r.state = StateMaxIterations
			return nil
		}

		relaxed, err := r.slv.Relax()
		if err != nil {
			return err
		}
		if relaxed {
			r.engine.logger.Debug("damping relaxed", "iteration", r.iterations, "damping", r.slv.Damping())
		}
	}
}

// cancelled polls the context and the cancel channel without blocking.
func (r *run) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	if r.cfg.cancel == nil {
		return false
	}
	select {
	case <-r.cfg.cancel:
		return true
	default:
		return false
	}
}

func (r *run) report(p Progress) {
	r.engine.logger.Debug("iteration", "iteration", p.Iteration, "rms", p.RMS, "delta", p.Delta)
	r.span.AddEvent("iteration", trace.WithAttributes(
		attribute.Int("iteration", p.Iteration),
		attribute.Float64("rms", p.RMS),
		attribute.Float64("delta", p.Delta),
	))
	if r.cfg.progress != nil {
		select {
		case r.cfg.progress <- p:
		default:
		}
	}
	if obs := r.engine.observer; obs != nil {
		obs.IterationDone(p)
	}
}

func (r *run) escalations() int {
	if r.slv == nil {
		return 0
	}

	return r.slv.Escalations()
}

// result assembles the Result of a terminal, non-failed run.
func (r *run) result() (*Result, error) {
	q := r.params.Quantity
	model := r.model
	if r.state == StateCancelled {
		model = r.best
	}
	pred, err := r.op.Predict(model)
	if err != nil {
		return nil, err
	}
	residual, err := quality.Residuals(r.observed, pred)
	if err != nil {
		return nil, err
	}
	roughness, err := solver.Norm(r.rough, model)
	if err != nil {
		return nil, err
	}

	values := forward.FromParams(q, model)
	if q.Logarithmic() {
		for i, v := range values {
			values[i] = math.Max(v, solver.Epsilon)
		}
	}
	rmsErr, err := quality.RMSError(q, r.values, forward.FromParams(q, pred))
	if err != nil {
		return nil, err
	}

	geo := r.mesh.Geometry
	finalRMS := quality.RMS(residual)

	return &Result{
		Model: ModelGrid{
			Nx:          geo.Nx,
			Nz:          geo.Nz,
			Values:      values,
			Coordinates: geo.Centers(),
			Geometry:    geo,
		},
		Quantity:    q,
		Iterations:  r.iterations,
		FinalRMS:    finalRMS,
		Convergence: r.monitor.History(),
		Converged:   r.state == StateConverged,
		State:       r.state,
		Quality: quality.Indicators{
			RMSError:             rmsErr,
			DataMisfit:           finalRMS,
			ModelRoughness:       roughness,
			DepthOfInvestigation: quality.DepthOfInvestigation(r.params.DOIFactor, geo.MaxSeparation),
		},
		Runtime:  time.Since(r.start),
		Rejected: r.rejected,
		Coverage: r.jac.RelativeCoverage(),
		Damping:  r.slv.StartDamping(),
	}, nil
}
