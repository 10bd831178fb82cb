// SPDX-License-Identifier: MIT

package inversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/geoinv/survey"
)

const tracerName = "github.com/katalvlaran/geoinv/inversion"

// Engine runs inversions. It is safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
	validate *validator.Validate
}

// New returns an Engine configured by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Invert runs one inversion with a default Engine.
func Invert(ctx context.Context, points []survey.DataPoint, params Parameters, opts ...RunOption) (*Result, error) {
	return New().Invert(ctx, points, params, opts...)
}

// Invert reconstructs a cell model from points.
//
// Non-convergence and cancellation are not errors: the Result carries
// Converged=false and its State. Errors are returned only from INIT or a
// failed solve, with no partial result.
//
// Errors:
//   - ErrInvalidParameters, ErrInsufficientData, ErrDegenerateGeometry,
//     ErrNumericalInstability (wrapped with context).
func (e *Engine) Invert(ctx context.Context, points []survey.DataPoint, params Parameters, opts ...RunOption) (*Result, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, span := e.tracer.Start(ctx, "inversion.Invert",
		trace.WithAttributes(
			attribute.Int("inversion.points", len(points)),
			attribute.Int("inversion.max_iterations", params.MaxIterations),
			attribute.String("inversion.quantity", string(params.Quantity.Normalize())),
		),
	)
	defer span.End()

	r := &run{
		engine: e,
		cfg:    cfg,
		span:   span,
		start:  time.Now(),
		state:  StateInit,
	}
	if err := r.init(points, params); err != nil {
		return nil, r.fail(err)
	}
	if err := r.iterate(ctx); err != nil {
		return nil, r.fail(err)
	}
	res, err := r.result()
	if err != nil {
		return nil, r.fail(err)
	}
	r.finish(res)

	return res, nil
}

// fail moves the run to FAILED and reports it.
func (r *run) fail(err error) error {
	r.state = StateFailed
	err = fmt.Errorf("Invert: %w", err)

	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, err.Error())
	level := slog.LevelError
	if errors.Is(err, ErrInvalidParameters) || errors.Is(err, ErrInsufficientData) {
		level = slog.LevelWarn
	}
	r.engine.logger.Log(context.Background(), level, "inversion failed",
		"state", r.state, "iterations", r.iterations, "error", err)
	if obs := r.engine.observer; obs != nil {
		obs.RunFinished(Summary{
			State:       r.state,
			Iterations:  r.iterations,
			Runtime:     time.Since(r.start),
			Escalations: r.escalations(),
			Rejected:    len(r.rejected),
			Err:         err,
		})
	}

	return err
}

// finish reports a successful terminal state.
func (r *run) finish(res *Result) {
	r.span.SetAttributes(
		attribute.String("inversion.state", res.State.String()),
		attribute.Int("inversion.iterations", res.Iterations),
		attribute.Float64("inversion.final_rms", res.FinalRMS),
	)
	r.span.SetStatus(codes.Ok, "")
	r.engine.logger.Info("inversion finished",
		"state", res.State,
		"iterations", res.Iterations,
		"rms", res.FinalRMS,
		"rms_error_pct", res.Quality.RMSError,
		"runtime", res.Runtime,
	)
	if obs := r.engine.observer; obs != nil {
		obs.RunFinished(Summary{
			State:       res.State,
			Iterations:  res.Iterations,
			FinalRMS:    res.FinalRMS,
			Runtime:     res.Runtime,
			Escalations: r.escalations(),
			Rejected:    len(res.Rejected),
		})
	}
}
