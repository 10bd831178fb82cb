// SPDX-License-Identifier: MIT

package inversion

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers a synchronous observer for every run.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithTracerProvider sets the OpenTelemetry provider. The default is the
// global provider, a no-op unless the application installed one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	progress chan<- Progress
	cancel   <-chan struct{}
}

// WithProgress sends a Progress after each iteration. Sends never block:
// values are dropped while the channel is full. The channel is not closed.
func WithProgress(ch chan<- Progress) RunOption {
	return func(c *runConfig) { c.progress = ch }
}

// WithCancelSignal cancels the run once ch is closed or receives a value,
// in addition to context cancellation.
func WithCancelSignal(ch <-chan struct{}) RunOption {
	return func(c *runConfig) { c.cancel = ch }
}
