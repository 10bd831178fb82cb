// SPDX-License-Identifier: MIT

package inversion

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/geoinv/survey"
)

// Job is one profile of a batch.
type Job struct {
	Name     string
	Points   []survey.DataPoint
	Params   Parameters
	Progress chan<- Progress
}

// BatchResult pairs a Job with its outcome. Exactly one of Result and Err
// is set.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// RunBatch inverts independent profiles concurrently, at most limit at a
// time (limit ≤ 0 means one per job). Results are in job order. A failed
// job never stops the others; cancelling ctx cancels every running job.
func (e *Engine) RunBatch(ctx context.Context, jobs []Job, limit int) []BatchResult {
	out := make([]BatchResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range jobs {
		job := jobs[i]
		g.Go(func() error {
			var opts []RunOption
			if job.Progress != nil {
				opts = append(opts, WithProgress(job.Progress))
			}
			res, err := e.Invert(gctx, job.Points, job.Params, opts...)
			out[i] = BatchResult{Name: job.Name, Result: res, Err: err}

			return nil
		})
	}
	_ = g.Wait()

	return out
}
