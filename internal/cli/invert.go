// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/geoinv/inversion"
	"github.com/katalvlaran/geoinv/metrics"
	"github.com/katalvlaran/geoinv/store"
	"github.com/katalvlaran/geoinv/survey"
)

type invertOptions struct {
	maxIterations int
	threshold     float64
	damping       float64
	decay         float64
	regular       float64
	smoothing     float64
	target        float64
	smoothUpdate  bool
	quantity      string
	doiFactor     float64
	min, max      float64
	name          string
	jsonOut       bool
	metricsOut    bool
	progress      bool
	workers       int
}

func newInvertCmd(a *app) *cobra.Command {
	o := &invertOptions{}
	cmd := &cobra.Command{
		Use:   "invert <csv>...",
		Short: "Invert one or more survey files",
		Long: `Invert each CSV file into a 2D model. Several files run concurrently.

Flags override the inversion section of the configuration file.

Examples:
  geoinv invert line1.csv
  geoinv invert line*.csv --max-iterations 40 --store sqlite:models.db
  geoinv invert ip.csv --quantity chargeability --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInvert(cmd, o, args)
		},
	}

	d := inversion.DefaultParameters()
	f := cmd.Flags()
	f.IntVarP(&o.maxIterations, "max-iterations", "n", d.MaxIterations, "iteration cap")
	f.Float64Var(&o.threshold, "threshold", d.ConvergenceThreshold, "relative RMS change that stops the run")
	f.Float64Var(&o.damping, "damping", d.DampingFactor, "starting Marquardt damping")
	f.Float64Var(&o.decay, "damping-decay", d.DampingDecay, "damping multiplier per iteration (1 keeps it fixed)")
	f.Float64Var(&o.regular, "regularization", d.RegularizationFactor, "regularization factor")
	f.Float64Var(&o.smoothing, "smoothing", d.SmoothingFactor, "smoothing factor")
	f.Float64Var(&o.target, "target-misfit", d.TargetMisfit, "misfit that stops the run (0 disables)")
	f.BoolVar(&o.smoothUpdate, "smooth-update", false, "penalize update roughness instead of model roughness")
	f.StringVarP(&o.quantity, "quantity", "q", string(d.Quantity), "resistivity or chargeability")
	f.Float64Var(&o.doiFactor, "doi-factor", d.DOIFactor, "depth of investigation factor (0.3-0.4)")
	f.Float64Var(&o.min, "min", 0, "lower model bound (with --max)")
	f.Float64Var(&o.max, "max", 0, "upper model bound (with --min)")
	f.StringVar(&o.name, "name", "", "name for a single stored result (default: file name)")
	f.BoolVar(&o.jsonOut, "json", false, "print results as JSON")
	f.BoolVar(&o.metricsOut, "metrics", false, "print run metrics in Prometheus text format")
	f.BoolVar(&o.progress, "progress", false, "print per-iteration progress to stderr")
	f.IntVarP(&o.workers, "workers", "w", 0, "concurrent runs (default from config)")

	return cmd
}

// params overlays the changed flags on the configured parameters.
func (o *invertOptions) params(cmd *cobra.Command, base inversion.Parameters) (inversion.Parameters, error) {
	p := base
	f := cmd.Flags()
	if f.Changed("max-iterations") {
		p.MaxIterations = o.maxIterations
	}
	if f.Changed("threshold") {
		p.ConvergenceThreshold = o.threshold
	}
	if f.Changed("damping") {
		p.DampingFactor = o.damping
	}
	if f.Changed("damping-decay") {
		p.DampingDecay = o.decay
	}
	if f.Changed("regularization") {
		p.RegularizationFactor = o.regular
	}
	if f.Changed("smoothing") {
		p.SmoothingFactor = o.smoothing
	}
	if f.Changed("target-misfit") {
		p.TargetMisfit = o.target
	}
	if f.Changed("smooth-update") {
		p.SmoothUpdate = o.smoothUpdate
	}
	if f.Changed("quantity") {
		q, err := survey.ParseQuantity(o.quantity)
		if err != nil {
			return p, err
		}
		p.Quantity = q
	}
	if f.Changed("doi-factor") {
		p.DOIFactor = o.doiFactor
	}
	if f.Changed("min") != f.Changed("max") {
		return p, errors.New("--min and --max must be given together")
	}
	if f.Changed("min") {
		p.Constraints = &inversion.Constraints{Min: o.min, Max: o.max}
	}

	return p, nil
}

func (a *app) runInvert(cmd *cobra.Command, o *invertOptions, files []string) error {
	params, err := o.params(cmd, a.cfg.Inversion)
	if err != nil {
		return err
	}

	jobs := make([]inversion.Job, len(files))
	for i, path := range files {
		points, err := readSurvey(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if o.name != "" && len(files) == 1 {
			name = o.name
		}
		jobs[i] = inversion.Job{Name: name, Points: points, Params: params}
	}

	reg := prometheus.NewRegistry()
	opts := []inversion.Option{
		inversion.WithLogger(a.logger),
		inversion.WithObserver(metrics.NewRecorder(reg)),
	}
	done := make(chan struct{})
	if o.progress {
		ch := make(chan inversion.Progress, 64)
		for i := range jobs {
			jobs[i].Progress = ch
		}
		go printProgress(cmd.ErrOrStderr(), ch, done)
	} else {
		close(done)
	}

	workers := o.workers
	if workers <= 0 {
		workers = a.cfg.Workers
	}
	results := inversion.New(opts...).RunBatch(cmd.Context(), jobs, workers)
	if o.progress {
		close(jobs[0].Progress)
	}
	<-done

	if err := a.persist(cmd, results); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonResults(results)); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
	} else {
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(out, "%s: %s\n\n", r.Name, defaultTheme.stateStyle(inversion.StateFailed).Render(r.Err.Error()))
				continue
			}
			renderResult(out, r.Name, r.Result)
			fmt.Fprintln(out)
		}
	}

	if o.metricsOut {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inversions failed", failed, len(results))
	}

	return nil
}

func readSurvey(path string) ([]survey.DataPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey: %w", err)
	}
	defer f.Close()

	points, err := survey.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return points, nil
}

func printProgress(w io.Writer, ch <-chan inversion.Progress, done chan<- struct{}) {
	defer close(done)
	hint := defaultTheme.hintStyle()
	for p := range ch {
		fmt.Fprintln(w, hint.Render(fmt.Sprintf("iteration %3d  rms %.6f  change %.4f", p.Iteration, p.RMS, p.Delta)))
	}
}

// persist saves every successful result when a store is configured.
func (a *app) persist(cmd *cobra.Command, results []inversion.BatchResult) error {
	s, err := a.openStore()
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		rec, err := store.NewRecord(r.Name, r.Result)
		if err != nil {
			return err
		}
		if err := s.Save(cmd.Context(), rec); err != nil {
			return fmt.Errorf("save %s: %w", r.Name, err)
		}
		a.logger.Info("model stored", "name", r.Name, "id", rec.ID)
	}

	return nil
}

type jsonResult struct {
	Name   string            `json:"name"`
	Result *inversion.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func jsonResults(results []inversion.BatchResult) []jsonResult {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{Name: r.Name, Result: r.Result}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}

	return out
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}
