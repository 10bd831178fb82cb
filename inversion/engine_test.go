// SPDX-License-Identifier: MIT
package inversion_test

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/geoinv/forward"
	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/inversion"
	"github.com/katalvlaran/geoinv/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic returns 20 dipole-dipole readings over a model given per cell
// by value(layer, col, centre).
func synthetic(t *testing.T, q survey.Quantity, value func(layer, col int, c grid.Point) float64) ([]survey.DataPoint, grid.Geometry) {
	t.Helper()
	points, err := survey.DipoleDipole(9, 5, 5)
	require.NoError(t, err)
	g, err := grid.Build(points, grid.DefaultOptions())
	require.NoError(t, err)

	geo := g.Geometry
	model := make([]float64, geo.Cells())
	for idx, c := range geo.Centers() {
		layer, col := geo.Coordinate(idx)
		model[idx] = value(layer, col, c)
	}
	data, err := forward.Synthesize(geo, points, model, q)
	require.NoError(t, err)

	return data, geo
}

// twoLayer is a 30 ohm·m layer over a 150 ohm·m basement.
func twoLayer(t *testing.T) []survey.DataPoint {
	data, _ := synthetic(t, survey.Resistivity, func(layer, _ int, _ grid.Point) float64 {
		if layer == 0 {
			return 30
		}
		return 150
	})

	return data
}

// scenarioParams sets only the five core controls; everything else keeps
// its zero value.
func scenarioParams() inversion.Parameters {
	return inversion.Parameters{
		MaxIterations:        20,
		ConvergenceThreshold: 0.001,
		DampingFactor:        0.01,
		SmoothingFactor:      0.1,
		RegularizationFactor: 0.1,
	}
}

// exhaustive never stops before MaxIterations unless the RMS stalls exactly.
func exhaustive(iterations int) inversion.Parameters {
	p := inversion.DefaultParameters()
	p.MaxIterations = iterations
	p.ConvergenceThreshold = 0

	return p
}

func TestInvert_TwoLayerScenario(t *testing.T) {
	res, err := inversion.Invert(context.Background(), twoLayer(t), scenarioParams())
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, inversion.StateConverged, res.State)
	assert.Less(t, res.Iterations, 20)
	assert.Len(t, res.Convergence, res.Iterations)
	assert.Equal(t, res.Convergence[len(res.Convergence)-1], res.FinalRMS)
	n := len(res.Convergence)
	require.GreaterOrEqual(t, n, 2)
	last := math.Abs(res.Convergence[n-1]-res.Convergence[n-2]) / res.Convergence[n-2]
	assert.LessOrEqual(t, last, 0.001)

	m := res.Model
	assert.Equal(t, 8, m.Nx)
	assert.Equal(t, 3, m.Nz)
	require.Len(t, m.Values, 24)
	require.Len(t, m.Coordinates, 24)

	shallow := m.LayerMean(0)
	var deep float64
	for layer := 1; layer < m.Nz; layer++ {
		deep += m.LayerMean(layer)
	}
	deep /= float64(m.Nz - 1)
	assert.Greater(t, deep, 1.2*shallow, "deep %.2f vs shallow %.2f", deep, shallow)

	q := res.Quality
	assert.Equal(t, res.FinalRMS, q.DataMisfit)
	assert.InDelta(t, 0.35*35, q.DepthOfInvestigation, 1e-12)
	assert.GreaterOrEqual(t, q.ModelRoughness, 0.0)
	assert.Greater(t, q.RMSError, 0.0)
	require.Len(t, res.Coverage, 24)
	var peak float64
	for _, c := range res.Coverage {
		assert.GreaterOrEqual(t, c, 0.0)
		peak = math.Max(peak, c)
	}
	assert.Equal(t, 1.0, peak)
	assert.Equal(t, 0.01, res.Damping)
	assert.Empty(t, res.Rejected)
}

func TestInvert_MonotonicMisfit(t *testing.T) {
	data, geo := synthetic(t, survey.Resistivity, func(int, int, grid.Point) float64 { return 100 })
	p := exhaustive(10)
	p.InitialModel = make([]float64, geo.Cells())
	for i := range p.InitialModel {
		p.InitialModel[i] = 50
	}

	res, err := inversion.Invert(context.Background(), data, p)
	require.NoError(t, err)
	require.NotEmpty(t, res.Convergence)
	for i := 1; i < len(res.Convergence); i++ {
		assert.LessOrEqual(t, res.Convergence[i], res.Convergence[i-1]+1e-9, "iteration %d", i+1)
	}
	assert.Less(t, res.FinalRMS, math.Ln2)
}

func TestInvert_RecoversSmoothModel(t *testing.T) {
	truth := func(_, _ int, c grid.Point) float64 { return math.Exp(math.Log(50) + 0.01*c.X + 0.05*c.Z) }
	data, geo := synthetic(t, survey.Resistivity, truth)

	p := exhaustive(40)
	p.DampingFactor = 1e-8
	p.RegularizationFactor = 0.1
	p.SmoothingFactor = 0.1

	res, err := inversion.Invert(context.Background(), data, p)
	require.NoError(t, err)
	for idx, c := range geo.Centers() {
		layer, col := geo.Coordinate(idx)
		assert.InEpsilon(t, truth(layer, col, c), res.Model.Values[idx], 0.01, "cell %d", idx)
	}
}

func TestInvert_SingleIteration(t *testing.T) {
	p := scenarioParams()
	p.MaxIterations = 1
	res, err := inversion.Invert(context.Background(), twoLayer(t), p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.Convergence, 1)
	if res.Converged {
		assert.Equal(t, inversion.StateConverged, res.State)
	} else {
		assert.Equal(t, inversion.StateMaxIterations, res.State)
	}
}

func TestInvert_Positivity(t *testing.T) {
	data := twoLayer(t)
	// Deterministic ±20 % noise.
	for i := range data {
		data[i].Value *= 1 + 0.2*math.Sin(float64(7*i+1))
	}
	for _, damping := range []float64{1e-6, 0.01, 10} {
		p := exhaustive(15)
		p.DampingFactor = damping
		res, err := inversion.Invert(context.Background(), data, p)
		require.NoError(t, err)
		for i, v := range res.Model.Values {
			assert.Greater(t, v, 0.0, "damping %g cell %d", damping, i)
		}
	}
}

func TestInvert_Constraints(t *testing.T) {
	p := exhaustive(10)
	p.Constraints = &inversion.Constraints{Min: 40, Max: 120}
	res, err := inversion.Invert(context.Background(), twoLayer(t), p)
	require.NoError(t, err)
	for _, v := range res.Model.Values {
		assert.GreaterOrEqual(t, v, 40-1e-9)
		assert.LessOrEqual(t, v, 120+1e-9)
	}
}

func TestInvert_Deterministic(t *testing.T) {
	data := twoLayer(t)
	a, err := inversion.Invert(context.Background(), data, scenarioParams())
	require.NoError(t, err)
	b, err := inversion.Invert(context.Background(), data, scenarioParams())
	require.NoError(t, err)

	assert.Equal(t, a.Model.Values, b.Model.Values)
	assert.Equal(t, a.Convergence, b.Convergence)
	assert.Equal(t, a.Quality, b.Quality)
}

func TestInvert_Chargeability(t *testing.T) {
	data, _ := synthetic(t, survey.Chargeability, func(layer, _ int, _ grid.Point) float64 {
		if layer == 0 {
			return 5
		}
		return 20
	})
	p := scenarioParams()
	p.Quantity = survey.Chargeability

	res, err := inversion.Invert(context.Background(), data, p)
	require.NoError(t, err)
	assert.Equal(t, survey.Chargeability, res.Quantity)
	assert.Len(t, res.Model.Values, 24)
	assert.False(t, math.IsNaN(res.Quality.RMSError))
	assert.Less(t, res.FinalRMS, res.Convergence[0]+1e-12)
}

func TestInvert_Errors(t *testing.T) {
	data := twoLayer(t)
	cases := []struct {
		name   string
		points []survey.DataPoint
		params func(p *inversion.Parameters)
		want   error
	}{
		{
			name:   "three readings",
			points: data[:3],
			want:   inversion.ErrInsufficientData,
		},
		{
			name:   "coincident electrodes",
			points: []survey.DataPoint{{Value: 10}, {Value: 10}, {Value: 10}, {Value: 10}},
			want:   inversion.ErrDegenerateGeometry,
		},
		{
			name:   "zero iterations",
			points: data,
			params: func(p *inversion.Parameters) { p.MaxIterations = 0 },
			want:   inversion.ErrInvalidParameters,
		},
		{
			name:   "inverted constraints",
			points: data,
			params: func(p *inversion.Parameters) { p.Constraints = &inversion.Constraints{Min: 100, Max: 10} },
			want:   inversion.ErrInvalidParameters,
		},
		{
			name:   "unknown quantity",
			points: data,
			params: func(p *inversion.Parameters) { p.Quantity = "magnetics" },
			want:   inversion.ErrInvalidParameters,
		},
		{
			name:   "singular normal matrix",
			points: data,
			params: func(p *inversion.Parameters) {
				p.DampingFactor = 0
				p.RegularizationFactor = 0
				p.MaxDampingRetries = -1
			},
			want: inversion.ErrNumericalInstability,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := scenarioParams()
			if tc.params != nil {
				tc.params(&p)
			}
			res, err := inversion.Invert(context.Background(), tc.points, p)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, res)
		})
	}
}

func TestInvert_DampingEscalation(t *testing.T) {
	p := exhaustive(3)
	p.DampingFactor = 0
	p.RegularizationFactor = 0
	res, err := inversion.Invert(context.Background(), twoLayer(t), p)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Damping, 1e-6)
}

func TestInvert_DampingEscalationByDefault(t *testing.T) {
	p := scenarioParams()
	p.DampingFactor = 0
	p.RegularizationFactor = 0
	obs := &recorder{}
	res, err := inversion.New(inversion.WithObserver(obs)).Invert(context.Background(), twoLayer(t), p)
	require.NoError(t, err)
	assert.InDelta(t, 1e-6, res.Damping, 1e-18)
	require.Len(t, obs.summary, 1)
	assert.Equal(t, 1, obs.summary[0].Escalations)
}

func TestInvert_RejectsInvalidReadings(t *testing.T) {
	data := twoLayer(t)
	data[3].Value = math.NaN()
	data[7].Value = -5

	res, err := inversion.Invert(context.Background(), data, scenarioParams())
	require.NoError(t, err)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, 3, res.Rejected[0].Index)
	assert.Equal(t, 7, res.Rejected[1].Index)
}

func TestInvert_InitialModelMismatchIgnored(t *testing.T) {
	p := scenarioParams()
	p.InitialModel = []float64{10, 20, 30}
	res, err := inversion.Invert(context.Background(), twoLayer(t), p)
	require.NoError(t, err)
	assert.Len(t, res.Model.Values, 24)
}

type recorder struct {
	mu       sync.Mutex
	progress []inversion.Progress
	summary  []inversion.Summary
	onIter   func(p inversion.Progress)
}

func (r *recorder) IterationDone(p inversion.Progress) {
	r.mu.Lock()
	r.progress = append(r.progress, p)
	r.mu.Unlock()
	if r.onIter != nil {
		r.onIter(p)
	}
}

func (r *recorder) RunFinished(s inversion.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = append(r.summary, s)
}

func TestInvert_CancelAfterSecondIteration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	obs := &recorder{onIter: func(p inversion.Progress) {
		if p.Iteration == 2 {
			cancel()
		}
	}}
	e := inversion.New(inversion.WithObserver(obs))

	res, err := e.Invert(ctx, twoLayer(t), exhaustive(20))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Iterations)
	assert.False(t, res.Converged)
	assert.Equal(t, inversion.StateCancelled, res.State)
	assert.Len(t, res.Convergence, 2)

	// The best model of the run is returned.
	best := math.Min(res.Convergence[0], res.Convergence[1])
	assert.InDelta(t, best, res.FinalRMS, 1e-12)

	require.Len(t, obs.summary, 1)
	assert.Equal(t, inversion.StateCancelled, obs.summary[0].State)
	assert.NoError(t, obs.summary[0].Err)
}

func TestInvert_CancelSignalBeforeStart(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	res, err := inversion.Invert(context.Background(), twoLayer(t), scenarioParams(), inversion.WithCancelSignal(stop))
	require.NoError(t, err)
	assert.Zero(t, res.Iterations)
	assert.Empty(t, res.Convergence)
	assert.Equal(t, inversion.StateCancelled, res.State)
	// Starting model: homogeneous.
	for _, v := range res.Model.Values {
		assert.InDelta(t, res.Model.Values[0], v, 1e-12)
	}
}

func TestInvert_Progress(t *testing.T) {
	ch := make(chan inversion.Progress, 64)
	res, err := inversion.Invert(context.Background(), twoLayer(t), scenarioParams(), inversion.WithProgress(ch))
	require.NoError(t, err)
	require.Len(t, ch, res.Iterations)
	for i := 1; i <= res.Iterations; i++ {
		p := <-ch
		assert.Equal(t, i, p.Iteration)
		assert.Equal(t, res.Convergence[i-1], p.RMS)
	}

	// Nobody reads an unbuffered channel: the run must not block.
	blocked := make(chan inversion.Progress)
	_, err = inversion.Invert(context.Background(), twoLayer(t), scenarioParams(), inversion.WithProgress(blocked))
	require.NoError(t, err)
}

func TestInvert_ObserverOnFailure(t *testing.T) {
	obs := &recorder{}
	e := inversion.New(inversion.WithObserver(obs))
	_, err := e.Invert(context.Background(), twoLayer(t)[:2], scenarioParams())
	require.Error(t, err)
	require.Len(t, obs.summary, 1)
	assert.Equal(t, inversion.StateFailed, obs.summary[0].State)
	assert.ErrorIs(t, obs.summary[0].Err, inversion.ErrInsufficientData)
}

func TestRunBatch(t *testing.T) {
	data := twoLayer(t)
	jobs := []inversion.Job{
		{Name: "a", Points: data, Params: scenarioParams()},
		{Name: "short", Points: data[:2], Params: scenarioParams()},
		{Name: "c", Points: data, Params: exhaustive(3)},
	}
	out := inversion.New().RunBatch(context.Background(), jobs, 2)
	require.Len(t, out, 3)

	assert.Equal(t, "a", out[0].Name)
	require.NoError(t, out[0].Err)
	assert.NotNil(t, out[0].Result)

	assert.Equal(t, "short", out[1].Name)
	assert.ErrorIs(t, out[1].Err, inversion.ErrInsufficientData)
	assert.Nil(t, out[1].Result)

	require.NoError(t, out[2].Err)
	assert.Equal(t, 3, out[2].Result.Iterations)
}

func TestState_Text(t *testing.T) {
	for s := inversion.StateInit; s <= inversion.StateFailed; s++ {
		b, err := json.Marshal(s)
		require.NoError(t, err)
		var back inversion.State
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, s, back)
	}
	assert.True(t, inversion.StateCancelled.Terminal())
	assert.False(t, inversion.StateIterating.Terminal())
	var s inversion.State
	assert.Error(t, s.UnmarshalText([]byte("DONE")))
}
