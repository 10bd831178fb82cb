// SPDX-License-Identifier: MIT

package quality

import "math"

// zeroRMS is the previous-RMS magnitude below which the relative change
// falls back to the absolute change.
const zeroRMS = 1e-15

// Rule is the stopping rule of a run.
//
// Threshold bounds the relative RMS change |RMS(i) − RMS(i−1)| / RMS(i−1).
// TargetMisfit, when positive, also stops the run once RMS/Scale reaches it.
// A zero Scale means 1.
type Rule struct {
	Threshold    float64
	TargetMisfit float64
	Scale        float64
}

// Monitor tracks the RMS history of one run. Not safe for concurrent use.
type Monitor struct {
	rule    Rule
	initial float64
	history []float64
}

// NewMonitor starts a history at RMS(0), the misfit of the starting model.
func NewMonitor(initial float64, rule Rule) *Monitor {
	if rule.Scale == 0 {
		rule.Scale = 1
	}

	return &Monitor{rule: rule, initial: initial}
}

// Observe records RMS(i) and returns the relative change to RMS(i−1) and
// whether the stopping rule is satisfied.
func (m *Monitor) Observe(rms float64) (delta float64, converged bool) {
	prev := m.Last()
	m.history = append(m.history, rms)

	delta = RelativeChange(prev, rms)
	if delta <= m.rule.Threshold {
		return delta, true
	}
	if m.rule.TargetMisfit > 0 && rms/m.rule.Scale <= m.rule.TargetMisfit {
		return delta, true
	}

	return delta, false
}

// Last returns the latest RMS, or RMS(0) before the first observation.
func (m *Monitor) Last() float64 {
	if len(m.history) == 0 {
		return m.initial
	}

	return m.history[len(m.history)-1]
}

// Initial returns RMS(0).
func (m *Monitor) Initial() float64 { return m.initial }

// History returns a copy of RMS(1..i).
func (m *Monitor) History() []float64 {
	return append([]float64(nil), m.history...)
}

// RelativeChange returns |cur − prev| / prev, or |cur − prev| when prev is
// numerically zero.
func RelativeChange(prev, cur float64) float64 {
	diff := math.Abs(cur - prev)
	if math.Abs(prev) < zeroRMS {
		return diff
	}

	return diff / math.Abs(prev)
}
