// SPDX-License-Identifier: MIT

package inversion

import (
	"fmt"
	"time"

	"github.com/katalvlaran/geoinv/grid"
	"github.com/katalvlaran/geoinv/quality"
	"github.com/katalvlaran/geoinv/survey"
)

// State is a run state.
type State int

const (
	StateInit State = iota
	StateIterating
	StateConverged
	StateMaxIterations
	StateCancelled
	StateFailed
)

var stateNames = [...]string{
	StateInit:          "INIT",
	StateIterating:     "ITERATING",
	StateConverged:     "CONVERGED",
	StateMaxIterations: "MAX_ITERATIONS",
	StateCancelled:     "CANCELLED",
	StateFailed:        "FAILED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool { return s >= StateConverged && int(s) < len(stateNames) }

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}

	return fmt.Errorf("inversion: unknown state %q", b)
}

// Progress is reported after every iteration. Delta is the relative RMS
// change of the iteration.
type Progress struct {
	Iteration int     `json:"iteration"`
	RMS       float64 `json:"rms"`
	Delta     float64 `json:"delta"`
}

// ModelGrid is the inverted model in value space (ohm·m or ms).
//
// Values and Coordinates are row-major by depth: index = layer*Nx + column.
type ModelGrid struct {
	Nx          int           `json:"nx"`
	Nz          int           `json:"nz"`
	Values      []float64     `json:"values"`
	Coordinates []grid.Point  `json:"coordinates"`
	Geometry    grid.Geometry `json:"geometry"`
}

// At returns the value of cell (layer, col).
func (m ModelGrid) At(layer, col int) (float64, bool) {
	if layer < 0 || layer >= m.Nz || col < 0 || col >= m.Nx {
		return 0, false
	}

	return m.Values[layer*m.Nx+col], true
}

// LayerMean returns the arithmetic mean of one layer.
func (m ModelGrid) LayerMean(layer int) float64 {
	if layer < 0 || layer >= m.Nz || m.Nx == 0 {
		return 0
	}
	var s float64
	for _, v := range m.Values[layer*m.Nx : (layer+1)*m.Nx] {
		s += v
	}

	return s / float64(m.Nx)
}

// Result is the outcome of a run that did not fail.
//
// FinalRMS is the solve-space RMS of the returned model and Convergence the
// RMS after each completed iteration. Rejected lists readings dropped during
// INIT, Coverage the cumulative sensitivity per cell relative to the best
// covered cell, and Damping the starting damping after any escalation.
type Result struct {
	Model       ModelGrid          `json:"model"`
	Quantity    survey.Quantity    `json:"quantity"`
	Iterations  int                `json:"iterations"`
	FinalRMS    float64            `json:"final_rms"`
	Convergence []float64          `json:"convergence"`
	Converged   bool               `json:"converged"`
	State       State              `json:"state"`
	Quality     quality.Indicators `json:"quality"`
	Runtime     time.Duration      `json:"runtime"`
	Rejected    []survey.Rejection `json:"rejected,omitempty"`
	Coverage    []float64          `json:"coverage"`
	Damping     float64            `json:"damping"`
}

// Summary describes a finished run, including failed ones, for observers.
type Summary struct {
	State       State
	Iterations  int
	FinalRMS    float64
	Runtime     time.Duration
	Escalations int
	Rejected    int
	Err         error
}

// Observer receives synchronous notifications from a run. Implementations
// shared by an Engine must be safe for concurrent use.
type Observer interface {
	IterationDone(p Progress)
	RunFinished(s Summary)
}
