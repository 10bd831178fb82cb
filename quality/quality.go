// SPDX-License-Identifier: MIT

package quality

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/geoinv/survey"
)

// Depth-of-investigation factor limits.
const (
	DefaultDOIFactor = 0.35
	MinDOIFactor     = 0.3
	MaxDOIFactor     = 0.4
)

// ErrLengthMismatch indicates observed and predicted vectors of different length.
var ErrLengthMismatch = errors.New("quality: observed and predicted lengths differ")

// Indicators are the scalar diagnostics of a finished run.
//
// RMSError is the percentage RMS of relative residuals in value space for
// resistivity, or the absolute RMS for chargeability. DataMisfit is the final
// RMS in solve space and ModelRoughness is ‖C·m‖ of the final parameters.
type Indicators struct {
	RMSError             float64 `json:"rms_error"`
	DataMisfit           float64 `json:"data_misfit"`
	ModelRoughness       float64 `json:"model_roughness"`
	DepthOfInvestigation float64 `json:"depth_of_investigation"`
}

// Residuals returns observed − predicted.
func Residuals(observed, predicted []float64) ([]float64, error) {
	if len(observed) != len(predicted) {
		return nil, fmt.Errorf("Residuals: %d vs %d: %w", len(observed), len(predicted), ErrLengthMismatch)
	}
	r := make([]float64, len(observed))
	for i := range r {
		r[i] = observed[i] - predicted[i]
	}

	return r, nil
}

// RMS returns the root mean square of r; zero for an empty slice.
func RMS(r []float64) float64 {
	if len(r) == 0 {
		return 0
	}
	var ss float64
	for _, v := range r {
		ss += v * v
	}

	return math.Sqrt(ss / float64(len(r)))
}

// RMSError returns the value-space error reported in Indicators.
func RMSError(q survey.Quantity, observed, predicted []float64) (float64, error) {
	if len(observed) != len(predicted) {
		return 0, fmt.Errorf("RMSError: %d vs %d: %w", len(observed), len(predicted), ErrLengthMismatch)
	}
	r := make([]float64, len(observed))
	for i := range r {
		r[i] = observed[i] - predicted[i]
		if q.Logarithmic() {
			r[i] /= observed[i]
		}
	}
	if q.Logarithmic() {
		return 100 * RMS(r), nil
	}

	return RMS(r), nil
}

// MisfitScale returns the divisor that turns a solve-space RMS into the
// misfit compared with a target: 1 for resistivity (log residuals are
// already relative), mean |observed| for chargeability.
func MisfitScale(q survey.Quantity, observed []float64) float64 {
	if q.Logarithmic() || len(observed) == 0 {
		return 1
	}
	var s float64
	for _, v := range observed {
		s += math.Abs(v)
	}
	if s == 0 {
		return 1
	}

	return s / float64(len(observed))
}

// DepthOfInvestigation returns factor × maxSeparation.
func DepthOfInvestigation(factor, maxSeparation float64) float64 {
	return factor * maxSeparation
}
