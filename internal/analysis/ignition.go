package analysis

import (
	"errors"

	"github.com/san-kum/reactord/internal/solver"
)

var ErrTooFewSamples = errors.New("analysis: need at least three samples")

// IgnitionDelay finds the ignition time of a temperature history: the time
// of the steepest temperature rise. component selects the temperature slot
// in each state.
func IgnitionDelay(times []float64, states []solver.State, component int) (float64, error) {
	if len(times) < 3 || len(states) != len(times) {
		return 0, ErrTooFewSamples
	}
	best := 0.0
	bestT := times[0]
	for i := 1; i < len(times); i++ {
		dt := times[i] - times[i-1]
		if dt <= 0 {
			continue
		}
		slope := (states[i][component] - states[i-1][component]) / dt
		if slope > best {
			best = slope
			bestT = 0.5 * (times[i] + times[i-1])
		}
	}
	return bestT, nil
}

// TimeToThreshold returns the first time the component crosses the given
// value, linearly interpolated, or a negative time if it never does.
func TimeToThreshold(times []float64, states []solver.State, component int, threshold float64) float64 {
	for i := 1; i < len(times); i++ {
		a := states[i-1][component]
		b := states[i][component]
		if (a < threshold && b >= threshold) || (a > threshold && b <= threshold) {
			frac := (threshold - a) / (b - a)
			return times[i-1] + frac*(times[i]-times[i-1])
		}
	}
	return -1
}
