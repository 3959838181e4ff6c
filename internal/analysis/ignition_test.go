package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/reactord/internal/solver"
)

// sigmoidHistory samples T(t) = 1000 + 1500/(1+exp(-(t-tc)/w)), whose
// steepest rise is at tc.
func sigmoidHistory(tc, w float64, n int) ([]float64, []solver.State) {
	times := make([]float64, n)
	states := make([]solver.State, n)
	for i := 0; i < n; i++ {
		t := float64(i) * 2 * tc / float64(n-1)
		times[i] = t
		T := 1000.0 + 1500.0/(1.0+math.Exp(-(t-tc)/w))
		states[i] = solver.State{0, 0, T}
	}
	return times, states
}

func TestIgnitionDelay(t *testing.T) {
	tc := 5.0e-4
	times, states := sigmoidHistory(tc, 2.0e-5, 501)

	got, err := IgnitionDelay(times, states, 2)
	if err != nil {
		t.Fatalf("IgnitionDelay: %v", err)
	}
	if math.Abs(got-tc) > 2*(times[1]-times[0]) {
		t.Errorf("ignition at %g, want about %g", got, tc)
	}
}

func TestIgnitionDelayNeedsSamples(t *testing.T) {
	_, err := IgnitionDelay([]float64{0, 1}, []solver.State{{1}, {2}}, 0)
	if !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("expected ErrTooFewSamples, got %v", err)
	}
	_, err = IgnitionDelay([]float64{0, 1, 2}, []solver.State{{1}, {2}}, 0)
	if !errors.Is(err, ErrTooFewSamples) {
		t.Fatal("mismatched lengths should be rejected")
	}
}

func TestTimeToThreshold(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	states := []solver.State{{100}, {200}, {400}, {800}}

	// crossing 300 happens halfway between t=1 and t=2
	if got := TimeToThreshold(times, states, 0, 300); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("crossing at %g, want 1.5", got)
	}
	// an exact sample counts as a crossing
	if got := TimeToThreshold(times, states, 0, 200); got != 1.0 {
		t.Errorf("crossing at %g, want 1", got)
	}
	// never reached
	if got := TimeToThreshold(times, states, 0, 1e6); got >= 0 {
		t.Errorf("expected a negative time, got %g", got)
	}
}

func TestTimeToThresholdFalling(t *testing.T) {
	times := []float64{0, 1, 2}
	states := []solver.State{{10}, {6}, {2}}
	if got := TimeToThreshold(times, states, 0, 4); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("falling crossing at %g, want 1.5", got)
	}
}
