package gaze

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestOneEuroFilter_FirstCallPrimes(t *testing.T) {
	tests := []struct {
		name string
		t0   float64
		x0   float64
	}{
		{"origin", 0.0, 0.0},
		{"mid screen", 1.5, 0.5},
		{"negative value", 10.0, -0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDefaultOneEuroFilter()
			got := f.Filter(tt.t0, tt.x0)
			if got != tt.x0 {
				t.Errorf("first call: got %v, want %v unchanged", got, tt.x0)
			}
		})
	}
}

func TestOneEuroFilter_ConvergesToConstantInput(t *testing.T) {
	f := NewDefaultOneEuroFilter()
	const target = 0.7

	f.Filter(0, 0.2) // prime away from the target

	var out float64
	for i := 1; i <= 500; i++ {
		out = f.Filter(float64(i)*0.01, target)
	}

	if math.Abs(out-target) > 1e-6 {
		t.Errorf("after 500 constant samples: got %v, want ~%v", out, target)
	}
}

func TestOneEuroFilter_OutputBetweenPreviousAndInput(t *testing.T) {
	f := NewDefaultOneEuroFilter()
	f.Filter(0, 0.3)
	out := f.Filter(0.01, 0.32)

	if out <= 0.3 || out >= 0.32 {
		t.Errorf("filtered output %v not strictly between 0.3 and 0.32", out)
	}
}

func TestOneEuroFilter_BetaReducesLag(t *testing.T) {
	// Same large jump through a beta=0 filter and a beta>0 filter:
	// the adaptive cutoff must make the beta>0 output track closer.
	still := NewOneEuroFilter(1.0, 0.0, 1.0)
	adaptive := NewOneEuroFilter(1.0, 5.0, 1.0)

	still.Filter(0, 0.0)
	adaptive.Filter(0, 0.0)

	const jump = 0.5
	outStill := still.Filter(0.01, jump)
	outAdaptive := adaptive.Filter(0.01, jump)

	if outAdaptive <= outStill {
		t.Errorf("beta>0 output %v should exceed beta=0 output %v after a jump",
			outAdaptive, outStill)
	}
	if outAdaptive >= jump {
		t.Errorf("beta>0 output %v should still lag the raw input %v", outAdaptive, jump)
	}
}

func TestOneEuroFilter_ZeroDeltaReturnsPrevious(t *testing.T) {
	f := NewDefaultOneEuroFilter()
	f.Filter(0, 0.3)
	want := f.Filter(0.01, 0.4)

	// Duplicate and regressing timestamps must not divide by zero
	// and must not move the output.
	if got := f.Filter(0.01, 0.9); got != want {
		t.Errorf("zero dt: got %v, want previous %v", got, want)
	}
	if got := f.Filter(0.005, 0.9); got != want {
		t.Errorf("negative dt: got %v, want previous %v", got, want)
	}

	// State is untouched: the next valid sample filters against `want`.
	next := f.Filter(0.02, 0.4)
	if next <= want || next >= 0.4 {
		t.Errorf("after degenerate input, output %v not between %v and 0.4", next, want)
	}
}

func TestOneEuroFilter_ResetReprimes(t *testing.T) {
	f := NewDefaultOneEuroFilter()
	f.Filter(0, 0.3)
	f.Filter(0.01, 0.6)

	f.Reset()

	if got := f.Filter(5.0, 0.9); got != 0.9 {
		t.Errorf("first call after Reset: got %v, want 0.9 unchanged", got)
	}
}

func TestSmoothingFactor(t *testing.T) {
	tests := []struct {
		name   string
		dt     float64
		cutoff float64
	}{
		{"1Hz 10ms", 0.01, 1.0},
		{"1Hz 1s", 1.0, 1.0},
		{"10Hz 10ms", 0.01, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := 2 * math.Pi * tt.cutoff * tt.dt
			want := r / (r + 1)
			if got := smoothingFactor(tt.dt, tt.cutoff); !floatEquals(got, want) {
				t.Errorf("smoothingFactor(%v, %v) = %v, want %v", tt.dt, tt.cutoff, got, want)
			}
			if got := smoothingFactor(tt.dt, tt.cutoff); got <= 0 || got >= 1 {
				t.Errorf("smoothing factor %v out of (0, 1)", got)
			}
		})
	}
}
