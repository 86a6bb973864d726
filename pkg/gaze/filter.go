package gaze

import "math"

// Default One Euro filter parameters.
const (
	DefaultMinCutoff = 1.0
	DefaultBeta      = 0.0
	DefaultDCutoff   = 1.0
)

// smoothingFactor computes the exponential smoothing factor for a cutoff
// frequency (Hz) and elapsed time (seconds).
func smoothingFactor(dt, cutoff float64) float64 {
	r := 2 * math.Pi * cutoff * dt
	return r / (r + 1)
}

// exponentialSmoothing blends the new value x against the previous one.
func exponentialSmoothing(a, x, xPrev float64) float64 {
	return a*x + (1-a)*xPrev
}

// OneEuroFilter is an adaptive low-pass filter for a single scalar axis.
// It removes jitter at low speeds while keeping lag low during fast motion
// by raising the cutoff frequency with the (smoothed) signal derivative.
//
// An instance owns its state exclusively; calls must be sequential with
// non-decreasing timestamps. Two axes need two instances because the
// adaptive cutoff depends on each axis's own derivative.
type OneEuroFilter struct {
	minCutoff float64
	beta      float64
	dCutoff   float64

	primed bool
	tPrev  float64
	xPrev  float64
	dxPrev float64
}

// NewOneEuroFilter creates a filter with explicit parameters.
// minCutoff is the baseline cutoff frequency in Hz, beta scales the cutoff
// with signal speed (0 disables adaptation), dCutoff smooths the derivative.
func NewOneEuroFilter(minCutoff, beta, dCutoff float64) *OneEuroFilter {
	return &OneEuroFilter{
		minCutoff: minCutoff,
		beta:      beta,
		dCutoff:   dCutoff,
	}
}

// NewDefaultOneEuroFilter creates a filter with the default parameters.
func NewDefaultOneEuroFilter() *OneEuroFilter {
	return NewOneEuroFilter(DefaultMinCutoff, DefaultBeta, DefaultDCutoff)
}

// Filter processes one sample at time t (seconds) and returns the filtered
// value. The first call after construction or Reset primes the filter and
// returns x unchanged. A non-positive time delta returns the previous
// filtered value without touching state, so a duplicated timestamp cannot
// divide by zero or corrupt the derivative estimate.
func (f *OneEuroFilter) Filter(t, x float64) float64 {
	if !f.primed {
		f.primed = true
		f.tPrev = t
		f.xPrev = x
		return x
	}

	dt := t - f.tPrev
	if dt <= 0 {
		return f.xPrev
	}

	// Smoothed derivative of the signal.
	aD := smoothingFactor(dt, f.dCutoff)
	dx := (x - f.xPrev) / dt
	dxHat := exponentialSmoothing(aD, dx, f.dxPrev)

	// Adaptive cutoff: faster motion, higher cutoff, less lag.
	cutoff := f.minCutoff + f.beta*math.Abs(dxHat)
	a := smoothingFactor(dt, cutoff)
	xHat := exponentialSmoothing(a, x, f.xPrev)

	f.tPrev = t
	f.xPrev = xHat
	f.dxPrev = dxHat

	return xHat
}

// Reset returns the filter to its unprimed state. The next Filter call
// primes it again.
func (f *OneEuroFilter) Reset() {
	f.primed = false
	f.tPrev = 0
	f.xPrev = 0
	f.dxPrev = 0
}
