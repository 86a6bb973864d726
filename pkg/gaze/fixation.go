package gaze

import "math"

// Default I-VT parameters.
const (
	// DefaultVelocityThreshold separates fixations from saccades,
	// in normalized display units per second.
	DefaultVelocityThreshold = 2.0

	// fixationWindowCap bounds the sliding window used for the centroid.
	fixationWindowCap = 100
)

// FixationFilter classifies gaze motion into fixations and saccades using
// an instantaneous velocity threshold (I-VT) and maintains the running
// centroid of the current fixation over a bounded sliding window.
//
// The centroid is a true windowed mean: when the window is full, the oldest
// point's contribution is removed from the running sums before the new point
// is added, so it never drifts during long fixations. Updates are O(1).
//
// An instance owns its state exclusively; calls must be sequential with
// non-decreasing timestamps.
type FixationFilter struct {
	vThreshold float64

	primed bool
	tPrev  float64

	window [fixationWindowCap]Point
	head   int // index of the oldest entry
	length int
	sumX   float64
	sumY   float64

	fixation Point
}

// NewFixationFilter creates a fixation filter with the given velocity
// threshold in normalized units per second.
func NewFixationFilter(vThreshold float64) *FixationFilter {
	return &FixationFilter{vThreshold: vThreshold}
}

// Classify processes one filtered gaze point at time t (seconds) and returns
// the current fixation centroid.
//
// The first call after construction or Reset starts a fixation at (x, y).
// A point whose implied speed reaches the threshold is a saccade: the window
// is discarded and a new fixation candidate starts at exactly (x, y).
// Otherwise the point joins the window and the centroid is the mean of the
// (at most 100) retained points. A non-positive time delta returns the
// current centroid without any state update.
func (f *FixationFilter) Classify(t, x, y float64) (float64, float64) {
	if !f.primed {
		f.restart(t, x, y)
		return x, y
	}

	dt := t - f.tPrev
	if dt <= 0 {
		return f.fixation.X, f.fixation.Y
	}

	dx := x - f.fixation.X
	dy := y - f.fixation.Y
	speed := math.Sqrt(dx*dx+dy*dy) / dt

	if speed >= f.vThreshold {
		// Saccade: abandon the current fixation entirely.
		f.restart(t, x, y)
		return x, y
	}

	f.push(Point{X: x, Y: y})
	f.fixation = Point{
		X: f.sumX / float64(f.length),
		Y: f.sumY / float64(f.length),
	}
	f.tPrev = t

	return f.fixation.X, f.fixation.Y
}

// Fixation returns the current fixation centroid without updating state.
func (f *FixationFilter) Fixation() Point {
	return f.fixation
}

// Reset returns the filter to its unprimed state.
func (f *FixationFilter) Reset() {
	f.primed = false
	f.tPrev = 0
	f.head = 0
	f.length = 0
	f.sumX = 0
	f.sumY = 0
	f.fixation = Point{}
}

// restart begins a new fixation candidate at (x, y) with an empty window.
func (f *FixationFilter) restart(t, x, y float64) {
	f.primed = true
	f.tPrev = t
	f.head = 0
	f.length = 0
	f.sumX = 0
	f.sumY = 0
	f.fixation = Point{X: x, Y: y}
}

// push appends a point to the ring, evicting the oldest when full.
func (f *FixationFilter) push(p Point) {
	if f.length == fixationWindowCap {
		old := f.window[f.head]
		f.sumX -= old.X
		f.sumY -= old.Y
		f.window[f.head] = p
		f.head = (f.head + 1) % fixationWindowCap
	} else {
		f.window[(f.head+f.length)%fixationWindowCap] = p
		f.length++
	}
	f.sumX += p.X
	f.sumY += p.Y
}
