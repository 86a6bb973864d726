// Package gaze implements the real-time gaze signal-processing pipeline:
// adaptive jitter smoothing (One Euro), velocity-threshold fixation detection
// (I-VT), and the per-sample processor that ties them together.
//
// All coordinates are normalized display coordinates in [0,1]. A missing
// reading is represented as NaN; a Point or EyePosition is valid only when
// every component is a real number, and validity propagates all-or-nothing
// across component boundaries.
package gaze

import "math"

// Validity code used by eye-tracker hardware: exactly 1 means valid.
const Valid = 1

// Point is a normalized 2D gaze point on the display area.
// Either coordinate may be NaN, meaning no reading.
type Point struct {
	X float64
	Y float64
}

// IsValid reports whether both coordinates are real numbers.
func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// InvalidPoint returns the undefined point.
func InvalidPoint() Point {
	return Point{X: math.NaN(), Y: math.NaN()}
}

// EyePosition is a 3D position in the user coordinate space.
type EyePosition struct {
	X float64
	Y float64
	Z float64
}

// IsValid reports whether all three coordinates are real numbers.
func (p EyePosition) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z)
}

// InvalidEyePosition returns the undefined position.
func InvalidEyePosition() EyePosition {
	return EyePosition{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
}

// EyeSample is one eye's raw reading from the tracker.
// Validity flags use the hardware convention: 1 is valid, anything else is not.
type EyeSample struct {
	GazePointOnDisplay Point
	GazeOrigin         EyePosition
	PupilDiameter      float64
	GazeValidity       int
	PupilValidity      int
	OriginValidity     int
}

// IsGazeValid reports whether the display-area gaze point is valid.
func (e EyeSample) IsGazeValid() bool { return e.GazeValidity == Valid }

// IsPupilValid reports whether the pupil diameter is valid.
func (e EyeSample) IsPupilValid() bool { return e.PupilValidity == Valid }

// IsOriginValid reports whether the gaze origin is valid.
func (e EyeSample) IsOriginValid() bool { return e.OriginValidity == Valid }

// Sample is one raw binocular reading delivered by the device.
type Sample struct {
	DeviceTimestamp int64 // device clock, microseconds
	SystemTimestamp int64 // host clock, microseconds
	LeftEye         EyeSample
	RightEye        EyeSample
}

// UserPositionSample is one head-position reading from the device's
// user position guide, with independent per-side validity.
type UserPositionSample struct {
	Left          EyePosition
	LeftValidity  int
	Right         EyePosition
	RightValidity int
}

// IsLeftValid reports whether the left-side position is valid.
func (u UserPositionSample) IsLeftValid() bool { return u.LeftValidity == Valid }

// IsRightValid reports whether the right-side position is valid.
func (u UserPositionSample) IsRightValid() bool { return u.RightValidity == Valid }

// Event is the fully processed output for one raw sample.
// It is immutable once constructed and produced exactly once per Sample.
type Event struct {
	DeviceTimestamp int64
	SystemTimestamp int64
	LeftEye         EyeSample
	RightEye        EyeSample

	// Per-eye raw display points, always set regardless of filtering.
	LeftPoint  Point
	RightPoint Point

	// Binocular average after jitter filtering; invalid when either
	// averaged coordinate was undefined.
	Gaze Point

	// Current fixation centroid; invalid whenever Gaze is.
	Fixation Point

	// Latest known head-space eye positions.
	LeftEyePosition  EyePosition
	RightEyePosition EyePosition
}
