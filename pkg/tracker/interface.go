// Package tracker provides interfaces and implementations for eye-tracker
// device access: sample subscription, discovery, and calibration.
//
// This package follows the Interface Segregation Principle (ISP) by defining
// small, focused interfaces that can be composed as needed. Consumers should
// depend only on the interfaces they actually use.
package tracker

import (
	"errors"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// Device-state errors shared by implementations.
var (
	// ErrNoDevice means no tracker is attached.
	ErrNoDevice = errors.New("no eye tracker attached")

	// ErrInvalidOperation means the device rejected an operation for its
	// current mode, e.g. entering calibration while already calibrating.
	ErrInvalidOperation = errors.New("operation invalid in current device mode")

	// ErrNotCalibrating means a calibration-only operation was requested
	// outside calibration mode.
	ErrNotCalibrating = errors.New("not in calibration mode")

	// ErrCalibrationFailed means the device acknowledged the request but
	// reported failure, e.g. a collect on a point it could not capture.
	ErrCalibrationFailed = errors.New("calibration operation failed")
)

// GazeFunc receives raw binocular samples from the acquisition context.
// It is invoked synchronously per sample, in delivery order, and must not
// block on I/O.
type GazeFunc func(gaze.Sample)

// UserPositionFunc receives user position guide samples.
type UserPositionFunc func(gaze.UserPositionSample)

// SampleStream provides subscription to the device's sample callbacks.
// Use this minimal interface when only the data stream is needed.
type SampleStream interface {
	Subscribe(onGaze GazeFunc, onUserPosition UserPositionFunc) error
	Unsubscribe() error
}

// Calibrator provides the device's screen-based calibration primitives.
type Calibrator interface {
	EnterCalibrationMode() error
	LeaveCalibrationMode() error

	// CollectData collects calibration samples for the target at the
	// normalized display coordinates (x, y). Returns ErrCalibrationFailed
	// when the device could not capture the point.
	CollectData(x, y float64) error

	// DiscardData drops previously collected samples for a target.
	DiscardData(x, y float64) error

	// ComputeAndApply computes a calibration from the collected points
	// and applies it on success.
	ComputeAndApply() (CalibrationResult, error)
}

// Info provides device identity queries.
type Info interface {
	SerialNumber() string
	Model() string
}

// Tracker is the composite interface for a connected eye tracker.
type Tracker interface {
	SampleStream
	Calibrator
	Info
}

// CalibrationResult is the device's answer to ComputeAndApply.
type CalibrationResult struct {
	// Success reports whether the computed calibration was applied.
	Success bool

	// Points lists the display positions that contributed samples.
	Points [][2]float64
}

// Ensure Sim implements Tracker.
var _ Tracker = (*Sim)(nil)
