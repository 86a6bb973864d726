// Package protocol defines the JSON wire types for the gaze streaming
// channel and the calibration control surface. This package is shared
// between the server and Go clients such as cmd/watch and cmd/calibrate.
package protocol

import (
	"math"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// GazeMessage is the flat per-sample message sent to every stream
// subscriber. Undefined numeric values are encoded as JSON null.
type GazeMessage struct {
	DeviceTimeStamp int64    `json:"deviceTimeStamp"`
	SystemTimestamp int64    `json:"systemTimestamp"`
	Normalized      bool     `json:"normalized"`
	ScreenX         *float64 `json:"screenX"`
	ScreenY         *float64 `json:"screenY"`
	LeftEye         EyeData  `json:"leftEye"`
	RightEye        EyeData  `json:"rightEye"`
}

// EyeData is one eye's slice of a GazeMessage. Position fields are present
// only when the eye's head-space position is valid; pupil size only when
// the pupil reading is valid.
type EyeData struct {
	ScreenX   *float64 `json:"screenX"`
	ScreenY   *float64 `json:"screenY"`
	PositionX *float64 `json:"positionX"`
	PositionY *float64 `json:"positionY"`
	PositionZ *float64 `json:"positionZ"`
	PupilSize *float64 `json:"pupilSize"`
}

// number converts a float to its nullable JSON form: NaN becomes nil.
func number(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// NewGazeMessage builds the outbound message for one processed event.
func NewGazeMessage(ev gaze.Event) GazeMessage {
	return GazeMessage{
		DeviceTimeStamp: ev.DeviceTimestamp,
		SystemTimestamp: ev.SystemTimestamp,
		Normalized:      true,
		ScreenX:         number(ev.Gaze.X),
		ScreenY:         number(ev.Gaze.Y),
		LeftEye:         newEyeData(ev.LeftEye, ev.LeftPoint, ev.LeftEyePosition),
		RightEye:        newEyeData(ev.RightEye, ev.RightPoint, ev.RightEyePosition),
	}
}

func newEyeData(eye gaze.EyeSample, point gaze.Point, pos gaze.EyePosition) EyeData {
	d := EyeData{
		ScreenX: number(point.X),
		ScreenY: number(point.Y),
	}
	if pos.IsValid() {
		d.PositionX = number(pos.X)
		d.PositionY = number(pos.Y)
		d.PositionZ = number(pos.Z)
	}
	if eye.IsPupilValid() {
		d.PupilSize = number(eye.PupilDiameter)
	}
	return d
}

// =============================================================================
// Calibration control surface
// =============================================================================

// CollectRequest is the body of POST /calibration:collect.
type CollectRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StatusResponse is the generic ok/failed calibration reply.
type StatusResponse struct {
	Message string `json:"message"`
}

// ResultResponse is the reply to POST /calibration:result.
// Recalibrate lists [x, y] targets to collect again and is present only
// on failure.
type ResultResponse struct {
	Message     string       `json:"message"`
	Recalibrate [][2]float64 `json:"recalibrate,omitempty"`
}

// Reply message values.
const (
	MessageOK     = "ok"
	MessageFailed = "failed"
)

// ErrNoTracker is the error detail returned when no device is attached.
const ErrNoTracker = "CONNECT EYETRACKER FIRST"
