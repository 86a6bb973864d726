package protocol

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

func validEvent() gaze.Event {
	return gaze.Event{
		DeviceTimestamp: 123456,
		SystemTimestamp: 654321,
		LeftEye: gaze.EyeSample{
			PupilDiameter: 3.1,
			PupilValidity: gaze.Valid,
		},
		RightEye: gaze.EyeSample{
			PupilDiameter: math.NaN(),
			PupilValidity: 0,
		},
		LeftPoint:        gaze.Point{X: 0.2, Y: 0.4},
		RightPoint:       gaze.Point{X: 0.4, Y: 0.6},
		Gaze:             gaze.Point{X: 0.3, Y: 0.5},
		Fixation:         gaze.Point{X: 0.3, Y: 0.5},
		LeftEyePosition:  gaze.EyePosition{X: 0.7, Y: 0.5, Z: 0.6},
		RightEyePosition: gaze.InvalidEyePosition(),
	}
}

func TestNewGazeMessage(t *testing.T) {
	msg := NewGazeMessage(validEvent())

	if msg.DeviceTimeStamp != 123456 || msg.SystemTimestamp != 654321 {
		t.Errorf("timestamps = %d/%d, want 123456/654321",
			msg.DeviceTimeStamp, msg.SystemTimestamp)
	}
	if !msg.Normalized {
		t.Error("Normalized = false, want true")
	}
	if msg.ScreenX == nil || *msg.ScreenX != 0.3 {
		t.Errorf("ScreenX = %v, want 0.3", msg.ScreenX)
	}

	// Pupil size present only for the valid pupil.
	if msg.LeftEye.PupilSize == nil || *msg.LeftEye.PupilSize != 3.1 {
		t.Errorf("left pupil = %v, want 3.1", msg.LeftEye.PupilSize)
	}
	if msg.RightEye.PupilSize != nil {
		t.Errorf("right pupil = %v, want nil (invalid validity flag)", msg.RightEye.PupilSize)
	}

	// Position fields present only for the valid eye position.
	if msg.LeftEye.PositionX == nil || *msg.LeftEye.PositionX != 0.7 {
		t.Errorf("left position x = %v, want 0.7", msg.LeftEye.PositionX)
	}
	if msg.RightEye.PositionX != nil {
		t.Errorf("right position x = %v, want nil", msg.RightEye.PositionX)
	}
}

func TestGazeMessage_UndefinedEncodesAsNull(t *testing.T) {
	ev := validEvent()
	ev.Gaze = gaze.InvalidPoint()
	ev.Fixation = gaze.InvalidPoint()

	data, err := json.Marshal(NewGazeMessage(ev))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"screenX":null`) || !strings.Contains(s, `"screenY":null`) {
		t.Errorf("undefined gaze not encoded as null: %s", s)
	}
	// Per-eye raw points are independent of the averaged point.
	if !strings.Contains(s, `"leftEye":{"screenX":0.2`) {
		t.Errorf("left eye raw point missing: %s", s)
	}
}

func TestGazeMessage_JSONShape(t *testing.T) {
	data, err := json.Marshal(NewGazeMessage(validEvent()))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{
		"deviceTimeStamp", "systemTimestamp", "normalized",
		"screenX", "screenY", "leftEye", "rightEye",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	right, ok := decoded["rightEye"].(map[string]interface{})
	if !ok {
		t.Fatal("rightEye is not an object")
	}
	// Invalid position/pupil values surface as null, never as numbers.
	if v := right["pupilSize"]; v != nil {
		t.Errorf("right pupilSize = %v, want null", v)
	}
	if v := right["positionZ"]; v != nil {
		t.Errorf("right positionZ = %v, want null", v)
	}
}

func TestResultResponse_RecalibrateOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(ResultResponse{Message: MessageOK})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "recalibrate") {
		t.Errorf("empty recalibrate list should be omitted: %s", data)
	}

	data, err = json.Marshal(ResultResponse{
		Message:     MessageFailed,
		Recalibrate: [][2]float64{{0.1, 0.9}},
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"recalibrate":[[0.1,0.9]]`) {
		t.Errorf("recalibrate points not encoded: %s", data)
	}
}
