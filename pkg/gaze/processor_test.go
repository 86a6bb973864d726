package gaze

import (
	"math"
	"testing"
)

// validEye builds an EyeSample with a valid display gaze point.
func validEye(x, y float64) EyeSample {
	return EyeSample{
		GazePointOnDisplay: Point{X: x, Y: y},
		GazeOrigin:         InvalidEyePosition(),
		PupilDiameter:      3.0,
		GazeValidity:       Valid,
		PupilValidity:      Valid,
	}
}

// invalidEye builds an EyeSample with no usable gaze reading.
func invalidEye() EyeSample {
	return EyeSample{
		GazePointOnDisplay: InvalidPoint(),
		GazeOrigin:         InvalidEyePosition(),
		PupilDiameter:      math.NaN(),
	}
}

func TestProcessor_FirstSampleUnfiltered(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	ev := p.ProcessSample(Sample{
		DeviceTimestamp: 1_000_000,
		SystemTimestamp: 1_000_000,
		LeftEye:         validEye(0.2, 0.4),
		RightEye:        validEye(0.4, 0.6),
	})

	if !floatEquals(ev.Gaze.X, 0.3) || !floatEquals(ev.Gaze.Y, 0.5) {
		t.Errorf("first sample gaze: got (%v, %v), want (0.3, 0.5) unfiltered",
			ev.Gaze.X, ev.Gaze.Y)
	}
	if !floatEquals(ev.Fixation.X, 0.3) || !floatEquals(ev.Fixation.Y, 0.5) {
		t.Errorf("first sample fixation: got (%v, %v), want (0.3, 0.5)",
			ev.Fixation.X, ev.Fixation.Y)
	}
}

func TestProcessor_SecondSampleFiltered(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	p.ProcessSample(Sample{
		SystemTimestamp: 1_000_000,
		LeftEye:         validEye(0.2, 0.4),
		RightEye:        validEye(0.4, 0.6),
	})

	// 10ms later the average moves to (0.32, 0.5); the filtered x must
	// land strictly between the previous output and the new input.
	ev := p.ProcessSample(Sample{
		SystemTimestamp: 1_010_000,
		LeftEye:         validEye(0.22, 0.4),
		RightEye:        validEye(0.42, 0.6),
	})

	if ev.Gaze.X <= 0.3 || ev.Gaze.X >= 0.32 {
		t.Errorf("filtered x = %v, want strictly between 0.3 and 0.32", ev.Gaze.X)
	}
	if !floatEquals(ev.Gaze.Y, 0.5) {
		t.Errorf("filtered y = %v, want 0.5 (constant input is a fixed point)", ev.Gaze.Y)
	}
}

func TestProcessor_UndefinedAveragePropagatesAllOrNothing(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	ev := p.ProcessSample(Sample{
		SystemTimestamp: 1_000_000,
		LeftEye:         invalidEye(),
		RightEye:        validEye(0.4, 0.6),
	})

	if ev.Gaze.IsValid() {
		t.Errorf("gaze point should be undefined when one eye is, got (%v, %v)",
			ev.Gaze.X, ev.Gaze.Y)
	}
	if ev.Fixation.IsValid() {
		t.Errorf("fixation point should be undefined, got (%v, %v)",
			ev.Fixation.X, ev.Fixation.Y)
	}

	// Per-eye raw points still reflect each eye's own reading.
	if ev.LeftPoint.IsValid() {
		t.Error("left raw point should be undefined")
	}
	if !ev.RightPoint.IsValid() || ev.RightPoint.X != 0.4 || ev.RightPoint.Y != 0.6 {
		t.Errorf("right raw point: got (%v, %v), want (0.4, 0.6)",
			ev.RightPoint.X, ev.RightPoint.Y)
	}
}

func TestProcessor_InvalidSampleDoesNotCorruptFilters(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	// An undefined sample first: filters must stay unprimed.
	p.ProcessSample(Sample{
		SystemTimestamp: 1_000_000,
		LeftEye:         invalidEye(),
		RightEye:        invalidEye(),
	})

	// The next valid sample is therefore the priming sample and comes
	// back unfiltered.
	ev := p.ProcessSample(Sample{
		SystemTimestamp: 1_010_000,
		LeftEye:         validEye(0.2, 0.4),
		RightEye:        validEye(0.4, 0.6),
	})

	if !floatEquals(ev.Gaze.X, 0.3) || !floatEquals(ev.Gaze.Y, 0.5) {
		t.Errorf("post-NaN priming sample: got (%v, %v), want (0.3, 0.5)",
			ev.Gaze.X, ev.Gaze.Y)
	}
}

func TestProcessor_EventCallbackOncePerSample(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	var events []Event
	p.OnEvent = func(ev Event) { events = append(events, ev) }

	for i := 0; i < 5; i++ {
		p.ProcessSample(Sample{
			SystemTimestamp: int64(1_000_000 + i*10_000),
			LeftEye:         validEye(0.2, 0.4),
			RightEye:        validEye(0.4, 0.6),
		})
	}

	if len(events) != 5 {
		t.Fatalf("got %d events, want exactly 5", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].SystemTimestamp <= events[i-1].SystemTimestamp {
			t.Errorf("events out of order at %d", i)
		}
	}
}

func TestProcessor_UserPosition(t *testing.T) {
	tests := []struct {
		name          string
		sample        UserPositionSample
		wantPresent   bool
		wantLeftValid bool
		wantLeftX     float64
	}{
		{
			name: "both valid, mirrored",
			sample: UserPositionSample{
				Left:          EyePosition{X: 0.3, Y: 0.5, Z: 0.6},
				LeftValidity:  Valid,
				Right:         EyePosition{X: 0.7, Y: 0.5, Z: 0.6},
				RightValidity: Valid,
			},
			wantPresent:   true,
			wantLeftValid: true,
			wantLeftX:     0.7, // 1 - 0.3
		},
		{
			name: "only right valid",
			sample: UserPositionSample{
				Left:          EyePosition{X: 0.3, Y: 0.5, Z: 0.6},
				LeftValidity:  0,
				Right:         EyePosition{X: 0.7, Y: 0.5, Z: 0.6},
				RightValidity: Valid,
			},
			wantPresent:   true,
			wantLeftValid: false,
		},
		{
			name: "neither valid",
			sample: UserPositionSample{
				Left:  EyePosition{X: 0.3, Y: 0.5, Z: 0.6},
				Right: EyePosition{X: 0.7, Y: 0.5, Z: 0.6},
			},
			wantPresent:   false,
			wantLeftValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(DefaultConfig())
			p.ProcessUserPosition(tt.sample)

			if got := p.UserPresent(); got != tt.wantPresent {
				t.Errorf("UserPresent() = %v, want %v", got, tt.wantPresent)
			}

			left, _ := p.EyePositions()
			if left.IsValid() != tt.wantLeftValid {
				t.Errorf("left position valid = %v, want %v", left.IsValid(), tt.wantLeftValid)
			}
			if tt.wantLeftValid && !floatEquals(left.X, tt.wantLeftX) {
				t.Errorf("left position x = %v, want %v (mirrored)", left.X, tt.wantLeftX)
			}
		})
	}
}

func TestProcessor_SnapshotMatchesEvent(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	ev := p.ProcessSample(Sample{
		SystemTimestamp: 1_000_000,
		LeftEye:         validEye(0.2, 0.4),
		RightEye:        validEye(0.4, 0.6),
	})

	if got := p.GazePoint(); got != ev.Gaze {
		t.Errorf("GazePoint() = %v, want %v", got, ev.Gaze)
	}
	if got := p.FixationPoint(); got != ev.Fixation {
		t.Errorf("FixationPoint() = %v, want %v", got, ev.Fixation)
	}
	left, right := p.EyePoints()
	if left != ev.LeftPoint || right != ev.RightPoint {
		t.Errorf("EyePoints() = (%v, %v), want (%v, %v)", left, right, ev.LeftPoint, ev.RightPoint)
	}
}
