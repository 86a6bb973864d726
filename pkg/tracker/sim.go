package tracker

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// Sim is a simulated eye tracker for development and tests. It emits
// binocular samples along a smooth Lissajous path with per-sample jitter
// and periodic blinks, plus a slowly drifting user position, at a fixed
// rate on its own goroutine.
//
// Its calibration primitives follow real device semantics: entering twice
// returns ErrInvalidOperation, collect outside calibration mode fails, and
// compute succeeds once enough points have been collected.
type Sim struct {
	serial string
	rate   time.Duration

	// Jitter is the peak amplitude of uniform per-sample noise added to
	// each coordinate. BlinkEvery samples, one sample is fully invalid.
	Jitter     float64
	BlinkEvery int

	// MinCalibrationPoints is how many collected targets a compute needs.
	MinCalibrationPoints int

	mu          sync.Mutex
	subscribed  bool
	stop        chan struct{}
	calibrating bool
	collected   [][2]float64
}

// NewSim creates a simulator emitting samples at the given rate.
// Typical rate is 16ms (~60Hz), matching screen-based trackers.
func NewSim(rate time.Duration) *Sim {
	return &Sim{
		serial:               "SIM-" + uuid.NewString()[:8],
		rate:                 rate,
		Jitter:               0.004,
		BlinkEvery:           180,
		MinCalibrationPoints: 5,
	}
}

// SerialNumber returns the simulated serial number.
func (s *Sim) SerialNumber() string { return s.serial }

// Model returns the simulated model name.
func (s *Sim) Model() string { return "GazeSim 60" }

// Subscribe starts the sample goroutine.
func (s *Sim) Subscribe(onGaze GazeFunc, onUserPosition UserPositionFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscribed {
		return ErrInvalidOperation
	}
	s.subscribed = true
	s.stop = make(chan struct{})

	go s.run(s.stop, onGaze, onUserPosition)
	return nil
}

// Unsubscribe stops the sample goroutine.
func (s *Sim) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.subscribed {
		return nil
	}
	s.subscribed = false
	close(s.stop)
	return nil
}

// run is the acquisition loop. Samples are delivered synchronously to the
// callbacks, in order, from this single goroutine.
func (s *Sim) run(stop chan struct{}, onGaze GazeFunc, onUserPosition UserPositionFunc) {
	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()

	start := time.Now()
	n := 0

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			n++
			elapsed := now.Sub(start).Seconds()
			ts := now.UnixMicro()

			if onGaze != nil {
				onGaze(s.sample(elapsed, ts, n))
			}

			// User position updates at a tenth of the gaze rate,
			// like real position guide streams.
			if onUserPosition != nil && n%10 == 0 {
				onUserPosition(s.userPosition(elapsed))
			}
		}
	}
}

// sample produces one binocular reading at path time t.
func (s *Sim) sample(t float64, ts int64, n int) gaze.Sample {
	if s.BlinkEvery > 0 && n%s.BlinkEvery == 0 {
		return gaze.Sample{
			DeviceTimestamp: ts,
			SystemTimestamp: ts,
			LeftEye:         blinkEye(),
			RightEye:        blinkEye(),
		}
	}

	// Slow Lissajous sweep over the central screen area.
	cx := 0.5 + 0.35*math.Sin(0.31*t)
	cy := 0.5 + 0.35*math.Sin(0.47*t+1.3)

	// Small fixed vergence offset between the eyes.
	const vergence = 0.01

	return gaze.Sample{
		DeviceTimestamp: ts,
		SystemTimestamp: ts,
		LeftEye:         s.eye(cx-vergence, cy),
		RightEye:        s.eye(cx+vergence, cy),
	}
}

func (s *Sim) eye(x, y float64) gaze.EyeSample {
	return gaze.EyeSample{
		GazePointOnDisplay: gaze.Point{
			X: x + s.noise(),
			Y: y + s.noise(),
		},
		GazeOrigin:     gaze.EyePosition{X: x, Y: y, Z: 0.6},
		PupilDiameter:  3.0 + 0.2*s.noise(),
		GazeValidity:   gaze.Valid,
		PupilValidity:  gaze.Valid,
		OriginValidity: gaze.Valid,
	}
}

func (s *Sim) noise() float64 {
	return s.Jitter * (2*rand.Float64() - 1)
}

func blinkEye() gaze.EyeSample {
	return gaze.EyeSample{
		GazePointOnDisplay: gaze.InvalidPoint(),
		GazeOrigin:         gaze.InvalidEyePosition(),
		PupilDiameter:      math.NaN(),
	}
}

// userPosition produces a slowly drifting head position.
func (s *Sim) userPosition(t float64) gaze.UserPositionSample {
	drift := 0.03 * math.Sin(0.1*t)
	return gaze.UserPositionSample{
		Left:          gaze.EyePosition{X: 0.45 + drift, Y: 0.5, Z: 0.6},
		LeftValidity:  gaze.Valid,
		Right:         gaze.EyePosition{X: 0.55 + drift, Y: 0.5, Z: 0.6},
		RightValidity: gaze.Valid,
	}
}

// EnterCalibrationMode puts the simulator in calibration mode.
func (s *Sim) EnterCalibrationMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calibrating {
		return ErrInvalidOperation
	}
	s.calibrating = true
	s.collected = nil
	return nil
}

// LeaveCalibrationMode exits calibration mode.
func (s *Sim) LeaveCalibrationMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calibrating = false
	return nil
}

// CollectData records a calibration target.
func (s *Sim) CollectData(x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.calibrating {
		return ErrNotCalibrating
	}
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return ErrCalibrationFailed
	}
	s.collected = append(s.collected, [2]float64{x, y})
	return nil
}

// DiscardData drops samples for a previously collected target.
func (s *Sim) DiscardData(x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.calibrating {
		return ErrNotCalibrating
	}
	kept := s.collected[:0]
	for _, p := range s.collected {
		if p[0] != x || p[1] != y {
			kept = append(kept, p)
		}
	}
	s.collected = kept
	return nil
}

// ComputeAndApply succeeds when enough targets were collected.
func (s *Sim) ComputeAndApply() (CalibrationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.calibrating {
		return CalibrationResult{}, ErrNotCalibrating
	}
	points := make([][2]float64, len(s.collected))
	copy(points, s.collected)

	return CalibrationResult{
		Success: len(points) >= s.MinCalibrationPoints,
		Points:  points,
	}, nil
}

// SimFinder is a Finder that reports a simulator after an optional delay,
// to exercise the discovery poll loop.
type SimFinder struct {
	ready time.Time
	sim   *Sim
}

// NewSimFinder creates a finder whose simulator appears after delay.
func NewSimFinder(sim *Sim, delay time.Duration) *SimFinder {
	return &SimFinder{ready: time.Now().Add(delay), sim: sim}
}

// FindAll returns the simulator once the delay has passed.
func (f *SimFinder) FindAll() ([]Tracker, error) {
	if time.Now().Before(f.ready) {
		return nil, nil
	}
	return []Tracker{f.sim}, nil
}
