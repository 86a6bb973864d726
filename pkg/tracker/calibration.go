package tracker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/teslashibe/go-gaze/internal/log"
)

// State is the calibration controller's position in its state machine.
type State int

const (
	// StateIdle means no calibration is in progress.
	StateIdle State = iota
	// StateCalibrating means the device is in calibration mode.
	StateCalibrating
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCalibrating:
		return "calibrating"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RecollectStrategy selects which calibration targets should be collected
// again after a failed compute. The selected points are discarded on the
// device and reported to the caller.
type RecollectStrategy func(CalibrationResult) [][2]float64

// NoRecollect is the default strategy: report no points.
func NoRecollect(CalibrationResult) [][2]float64 { return nil }

// ComputeOutcome is the controller-level result of a compute request.
type ComputeOutcome struct {
	// OK reports whether the calibration was applied (or forced through).
	OK bool

	// Recollect lists targets to collect again when OK is false.
	Recollect [][2]float64
}

// Controller is a small state machine layered over the device's calibration
// primitives. It serializes calibration requests with its own mutex, which
// is never shared with the acquisition path, so a slow device round-trip
// cannot stall sample processing.
type Controller struct {
	mu        sync.Mutex
	cal       Calibrator
	state     State
	recollect RecollectStrategy
}

// NewController creates a controller over the given device calibrator,
// using the NoRecollect strategy.
func NewController(cal Calibrator) *Controller {
	return &Controller{
		cal:       cal,
		recollect: NoRecollect,
	}
}

// SetRecollectStrategy replaces the recollect selection strategy.
func (c *Controller) SetRecollectStrategy(s RecollectStrategy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == nil {
		s = NoRecollect
	}
	c.recollect = s
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start requests the device enter calibration mode.
//
// If the device reports it is already in calibration mode, the controller
// recovers with exactly one leave+enter cycle and treats the result as
// success. Any other failure is surfaced to the caller.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.cal.EnterCalibrationMode()
	if err == nil {
		c.state = StateCalibrating
		log.Info("calibration started")
		return nil
	}

	if !errors.Is(err, ErrInvalidOperation) {
		return fmt.Errorf("enter calibration mode: %w", err)
	}

	// Device was left in calibration mode by a previous session.
	log.Warn("device already in calibration mode, cycling")
	if err := c.cal.LeaveCalibrationMode(); err != nil {
		return fmt.Errorf("leave stale calibration mode: %w", err)
	}
	if err := c.cal.EnterCalibrationMode(); err != nil {
		return fmt.Errorf("re-enter calibration mode: %w", err)
	}

	c.state = StateCalibrating
	log.Info("calibration started after mode cycle")
	return nil
}

// Collect captures calibration samples for the target at (x, y).
// Valid only while calibrating; it never changes state.
func (c *Controller) Collect(x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCalibrating {
		return ErrNotCalibrating
	}

	if err := c.cal.CollectData(x, y); err != nil {
		log.Warn("calibration collect failed", "x", x, "y", y, "err", err)
		return err
	}

	log.Debug("calibration point collected", "x", x, "y", y)
	return nil
}

// Compute asks the device to compute and apply a calibration from the
// collected points.
//
// On success, or when force is true, the controller leaves calibration mode
// and returns OK with no recollect points. On failure without force it stays
// in calibration mode and returns the targets selected by the recollect
// strategy, after discarding their samples on the device.
func (c *Controller) Compute(force bool) (ComputeOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCalibrating {
		return ComputeOutcome{}, ErrNotCalibrating
	}

	res, err := c.cal.ComputeAndApply()
	if err != nil {
		return ComputeOutcome{}, fmt.Errorf("compute calibration: %w", err)
	}

	log.Info("calibration computed", "success", res.Success, "points", len(res.Points))

	if force || res.Success {
		if err := c.cal.LeaveCalibrationMode(); err != nil {
			return ComputeOutcome{}, fmt.Errorf("leave calibration mode: %w", err)
		}
		c.state = StateIdle
		return ComputeOutcome{OK: true}, nil
	}

	points := c.recollect(res)
	for _, p := range points {
		if err := c.cal.DiscardData(p[0], p[1]); err != nil {
			log.Warn("discard calibration point failed", "x", p[0], "y", p[1], "err", err)
		}
	}

	return ComputeOutcome{OK: false, Recollect: points}, nil
}
