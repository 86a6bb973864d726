package gaze

import "sync"

// microsPerSecond converts device/system microsecond timestamps to the
// float-seconds clock the filters operate on.
const microsPerSecond = 1e6

// Processor runs the per-sample gaze pipeline for one device session:
// per-eye extraction, binocular averaging, jitter filtering, fixation
// detection, and head-position tracking.
//
// ProcessSample and ProcessUserPosition must be called from a single
// acquisition goroutine; the filters they drive are not safe for concurrent
// use. Snapshot accessors are safe to call from any goroutine.
//
// Each session gets its own Processor, constructed at session start and
// discarded at session end, so filter state never bleeds across sessions.
type Processor struct {
	filterX  *OneEuroFilter
	filterY  *OneEuroFilter
	fixation *FixationFilter

	// OnEvent, when set, is invoked synchronously from ProcessSample,
	// exactly once per raw sample, in acquisition order. It must not block.
	OnEvent func(Event)

	// Snapshot state, readable from other goroutines.
	mu          sync.RWMutex
	gazePoint   Point
	fixPoint    Point
	leftPoint   Point
	rightPoint  Point
	leftEyePos  EyePosition
	rightEyePos EyePosition
	userPresent bool
}

// NewProcessor creates a processor with freshly primed filters.
func NewProcessor(cfg Config) *Processor {
	return &Processor{
		filterX:     NewOneEuroFilter(cfg.MinCutoff, cfg.Beta, cfg.DCutoff),
		filterY:     NewOneEuroFilter(cfg.MinCutoff, cfg.Beta, cfg.DCutoff),
		fixation:    NewFixationFilter(cfg.VelocityThreshold),
		gazePoint:   InvalidPoint(),
		fixPoint:    InvalidPoint(),
		leftPoint:   InvalidPoint(),
		rightPoint:  InvalidPoint(),
		leftEyePos:  InvalidEyePosition(),
		rightEyePos: InvalidEyePosition(),
	}
}

// ProcessSample runs one raw binocular sample through the pipeline and
// returns the resulting event. When either averaged coordinate is undefined
// the filters are skipped entirely so NaN can never corrupt their state, and
// both the gaze and fixation points come back undefined together.
func (p *Processor) ProcessSample(s Sample) Event {
	t := float64(s.SystemTimestamp) / microsPerSecond

	left := s.LeftEye.GazePointOnDisplay
	right := s.RightEye.GazePointOnDisplay

	avg := Point{
		X: (left.X + right.X) / 2,
		Y: (left.Y + right.Y) / 2,
	}

	var gazePoint, fixPoint Point
	if avg.IsValid() {
		x := p.filterX.Filter(t, avg.X)
		y := p.filterY.Filter(t, avg.Y)
		gazePoint = Point{X: x, Y: y}

		fx, fy := p.fixation.Classify(t, x, y)
		fixPoint = Point{X: fx, Y: fy}
	} else {
		// NaN in either coordinate invalidates the pair as a whole.
		gazePoint = InvalidPoint()
		fixPoint = InvalidPoint()
	}

	p.mu.Lock()
	p.leftPoint = left
	p.rightPoint = right
	p.gazePoint = gazePoint
	p.fixPoint = fixPoint
	leftPos := p.leftEyePos
	rightPos := p.rightEyePos
	p.mu.Unlock()

	ev := Event{
		DeviceTimestamp:  s.DeviceTimestamp,
		SystemTimestamp:  s.SystemTimestamp,
		LeftEye:          s.LeftEye,
		RightEye:         s.RightEye,
		LeftPoint:        left,
		RightPoint:       right,
		Gaze:             gazePoint,
		Fixation:         fixPoint,
		LeftEyePosition:  leftPos,
		RightEyePosition: rightPos,
	}

	if p.OnEvent != nil {
		p.OnEvent(ev)
	}

	return ev
}

// ProcessUserPosition updates the head-space eye positions from a user
// position guide sample. Each side is handled independently; a valid side
// is mirrored on the horizontal axis (1 - x) to convert the device's
// coordinate convention to display convention.
func (p *Processor) ProcessUserPosition(u UserPositionSample) {
	leftPos := InvalidEyePosition()
	rightPos := InvalidEyePosition()

	if u.IsLeftValid() {
		leftPos = EyePosition{X: 1 - u.Left.X, Y: u.Left.Y, Z: u.Left.Z}
	}
	if u.IsRightValid() {
		rightPos = EyePosition{X: 1 - u.Right.X, Y: u.Right.Y, Z: u.Right.Z}
	}

	p.mu.Lock()
	p.userPresent = u.IsLeftValid() || u.IsRightValid()
	p.leftEyePos = leftPos
	p.rightEyePos = rightPos
	p.mu.Unlock()
}

// GazePoint returns the latest filtered binocular gaze point.
func (p *Processor) GazePoint() Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gazePoint
}

// FixationPoint returns the latest fixation centroid.
func (p *Processor) FixationPoint() Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fixPoint
}

// EyePoints returns the latest per-eye raw display points.
func (p *Processor) EyePoints() (left, right Point) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leftPoint, p.rightPoint
}

// EyePositions returns the latest head-space eye positions.
func (p *Processor) EyePositions() (left, right EyePosition) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leftEyePos, p.rightEyePos
}

// UserPresent reports whether the last user position sample saw either eye.
func (p *Processor) UserPresent() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userPresent
}
