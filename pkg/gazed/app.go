// Package gazed is the gaze server application orchestrator.
// It wires device discovery, the signal-processing session, the broadcast
// hub, and the web surface together and manages their lifecycle.
package gazed

import (
	"context"
	"fmt"
	"sync"

	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/tracker"
	"github.com/teslashibe/go-gaze/pkg/web"
)

// App is the main gazed application.
type App struct {
	config Config

	webServer *web.Server
	finder    tracker.Finder

	// Active device session. Nil until discovery finds a device.
	mu        sync.Mutex
	device    tracker.Tracker
	processor *gaze.Processor
	ctrl      *tracker.Controller
}

// New creates a new application with the given configuration.
func New(cfg Config) (*App, error) {
	cfg.LoadEnvConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug.Enabled = cfg.Debug

	return &App{config: cfg}, nil
}

// Init prepares the application for Run.
func (a *App) Init() error {
	if a.config.Debug {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	a.finder = a.config.Finder
	if a.finder == nil {
		// Simulated device, visible to discovery immediately.
		sim := tracker.NewSim(a.config.SimRate)
		a.finder = tracker.NewSimFinder(sim, 0)
		log.Info("using simulated tracker", "serial", sim.SerialNumber())
	}

	a.webServer = web.NewServer(a.config.Port)
	return nil
}

// Run serves until the context is canceled or the web server fails to
// listen. Device discovery polls in the background; the first device found
// starts the streaming session.
func (a *App) Run(ctx context.Context) error {
	serveErr := a.webServer.StartAsync()

	go a.discover(ctx)

	select {
	case <-ctx.Done():
		return nil
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	}
}

// discover polls for a device and starts the session when one appears.
func (a *App) discover(ctx context.Context) {
	d := tracker.NewDiscoverer(a.finder, a.config.PollInterval)

	device, err := d.Wait(ctx)
	if err != nil {
		// Canceled shutdown before any device appeared.
		return
	}

	if err := a.startSession(device); err != nil {
		log.Error("failed to start device session", "err", err)
	}
}

// startSession builds the per-device pipeline and begins acquisition.
// The processor and its filters belong to this session alone and are
// discarded with it, so no filter state survives across devices.
func (a *App) startSession(device tracker.Tracker) error {
	processor := gaze.NewProcessor(a.config.Gaze)
	processor.OnEvent = func(ev gaze.Event) {
		debug.SampleLog("[gaze] t=%d gaze=(%.3f, %.3f) fix=(%.3f, %.3f)\n",
			ev.SystemTimestamp, ev.Gaze.X, ev.Gaze.Y, ev.Fixation.X, ev.Fixation.Y)
		a.webServer.PublishGaze(ev)
	}

	ctrl := tracker.NewController(device)

	a.mu.Lock()
	a.device = device
	a.processor = processor
	a.ctrl = ctrl
	a.mu.Unlock()

	a.webServer.AttachSession(ctrl, a.statusSnapshot)

	err := device.Subscribe(
		func(s gaze.Sample) { processor.ProcessSample(s) },
		processor.ProcessUserPosition,
	)
	if err != nil {
		return fmt.Errorf("subscribe to device: %w", err)
	}

	log.Info("streaming session started",
		"serial", device.SerialNumber(), "model", device.Model())
	return nil
}

// statusSnapshot builds the /api/status payload for the active session.
func (a *App) statusSnapshot() web.Status {
	a.mu.Lock()
	device := a.device
	processor := a.processor
	ctrl := a.ctrl
	a.mu.Unlock()

	st := web.Status{
		Subscribers: a.webServer.Subscribers(),
	}
	if device == nil {
		return st
	}

	st.TrackerConnected = true
	st.Serial = device.SerialNumber()
	st.Model = device.Model()
	st.Calibrating = ctrl.State() == tracker.StateCalibrating
	st.UserPresent = processor.UserPresent()

	if p := processor.GazePoint(); p.IsValid() {
		st.GazePoint = &[2]float64{p.X, p.Y}
	}
	if p := processor.FixationPoint(); p.IsValid() {
		st.FixationPoint = &[2]float64{p.X, p.Y}
	}
	return st
}

// Shutdown stops acquisition and the web server.
func (a *App) Shutdown() {
	a.mu.Lock()
	device := a.device
	a.device = nil
	a.mu.Unlock()

	if device != nil {
		if err := device.Unsubscribe(); err != nil {
			log.Warn("device unsubscribe failed", "err", err)
		}
	}

	if a.webServer != nil {
		a.webServer.DetachSession()
		if err := a.webServer.Shutdown(); err != nil {
			log.Warn("web server shutdown failed", "err", err)
		}
	}
}
