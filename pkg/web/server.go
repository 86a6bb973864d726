// Package web provides the HTTP and websocket surface of the gaze server:
// the /eye_tracking streaming endpoint and the calibration control routes.
package web

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/hub"
	"github.com/teslashibe/go-gaze/pkg/protocol"
	"github.com/teslashibe/go-gaze/pkg/tracker"
)

// Status is the server state snapshot served at /api/status.
type Status struct {
	TrackerConnected bool        `json:"tracker_connected"`
	Serial           string      `json:"serial,omitempty"`
	Model            string      `json:"model,omitempty"`
	Calibrating      bool        `json:"calibrating"`
	UserPresent      bool        `json:"user_present"`
	Subscribers      int         `json:"subscribers"`
	GazePoint        *[2]float64 `json:"gaze_point,omitempty"`
	FixationPoint    *[2]float64 `json:"fixation_point,omitempty"`
}

// Server is the gaze streaming and calibration server.
type Server struct {
	app  *fiber.App
	port string

	// Stream fan-out (thread-safe!)
	streamHub *hub.Hub

	// Session wiring, attached once a device is discovered.
	mu     sync.RWMutex
	ctrl   *tracker.Controller
	status func() Status
}

// NewServer creates the server and its routes.
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		streamHub: hub.New("gaze"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-gaze",
		DisableStartupMessage: true,
	})

	// CORS so browser-based visualizers can connect from anywhere.
	app.Use(cors.New())

	app.Get("/api/status", s.handleStatus)

	// Calibration control surface. The literal colon in the paths is
	// escaped so fiber does not read it as a route parameter.
	app.Post("/calibration\\:start", s.handleCalibrationStart)
	app.Post("/calibration\\:collect", s.handleCalibrationCollect)
	app.Post("/calibration\\:result", s.handleCalibrationResult)

	// WebSocket upgrade middleware
	app.Use("/eye_tracking", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/eye_tracking", websocket.New(s.handleStreamWS))

	s.app = app
	return s
}

// Start runs the hub delivery loop and serves HTTP. Blocks.
func (s *Server) Start() error {
	fmt.Printf("👁  gaze server: http://localhost:%s (stream at /eye_tracking)\n", s.port)

	go s.streamHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine. The returned channel
// receives the listen error when the server stops, nil on a clean Shutdown.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		err := s.Start()
		if err != nil {
			log.Error("web server stopped", "err", err)
		}
		errCh <- err
	}()
	return errCh
}

// AttachSession wires a device session's calibration controller and status
// snapshot into the request handlers. Called when discovery finds a device.
func (s *Server) AttachSession(ctrl *tracker.Controller, status func() Status) {
	s.mu.Lock()
	s.ctrl = ctrl
	s.status = status
	s.mu.Unlock()
}

// DetachSession removes the current session, e.g. on device loss.
func (s *Server) DetachSession() {
	s.mu.Lock()
	s.ctrl = nil
	s.status = nil
	s.mu.Unlock()
}

// calibration returns the attached calibration controller, nil without one.
func (s *Server) calibration() *tracker.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

// PublishGaze fans one processed event out to all stream subscribers.
// Called synchronously from the acquisition path, so it must not block:
// with no subscribers it returns before any message formatting happens,
// and submission to the hub is fire-and-forget.
func (s *Server) PublishGaze(ev gaze.Event) {
	if s.streamHub.ClientCount() == 0 || !s.streamHub.IsRunning() {
		return
	}
	if err := s.streamHub.BroadcastJSON(protocol.NewGazeMessage(ev)); err != nil {
		log.Warn("gaze broadcast failed", "err", err)
	}
}

// Subscribers returns the current stream subscriber count.
func (s *Server) Subscribers() int {
	return s.streamHub.ClientCount()
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
