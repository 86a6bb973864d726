package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-gaze/pkg/hub"
	"github.com/teslashibe/go-gaze/pkg/protocol"
	"github.com/teslashibe/go-gaze/pkg/tracker"
)

// handleStatus returns the current server state snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	if status == nil {
		return c.JSON(Status{Subscribers: s.Subscribers()})
	}
	return c.JSON(status())
}

// handleStreamWS registers a stream subscriber and pumps messages until the
// connection closes.
func (s *Server) handleStreamWS(c *websocket.Conn) {
	client := hub.NewClient(s.streamHub, c)
	client.Run() // blocks for the connection's lifetime
}

// handleCalibrationStart enters calibration mode on the device.
func (s *Server) handleCalibrationStart(c *fiber.Ctx) error {
	ctrl := s.calibration()
	if ctrl == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": protocol.ErrNoTracker,
		})
	}

	if err := ctrl.Start(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}

	return c.JSON(protocol.StatusResponse{Message: protocol.MessageOK})
}

// handleCalibrationCollect collects samples for one calibration target.
func (s *Server) handleCalibrationCollect(c *fiber.Ctx) error {
	ctrl := s.calibration()
	if ctrl == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": protocol.ErrNoTracker,
		})
	}

	var req protocol.CollectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "invalid point body",
		})
	}

	err := ctrl.Collect(req.X, req.Y)
	switch {
	case err == nil:
		return c.JSON(protocol.StatusResponse{Message: protocol.MessageOK})
	case errors.Is(err, tracker.ErrNotCalibrating):
		// Precondition violation, not a device "failed" acknowledgement.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": err.Error(),
		})
	default:
		return c.JSON(protocol.StatusResponse{Message: protocol.MessageFailed})
	}
}

// handleCalibrationResult computes and applies the calibration.
func (s *Server) handleCalibrationResult(c *fiber.Ctx) error {
	ctrl := s.calibration()
	if ctrl == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": protocol.ErrNoTracker,
		})
	}

	force := c.QueryBool("force", false)

	out, err := ctrl.Compute(force)
	switch {
	case errors.Is(err, tracker.ErrNotCalibrating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": err.Error(),
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}

	if out.OK {
		return c.JSON(protocol.ResultResponse{Message: protocol.MessageOK})
	}
	return c.JSON(protocol.ResultResponse{
		Message:     protocol.MessageFailed,
		Recalibrate: out.Recollect,
	})
}
