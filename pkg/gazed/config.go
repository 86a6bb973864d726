package gazed

import (
	"errors"
	"os"
	"time"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/tracker"
)

// Config holds the gaze server configuration.
type Config struct {
	// Port is the HTTP/websocket listen port.
	Port string

	// PollInterval is the device discovery poll interval.
	PollInterval time.Duration

	// Finder enumerates attached trackers. Hardware SDK bindings plug in
	// here; when nil and Sim is set, a simulated device is used.
	Finder tracker.Finder

	// Sim selects the built-in simulated tracker.
	Sim bool

	// SimRate is the simulated device's sample period.
	SimRate time.Duration

	// Gaze configures the per-session signal pipeline.
	Gaze gaze.Config

	// Debug enables verbose logging.
	Debug bool
}

// DefaultConfig returns the recommended server configuration.
func DefaultConfig() Config {
	return Config{
		Port:         config.DefaultPort,
		PollInterval: config.DefaultPollInterval,
		SimRate:      16 * time.Millisecond, // ~60Hz
		Gaze:         gaze.DefaultConfig(),
	}
}

// LoadEnvConfig applies environment overrides.
func (c *Config) LoadEnvConfig() {
	if port := os.Getenv("GAZE_PORT"); port != "" {
		c.Port = port
	}
	if os.Getenv("TRACKER_POLL_INTERVAL") != "" {
		c.PollInterval = config.PollInterval()
	}
}

// Validate checks the configuration for a runnable server.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.Finder == nil && !c.Sim {
		return errors.New("no tracker backend: provide a Finder or enable Sim")
	}
	return nil
}
