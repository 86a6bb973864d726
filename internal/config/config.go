// Package config provides configuration helpers for go-gaze commands.
package config

import (
	"os"
	"time"
)

// Default server configuration.
const (
	DefaultPort         = "8000"
	DefaultPollInterval = 1 * time.Second
)

// Default screen geometry for clients that want pixel coordinates.
// Gaze points themselves stay normalized; this is advertised metadata only.
const (
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)

// CalibrationGrid is the default 5-point calibration target layout
// in normalized display coordinates: center first, then the corners.
var CalibrationGrid = [][2]float64{
	{0.5, 0.5},
	{0.1, 0.1},
	{0.1, 0.9},
	{0.9, 0.1},
	{0.9, 0.9},
}

// Port returns the server port from GAZE_PORT env var.
// Falls back to the default if not set.
func Port() string {
	if port := os.Getenv("GAZE_PORT"); port != "" {
		return port
	}
	return DefaultPort
}

// PollInterval returns the device discovery poll interval from
// TRACKER_POLL_INTERVAL (a Go duration string, e.g. "500ms").
// Falls back to the default on absence or parse failure.
func PollInterval() time.Duration {
	if v := os.Getenv("TRACKER_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultPollInterval
}

// ServerURL returns the base URL for a gaze server at the given host.
func ServerURL(host string) string {
	return "http://" + host + ":" + Port()
}
