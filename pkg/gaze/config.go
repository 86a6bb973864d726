package gaze

// Config holds the tunable parameters for a gaze processing session.
type Config struct {
	// One Euro jitter filter (applied per axis).
	MinCutoff float64 // baseline cutoff frequency, Hz
	Beta      float64 // speed coefficient; higher = less lag, more jitter
	DCutoff   float64 // derivative cutoff frequency, Hz

	// I-VT fixation detection.
	VelocityThreshold float64 // normalized units per second
}

// DefaultConfig returns the recommended configuration for screen-based
// eye trackers delivering normalized coordinates at 60-120 Hz.
func DefaultConfig() Config {
	return Config{
		MinCutoff:         DefaultMinCutoff,
		Beta:              DefaultBeta,
		DCutoff:           DefaultDCutoff,
		VelocityThreshold: DefaultVelocityThreshold,
	}
}

// ResponsiveConfig returns a configuration that trades some jitter
// rejection for lower lag, for cursor-style gaze interaction.
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.MinCutoff = 1.5
	cfg.Beta = 0.3
	return cfg
}
