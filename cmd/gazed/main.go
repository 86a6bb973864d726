// gazed - real-time eye-tracking gaze server.
// Streams filtered gaze and fixation data over websocket and exposes the
// device calibration procedure over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/gazed"
)

func main() {
	cfg := parseFlags()

	app, err := gazed.New(cfg)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if err := app.Init(); err != nil {
		log.Fatalf("❌ Initialization failed: %v", err)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() gazed.Config {
	cfg := gazed.DefaultConfig()

	dbg := flag.Bool("debug", false, "Enable verbose debug logging")
	debugSamples := flag.Bool("debug-samples", false, "Log every processed gaze sample (very verbose)")
	port := flag.String("port", cfg.Port, "HTTP/websocket listen port")
	sim := flag.Bool("sim", false, "Use the built-in simulated tracker")
	simRate := flag.Duration("sim-rate", cfg.SimRate, "Simulated device sample period")
	poll := flag.Duration("poll", cfg.PollInterval, "Device discovery poll interval")
	minCutoff := flag.Float64("min-cutoff", gaze.DefaultMinCutoff, "One Euro baseline cutoff frequency (Hz)")
	beta := flag.Float64("beta", gaze.DefaultBeta, "One Euro speed coefficient")
	vThreshold := flag.Float64("v-threshold", gaze.DefaultVelocityThreshold, "Fixation velocity threshold (units/s)")

	flag.Parse()

	cfg.Debug = *dbg
	cfg.Port = *port
	cfg.Sim = *sim
	cfg.SimRate = *simRate
	cfg.PollInterval = *poll
	cfg.Gaze.MinCutoff = *minCutoff
	cfg.Gaze.Beta = *beta
	cfg.Gaze.VelocityThreshold = *vThreshold

	debug.Samples = *debugSamples

	return cfg
}
