package tracker

import (
	"context"
	"time"

	"github.com/teslashibe/go-gaze/internal/log"
)

// Finder enumerates currently attached eye trackers.
// Implementations wrap a vendor SDK or, for development, the simulator.
type Finder interface {
	FindAll() ([]Tracker, error)
}

// Discoverer polls a Finder at a fixed interval until a device appears.
// It runs on its own goroutine, off the web server's event loop and the
// acquisition path.
type Discoverer struct {
	finder   Finder
	interval time.Duration
}

// NewDiscoverer creates a discoverer polling at the given interval.
func NewDiscoverer(finder Finder, interval time.Duration) *Discoverer {
	return &Discoverer{finder: finder, interval: interval}
}

// Wait blocks until a tracker is found or the context is canceled.
// The first probe happens immediately, then once per interval.
// Enumeration errors are logged and retried, not surfaced.
func (d *Discoverer) Wait(ctx context.Context) (Tracker, error) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		devices, err := d.finder.FindAll()
		if err != nil {
			log.Warn("tracker enumeration failed", "err", err)
		} else if len(devices) > 0 {
			t := devices[0]
			log.Info("eye tracker found",
				"serial", t.SerialNumber(), "model", t.Model())
			return t, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
