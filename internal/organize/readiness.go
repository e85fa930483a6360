package organize

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"orgd/internal/log"
)

// Default readiness polling parameters. The two second stability window is a
// deliberate latency cost paid to avoid moving a file mid-download.
const (
	DefaultStabilityThreshold = 2 * time.Second
	DefaultPollInterval       = 500 * time.Millisecond
	DefaultMaxWait            = 30 * time.Second
)

// ReadinessDetector decides whether a file's writer has finished by polling
// its size until it stops changing. There is no portable write-complete
// signal to wait on, so size stability stands in for one.
type ReadinessDetector struct {
	// StabilityThreshold is how long the size must hold steady.
	StabilityThreshold time.Duration
	// PollInterval is the delay between size samples.
	PollInterval time.Duration
	// MaxWait bounds the total polling time before giving up.
	MaxWait time.Duration
	// Sleep is swapped out in tests for a fake clock. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// NewReadinessDetector returns a detector with the default parameters.
func NewReadinessDetector() *ReadinessDetector {
	return &ReadinessDetector{
		StabilityThreshold: DefaultStabilityThreshold,
		PollInterval:       DefaultPollInterval,
		MaxWait:            DefaultMaxWait,
	}
}

// Ready blocks until the file's size has been stable for the threshold and
// reports true, or reports false when the file disappears, the context is
// cancelled, or MaxWait elapses first. A false result means "not ready yet,
// retry on a later event", never an error.
func (d *ReadinessDetector) Ready(ctx context.Context, path string) bool {
	threshold := d.StabilityThreshold
	if threshold <= 0 {
		threshold = DefaultStabilityThreshold
	}
	interval := d.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxWait := d.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	sleep := d.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	name := filepath.Base(path)
	var lastSize int64 = -1
	var stable, waited time.Duration

	for waited < maxWait {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		info, err := os.Stat(path)
		if err != nil {
			log.LogWithFields(log.F("file", name)).Warn("File disappeared during readiness check")
			return false
		}

		if info.Size() == lastSize {
			stable += interval
			log.Debug("File %s size stable for %s", name, stable)
			if stable >= threshold {
				log.Debug("File %s is ready", name)
				return true
			}
		} else {
			stable = 0
			lastSize = info.Size()
			log.Debug("File %s size changed to %d bytes, resetting stability", name, lastSize)
		}

		sleep(interval)
		waited += interval
	}

	// Timing out means the writer is still going; the caller skips and a
	// later filesystem event retries, it never moves a half-written file.
	log.LogWithFields(log.F("file", name), log.F("waited", maxWait)).
		Warn("File did not become ready in time")
	return false
}
