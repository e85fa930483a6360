package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"orgd/internal/config"
	"orgd/internal/history"
	"orgd/internal/log"
	"orgd/internal/organize"
	"orgd/pkg/types"
)

const lockFileName = ".orgd.lock"

// DefaultStopTimeout bounds how long Stop waits for in-flight pipelines.
const DefaultStopTimeout = 10 * time.Second

// DaemonStatus represents the current status of the daemon.
type DaemonStatus struct {
	Running       bool
	WatchedFolder string
	LastActivity  time.Time
	Processed     int
	Moved         int
	Skipped       int
	Failed        int
}

// Daemon runs a monitoring session: it owns the watcher, dispatches one
// pipeline goroutine per file event, and holds the configuration as an
// atomically swapped snapshot so pipelines never see a half-updated value.
type Daemon struct {
	cfg    atomic.Pointer[config.Config]
	engine organize.Organizer

	watcher *Watcher
	lock    *flock.Flock
	journal *history.Store

	// StopTimeout overrides DefaultStopTimeout when positive.
	StopTimeout time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	loopDone chan struct{}

	mutex        sync.RWMutex
	running      bool
	callback     func(types.MoveOutcome)
	processed    int
	moved        int
	skipped      int
	failed       int
	lastActivity time.Time
}

// NewDaemon creates a daemon around the given configuration and engine.
func NewDaemon(cfg *config.Config, engine organize.Organizer) *Daemon {
	d := &Daemon{engine: engine}
	d.cfg.Store(cfg)
	return d
}

// SetJournal attaches a history store that records every outcome.
func (d *Daemon) SetJournal(j *history.Store) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.journal = j
}

// SetCallback sets a function invoked with every pipeline outcome.
func (d *Daemon) SetCallback(cb func(types.MoveOutcome)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Config returns the current configuration snapshot.
func (d *Daemon) Config() *config.Config {
	return d.cfg.Load()
}

// UpdateConfig publishes a new configuration snapshot. Pipelines dispatched
// for later events read the new value; in-flight pipelines finish against
// the snapshot they started with. Changing the watched folder while running
// takes effect only after a restart.
func (d *Daemon) UpdateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	old := d.cfg.Swap(cfg)
	if d.IsRunning() && old != nil && old.WatchedFolder != cfg.WatchedFolder {
		log.Warn("Watched folder changed from %s to %s, restart to apply", old.WatchedFolder, cfg.WatchedFolder)
	}
	return nil
}

// Start acquires the single-instance lock, starts the watcher, and begins
// dispatching pipelines.
func (d *Daemon) Start() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.running {
		return fmt.Errorf("daemon is already running")
	}

	cfg := d.cfg.Load()
	if !cfg.Enabled {
		return fmt.Errorf("organizing is disabled in configuration")
	}

	lock := flock.New(filepath.Join(cfg.WatchedFolder, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another organizer is already watching %s", cfg.WatchedFolder)
	}

	watcher, err := NewWatcher(cfg.WatchedFolder)
	if err != nil {
		_ = lock.Unlock()
		return err
	}
	if err := watcher.Start(); err != nil {
		_ = lock.Unlock()
		return err
	}

	d.lock = lock
	d.watcher = watcher
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.loopDone = make(chan struct{})
	d.running = true
	d.lastActivity = time.Now()

	go d.processEvents()

	log.LogWithFields(log.F("folder", cfg.WatchedFolder)).Info("Organizer daemon started")
	return nil
}

// processEvents dispatches one pipeline goroutine per file event so the
// readiness wait for one file never stalls delivery for others. On stop it
// exits without draining buffered events: Stop waits for this loop to return
// before joining the pipeline WaitGroup, so no dispatch can race the join.
func (d *Daemon) processEvents() {
	defer close(d.loopDone)
	for {
		var event FileEvent
		select {
		case <-d.ctx.Done():
			return
		case ev, ok := <-d.watcher.Events():
			if !ok {
				return
			}
			event = ev
		}

		cfg := d.cfg.Load()

		d.mutex.Lock()
		d.lastActivity = event.Timestamp
		d.mutex.Unlock()

		// Cheap pre-filter: hidden and in-progress files never earn a
		// pipeline. The engine re-checks against its own snapshot.
		if organize.NewFilter(cfg.IgnorePatterns).Ignore(event.Path) {
			log.Debug("Ignoring %s", event.Path)
			continue
		}

		d.wg.Add(1)
		go func(path string, cfg *config.Config) {
			defer d.wg.Done()
			outcome := d.engine.OrganizeFile(d.ctx, path, cfg)
			d.recordOutcome(outcome)
		}(event.Path, cfg)
	}
}

func (d *Daemon) recordOutcome(outcome types.MoveOutcome) {
	d.mutex.Lock()
	d.processed++
	switch outcome.Status {
	case types.StatusMoved:
		d.moved++
	case types.StatusSkipped:
		d.skipped++
	case types.StatusFailed:
		d.failed++
	}
	journal := d.journal
	callback := d.callback
	d.mutex.Unlock()

	if journal != nil {
		// Recording must survive daemon shutdown, so it does not use d.ctx.
		if err := journal.Record(context.Background(), outcome); err != nil {
			log.LogWithFields(log.F("error", err)).Warn("Failed to record outcome")
		}
	}
	if callback != nil {
		callback(outcome)
	}
}

// Stop ceases accepting events, cancels in-flight readiness waits, and
// joins outstanding pipelines with a bounded wait.
func (d *Daemon) Stop() error {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return nil
	}
	d.running = false
	watcher := d.watcher
	lock := d.lock
	cancel := d.cancel
	loopDone := d.loopDone
	timeout := d.StopTimeout
	d.mutex.Unlock()

	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	watcher.Stop()
	cancel()

	// The dispatch loop must be done before the WaitGroup join: otherwise a
	// buffered event could Add a pipeline concurrently with Wait, and a
	// pipeline could still start after Stop returns.
	<-loopDone

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var stopErr error
	select {
	case <-done:
	case <-time.After(timeout):
		stopErr = fmt.Errorf("stop timed out after %s waiting for in-flight pipelines", timeout)
	}

	if lock != nil {
		if err := lock.Unlock(); err != nil {
			log.LogWithFields(log.F("error", err)).Warn("Failed to release instance lock")
		}
	}

	if stopErr != nil {
		return stopErr
	}
	log.Info("Organizer daemon stopped")
	return nil
}

// IsRunning reports whether the daemon is active.
func (d *Daemon) IsRunning() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.running
}

// Status returns a snapshot of the daemon's runtime statistics.
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:       d.running,
		WatchedFolder: d.cfg.Load().WatchedFolder,
		LastActivity:  d.lastActivity,
		Processed:     d.processed,
		Moved:         d.moved,
		Skipped:       d.skipped,
		Failed:        d.failed,
	}
}
