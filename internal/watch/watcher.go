// Package watch hosts the filesystem event source and the daemon that turns
// events into organization pipeline runs.
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"orgd/internal/errors"
	"orgd/internal/log"
)

// FileEvent reports that a file appeared at or was written to a path inside
// the watched folder.
type FileEvent struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher monitors a single folder for new and moved-in files using
// fsnotify. A file moved into the folder surfaces as a Create event on every
// fsnotify backend; Write events are forwarded too because they double as
// the later retry trigger for a file that was not ready on first sight.
// Directory and delete events are never delivered.
//
// A stopped Watcher can be started again; each Start opens a fresh fsnotify
// watch and a fresh events channel.
type Watcher struct {
	folder string

	mutex     sync.RWMutex
	running   bool
	events    chan FileEvent
	stopChan  chan struct{}
	fsWatcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given folder. The folder must exist.
func NewWatcher(folder string) (*Watcher, error) {
	info, err := os.Stat(folder)
	if err != nil {
		kind := errors.FileAccessDenied
		if os.IsNotExist(err) {
			kind = errors.FileNotFound
		}
		return nil, errors.NewFileError("accessing watched folder", folder, kind, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("watched path is not a directory", folder, errors.InvalidPath, nil)
	}

	return &Watcher{folder: folder}, nil
}

// Folder returns the folder being watched.
func (w *Watcher) Folder() string {
	return w.folder
}

// Events returns the channel delivering file events for the current run.
// It is nil before the first Start.
func (w *Watcher) Events() <-chan FileEvent {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.events
}

// Start opens the fsnotify watch and launches the event translation loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(w.folder); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.folder, err)
	}

	w.fsWatcher = fsWatcher
	w.events = make(chan FileEvent, 64)
	w.stopChan = make(chan struct{})
	w.running = true

	go w.loop(fsWatcher, w.events, w.stopChan)

	log.LogWithFields(log.F("folder", w.folder)).Info("Watching folder")
	return nil
}

// loop owns the events channel for one run and closes it on exit, so Stop
// never races a concurrent send.
func (w *Watcher) loop(fsWatcher *fsnotify.Watcher, events chan FileEvent, stopChan chan struct{}) {
	defer close(events)
	for {
		select {
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}

			// The event may be stale: the file can be gone already, or the
			// path may name a directory, neither of which is delivered.
			info, err := os.Stat(event.Name)
			if err != nil {
				if !os.IsNotExist(err) {
					log.LogWithFields(log.F("file", event.Name), log.F("error", err)).
						Error("Error stating file")
				}
				continue
			}
			if info.IsDir() {
				continue
			}

			ev := FileEvent{
				Path:      event.Name,
				Op:        event.Op,
				Timestamp: time.Now(),
			}
			select {
			case events <- ev:
			default:
				log.LogWithFields(log.F("file", event.Name)).
					Warn("Event channel is full, dropped event")
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stopChan:
			return
		}
	}
}

// Stop halts event delivery; the current run's events channel closes once
// the loop exits.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false

	log.Info("Watcher stopped")
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
