package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgd/internal/organize"
	"orgd/pkg/testutils"
	"orgd/pkg/types"
)

// fastEngine skips real readiness waiting so daemon tests stay quick.
func fastEngine() *organize.Engine {
	return organize.NewWithDetector(&organize.ReadinessDetector{
		StabilityThreshold: 2 * time.Second,
		PollInterval:       500 * time.Millisecond,
		MaxWait:            30 * time.Second,
		Sleep:              func(time.Duration) {},
	})
}

func TestDaemonOrganizesDroppedFile(t *testing.T) {
	watched := t.TempDir()
	cfg := testutils.TestConfig(t, watched)

	daemon := NewDaemon(cfg, fastEngine())
	outcomes := make(chan types.MoveOutcome, 16)
	daemon.SetCallback(func(o types.MoveOutcome) { outcomes <- o })

	require.NoError(t, daemon.Start())
	defer func() { _ = daemon.Stop() }()

	time.Sleep(100 * time.Millisecond)

	src := filepath.Join(watched, "photo.jpg")
	require.NoError(t, os.WriteFile(src, []byte("image"), 0644))

	// Create plus Write events may each run a pipeline; wait for the move.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case outcome := <-outcomes:
			if outcome.Status == types.StatusMoved {
				assert.Equal(t, filepath.Join(watched, "Images", "photo.jpg"), outcome.Dest)
				assert.Equal(t, "Images", outcome.Category)

				_, err := os.Stat(outcome.Dest)
				assert.NoError(t, err)

				status := daemon.Status()
				assert.True(t, status.Running)
				assert.GreaterOrEqual(t, status.Moved, 1)
				return
			}
			// Duplicate events resolve as skips, never as failures
			assert.Equal(t, types.StatusSkipped, outcome.Status)
		case <-deadline:
			t.Fatal("timeout waiting for the file to be organized")
		}
	}
}

func TestDaemonRefusesDisabledConfig(t *testing.T) {
	cfg := testutils.TestConfig(t, t.TempDir())
	cfg.Enabled = false

	daemon := NewDaemon(cfg, fastEngine())
	assert.Error(t, daemon.Start())
	assert.False(t, daemon.IsRunning())
}

func TestDaemonDoubleStart(t *testing.T) {
	cfg := testutils.TestConfig(t, t.TempDir())

	daemon := NewDaemon(cfg, fastEngine())
	require.NoError(t, daemon.Start())
	defer func() { _ = daemon.Stop() }()

	assert.Error(t, daemon.Start())
}

func TestDaemonSingleInstancePerFolder(t *testing.T) {
	cfg := testutils.TestConfig(t, t.TempDir())

	first := NewDaemon(cfg, fastEngine())
	require.NoError(t, first.Start())
	defer func() { _ = first.Stop() }()

	second := NewDaemon(cfg, fastEngine())
	err := second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already watching")
}

func TestDaemonStopIsIdempotent(t *testing.T) {
	cfg := testutils.TestConfig(t, t.TempDir())

	daemon := NewDaemon(cfg, fastEngine())
	assert.NoError(t, daemon.Stop(), "stopping a never-started daemon is a no-op")

	require.NoError(t, daemon.Start())
	assert.NoError(t, daemon.Stop())
	assert.NoError(t, daemon.Stop())
	assert.False(t, daemon.IsRunning())
}

func TestDaemonStopQuiescesPipelines(t *testing.T) {
	watched := t.TempDir()
	cfg := testutils.TestConfig(t, watched)

	daemon := NewDaemon(cfg, fastEngine())
	var callbacks atomic.Int64
	daemon.SetCallback(func(types.MoveOutcome) { callbacks.Add(1) })

	require.NoError(t, daemon.Start())
	time.Sleep(100 * time.Millisecond)

	// A burst of files leaves events buffered in the watcher channel when
	// Stop lands in the middle of dispatching.
	for i := 0; i < 12; i++ {
		name := filepath.Join(watched, fmt.Sprintf("doc%d.pdf", i))
		require.NoError(t, os.WriteFile(name, []byte("pdf"), 0644))
	}

	require.NoError(t, daemon.Stop())

	// After Stop returns, no pipeline may start or finish: the counters and
	// the callback count must not move again.
	status := daemon.Status()
	seen := callbacks.Load()
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, seen, callbacks.Load(), "pipeline outcome delivered after Stop returned")
	assert.Equal(t, status.Processed, daemon.Status().Processed)
	assert.Equal(t, int(seen), status.Processed)
}

func TestDaemonUpdateConfig(t *testing.T) {
	cfg := testutils.TestConfig(t, t.TempDir())
	daemon := NewDaemon(cfg, fastEngine())

	next := cfg.Clone()
	next.DuplicatePolicy = types.PolicySkip
	require.NoError(t, daemon.UpdateConfig(next))
	assert.Equal(t, types.PolicySkip, daemon.Config().DuplicatePolicy)

	bad := cfg.Clone()
	bad.DuplicatePolicy = "bogus"
	assert.Error(t, daemon.UpdateConfig(bad))
	// The published snapshot is unchanged after a rejected update
	assert.Equal(t, types.PolicySkip, daemon.Config().DuplicatePolicy)
}

func TestDaemonLockFileIsNeverOrganized(t *testing.T) {
	watched := t.TempDir()
	cfg := testutils.TestConfig(t, watched)

	daemon := NewDaemon(cfg, fastEngine())
	require.NoError(t, daemon.Start())
	defer func() { _ = daemon.Stop() }()

	time.Sleep(300 * time.Millisecond)

	// The hidden lock file stays in the watched folder
	_, err := os.Stat(filepath.Join(watched, lockFileName))
	assert.NoError(t, err)
}
