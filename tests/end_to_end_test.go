package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgd/internal/history"
	"orgd/internal/organize"
	"orgd/internal/watch"
	"orgd/pkg/testutils"
	"orgd/pkg/types"
)

// fastEngine skips real readiness waiting so the suite stays quick.
func fastEngine() *organize.Engine {
	return organize.NewWithDetector(&organize.ReadinessDetector{
		StabilityThreshold: 2 * time.Second,
		PollInterval:       500 * time.Millisecond,
		MaxWait:            30 * time.Second,
		Sleep:              func(time.Duration) {},
	})
}

// waitForMove blocks until a Moved outcome arrives on the channel.
func waitForMove(t *testing.T, outcomes <-chan types.MoveOutcome) types.MoveOutcome {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case outcome := <-outcomes:
			if outcome.Status == types.StatusMoved {
				return outcome
			}
			require.NotEqual(t, types.StatusFailed, outcome.Status, "pipeline failed: %v", outcome.Err)
		case <-deadline:
			t.Fatal("timeout waiting for a move")
		}
	}
}

func TestWatchOrganizeEndToEnd(t *testing.T) {
	watched := t.TempDir()
	cfg := testutils.TestConfig(t, watched)

	journal, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer journal.Close()

	daemon := watch.NewDaemon(cfg, fastEngine())
	daemon.SetJournal(journal)
	outcomes := make(chan types.MoveOutcome, 32)
	daemon.SetCallback(func(o types.MoveOutcome) { outcomes <- o })

	require.NoError(t, daemon.Start())
	defer func() { _ = daemon.Stop() }()

	time.Sleep(100 * time.Millisecond)

	// First photo lands in Images under its own name
	require.NoError(t, os.WriteFile(filepath.Join(watched, "photo.jpg"), []byte("one"), 0644))
	first := waitForMove(t, outcomes)
	assert.Equal(t, filepath.Join(watched, "Images", "photo.jpg"), first.Dest)

	// A second photo with the same name is renamed, not overwritten
	require.NoError(t, os.WriteFile(filepath.Join(watched, "photo.jpg"), []byte("two"), 0644))
	second := waitForMove(t, outcomes)
	assert.Equal(t, filepath.Join(watched, "Images", "photo_1.jpg"), second.Dest)

	// An unmatched extension goes to Others
	require.NoError(t, os.WriteFile(filepath.Join(watched, "unknown.xyz"), []byte("three"), 0644))
	third := waitForMove(t, outcomes)
	assert.Equal(t, filepath.Join(watched, "Others", "unknown.xyz"), third.Dest)
	assert.Equal(t, types.CategoryOthers, third.Category)

	// Both copies kept their content
	one, err := os.ReadFile(filepath.Join(watched, "Images", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(one))
	two, err := os.ReadFile(filepath.Join(watched, "Images", "photo_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(two))

	require.NoError(t, daemon.Stop())

	// Every outcome reached the journal
	counts, err := journal.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, counts[types.StatusMoved], 3)
	assert.Zero(t, counts[types.StatusFailed])
}

func TestOneShotSweepEndToEnd(t *testing.T) {
	watched := t.TempDir()
	cfg := testutils.TestConfig(t, watched)

	testutils.CreateTestFilesWithContent(t, watched, map[string]string{
		"a.jpg":    "1",
		"b.txt":    "2",
		"leftover": "3",
	})

	outcomes, err := fastEngine().OrganizeDirectory(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	for _, want := range []string{
		filepath.Join(watched, "Images", "a.jpg"),
		filepath.Join(watched, "Documents", "b.txt"),
		filepath.Join(watched, "Others", "leftover"),
	} {
		_, err := os.Stat(want)
		assert.NoError(t, err, want)
	}

	// A second sweep finds nothing left to do
	again, err := fastEngine().OrganizeDirectory(context.Background(), cfg)
	require.NoError(t, err)
	for _, outcome := range again {
		assert.NotEqual(t, types.StatusMoved, outcome.Status)
	}
}
