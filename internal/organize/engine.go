// Package organize implements the file organization engine: readiness
// detection, extension-based categorization, destination and duplicate
// resolution, and the per-file pipeline that ties them to a single move.
package organize

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"orgd/internal/config"
	"orgd/internal/errors"
	"orgd/internal/log"
	"orgd/pkg/types"
)

// Engine runs the organization pipeline. It is safe for concurrent use:
// every call reads one configuration snapshot and touches no shared state,
// so pipelines for different paths run independently, and a second pipeline
// for the same path resolves to a Skip once the first one's move lands.
type Engine struct {
	detector *ReadinessDetector
	resolver *Resolver
}

// New creates an engine with default readiness parameters.
func New() *Engine {
	return &Engine{
		detector: NewReadinessDetector(),
		resolver: &Resolver{},
	}
}

// NewWithDetector creates an engine around a custom readiness detector,
// which tests use to substitute a fake clock.
func NewWithDetector(d *ReadinessDetector) *Engine {
	return &Engine{detector: d, resolver: &Resolver{}}
}

// OrganizeFile runs the full pipeline for one file against the given
// configuration snapshot and always resolves to exactly one outcome. It is
// idempotent with respect to duplicate events: re-running after a completed
// move ends in a Skip because the source no longer exists.
func (e *Engine) OrganizeFile(ctx context.Context, path string, cfg *config.Config) types.MoveOutcome {
	runID := uuid.NewString()
	entry := log.LogWithFields(log.F("run", runID[:8]), log.F("file", filepath.Base(path)))

	outcome := e.run(ctx, path, cfg)
	outcome.RunID = runID

	switch outcome.Status {
	case types.StatusMoved:
		entry.Infof("Moved to %s (%s)", outcome.Dest, outcome.Category)
	case types.StatusSkipped:
		entry.Infof("Skipped: %s", outcome.Reason)
	case types.StatusFailed:
		entry.Errorf("Failed: %v", outcome.Err)
	}
	return outcome
}

func (e *Engine) run(ctx context.Context, path string, cfg *config.Config) types.MoveOutcome {
	path = filepath.Clean(path)

	// The file must still exist and be a regular file. Duplicate events for
	// an already-moved path land here and become a harmless skip.
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return types.Skipped(path, types.SkipSourceMissing)
	}

	if NewFilter(cfg.IgnorePatterns).Ignore(path) {
		return types.Skipped(path, types.SkipIgnored)
	}

	// Scope guard: only files directly inside the watched folder. This keeps
	// the engine from re-processing files it already moved into category
	// folders, and from acting on stray paths the watcher might report.
	if filepath.Dir(path) != filepath.Clean(cfg.WatchedFolder) {
		return types.Skipped(path, types.SkipOutsideWatch)
	}

	if !e.detector.Ready(ctx, path) {
		return types.Skipped(path, types.SkipNotReady)
	}

	category := Classify(path, cfg.Rules)

	dest, err := e.resolver.Resolve(path, category, cfg)
	if err != nil {
		if errors.Is(err, ErrNoDestination) {
			return types.Skipped(path, types.SkipNoDestination)
		}
		return types.Failed(path, err)
	}

	// Already organized: the destination folder is the file's own folder.
	if filepath.Dir(dest) == filepath.Dir(path) {
		return types.Skipped(path, types.SkipAlreadyOrganized)
	}

	final, proceed := e.resolver.Deduplicate(dest, cfg.DuplicatePolicy)
	if !proceed {
		return types.Skipped(path, types.SkipDuplicate)
	}

	if err := os.Rename(path, final); err != nil {
		return types.Failed(path, errors.NewFileError("move failed", path, errors.MoveFailed, err))
	}

	return types.Moved(path, final, category)
}

// OrganizeDirectory sweeps every regular file currently sitting in the
// watched folder through the pipeline. Subdirectories are not descended.
func (e *Engine) OrganizeDirectory(ctx context.Context, cfg *config.Config) ([]types.MoveOutcome, error) {
	entries, err := os.ReadDir(cfg.WatchedFolder)
	if err != nil {
		return nil, errors.NewFileError("reading watched folder", cfg.WatchedFolder, errors.InvalidPath, err)
	}

	var outcomes []types.MoveOutcome
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		select {
		case <-ctx.Done():
			return outcomes, ctx.Err()
		default:
		}
		outcomes = append(outcomes, e.OrganizeFile(ctx, filepath.Join(cfg.WatchedFolder, entry.Name()), cfg))
	}
	return outcomes, nil
}
