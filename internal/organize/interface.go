package organize

import (
	"context"

	"orgd/internal/config"
	"orgd/pkg/types"
)

// Organizer is the pipeline surface the watch daemon and CLI drive.
// It exists so tests can substitute a fake engine.
type Organizer interface {
	// OrganizeFile runs the pipeline for a single file.
	OrganizeFile(ctx context.Context, path string, cfg *config.Config) types.MoveOutcome

	// OrganizeDirectory sweeps the watched folder's current files.
	OrganizeDirectory(ctx context.Context, cfg *config.Config) ([]types.MoveOutcome, error)
}

// Ensure Engine implements the Organizer interface
var _ Organizer = (*Engine)(nil)
