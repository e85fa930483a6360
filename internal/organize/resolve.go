package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orgd/internal/config"
	"orgd/internal/errors"
	"orgd/internal/log"
	"orgd/pkg/types"
)

// ErrNoDestination reports a configuration gap: a named category exists but
// has no destination folder set. Upstream this becomes a Skip, not a crash.
var ErrNoDestination = errors.New("no destination folder configured")

// Resolver computes safe destination paths for categorized files.
type Resolver struct{}

// Resolve returns the full destination path for the file, creating the
// destination folder if it does not exist. Files in the reserved Others
// category, or in a category the configuration does not know, land in an
// "Others" folder inside the watched folder.
func (r *Resolver) Resolve(path, category string, cfg *config.Config) (string, error) {
	var folder string
	if rule, ok := cfg.RuleByName(category); ok {
		if strings.TrimSpace(rule.FolderPath) == "" {
			return "", ErrNoDestination
		}
		folder = rule.FolderPath
	} else {
		folder = filepath.Join(cfg.WatchedFolder, types.CategoryOthers)
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", errors.NewFileError("creating destination folder", folder, errors.DestinationUnavailable, err)
	}
	return filepath.Join(folder, filepath.Base(path)), nil
}

// Deduplicate applies the duplicate policy to a destination that may already
// exist. It returns the final path and true when the move should proceed, or
// false when the policy says keep the existing file and skip the move.
func (r *Resolver) Deduplicate(dest string, policy types.DuplicatePolicy) (string, bool) {
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return dest, true
	}

	switch policy {
	case types.PolicySkip:
		log.Debug("Destination %s exists, skipping per policy", dest)
		return "", false
	case types.PolicyOverwrite:
		log.Debug("Destination %s exists, overwriting per policy", dest)
		return dest, true
	default: // rename
		ext := filepath.Ext(dest)
		base := strings.TrimSuffix(dest, ext)
		for counter := 1; ; counter++ {
			candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
			if _, err := os.Stat(candidate); os.IsNotExist(err) {
				log.Debug("Destination %s exists, renaming to %s", dest, candidate)
				return candidate, true
			}
		}
	}
}
