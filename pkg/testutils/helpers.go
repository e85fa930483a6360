package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"orgd/internal/config"
	"orgd/pkg/types"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// TestConfig returns a minimal configuration rooted at the given watched
// folder, with Images and Documents rules targeting subfolders of it and
// the rename duplicate policy.
func TestConfig(t *testing.T, watched string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		WatchedFolder:   watched,
		Enabled:         true,
		DuplicatePolicy: types.PolicyRename,
		IgnorePatterns:  config.DefaultIgnorePatterns(),
		Rules: []types.CategoryRule{
			{
				Name:       "Images",
				FolderPath: filepath.Join(watched, "Images"),
				Enabled:    true,
				Extensions: []string{"jpg", "png"},
			},
			{
				Name:       "Documents",
				FolderPath: filepath.Join(watched, "Documents"),
				Enabled:    true,
				Extensions: []string{"pdf", "txt"},
			},
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}
