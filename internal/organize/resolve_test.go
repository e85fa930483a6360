package organize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgd/internal/organize"
	"orgd/pkg/testutils"
	"orgd/pkg/types"
)

func TestResolve(t *testing.T) {
	watched := t.TempDir()
	cfg := testutils.TestConfig(t, watched)
	resolver := &organize.Resolver{}

	t.Run("known category", func(t *testing.T) {
		dest, err := resolver.Resolve(filepath.Join(watched, "photo.jpg"), "Images", cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(watched, "Images", "photo.jpg"), dest)

		// Destination folder was created
		info, err := os.Stat(filepath.Join(watched, "Images"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Others falls back under watched folder", func(t *testing.T) {
		dest, err := resolver.Resolve(filepath.Join(watched, "data.xyz"), types.CategoryOthers, cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(watched, "Others", "data.xyz"), dest)
	})

	t.Run("unknown category name behaves like Others", func(t *testing.T) {
		dest, err := resolver.Resolve(filepath.Join(watched, "a.bin"), "NoSuchCategory", cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(watched, "Others", "a.bin"), dest)
	})

	t.Run("configured category without folder is a gap", func(t *testing.T) {
		gapCfg := cfg.Clone()
		gapCfg.Rules[0].FolderPath = ""
		_, err := resolver.Resolve(filepath.Join(watched, "photo.jpg"), "Images", gapCfg)
		assert.ErrorIs(t, err, organize.ErrNoDestination)
	})
}

func TestDeduplicate(t *testing.T) {
	resolver := &organize.Resolver{}

	t.Run("free destination passes through for every policy", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "photo.jpg")
		for _, policy := range []types.DuplicatePolicy{types.PolicySkip, types.PolicyOverwrite, types.PolicyRename} {
			final, proceed := resolver.Deduplicate(dest, policy)
			assert.True(t, proceed)
			assert.Equal(t, dest, final)
		}
	})

	t.Run("skip keeps the existing file", func(t *testing.T) {
		dir := t.TempDir()
		testutils.CreateTestFilesWithContent(t, dir, map[string]string{"photo.jpg": "old"})

		final, proceed := resolver.Deduplicate(filepath.Join(dir, "photo.jpg"), types.PolicySkip)
		assert.False(t, proceed)
		assert.Empty(t, final)
	})

	t.Run("overwrite returns the destination unchanged", func(t *testing.T) {
		dir := t.TempDir()
		testutils.CreateTestFilesWithContent(t, dir, map[string]string{"photo.jpg": "old"})

		dest := filepath.Join(dir, "photo.jpg")
		final, proceed := resolver.Deduplicate(dest, types.PolicyOverwrite)
		assert.True(t, proceed)
		assert.Equal(t, dest, final)
	})

	t.Run("rename picks the first free counter", func(t *testing.T) {
		dir := t.TempDir()
		testutils.CreateTestFilesWithContent(t, dir, map[string]string{
			"photo.jpg":   "a",
			"photo_1.jpg": "b",
		})

		final, proceed := resolver.Deduplicate(filepath.Join(dir, "photo.jpg"), types.PolicyRename)
		assert.True(t, proceed)
		assert.Equal(t, filepath.Join(dir, "photo_2.jpg"), final)
	})

	t.Run("rename keeps the extension at the end", func(t *testing.T) {
		dir := t.TempDir()
		testutils.CreateTestFilesWithContent(t, dir, map[string]string{"archive.tar.gz": "a"})

		final, proceed := resolver.Deduplicate(filepath.Join(dir, "archive.tar.gz"), types.PolicyRename)
		assert.True(t, proceed)
		assert.Equal(t, filepath.Join(dir, "archive.tar_1.gz"), final)
	})

	t.Run("rename without extension appends the counter", func(t *testing.T) {
		dir := t.TempDir()
		testutils.CreateTestFilesWithContent(t, dir, map[string]string{"README": "a"})

		final, proceed := resolver.Deduplicate(filepath.Join(dir, "README"), types.PolicyRename)
		assert.True(t, proceed)
		assert.Equal(t, filepath.Join(dir, "README_1"), final)
	})
}
