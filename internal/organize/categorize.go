package organize

import (
	"path/filepath"
	"strings"

	"orgd/pkg/types"
)

// NormalizeExtension returns the file's extension lower-cased without the
// leading dot, or "" when the name has no extension.
func NormalizeExtension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Classify returns the name of the first enabled rule whose extension set
// contains the file's extension, or CategoryOthers when none match. Rule
// order decides ties, so callers must pass rules in configuration order.
// The function is pure: it never fails and never touches the filesystem.
func Classify(path string, rules []types.CategoryRule) string {
	ext := NormalizeExtension(path)
	for i := range rules {
		if rules[i].Matches(ext) {
			return rules[i].Name
		}
	}
	return types.CategoryOthers
}
