package types

import (
	"fmt"
	"strings"
)

// CategoryOthers is the reserved fallback category for files whose extension
// matches no enabled rule. It never appears in a configuration's rule list.
const CategoryOthers = "Others"

// CategoryRule maps a set of file extensions to a named category and its
// destination folder. Extensions are stored lower-case without a leading dot.
type CategoryRule struct {
	Name       string   `json:"name"`
	FolderPath string   `json:"folderPath"`
	Enabled    bool     `json:"enabled"`
	Extensions []string `json:"extensions"`
}

// Matches reports whether the rule is enabled and contains the given
// extension. The extension is expected lower-case without a leading dot.
func (r *CategoryRule) Matches(ext string) bool {
	if !r.Enabled || ext == "" {
		return false
	}
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// DuplicatePolicy selects how a name collision at the destination is resolved.
type DuplicatePolicy string

const (
	PolicySkip      DuplicatePolicy = "skip"
	PolicyOverwrite DuplicatePolicy = "overwrite"
	PolicyRename    DuplicatePolicy = "rename"
)

// ParseDuplicatePolicy converts a configuration string into a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicySkip:
		return PolicySkip, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyRename:
		return PolicyRename, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy: %q", s)
	}
}

// Valid reports whether the policy is one of the known values.
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case PolicySkip, PolicyOverwrite, PolicyRename:
		return true
	}
	return false
}
