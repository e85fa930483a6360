package organize

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"orgd/internal/log"
)

// Filter rejects hidden files and in-progress download artifacts by name.
// Patterns use glob syntax and match against the base name only.
type Filter struct {
	globs []glob.Glob
}

// NewFilter compiles the given ignore patterns. Invalid patterns are logged
// and dropped rather than failing the pipeline that needed the filter.
func NewFilter(patterns []string) *Filter {
	f := &Filter{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			log.LogWithFields(log.F("pattern", p), log.F("error", err)).
				Warn("Ignoring invalid ignore pattern")
			continue
		}
		f.globs = append(f.globs, g)
	}
	return f
}

// Ignore reports whether the file must be left alone: hidden names (leading
// dot) and anything matching an ignore pattern.
func (f *Filter) Ignore(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, g := range f.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
