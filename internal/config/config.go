// Package config defines the organizer configuration value object and its
// JSON persistence store. A Config is treated as an immutable snapshot once
// handed to the daemon: updates build a new value and swap it whole, so a
// running pipeline never observes a partially updated configuration.
package config

import (
	"path/filepath"
	"strings"

	"orgd/internal/errors"
	"orgd/pkg/types"
)

// Config holds one complete organizer configuration snapshot.
type Config struct {
	WatchedFolder   string                `json:"watchedFolder"`
	Enabled         bool                  `json:"enabled"`
	DuplicatePolicy types.DuplicatePolicy `json:"duplicatePolicy"`
	IgnorePatterns  []string              `json:"ignorePatterns,omitempty"`
	// Rules is an ordered list; the first enabled rule containing an
	// extension wins, so order is a meaningful configuration property.
	Rules []types.CategoryRule `json:"rules"`
}

// New returns the default configuration: the user's Downloads folder watched,
// rename duplicate policy, the built-in category table, organizing enabled.
func New() *Config {
	return &Config{
		WatchedFolder:   defaultWatchedFolder(),
		Enabled:         true,
		DuplicatePolicy: types.PolicyRename,
		IgnorePatterns:  DefaultIgnorePatterns(),
		Rules:           DefaultRules(),
	}
}

// Clone returns a deep copy. Callers mutate the copy and publish it as the
// next snapshot rather than editing a live Config in place.
func (c *Config) Clone() *Config {
	out := &Config{
		WatchedFolder:   c.WatchedFolder,
		Enabled:         c.Enabled,
		DuplicatePolicy: c.DuplicatePolicy,
	}
	if c.IgnorePatterns != nil {
		out.IgnorePatterns = append([]string(nil), c.IgnorePatterns...)
	}
	out.Rules = make([]types.CategoryRule, len(c.Rules))
	for i, r := range c.Rules {
		out.Rules[i] = r
		out.Rules[i].Extensions = append([]string(nil), r.Extensions...)
	}
	return out
}

// RuleByName returns the rule with the given category name, if present.
func (c *Config) RuleByName(name string) (*types.CategoryRule, bool) {
	for i := range c.Rules {
		if c.Rules[i].Name == name {
			return &c.Rules[i], true
		}
	}
	return nil, false
}

// Normalize lower-cases and de-dots every rule extension and drops empties.
// Load applies it so the categorizer can rely on canonical extension form.
func (c *Config) Normalize() {
	for i := range c.Rules {
		exts := c.Rules[i].Extensions[:0]
		for _, e := range c.Rules[i].Extensions {
			e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
			if e != "" {
				exts = append(exts, e)
			}
		}
		c.Rules[i].Extensions = exts
	}
}

// Validate checks the structural invariants of a configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.WatchedFolder) == "" {
		return errors.NewConfigError("watched folder not set", "watchedFolder", errors.InvalidConfig, nil)
	}
	if !filepath.IsAbs(c.WatchedFolder) {
		return errors.NewConfigError("watched folder must be absolute", "watchedFolder", errors.InvalidConfig, nil)
	}
	if !c.DuplicatePolicy.Valid() {
		return errors.NewConfigError("unknown duplicate policy", string(c.DuplicatePolicy), errors.InvalidConfig, nil)
	}
	seen := make(map[string]struct{}, len(c.Rules))
	for i := range c.Rules {
		rule := &c.Rules[i]
		if strings.TrimSpace(rule.Name) == "" {
			return errors.NewRuleError("rule has no name", "", errors.InvalidRule, nil)
		}
		if rule.Name == types.CategoryOthers {
			return errors.NewRuleError("category name is reserved", rule.Name, errors.InvalidRule, nil)
		}
		if _, dup := seen[rule.Name]; dup {
			return errors.NewRuleError("duplicate category name", rule.Name, errors.InvalidRule, nil)
		}
		seen[rule.Name] = struct{}{}

		// Extensions must be unique within one rule; across rules overlap
		// is allowed and resolved by rule order.
		inRule := make(map[string]struct{}, len(rule.Extensions))
		for _, ext := range rule.Extensions {
			if _, dup := inRule[ext]; dup {
				return errors.NewRuleError("duplicate extension "+ext, rule.Name, errors.InvalidRule, nil)
			}
			inRule[ext] = struct{}{}
		}
	}
	return nil
}
