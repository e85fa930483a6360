package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"orgd/pkg/types"
)

func TestParseDuplicatePolicy(t *testing.T) {
	for input, want := range map[string]types.DuplicatePolicy{
		"skip":      types.PolicySkip,
		"Overwrite": types.PolicyOverwrite,
		" RENAME ":  types.PolicyRename,
	} {
		got, err := types.ParseDuplicatePolicy(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := types.ParseDuplicatePolicy("ask")
	assert.Error(t, err)
}

func TestRuleMatches(t *testing.T) {
	rule := types.CategoryRule{Name: "Images", Enabled: true, Extensions: []string{"jpg", "png"}}
	assert.True(t, rule.Matches("jpg"))
	assert.False(t, rule.Matches("pdf"))
	assert.False(t, rule.Matches(""))

	rule.Enabled = false
	assert.False(t, rule.Matches("jpg"))
}

func TestOutcomeString(t *testing.T) {
	moved := types.Moved("/dl/a.jpg", "/dl/Images/a.jpg", "Images")
	assert.Equal(t, "moved /dl/a.jpg -> /dl/Images/a.jpg (Images)", moved.String())
	assert.Empty(t, moved.Detail())

	skipped := types.Skipped("/dl/b.tmp", types.SkipIgnored)
	assert.Contains(t, skipped.String(), "skipped")
	assert.Equal(t, string(types.SkipIgnored), skipped.Detail())

	failed := types.Failed("/dl/c.jpg", errors.New("disk full"))
	assert.Contains(t, failed.String(), "disk full")
	assert.Equal(t, "disk full", failed.Detail())
}
