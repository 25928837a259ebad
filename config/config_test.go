package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_MissingFile verifies defaults apply when no config file exists
func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err, "missing config file is not an error")

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "keep-newest", cfg.DedupPolicy)
	assert.Contains(t, cfg.Languages, "python3")
	assert.Equal(t, "table tbody tr", cfg.Selectors.Row)
}

// TestLoad_PartialOverride verifies file values merge over defaults
func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leetsync.yaml")
	yaml := `
state_file: /tmp/state
dedup_policy: first-seen
languages: [rust, go]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/state", cfg.StateFile)
	assert.Equal(t, "first-seen", cfg.DedupPolicy)
	assert.Equal(t, []string{"rust", "go"}, cfg.Languages)
	// Untouched fields keep their defaults
	assert.Equal(t, "https://leetcode.com", cfg.BaseURL)
	assert.Equal(t, "leetcode_cookies.xml", cfg.CookieFile)
}

// TestLoad_MalformedYAML verifies an unparseable file is an error
func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leetsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
