package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_OverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[display]
tab_width = 8
syntax_highlight = false

[diff]
debounce_ms = 50

[keybindings]
quit = ["x"]

[theme.changes]
added = "46"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Display.TabWidth)
	assert.False(t, cfg.Display.SyntaxHighlight)
	assert.True(t, cfg.Display.ShowLineNumbers)
	assert.Equal(t, 50*time.Millisecond, cfg.Diff.Debounce())
	assert.Equal(t, []string{"x"}, cfg.Keybindings.Quit)
	assert.Equal(t, []string{"/"}, cfg.Keybindings.Search)
	assert.Equal(t, "46", cfg.Theme.Changes.Added)
	assert.Equal(t, "167", cfg.Theme.Changes.Removed)
}

func TestLoadFrom_ClampsInvalidDisplayValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\ntab_width = 0\ncontext_lines = -2\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Display.TabWidth)
	assert.Equal(t, 0, cfg.Display.ContextLines)
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display\n"), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Diff.DebounceMs = 125
	require.NoError(t, SaveTo(cfg, path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetConfigPath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "mdiff", "config.toml"), GetConfigPath())
}

func TestDebounce_NegativeIsImmediate(t *testing.T) {
	assert.Equal(t, time.Duration(0), DiffConfig{DebounceMs: -5}.Debounce())
}
