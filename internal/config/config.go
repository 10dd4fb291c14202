package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme"`
	Keybindings KeybindingConfig `toml:"keybindings"`
	Display     DisplayConfig    `toml:"display"`
	Diff        DiffConfig       `toml:"diff"`
	Log         LogConfig        `toml:"log"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Name          string       `toml:"name"`
	LineNumbers   string       `toml:"line_numbers"`
	StatusBar     string       `toml:"status_bar"`
	StatusBarText string       `toml:"status_bar_text"`
	SearchMatch   string       `toml:"search_match"`
	Help          string       `toml:"help"`
	Warning       string       `toml:"warning"`
	Changes       ChangeColors `toml:"changes"`
}

// ChangeColors defines colors for each kind of diff cell
type ChangeColors struct {
	Unchanged   string `toml:"unchanged"`
	Added       string `toml:"added"`
	AddedSpan   string `toml:"added_span"`
	Removed     string `toml:"removed"`
	RemovedSpan string `toml:"removed_span"`
	Marker      string `toml:"marker"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit          []string `toml:"quit"`
	ScrollUp      []string `toml:"scroll_up"`
	ScrollDown    []string `toml:"scroll_down"`
	PageUp        []string `toml:"page_up"`
	PageDown      []string `toml:"page_down"`
	HalfPageUp    []string `toml:"half_page_up"`
	HalfPageDown  []string `toml:"half_page_down"`
	Top           []string `toml:"top"`
	Bottom        []string `toml:"bottom"`
	Search        []string `toml:"search"`
	NextMatch     []string `toml:"next_match"`
	PrevMatch     []string `toml:"prev_match"`
	NextChange    []string `toml:"next_change"`
	PrevChange    []string `toml:"prev_change"`
	Goto          []string `toml:"goto"`
	ToggleChanges []string `toml:"toggle_changes"`
	Filter        []string `toml:"filter"`
	Edit          []string `toml:"edit"`
	Compare       []string `toml:"compare"`
	Swap          []string `toml:"swap"`
	Clear         []string `toml:"clear"`
	Export        []string `toml:"export"`
	SwitchInput   []string `toml:"switch_input"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers bool   `toml:"show_line_numbers"`
	TabWidth        int    `toml:"tab_width"`
	SyntaxHighlight bool   `toml:"syntax_highlight"`
	SyntaxTheme     string `toml:"syntax_theme"`
	InlineHighlight bool   `toml:"inline_highlight"`
	ContextLines    int    `toml:"context_lines"`
}

// DiffConfig controls when diffs are recomputed
type DiffConfig struct {
	DebounceMs int `toml:"debounce_ms"`
	WarnCells  int `toml:"warn_cells"` // original lines * modified lines
}

// LogConfig controls the diagnostic log
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Debounce returns the debounce window as a duration
func (d DiffConfig) Debounce() time.Duration {
	if d.DebounceMs < 0 {
		return 0
	}
	return time.Duration(d.DebounceMs) * time.Millisecond
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:          "subtle",
			LineNumbers:   "240", // Dark gray
			StatusBar:     "236", // Darker gray background
			StatusBarText: "252", // Light gray text
			SearchMatch:   "226", // Yellow
			Help:          "240",
			Warning:       "214", // Orange
			Changes: ChangeColors{
				Unchanged:   "250", // Light gray
				Added:       "114", // Green
				AddedSpan:   "22",  // Dark green background
				Removed:     "167", // Soft red
				RemovedSpan: "52",  // Dark red background
				Marker:      "244",
			},
		},
		Keybindings: KeybindingConfig{
			Quit:          []string{"q", "ctrl+c"},
			ScrollUp:      []string{"k", "up"},
			ScrollDown:    []string{"j", "down"},
			PageUp:        []string{"b", "pgup"},
			PageDown:      []string{"f", "pgdown", " "},
			HalfPageUp:    []string{"u", "ctrl+u"},
			HalfPageDown:  []string{"d", "ctrl+d"},
			Top:           []string{"g", "home"},
			Bottom:        []string{"G", "end"},
			Search:        []string{"/"},
			NextMatch:     []string{"n"},
			PrevMatch:     []string{"N"},
			NextChange:    []string{"]"},
			PrevChange:    []string{"["},
			Goto:          []string{":"},
			ToggleChanges: []string{"c"},
			Filter:        []string{"&"},
			Edit:          []string{"e"},
			Compare:       []string{"ctrl+s", "esc"},
			Swap:          []string{"s", "ctrl+x"},
			Clear:         []string{"ctrl+l"},
			Export:        []string{"w"},
			SwitchInput:   []string{"tab"},
		},
		Display: DisplayConfig{
			ShowLineNumbers: true,
			TabWidth:        4,
			SyntaxHighlight: true,
			SyntaxTheme:     "monokai",
			InlineHighlight: true,
			ContextLines:    3,
		},
		Diff: DiffConfig{
			DebounceMs: 300,
			WarnCells:  25_000_000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads config from the default path, falling back to defaults
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom loads config from path, falling back to defaults if it is missing
func LoadFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	if cfg.Display.TabWidth <= 0 {
		cfg.Display.TabWidth = DefaultConfig().Display.TabWidth
	}
	if cfg.Display.ContextLines < 0 {
		cfg.Display.ContextLines = 0
	}

	return cfg, nil
}

// SaveTo saves config to path
func SaveTo(cfg *Config, configPath string) error {
	if configPath == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdiff", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "mdiff", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
