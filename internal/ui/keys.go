package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/TimelordUK/mdiff/internal/config"
)

// keyMap holds the bindings for view and edit modes
type keyMap struct {
	Quit          key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	HalfPageUp    key.Binding
	HalfPageDown  key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Search        key.Binding
	NextMatch     key.Binding
	PrevMatch     key.Binding
	NextChange    key.Binding
	PrevChange    key.Binding
	Goto          key.Binding
	ToggleChanges key.Binding
	Filter        key.Binding
	Edit          key.Binding
	Swap          key.Binding
	Export        key.Binding

	// Edit mode only accepts keys that cannot be typed into a buffer
	EditQuit    key.Binding
	Compare     key.Binding
	EditSwap    key.Binding
	Clear       key.Binding
	SwitchInput key.Binding
}

func newKeyMap(kb config.KeybindingConfig) keyMap {
	return keyMap{
		Quit:          binding(kb.Quit, "quit"),
		ScrollUp:      binding(kb.ScrollUp, "up"),
		ScrollDown:    binding(kb.ScrollDown, "down"),
		PageUp:        binding(kb.PageUp, "page up"),
		PageDown:      binding(kb.PageDown, "page down"),
		HalfPageUp:    binding(kb.HalfPageUp, "half page up"),
		HalfPageDown:  binding(kb.HalfPageDown, "half page down"),
		Top:           binding(kb.Top, "top"),
		Bottom:        binding(kb.Bottom, "bottom"),
		Search:        binding(kb.Search, "search"),
		NextMatch:     binding(kb.NextMatch, "next match"),
		PrevMatch:     binding(kb.PrevMatch, "prev match"),
		NextChange:    binding(kb.NextChange, "next change"),
		PrevChange:    binding(kb.PrevChange, "prev change"),
		Goto:          binding(kb.Goto, "goto line"),
		ToggleChanges: binding(kb.ToggleChanges, "changes only"),
		Filter:        binding(kb.Filter, "filter"),
		Edit:          binding(kb.Edit, "edit"),
		Swap:          binding(kb.Swap, "swap"),
		Export:        binding(kb.Export, "export"),

		EditQuit:    binding(controlKeys(kb.Quit), "quit"),
		Compare:     binding(controlKeys(kb.Compare), "compare"),
		EditSwap:    binding(controlKeys(kb.Swap), "swap"),
		Clear:       binding(controlKeys(kb.Clear), "clear"),
		SwitchInput: binding(controlKeys(kb.SwitchInput), "switch input"),
	}
}

func binding(keys []string, help string) key.Binding {
	b := key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), help))
	if len(keys) == 0 {
		b.SetEnabled(false)
	}
	return b
}

// controlKeys drops bindings that would otherwise insert text
func controlKeys(keys []string) []string {
	var out []string
	for _, k := range keys {
		if len([]rune(k)) == 1 {
			continue
		}
		out = append(out, k)
	}
	return out
}

// helpText renders a one-line summary of bindings
func helpText(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, "  ")
}
