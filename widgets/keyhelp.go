// Package widgets holds small render helpers shared by the TUI views.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// Toggle is an on/off indicator for the status line.
type Toggle struct {
	Label string
	On    bool
}

// RenderToggles renders "[x] grid  [ ] scale" style indicators, dimming the
// off ones with the given style.
func RenderToggles(toggles []Toggle, on, off lipgloss.Style) string {
	parts := make([]string, 0, len(toggles))
	for _, t := range toggles {
		if t.On {
			parts = append(parts, on.Render("[x] "+t.Label))
		} else {
			parts = append(parts, off.Render("[ ] "+t.Label))
		}
	}
	return strings.Join(parts, "  ")
}
