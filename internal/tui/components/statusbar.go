package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/quill/internal/tui/styles"
)

const statusSeparator = " • "

// StatusBar renders a bottom help bar showing contextual key hints.
type StatusBar struct {
	context string
}

// NewStatusBar creates a new StatusBar instance.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// WithContext returns a copy that shows ctx right-aligned, e.g. "task 2/3".
func (s StatusBar) WithContext(ctx string) StatusBar {
	s.context = ctx
	return s
}

// Render returns the status bar string for the given width and items.
// Items are joined with " • " and the context, if any, is pushed to the right edge.
func (s StatusBar) Render(width int, items []string) string {
	content := strings.Join(items, statusSeparator)

	if s.context != "" {
		gap := width - lipgloss.Width(content) - lipgloss.Width(s.context)
		if gap < 1 {
			gap = 1
		}
		content += strings.Repeat(" ", gap) + s.context
	}

	return styles.StatusBarStyle.Width(width).Render(content)
}
