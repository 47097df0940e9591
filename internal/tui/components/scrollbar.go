package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/quill/internal/tui/styles"
)

// Window is the visible slice of a line-based list.
type Window struct {
	Offset  int // first visible line
	Visible int // number of visible lines
	Total   int // total number of lines
}

// FollowWindow returns a window of the given height that keeps lines
// [top, bottom] in view, preferring to show the bottom line.
func FollowWindow(total, visible, top, bottom int) Window {
	if visible < 1 {
		visible = 1
	}
	w := Window{Visible: visible, Total: total}
	if total <= visible {
		w.Visible = total
		return w
	}

	if bottom >= visible {
		w.Offset = bottom - visible + 1
	}
	if w.Offset > top {
		w.Offset = top
	}
	if maxOffset := total - visible; w.Offset > maxOffset {
		w.Offset = maxOffset
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
	return w
}

// Scrollable reports whether the content overflows the window.
func (w Window) Scrollable() bool {
	return w.Total > w.Visible
}

// Slice returns the visible lines.
func (w Window) Slice(lines []string) []string {
	end := w.Offset + w.Visible
	if end > len(lines) {
		end = len(lines)
	}
	if w.Offset >= end {
		return nil
	}
	return lines[w.Offset:end]
}

// RenderScrollbar renders a 1-column track with a thumb sized to the visible
// fraction. Content that fits renders as a blank gutter so widths stay stable.
func RenderScrollbar(w Window) string {
	if w.Visible <= 0 {
		return ""
	}

	if !w.Scrollable() {
		return strings.Repeat(" \n", w.Visible-1) + " "
	}

	thumbSize := max(w.Visible*w.Visible/w.Total, 1)
	thumbMaxTop := w.Visible - thumbSize
	thumbTop := 0
	if maxOffset := w.Total - w.Visible; maxOffset > 0 {
		thumbTop = min(max(w.Offset*thumbMaxTop/maxOffset, 0), thumbMaxTop)
	}

	rows := make([]string, w.Visible)
	for i := range rows {
		if i >= thumbTop && i < thumbTop+thumbSize {
			rows[i] = styles.SelectedStyle.Render("█")
		} else {
			rows[i] = styles.SubtleStyle.Render("│")
		}
	}
	return strings.Join(rows, "\n")
}

// WithScrollbar slices lines to w and joins the scrollbar on the right.
func WithScrollbar(lines []string, w Window) string {
	content := strings.Join(w.Slice(lines), "\n")
	if !w.Scrollable() {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, content, " ", RenderScrollbar(w))
}
