package tui

import (
	"context"

	"github.com/pablasso/quill/internal/comment"
)

// Options configures TUI startup behavior.
type Options struct {
	Store  comment.Store
	Tasks  []string // task IDs to cycle through; the first one is opened
	Author string

	// Context is passed to every store call made by the panel.
	Context context.Context
}
