package comment

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a comment does not exist for the given task.
	ErrNotFound = errors.New("comment not found")

	// ErrEmptyBody is returned when a comment body is empty after trimming.
	ErrEmptyBody = errors.New("comment body is required")
)

// Store is the remote collaborator that persists comments for a task.
// Implementations must be safe for concurrent use; calls are issued from
// Bubble Tea commands running off the event loop.
type Store interface {
	// List returns the comments of a task in display order (oldest first).
	List(ctx context.Context, taskID string) ([]Comment, error)

	// Create stores a new comment and returns it with ID and CreatedAt assigned.
	Create(ctx context.Context, taskID, body, author string) (Comment, error)

	// Update replaces the body of an existing comment and returns the stored result.
	Update(ctx context.Context, taskID, commentID, body string) (Comment, error)

	// Delete removes a comment.
	Delete(ctx context.Context, taskID, commentID string) error
}
