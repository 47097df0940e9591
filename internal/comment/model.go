// Package comment provides the comment domain model and the stores that persist it.
package comment

import "time"

// DefaultAuthor is the author recorded for comments written from this client.
const DefaultAuthor = "You"

// AnonymousAuthor is displayed for comments stored without an author.
const AnonymousAuthor = "Anonymous"

// Comment is a single note attached to a task.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// DisplayAuthor returns the author, or AnonymousAuthor when none was stored.
func (c Comment) DisplayAuthor() string {
	if c.Author == "" {
		return AnonymousAuthor
	}
	return c.Author
}

// Edited reports whether the comment body changed after creation.
func (c Comment) Edited() bool {
	return !c.UpdatedAt.IsZero() && c.UpdatedAt.After(c.CreatedAt)
}
