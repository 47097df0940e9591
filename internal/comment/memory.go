package comment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pablasso/quill/internal/util"
)

// MemoryStore keeps comments in process memory. It backs --memory sessions
// and tests that need a real Store without a database.
type MemoryStore struct {
	mu       sync.Mutex
	comments map[string][]Comment
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		comments: make(map[string][]Comment),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Seed appends comments to a task as-is, keeping their IDs and timestamps.
func (s *MemoryStore) Seed(taskID string, comments ...Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range comments {
		c.TaskID = taskID
		s.comments[taskID] = append(s.comments[taskID], c)
	}
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, taskID string) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.comments[taskID]
	out := make([]Comment, len(stored))
	copy(out, stored)
	return out, nil
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, taskID, body, author string) (Comment, error) {
	if err := ctx.Err(); err != nil {
		return Comment{}, err
	}
	if strings.TrimSpace(body) == "" {
		return Comment{}, ErrEmptyBody
	}

	id, err := util.NewCommentID()
	if err != nil {
		return Comment{}, fmt.Errorf("failed to generate comment id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := Comment{
		ID:        id,
		TaskID:    taskID,
		Body:      body,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.comments[taskID] = append(s.comments[taskID], c)
	return c, nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, taskID, commentID, body string) (Comment, error) {
	if err := ctx.Err(); err != nil {
		return Comment{}, err
	}
	if strings.TrimSpace(body) == "" {
		return Comment{}, ErrEmptyBody
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.comments[taskID]
	for i := range stored {
		if stored[i].ID == commentID {
			stored[i].Body = body
			stored[i].UpdatedAt = s.now()
			return stored[i], nil
		}
	}
	return Comment{}, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, taskID, commentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.comments[taskID]
	for i := range stored {
		if stored[i].ID == commentID {
			s.comments[taskID] = append(stored[:i:i], stored[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
}
