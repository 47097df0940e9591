// Package testutil provides testing utilities for the quill project.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pablasso/quill/internal/comment"
)

// Call records one store invocation.
type Call struct {
	Op        string // "list", "create", "update" or "delete"
	TaskID    string
	CommentID string
	Body      string
	Author    string
}

// FakeStore is a comment.Store whose behavior is set per operation.
// Unset funcs fall back to defaults: List returns nothing, Create returns a
// comment with ID "new-N", Update echoes the body back, Delete succeeds.
type FakeStore struct {
	ListFunc   func(taskID string) ([]comment.Comment, error)
	CreateFunc func(taskID, body, author string) (comment.Comment, error)
	UpdateFunc func(taskID, commentID, body string) (comment.Comment, error)
	DeleteFunc func(taskID, commentID string) error

	mu      sync.Mutex
	calls   []Call
	created int
}

var _ comment.Store = (*FakeStore)(nil)

// FixedTime is the timestamp the fake assigns to comments it creates.
var FixedTime = time.Date(2025, 3, 4, 15, 4, 0, 0, time.UTC)

func (f *FakeStore) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Calls returns a copy of every recorded call in order.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls for one operation.
func (f *FakeStore) CallsTo(op string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeStore) List(_ context.Context, taskID string) ([]comment.Comment, error) {
	f.record(Call{Op: "list", TaskID: taskID})
	if f.ListFunc != nil {
		return f.ListFunc(taskID)
	}
	return nil, nil
}

func (f *FakeStore) Create(_ context.Context, taskID, body, author string) (comment.Comment, error) {
	f.record(Call{Op: "create", TaskID: taskID, Body: body, Author: author})
	if f.CreateFunc != nil {
		return f.CreateFunc(taskID, body, author)
	}

	f.mu.Lock()
	f.created++
	id := fmt.Sprintf("new-%d", f.created)
	f.mu.Unlock()

	return comment.Comment{ID: id, TaskID: taskID, Body: body, Author: author, CreatedAt: FixedTime}, nil
}

func (f *FakeStore) Update(_ context.Context, taskID, commentID, body string) (comment.Comment, error) {
	f.record(Call{Op: "update", TaskID: taskID, CommentID: commentID, Body: body})
	if f.UpdateFunc != nil {
		return f.UpdateFunc(taskID, commentID, body)
	}
	return comment.Comment{ID: commentID, TaskID: taskID, Body: body, CreatedAt: FixedTime, UpdatedAt: FixedTime.Add(time.Hour)}, nil
}

func (f *FakeStore) Delete(_ context.Context, taskID, commentID string) error {
	f.record(Call{Op: "delete", TaskID: taskID, CommentID: commentID})
	if f.DeleteFunc != nil {
		return f.DeleteFunc(taskID, commentID)
	}
	return nil
}

// SetupTestDir creates a temp directory, resolves symlinks (for macOS),
// changes to it, and registers cleanup to restore the original working directory.
// Returns the resolved temp directory path.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	// Resolve symlinks for macOS (/var -> /private/var)
	if resolved, err := filepath.EvalSymlinks(tmpDir); err != nil {
		t.Logf("warning: could not resolve symlinks for temp dir: %v", err)
	} else {
		tmpDir = resolved
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}

	t.Cleanup(func() {
		os.Chdir(originalWd)
	})

	return tmpDir
}
