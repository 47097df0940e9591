package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pablasso/quill/internal/util"
)

// Repository is a Store backed by a SQLite database.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const selectColumns = "id, task_id, body, author, created_at, updated_at"

// List returns all comments for a task, oldest first.
func (r *Repository) List(ctx context.Context, taskID string) (comments []Comment, err error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM comments WHERE task_id = ? ORDER BY seq ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	comments = []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// Create adds a new comment to a task.
func (r *Repository) Create(ctx context.Context, taskID, body, author string) (Comment, error) {
	if strings.TrimSpace(body) == "" {
		return Comment{}, ErrEmptyBody
	}

	id, err := util.NewCommentID()
	if err != nil {
		return Comment{}, fmt.Errorf("generating comment id: %w", err)
	}

	now := r.now()
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO comments (id, task_id, body, author, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, taskID, body, author, now, now,
	)
	if err != nil {
		return Comment{}, fmt.Errorf("inserting comment: %w", err)
	}

	return r.get(ctx, taskID, id)
}

// Update replaces the body of a comment.
func (r *Repository) Update(ctx context.Context, taskID, commentID, body string) (Comment, error) {
	if strings.TrimSpace(body) == "" {
		return Comment{}, ErrEmptyBody
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE comments SET body = ?, updated_at = ? WHERE task_id = ? AND id = ?",
		body, r.now(), taskID, commentID,
	)
	if err != nil {
		return Comment{}, fmt.Errorf("updating comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return Comment{}, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return Comment{}, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
	}

	return r.get(ctx, taskID, commentID)
}

// Delete removes a comment by ID.
func (r *Repository) Delete(ctx context.Context, taskID, commentID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM comments WHERE task_id = ? AND id = ?",
		taskID, commentID,
	)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
	}

	return nil
}

// get reads back a single comment.
func (r *Repository) get(ctx context.Context, taskID, commentID string) (Comment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM comments WHERE task_id = ? AND id = ?",
		taskID, commentID,
	)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(s scanner) (Comment, error) {
	var c Comment
	if err := s.Scan(&c.ID, &c.TaskID, &c.Body, &c.Author, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Comment{}, err
		}
		return Comment{}, fmt.Errorf("scanning comment: %w", err)
	}
	return c, nil
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MemoryStore)(nil)
)
