// Package client provides an HTTP implementation of comment.Store that talks
// to a quill server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pablasso/quill/internal/comment"
)

// Client is an HTTP client for the quill comments API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateRequest is the body of POST /api/tasks/{task}/comments.
type CreateRequest struct {
	Body   string `json:"body"`
	Author string `json:"author"`
}

// UpdateRequest is the body of PATCH /api/tasks/{task}/comments/{id}.
type UpdateRequest struct {
	Body string `json:"body"`
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// List implements comment.Store.
func (c *Client) List(ctx context.Context, taskID string) ([]comment.Comment, error) {
	var comments []comment.Comment
	if err := c.do(ctx, http.MethodGet, commentsPath(taskID), nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []comment.Comment{}
	}
	return comments, nil
}

// Create implements comment.Store.
func (c *Client) Create(ctx context.Context, taskID, body, author string) (comment.Comment, error) {
	var created comment.Comment
	req := CreateRequest{Body: body, Author: author}
	if err := c.do(ctx, http.MethodPost, commentsPath(taskID), req, &created); err != nil {
		return comment.Comment{}, err
	}
	return created, nil
}

// Update implements comment.Store.
func (c *Client) Update(ctx context.Context, taskID, commentID, body string) (comment.Comment, error) {
	var updated comment.Comment
	req := UpdateRequest{Body: body}
	if err := c.do(ctx, http.MethodPatch, commentPath(taskID, commentID), req, &updated); err != nil {
		return comment.Comment{}, err
	}
	return updated, nil
}

// Delete implements comment.Store.
func (c *Client) Delete(ctx context.Context, taskID, commentID string) error {
	return c.do(ctx, http.MethodDelete, commentPath(taskID, commentID), nil, nil)
}

func commentsPath(taskID string) string {
	return "/api/tasks/" + url.PathEscape(taskID) + "/comments"
}

func commentPath(taskID, commentID string) string {
	return commentsPath(taskID) + "/" + url.PathEscape(commentID)
}

// do executes a request with an optional JSON body and decodes the response.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return responseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// APIError is an error reported by the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps status codes onto the comment package sentinels so callers can
// use errors.Is without knowing about HTTP.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return comment.ErrNotFound
	case http.StatusUnprocessableEntity:
		return comment.ErrEmptyBody
	}
	return nil
}

// responseError converts an error response into an *APIError.
func responseError(status int, body []byte) error {
	msg := fmt.Sprintf("server error: %s", http.StatusText(status))
	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		msg = errResp.Error
	}
	return &APIError{Status: status, Message: msg}
}

var _ comment.Store = (*Client)(nil)
