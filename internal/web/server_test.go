package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pablasso/quill/internal/comment"
)

func newTestServer(t *testing.T, apiKey string) (*Server, *comment.MemoryStore) {
	t.Helper()
	store := comment.NewMemoryStore()
	return NewServer(store, apiKey), store
}

func serve(s *Server, method, path, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, "secret")

	rec := serve(s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestListComments(t *testing.T) {
	s, store := newTestServer(t, "")
	if _, err := store.Create(context.Background(), "T1", "hello", "A"); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := serve(s, http.MethodGet, "/api/tasks/T1/comments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var comments []comment.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &comments); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(comments) != 1 || comments[0].Body != "hello" {
		t.Errorf("got %+v", comments)
	}
}

func TestListCommentsEmptyIsArray(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := serve(s, http.MethodGet, "/api/tasks/none/comments", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
}

func TestCreateComment(t *testing.T) {
	s, store := newTestServer(t, "")

	rec := serve(s, http.MethodPost, "/api/tasks/T1/comments", `{"body":"new","author":"You"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created comment.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Author != "You" {
		t.Errorf("got %+v", created)
	}

	stored, _ := store.List(context.Background(), "T1")
	if len(stored) != 1 {
		t.Errorf("store has %d comments, want 1", len(stored))
	}
}

func TestCreateCommentValidation(t *testing.T) {
	s, _ := newTestServer(t, "")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"empty body", `{"body":"  "}`, http.StatusUnprocessableEntity},
		{"invalid json", `{"body":`, http.StatusBadRequest},
		{"oversized body", `{"body":"` + strings.Repeat("x", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, http.MethodPost, "/api/tasks/T1/comments", tc.body)
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d", rec.Code, tc.status)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("expected error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestUpdateComment(t *testing.T) {
	s, store := newTestServer(t, "")
	c, err := store.Create(context.Background(), "T1", "before", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := serve(s, http.MethodPatch, "/api/tasks/T1/comments/"+c.ID, `{"body":"after"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var updated comment.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Body != "after" {
		t.Errorf("body = %q, want %q", updated.Body, "after")
	}
}

func TestUpdateMissingComment(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := serve(s, http.MethodPatch, "/api/tasks/T1/comments/nope", `{"body":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteComment(t *testing.T) {
	s, store := newTestServer(t, "")
	c, err := store.Create(context.Background(), "T1", "bye", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := serve(s, http.MethodDelete, "/api/tasks/T1/comments/"+c.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = serve(s, http.MethodDelete, "/api/tasks/T1/comments/"+c.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	s, _ := newTestServer(t, "secret")

	rec := serve(s, http.MethodGet, "/api/tasks/T1/comments", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without key = %d, want 401", rec.Code)
	}

	rec = serve(s, http.MethodGet, "/api/tasks/T1/comments", "", "Authorization", "Bearer secret")
	if rec.Code != http.StatusOK {
		t.Errorf("status with key = %d, want 200", rec.Code)
	}

	for _, auth := range []string{"Bearer secre", "Bearer secrett", "secret", "Bearer "} {
		rec = serve(s, http.MethodGet, "/api/tasks/T1/comments", "", "Authorization", auth)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status with %q = %d, want 401", auth, rec.Code)
		}
	}
}
