package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pablasso/quill/internal/comment"
	"github.com/pablasso/quill/internal/web"
)

func newTestClient(t *testing.T) (*Client, *comment.MemoryStore) {
	t.Helper()
	store := comment.NewMemoryStore()
	srv := httptest.NewServer(web.NewServer(store, "testkey"))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "testkey"), store
}

func TestClientRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, "T1", "hello", comment.DefaultAuthor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Author != comment.DefaultAuthor {
		t.Errorf("got %+v", created)
	}

	updated, err := c.Update(ctx, "T1", created.ID, "hello again")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Body != "hello again" {
		t.Errorf("body = %q", updated.Body)
	}

	comments, err := c.List(ctx, "T1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != created.ID {
		t.Fatalf("got %+v", comments)
	}

	if err := c.Delete(ctx, "T1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	comments, err = c.List(ctx, "T1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("got %d comments after delete, want 0", len(comments))
	}
}

func TestClientEscapesTaskID(t *testing.T) {
	c, store := newTestClient(t)

	if _, err := c.Create(context.Background(), "T 1", "body", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, _ := store.List(context.Background(), "T 1")
	if len(stored) != 1 {
		t.Errorf("expected comment stored under the unescaped task ID, got %d", len(stored))
	}
}

func TestClientMapsSentinelErrors(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.Update(ctx, "T1", "c_missing", "body")
	if !errors.Is(err, comment.ErrNotFound) {
		t.Errorf("update err = %v, want ErrNotFound", err)
	}

	_, err = c.Create(ctx, "T1", " ", "")
	if !errors.Is(err, comment.ErrEmptyBody) {
		t.Errorf("create err = %v, want ErrEmptyBody", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected *APIError with 422, got %#v", err)
	}
}

func TestClientServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.List(context.Background(), "T1")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "server error: Bad Gateway" {
		t.Errorf("err = %q", err.Error())
	}
}

func TestClientSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	comments, err := New(srv.URL, "k").List(context.Background(), "T1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if comments == nil {
		t.Error("expected empty slice for null body")
	}
}
