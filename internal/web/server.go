// Package web exposes a comment.Store over a JSON HTTP API.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pablasso/quill/internal/comment"
	"github.com/pablasso/quill/internal/logging"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// Server serves the comments API.
type Server struct {
	store    comment.Store
	apiKey   string
	router   *mux.Router
	metrics  *metrics
	limiters *limiterPool
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each API key (or client IP without one) to rps
// requests per second with the given burst. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiters = nil
			return
		}
		s.limiters = newLimiterPool(rps, burst)
	}
}

// NewServer creates a Server backed by store. When apiKey is non-empty every
// API request must carry it as a bearer token.
func NewServer(store comment.Store, apiKey string, opts ...Option) *Server {
	s := &Server{
		store:   store,
		apiKey:  apiKey,
		router:  mux.NewRouter(),
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(logging.RequestLogger, s.metrics.middleware)

	s.router.Handle("/metrics", s.metrics.handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.requireAPIKey)
	if s.limiters != nil {
		api.Use(s.rateLimit)
	}
	api.HandleFunc("/tasks/{task}/comments", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{task}/comments", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{task}/comments/{id}", s.handleUpdate).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{task}/comments/{id}", s.handleDelete).Methods(http.MethodDelete)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

type createRequest struct {
	Body   string `json:"body"`
	Author string `json:"author"`
}

type updateRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task"]

	comments, err := s.store.List(r.Context(), taskID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task"]

	var req createRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.store.Create(r.Context(), taskID, req.Body, req.Author)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.store.Update(r.Context(), vars["task"], vars["id"], req.Body)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.store.Delete(r.Context(), vars["task"], vars["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireAPIKey rejects requests without the configured bearer token.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && !s.authorized(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorized reports whether the request carries the configured bearer token.
func (s *Server) authorized(r *http.Request) bool {
	got := []byte(r.Header.Get("Authorization"))
	want := []byte("Bearer " + s.apiKey)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// decodeJSON reads a size-limited JSON body into v and writes the error
// response when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, comment.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, comment.ErrEmptyBody):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("store operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response", "error", err)
	}
}
