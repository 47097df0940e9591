package web

import (
	"net/http"
	"strings"
	"testing"
)

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, "")

	serve(s, http.MethodGet, "/api/tasks/T1/comments", "")
	serve(s, http.MethodGet, "/api/tasks/T2/comments", "")
	serve(s, http.MethodDelete, "/api/tasks/T1/comments/missing", "")

	rec := serve(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{
		`quill_http_requests_total{method="GET",route="/api/tasks/{task}/comments",status="200"} 2`,
		`quill_http_requests_total{method="DELETE",route="/api/tasks/{task}/comments/{id}",status="404"} 1`,
		"quill_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q\n%s", want, body)
		}
	}
	if strings.Contains(body, "T1") {
		t.Error("task IDs must not appear as label values")
	}
}

func TestMetrics_NoAPIKeyRequired(t *testing.T) {
	s, _ := newTestServer(t, "secret")

	rec := serve(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
