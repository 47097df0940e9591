package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseLevel(tc.input); got != tc.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNewHandlerFormats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewHandler(&buf, Options{Format: "json"})).Info("hello", "task", "T1")
		if !strings.HasPrefix(buf.String(), "{") {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewHandler(&buf, Options{})).Info("hello", "task", "T1")
		if !strings.Contains(buf.String(), "task=T1") {
			t.Errorf("expected text output, got %q", buf.String())
		}
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewHandler(&buf, Options{Level: "warn"})).Info("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected no output below warn, got %q", buf.String())
		}
	})
}

func TestSetupWritesToFile(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	path := filepath.Join(t.TempDir(), "logs", "quill.log")
	closeFn, err := Setup(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	slog.Debug("written to file")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing message: %q", string(data))
	}
}

func TestRequestLogger(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest("GET", "/api/tasks/T1/comments", nil)
	RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

	output := buf.String()
	if !strings.Contains(output, "/api/tasks/T1/comments") {
		t.Error("expected path in log")
	}
	if !strings.Contains(output, "status=404") {
		t.Error("expected status in log")
	}
	if !strings.Contains(output, "level=WARN") {
		t.Error("expected 4xx to log at warn")
	}
}

func TestRequestLoggerSkipsHealth(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/health", nil)
	RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

	if buf.Len() > 0 {
		t.Error("expected no log for health check")
	}
}
