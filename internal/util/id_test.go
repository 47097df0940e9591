package util

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateShortID(t *testing.T) {
	t.Run("length matches request", func(t *testing.T) {
		for _, n := range []int{1, 6, 10, 32} {
			id, err := GenerateShortID(n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(id) != n {
				t.Errorf("expected length %d, got %d for id %q", n, len(id), id)
			}
		}
	})

	t.Run("contains only alphanumeric characters", func(t *testing.T) {
		pattern := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
		for i := 0; i < 100; i++ {
			id, err := GenerateShortID(6)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !pattern.MatchString(id) {
				t.Errorf("id %q contains non-alphanumeric characters", id)
			}
		}
	})

	t.Run("rejects non-positive length", func(t *testing.T) {
		if _, err := GenerateShortID(0); err == nil {
			t.Error("expected error for zero length")
		}
	})
}

func TestNewCommentID(t *testing.T) {
	t.Run("has prefix and fixed length", func(t *testing.T) {
		id, err := NewCommentID()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(id, "c_") {
			t.Errorf("expected c_ prefix, got %q", id)
		}
		if len(id) != len("c_")+commentIDLength {
			t.Errorf("unexpected length %d for id %q", len(id), id)
		}
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id, err := NewCommentID()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen[id] {
				t.Errorf("duplicate id generated: %q", id)
			}
			seen[id] = true
		}
	})
}
