package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("expected a missing file to load, got %v", err)
	}

	for _, e := range []Entry{
		{"x = 1", modeEval},
		{"list", modeCtrl},
		{"x + 1", modeEval},
		{"x + 1", modeEval}, // repeated: ignored
		{"  ", modeEval},    // blank: ignored
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "E:x = 1\nC:list\nE:x + 1\n"; string(data) != want {
		t.Errorf("expected file %q, got %q", want, data)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(loaded.Entries(), h.Entries()) {
		t.Errorf("expected %v, got %v", h.Entries(), loaded.Entries())
	}
}

func TestHistoryMovesDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{{"b", modeEval}, {"a", modeEval}, {"a", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "E:b\nE:a\nC:a\n"; string(data) != want {
		t.Errorf("expected file %q, got %q", want, data)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 10 {
		if err := h.Add(strconv.Itoa(i), modeEval); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("expected %d entries, got %d", maxHistory, h.Len())
	}

	if e, _ := h.At(0); e.Line != "10" {
		t.Errorf("expected oldest entry 10, got %q", e.Line)
	}
}

func TestHistoryAt(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("only", modeEval)

	if _, err := h.At(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected %v, got %v", ErrOutOfBounds, err)
	}

	if _, err := h.At(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected %v, got %v", ErrOutOfBounds, err)
	}

	if e, err := h.At(0); err != nil || e.Line != "only" {
		t.Errorf("expected only, got %q (%v)", e.Line, err)
	}
}

func TestHistoryLegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("1 + 1\n\nC:quit\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{{"1 + 1", modeEval}, {"quit", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
