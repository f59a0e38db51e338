package repl

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/lang/diag"
)

func TestSessionPersistsBindings(t *testing.T) {
	s := testSession(t)

	for _, src := range []string{"val a = 1", "b = a + 1", "inc = x => x + b"} {
		if _, err := s.Eval(t.Context(), src); err != nil {
			t.Fatalf("%s: unexpected error: %v", src, err)
		}
	}

	v, err := s.Eval(t.Context(), "inc(a)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := lang.FormatValue(v); got != "3" {
		t.Errorf("expected 3, got %s", got)
	}

	var names []string
	for _, b := range s.Bindings() {
		names = append(names, b.Name)

		if b.Name == "a" && b.Mutable {
			t.Errorf("expected a to be immutable")
		}
	}

	if want := []string{"a", "b", "inc"}; !slices.Equal(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}

	s.Reset()

	if _, err := s.Eval(t.Context(), "a"); !errors.Is(err, diag.ErrUndefined) {
		t.Errorf("expected %v after reset, got %v", diag.ErrUndefined, err)
	}
}

func TestSessionLoad(t *testing.T) {
	s := testSession(t)

	if _, err := s.Load(t.Context(), strings.NewReader("greet = n => \"hi ${n}\";\nx = 2\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := s.Eval(t.Context(), `greet(x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != "hi 2" {
		t.Errorf("expected %q, got %v", "hi 2", v)
	}

	if _, err := s.Load(t.Context(), strings.NewReader("1 +")); !errors.Is(err, diag.ErrUnterminated) {
		t.Errorf("expected %v, got %v", diag.ErrUnterminated, err)
	}
}

func TestSessionCancel(t *testing.T) {
	s := testSession(t)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	if _, err := s.Eval(ctx, "while (true) 1"); !errors.Is(err, diag.ErrCanceled) {
		t.Errorf("expected %v, got %v", diag.ErrCanceled, err)
	}
}

func TestSessionCandidates(t *testing.T) {
	s := testSession(t)

	if _, err := s.Eval(t.Context(), `cfg = new { level = 1; sub = new { deep = 2 } }; m = new Map(); m.k = 1; xs = [1]`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		parent string
		want   []string
		absent []string
	}{
		{"", []string{"cfg", "m", "xs", "Calc", "Int", "ctr"}, nil},
		{"cfg", []string{"level", "sub"}, nil},
		{"cfg.sub", []string{"deep"}, []string{"level"}},
		{"Calc", []string{"add", "sum"}, nil},
		{"ctr", []string{"inc", "n"}, nil},
		{"m", []string{"k", "has", "keys"}, nil},
		{"xs", []string{"size"}, nil},
		{"nope", nil, []string{"cfg"}},
		{"cfg.nope", nil, []string{"level"}},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			got := s.Candidates(tt.parent)

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("expected %q in %v", w, got)
				}
			}

			for _, a := range tt.absent {
				if slices.Contains(got, a) {
					t.Errorf("expected %q absent from %v", a, got)
				}
			}
		})
	}
}

func TestSessionOutput(t *testing.T) {
	var out Output

	s := testSession(t).WithOutput(&out)
	if err := s.Interp().Define("emit", func(msg string) error {
		_, err := out.Write([]byte(msg + "\n"))
		return err
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Eval(t.Context(), `emit("one"); emit("two")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.drain(); got != "one\ntwo" {
		t.Errorf("expected %q, got %q", "one\ntwo", got)
	}

	if got := s.drain(); got != "" {
		t.Errorf("expected drained output, got %q", got)
	}
}
