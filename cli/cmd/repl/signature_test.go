package repl

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/log"
)

type (
	calc    struct{}
	counter struct{ n int32 }
)

// testSession returns a session whose interpreter knows a static class Calc
// and an instance class Counter bound to the global ctr.
func testSession(t testing.TB) *Session {
	t.Helper()

	in := lang.New()

	calcClass := host.NewClass("Calc", reflect.TypeFor[calc]()).
		Static(host.Func("add", func(a, b int32) int32 { return a + b })).
		Static(host.Func("add", func(a, b, c int32) int32 { return a + b + c })).
		Static(host.Func("sum", func(xs ...int32) int32 {
			var n int32
			for _, x := range xs {
				n += x
			}

			return n
		}))

	counterClass := host.NewClass("Counter", reflect.TypeFor[*counter]()).
		Method(host.Method("inc", func(c *counter, by int32) int32 {
			c.n += by
			return c.n
		})).
		Field(host.Field{
			Name: "n",
			Type: host.Int,
			Get:  func(recv any) (any, error) { return recv.(*counter).n, nil },
		})

	for _, c := range []*host.Class{calcClass, counterClass} {
		if err := in.Register(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := in.Define("ctr", &counter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return NewSession(in, log.Logger{})
}

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no_call", "greeting", 8, "", 0, false},
		{"first_arg", "add(", 4, "add", 0, true},
		{"with_first_arg", "add(1", 5, "add", 0, true},
		{"second_arg", "add(1,", 6, "add", 1, true},
		{"second_arg_value", "add(1, 2", 8, "add", 1, true},
		{"static_member", "Path.join(", 10, "Path.join", 0, true},
		{"closed_inner_call", "f(g(1, 2), ", 11, "f", 1, true},
		{"open_inner_call", "f(g(1, ", 7, "g", 1, true},
		{"comma_in_string", `f("a,(b", `, 10, "f", 1, true},
		{"grouping", "(1 + 2", 6, "", 0, false},
		{"list_literal", "f([1, 2", 7, "", 0, false},
		{"list_in_call", "f([1, 2], ", 10, "f", 1, true},
		{"closed_call", "f(1) + 2", 8, "", 0, false},
		{"cursor_inside", "add(1, 2)", 5, "add", 0, true},
		{"number_callee", "1(", 2, "", 0, false},
		{"after_operator", "x + o.m(y", 9, "o.m", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex || got.inCall != tt.wantInCall {
				t.Errorf("expected (%q, %d, %v), got (%q, %d, %v)",
					tt.wantName, tt.wantIndex, tt.wantInCall,
					got.name, got.argIndex, got.inCall)
			}
		})
	}
}

func TestSignatureHint(t *testing.T) {
	s := testSession(t)

	if _, err := s.Eval(t.Context(), "f = (a, b = 1, ...rest) => a; o = new { g = x => x }"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		call     string
		argIndex int
		want     []string
		ok       bool
	}{
		{"closure", "f", 0, []string{"a", "b", "...rest"}, true},
		{"scope_member", "o.g", 0, []string{"x"}, true},
		{"static", "Calc.add", 0, []string{"Int", "Int"}, true},
		{"static_overload", "Calc.add", 2, []string{"Int", "Int", "Int"}, true},
		{"static_overflow", "Calc.add", 5, []string{"Int", "Int"}, true},
		{"variadic", "Calc.sum", 3, []string{"...Int"}, true},
		{"instance_method", "ctr.inc", 0, []string{"Int"}, true},
		{"unknown", "nope", 0, nil, false},
		{"unknown_member", "Calc.nope", 0, nil, false},
		{"not_callable", "ctr", 0, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := s.signatureHint(tt.call, tt.argIndex)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}

			if !ok {
				return
			}

			if h.name != tt.call {
				t.Errorf("expected name %q, got %q", tt.call, h.name)
			}

			if !slices.Equal(h.params, tt.want) {
				t.Errorf("expected params %v, got %v", tt.want, h.params)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	h := hint{name: "f", params: []string{"a", "...rest"}}

	for _, idx := range []int{0, 1, 4} {
		got := renderSignatureHint(h, idx)

		for _, want := range []string{"f", "(", "a", ", ", "...rest", ")"} {
			if !strings.Contains(got, want) {
				t.Errorf("argument %d: expected %q in %q", idx, want, got)
			}
		}
	}

	if got := renderSignatureHint(hint{name: "g"}, 0); !strings.Contains(got, "g") || !strings.Contains(got, ")") {
		t.Errorf("expected an empty parameter list, got %q", got)
	}
}

func BenchmarkSignatureHint(b *testing.B) {
	s := testSession(b)
	calls := []string{"Calc.add", "Calc.sum", "ctr.inc", "nope"}

	var i int
	for b.Loop() {
		_, _ = s.signatureHint(calls[i%len(calls)], 1)
		i++
	}
}
