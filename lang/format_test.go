package lang

import (
	"bytes"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/value"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"null", nil, "null"},
		{"bool", true, "true"},
		{"byte", int8(3), "3"},
		{"int", int32(-1), "-1"},
		{"long", int64(1) << 40, "1099511627776"},
		{"big", new(big.Int).Lsh(big.NewInt(1), 70), "1180591620717411303424"},
		{"float", float32(1.5), "1.5"},
		{"double", 3.0, "3.0"},
		{"string", `a"b`, `"a\"b"`},
		{"char", value.Char('x'), "'x'"},
		{"symbol", value.Intern("s"), "'s"},
		{"list", []any{int32(1), "a"}, `[1, "a"]`},
		{"tuple", value.Tuple{}, "()"},
		{"nested", value.Tuple{[]any{}, nil}, "([], null)"},
		{"map", map[string]any{"b": int32(1), "a": int32(2)}, `{"a": 2, "b": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.v); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatClosure(t *testing.T) {
	in := New()

	tests := []struct {
		src  string
		want string
	}{
		{"f = (a, ...rest) => a; f", "<function f(a, ...rest)>"},
		{"() => 1", "<function <anonymous>()>"},
		{"o = new { m = x => x }; o.m", "<function m(x)>"},
		{"Int", "Int"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := FormatValue(eval(t, in, tt.src)); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	s := scope.New()
	_ = s.Define(value.Intern("a"), int32(1), true)

	tests := []struct {
		name   string
		v      any
		indent int
		want   string
	}{
		{"list", []any{int32(1), "a", value.Char('c'), value.Intern("s")}, 0, `[1,"a","c","s"]` + "\n"},
		{"tuple", value.Tuple{true, nil}, 0, "[true,null]\n"},
		{"scope", s, 0, `{"a":1}` + "\n"},
		{"nan", math.NaN(), 0, `"NaN"` + "\n"},
		{"indent", map[string]any{"k": int32(1)}, 2, "{\n  \"k\": 1\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := FormatJSON(t.Context(), &buf, tt.v, tt.indent); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer

	if err := FormatYAML(t.Context(), &buf, map[string]any{"k": int32(1)}, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := buf.String(); got != "k: 1\n" {
		t.Errorf("expected %q, got %q", "k: 1\n", got)
	}
}

func TestDump(t *testing.T) {
	in := New()

	prog, err := in.Parse(t.Context(), "1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var js, ys bytes.Buffer

	if err := DumpJSON(t.Context(), &js, prog, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := DumpYAML(t.Context(), &ys, prog, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, out := range []string{js.String(), ys.String()} {
		if !strings.Contains(out, "block") || !strings.Contains(out, "+") {
			t.Errorf("expected a block with a + node, got %s", out)
		}
	}
}

func TestDumpTree(t *testing.T) {
	in := New()

	prog, err := in.Parse(t.Context(), "f = (a, b = 2) => a + b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer

	if err := DumpTree(&buf, prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"block @1:1",
		"  body[0]: assign @",
		" op==",
		"target: ident @1:1 name=f",
		"params[1]: param name=b",
		"default: literal @",
		"op=+",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
