package ast

import (
	"math/big"
	"testing"

	"github.com/ardnew/ascript/lang/token"
	"github.com/ardnew/ascript/lang/value"
)

func ident(name string) *Ident { return &Ident{Name: value.Intern(name)} }

func lit(v any) *Literal { return &Literal{Value: v} }

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"nil", nil, "()"},
		{"literal", lit(int32(1)), "1"},
		{
			"nested_infix",
			&Assign{Op: "=", Target: ident("x"), Value: &Binary{
				Op: "+", Left: lit(int32(1)),
				Right: &Binary{Op: "*", Left: lit(int32(2)), Right: lit(int32(3))},
			}},
			"(x = (1 + (2 * 3)))",
		},
		{
			"lambda",
			&Lambda{
				Params: []Param{
					{Name: value.Intern("a")},
					{Name: value.Intern("b"), Default: lit(int32(1))},
					{Name: value.Intern("rest"), Variadic: true},
				},
				Body: ident("a"),
			},
			"((a, b = 1, ...rest) => a)",
		},
		{"tuple", &Tuple{Items: []Node{ident("a"), ident("b")}}, "(a, b)"},
		{"list", &List{Items: []Node{lit(int32(1)), &Spread{Value: ident("xs")}}}, "[1, ...xs]"},
		{"empty_group", &Group{}, "()"},
		{"group", &Group{Inner: ident("x")}, "(x)"},
		{"group_of_infix", &Group{Inner: &Binary{Op: "-", Left: ident("a"), Right: ident("b")}}, "(a - b)"},
		{"empty_block", &Block{}, "{}"},
		{"block", &Block{Body: []Node{ident("a"), ident("b")}}, "{ a; b }"},
		{
			"if_else",
			&If{Cond: ident("c"), Then: lit(int32(1)), Else: lit(int32(2))},
			"if (c) 1 else 2",
		},
		{"while", &While{Cond: lit(true), Body: &Block{}}, "while (true) {}"},
		{"with", &With{Scope: ident("cfg"), Body: ident("level")}, "with (cfg) level"},
		{"var", &Var{Name: value.Intern("v"), Mutable: true}, "var v"},
		{"val", &Var{Name: value.Intern("v")}, "val v"},
		{"throw", &Throw{Value: lit(value.Intern("oops"))}, "throw 'oops"},
		{"bare_return", &Return{}, "return"},
		{
			"try",
			&Try{Body: ident("f"), Name: value.Intern("e"), Handler: ident("e")},
			"try f catch (e) e",
		},
		{"new", &New{Type: ident("Point"), Args: []Node{lit(int32(1))}}, "new Point(1)"},
		{"object", &Object{Body: &Block{Body: []Node{ident("a")}}}, "new { a }"},
		{
			"member_call",
			&Call{Fn: &Member{Recv: ident("o"), Name: value.Intern("m")}, Args: []Node{lit("s")}},
			`o.m("s")`,
		},
		{"index", &Index{Recv: ident("xs"), Args: []Node{lit(int32(0))}}, "xs[0]"},
		{"unary", &Unary{Op: "-", Operand: ident("x")}, "-x"},
		{"double_unary", &Unary{Op: "-", Operand: &Unary{Op: "-", Operand: ident("x")}}, "-(-x)"},
		{"postfix", &Postfix{Op: "++", Operand: ident("i")}, "i++"},
		{"cast", &Cast{Value: ident("x"), Type: ident("Long")}, "(x as Long)"},
		{"instanceof", &InstanceOf{Value: ident("x"), Type: ident("Int")}, "(x instanceof Int)"},
		{"label", &Label{Name: value.Intern("n"), Value: lit(int32(1))}, "(n: 1)"},
		{
			"interpolation",
			&Interp{Parts: []Node{lit("hi \""), ident("n"), lit("!")}},
			`"hi \"${n}!"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.node); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestProgram(t *testing.T) {
	body := []Node{
		&Assign{Op: "=", Target: ident("a"), Value: lit(int32(1))},
		ident("a"),
	}

	if got, want := Program(body), "(a = 1); a"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := Program(nil); got != "" {
		t.Errorf("expected an empty program, got %q", got)
	}
}

func TestLiteralize(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{int32(-4), "-4"},
		{int64(1) << 40, "1099511627776"},
		{new(big.Int).Lsh(big.NewInt(1), 70), "1180591620717411303424"},
		{2.0, "2.0"},
		{2.5, "2.5"},
		{1e21, "1e+21"},
		{"a\tb\n", `"a\tb\n"`},
		{value.Char('x'), "'x'"},
		{value.Char('\''), `'\''`},
		{value.Intern("sym"), "'sym"},
	}

	for _, tt := range tests {
		if got := Literalize(tt.v); got != tt.want {
			t.Errorf("Literalize(%#v): expected %q, got %q", tt.v, tt.want, got)
		}
	}
}

func TestToMap(t *testing.T) {
	pos := token.Position{Line: 1, Column: 3}
	n := &Assign{
		At:     At{Position: pos},
		Op:     "=",
		Target: &Ident{At: At{Position: token.Position{Line: 1, Column: 1}}, Name: value.Intern("x")},
		Value: &Lambda{
			Params: []Param{{Name: value.Intern("y"), Variadic: true}},
			Body:   lit(new(big.Int).SetInt64(9)),
		},
	}

	m := ToMap(n)

	if m["node"] != "assign" || m["op"] != "=" || m["pos"] != "1:3" {
		t.Fatalf("expected an assign node at 1:3, got %v", m)
	}

	target := m["target"].(map[string]any)
	if target["node"] != "ident" || target["name"] != "x" {
		t.Errorf("expected the target ident, got %v", target)
	}

	fn := m["value"].(map[string]any)
	if fn["node"] != "lambda" || fn["pos"] != "-" {
		t.Errorf("expected a lambda without a position, got %v", fn)
	}

	param := fn["params"].([]any)[0].(map[string]any)
	if param["name"] != "y" || param["variadic"] != true {
		t.Errorf("expected a variadic parameter y, got %v", param)
	}

	body := fn["body"].(map[string]any)
	if body["value"] != "9" {
		t.Errorf("expected a big integer rendered as text, got %v", body["value"])
	}

	if ToMap(nil) != nil {
		t.Errorf("expected nil for a nil node")
	}
}

func TestRewrite(t *testing.T) {
	root := &Block{Body: []Node{
		&Binary{Op: "+", Left: ident("a"), Right: &Call{Fn: ident("f"), Args: []Node{ident("a")}}},
		&If{Cond: ident("a"), Then: lit(int32(1))},
	}}

	var visited int

	got := Rewrite(root, func(n Node) Node {
		visited++

		if id, ok := n.(*Ident); ok && id.Name == value.Intern("a") {
			return ident("b")
		}

		return n
	})

	if want := "{ (b + f(b)); if (b) 1 }"; String(got) != want {
		t.Errorf("expected %q, got %q", want, String(got))
	}

	// a, f, a, call, binary, a, 1, if, block
	if visited != 9 {
		t.Errorf("expected 9 visits, got %d", visited)
	}
}

func TestInfix(t *testing.T) {
	nodes := []Infix{
		&Binary{Level: 3, Right: ident("r")},
		&Assign{Level: 1, Value: ident("r")},
		&Label{Level: 1, Value: ident("r")},
		&Lambda{Level: 1, Body: ident("r")},
		&Cast{Level: 6, Type: ident("r")},
		&InstanceOf{Level: 6, Type: ident("r")},
		&Tuple{Level: 0, Items: []Node{ident("l"), ident("r")}},
	}

	for _, n := range nodes {
		if name := n.Rhs().(*Ident).Name.Name(); name != "r" {
			t.Errorf("%T: expected rhs r, got %s", n, name)
		}

		n.SetRhs(ident("s"))

		if name := n.Rhs().(*Ident).Name.Name(); name != "s" {
			t.Errorf("%T: expected rhs s after SetRhs, got %s", n, name)
		}
	}
}
