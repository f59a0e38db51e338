package parser

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/value"
)

func canonical(t *testing.T, src string, table *Table) string {
	t.Helper()

	prog, err := Parse(src, table)
	if err != nil {
		t.Fatalf("parse %q: unexpected error: %v", src, err)
	}

	return ast.Program(prog.Body)
}

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 1 * 2", "(1 + (1 * 2))"},
		{"(1 + 2) * 2 + 1", "(((1 + 2) * 2) + 1)"},
		{"a - b - c", "((a - b) - c)"},
		{"a = b = 1", "(a = (b = 1))"},
		{"a += b = 2", "(a += (b = 2))"},
		{"a || b && c == d < e + f * g", "(a || (b && (c == (d < (e + (f * g))))))"},
		{"a * b + c * d", "((a * b) + (c * d))"},
		{"a, b, c", "(a, b, c)"},
		{"a, b = 1, c", "(a, (b = 1), c)"},
		{"(a, b) = (1, 2)", "((a, b) = (1, 2))"},
		{"x => y => x + y", "((x) => ((y) => (x + y)))"},
		{"(a, b = 2, ...rest) => a", "((a, b = 2, ...rest) => a)"},
		{"() => 1", "(() => 1)"},
		{"f = x => x * 2", "(f = ((x) => (x * 2)))"},
		{"f(x => x + 1, 2)", "f(((x) => (x + 1)), 2)"},
		{"f(a, b: 2)", "f(a, (b: 2))"},
		{"f((a, b))", "f((a, b))"},
		{"f()", "f()"},
		{"a.b(c)[d].e", "a.b(c)[d].e"},
		{"1.toString()", "1.toString()"},
		{"-x * y", "(-x * y)"},
		{"!a && b", "(!a && b)"},
		{"- -x", "-(-x)"},
		{"a - -1", "(a - -1)"},
		{"-2147483648", "-2147483648"},
		{"x++ + ++y", "(x++ + ++y)"},
		{"x as Int + 1", "((x as Int) + 1)"},
		{"a * b as Long", "(a * (b as Long))"},
		{"x instanceof String == true", "((x instanceof String) == true)"},
		{"t(1) = 2", "t.update(2, 1)"},
		{"t[i] += 1", "t.update((t[i] + 1), i)"},
		{`"a ${x + 1} b"`, `"a ${(x + 1)} b"`},
		{`"${"x"}"`, `"x"`},
		{"'c' == 'sym", "('c' == 'sym)"},
		{"[1, 2.5, \"s\"]", "[1, 2.5, \"s\"]"},
		{"if (a) b else c", "if (a) b else c"},
		{"if (a < b) b", "if (a < b) b"},
		{"x = if (c) 1 else 2", "(x = if (c) 1 else 2)"},
		{"while (i < 3) { i++ }", "while (i < 3) { i++ }"},
		{"with (o) { a + b }", "with (o) { (a + b) }"},
		{"var x = 1; val y = 2", "(var x = 1); (val y = 2)"},
		{"throw e", "throw e"},
		{"return", "return"},
		{"try f() catch (e) g(e)", "try f() catch (e) g(e)"},
		{"new Point(1, 2).x", "new Point(1, 2).x"},
		{"new geo.Point()", "new geo.Point()"},
		{"new { a = 1 }", "new { (a = 1) }"},
		{"{ a; b }; c", "{ a; b }; c"},
		{"if (a) { b } c", "if (a) { b }; c"},
		{"f(...xs)", "f(...xs)"},
		{"f(if (c) a else b, 2)", "f(if (c) a else b, 2)"},
		{"g(x => throw x, 1)", "g(((x) => throw x), 1)"},
		{"f = x => throw x, 1", "((f = ((x) => throw x)), 1)"},
		{"h(while (c) i++, try a catch (e) b, 3)", "h(while (c) i++, try a catch (e) b, 3)"},
		{"f(with (o) a, return b + 1)", "f(with (o) a, return (b + 1))"},
		{"throw a + 1, b", "(throw (a + 1), b)"},
		{"a;;b;", "a; b"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := canonical(t, tt.src, nil)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}

			if again := canonical(t, got, nil); again != got {
				t.Errorf("canonical form is not stable: %s reparses as %s", got, again)
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"42", int32(42)},
		{"2147483648", int64(2147483648)},
		{"0x10", int32(16)},
		{"1_000", int32(1000)},
		{"010", int32(10)},
		{"1.5", 1.5},
		{"1e3", 1000.0},
		{`"s"`, "s"},
		{"'a'", value.Char('a')},
		{"'name", value.Intern("name")},
		{"true", true},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := ParseExpr(tt.src, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			lit, ok := n.(*ast.Literal)
			if !ok {
				t.Fatalf("expected literal, got %T", n)
			}

			if lit.Value != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, lit.Value)
			}
		})
	}

	n, err := ParseExpr("99999999999999999999", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := new(big.Int).SetString("99999999999999999999", 10)
	if got, ok := n.(*ast.Literal).Value.(*big.Int); !ok || got.Cmp(want) != 0 {
		t.Errorf("expected big integer %v, got %#v", want, n.(*ast.Literal).Value)
	}
}

func TestPositions(t *testing.T) {
	prog, err := Parse("a +\n  b", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bin, ok := prog.Body[0].(*ast.Binary)
	if !ok {
		t.Fatalf("expected binary, got %T", prog.Body[0])
	}

	if p := bin.Right.Pos(); p.Line != 2 || p.Column != 3 {
		t.Errorf("expected right operand at 2:3, got %v", p)
	}

	var missing int

	ast.Rewrite(prog, func(n ast.Node) ast.Node {
		if !n.Pos().IsValid() {
			missing++
		}

		return n
	})

	if missing > 0 {
		t.Errorf("expected every node to have a position, %d do not", missing)
	}
}

func TestDeterministic(t *testing.T) {
	const src = "f = (a, b = 1) => { c = a * b + 1; c, a }; f(2, b: 3)"

	first := canonical(t, src, nil)

	for range 10 {
		if got := canonical(t, src, nil); got != first {
			t.Fatalf("expected %s, got %s", first, got)
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"(1 + 2", diag.ErrMissingTerminator},
		{"(1]", diag.ErrMissingTerminator},
		{"[1, 2", diag.ErrMissingTerminator},
		{"{ a", diag.ErrMissingTerminator},
		{"f(a", diag.ErrMissingTerminator},
		{`"a ${b"`, diag.ErrUnterminated},
		{"1 +", diag.ErrUnterminated},
		{"a ! b", diag.ErrUnknownOperator},
		{"a ~ b", diag.ErrUnknownOperator},
		{"a b", diag.ErrUnexpectedToken},
		{"a )", diag.ErrUnexpectedToken},
		{"1 = 2", diag.ErrInvalidTarget},
		{"(a, 1) = (1, 2)", diag.ErrInvalidTarget},
		{"(a, b) += 1", diag.ErrInvalidTarget},
		{"1: 2", diag.ErrInvalidTarget},
		{"(a + 1) => a", diag.ErrInvalidParameter},
		{"(...a, b) => a", diag.ErrInvalidParameter},
		{"(a, a) => a", diag.ErrInvalidParameter},
		{"if a b", diag.ErrUnexpectedToken},
		{"try a", diag.ErrMissingTerminator},
		{"new 1", diag.ErrUnexpectedToken},
		{"var 1", diag.ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if e := diag.Wrap(err); e.Kind() != diag.KindParse {
				t.Errorf("expected parse error, got %v", e.Kind())
			}
		})
	}
}

func TestCustomOperator(t *testing.T) {
	table, err := Default.With(
		Operator{Symbol: "<+>", Level: LevelAdd, Assoc: Left, Form: FormBinary},
		Operator{Symbol: "mod", Level: LevelMultiply, Assoc: Left, Form: FormBinary},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := canonical(t, "a <+> b * c mod d <+> e", table), "((a <+> ((b * c) mod d)) <+> e)"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if _, err := Parse("a <+> b", nil); err == nil {
		t.Errorf("expected default table to reject <+>")
	}

	if _, ok := Default.Lookup("mod"); ok {
		t.Errorf("expected With to leave the receiver unchanged")
	}
}

func TestTableValidation(t *testing.T) {
	tests := []struct {
		name string
		op   Operator
	}{
		{"empty", Operator{Level: LevelAdd}},
		{"level", Operator{Symbol: "<>", Level: 42}},
		{"assoc conflict", Operator{Symbol: "<-", Level: LevelAssign, Assoc: Left}},
		{"reserved", Operator{Symbol: "while", Level: LevelAdd}},
		{"mixed", Operator{Symbol: "+a", Level: LevelAdd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Default.With(tt.op); !errors.Is(err, diag.ErrUnknownOperator) {
				t.Errorf("expected %v, got %v", diag.ErrUnknownOperator, err)
			}
		})
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"1 + 1 * 2",
		"(a, b) = (1, 2); a + b",
		"f = (x, ...r) => { x + r.size() }",
		`"a ${b} c"`,
		"if (a) b else { c; d }",
		"try throw 1 catch (e) e",
		"new { x = 1 }.x",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		a, errA := Parse(src, nil)
		b, errB := Parse(src, nil)

		if (errA == nil) != (errB == nil) {
			t.Fatalf("nondeterministic result: %v vs %v", errA, errB)
		}

		if errA == nil && ast.Program(a.Body) != ast.Program(b.Body) {
			t.Fatalf("nondeterministic tree for %q", src)
		}
	})
}
