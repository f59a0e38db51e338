package lexer

import (
	"errors"
	"testing"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/token"
)

type opSet map[string]bool

func (s opSet) IsOperator(op string) bool { return s[op] }

var testOps = opSet{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"++": true, "--": true, "!": true,
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
	"&&": true, "||": true, "=": true, "+=": true, "=>": true, ":": true,
	",": true, "as": true, "instanceof": true, "<+>": true,
}

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()

	l := New(src, testOps)

	var out []token.Token

	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Kind == token.EOF {
			return out
		}

		out = append(out, tok)
	}
}

func TestNext(t *testing.T) {
	type tk struct {
		kind   token.Kind
		lexeme string
	}

	tests := []struct {
		name string
		src  string
		want []tk
	}{
		{
			name: "arithmetic",
			src:  "1 + 2*x",
			want: []tk{
				{token.Int, "1"}, {token.Op, "+"}, {token.Int, "2"},
				{token.Op, "*"}, {token.Ident, "x"},
			},
		},
		{
			name: "integer then member",
			src:  "1.toString()",
			want: []tk{
				{token.Int, "1"}, {token.Punct, "."}, {token.Ident, "toString"},
				{token.Punct, "("}, {token.Punct, ")"},
			},
		},
		{
			name: "decimals",
			src:  "1.5 2e3 4.0E-2 0x1F",
			want: []tk{
				{token.Decimal, "1.5"}, {token.Decimal, "2e3"},
				{token.Decimal, "4.0E-2"}, {token.Int, "0x1F"},
			},
		},
		{
			name: "keywords and word operators",
			src:  "if x as Int else null",
			want: []tk{
				{token.Keyword, "if"}, {token.Ident, "x"}, {token.Op, "as"},
				{token.Ident, "Int"}, {token.Keyword, "else"},
				{token.Keyword, "null"},
			},
		},
		{
			name: "longest operator match",
			src:  "a=-1; b<+>c; x=>x++",
			want: []tk{
				{token.Ident, "a"}, {token.Op, "="}, {token.Op, "-"},
				{token.Int, "1"}, {token.Punct, ";"},
				{token.Ident, "b"}, {token.Op, "<+>"}, {token.Ident, "c"},
				{token.Punct, ";"},
				{token.Ident, "x"}, {token.Op, "=>"}, {token.Ident, "x"},
				{token.Op, "++"},
			},
		},
		{
			name: "comments",
			src:  "a // line\n/* outer /* inner */ still */ b",
			want: []tk{{token.Ident, "a"}, {token.Ident, "b"}},
		},
		{
			name: "char and symbol",
			src:  `'a' 'name '\n'`,
			want: []tk{
				{token.Char, "a"}, {token.Symbol, "name"}, {token.Char, "\n"},
			},
		},
		{
			name: "string escapes",
			src:  `"tab\there \"q\" A \$"`,
			want: []tk{{token.String, "tab\there \"q\" A $"}},
		},
		{
			name: "spread",
			src:  "f(...xs)",
			want: []tk{
				{token.Ident, "f"}, {token.Punct, "("}, {token.Punct, "..."},
				{token.Ident, "xs"}, {token.Punct, ")"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexAll(t, tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.want), len(got), got)
			}

			for i, w := range tt.want {
				if got[i].Kind != w.kind || got[i].Lexeme != w.lexeme {
					t.Errorf("token %d: expected %v %q, got %v", i, w.kind, w.lexeme, got[i])
				}
			}
		})
	}
}

func TestPositions(t *testing.T) {
	toks := lexAll(t, "a\n  bb")

	if got := toks[0].Pos; got.Line != 1 || got.Column != 1 {
		t.Errorf("expected 1:1, got %v", got)
	}

	if got := toks[1].Pos; got.Line != 2 || got.Column != 3 || got.Offset != 4 {
		t.Errorf("expected 2:3 at offset 4, got %v (offset %d)", got, got.Offset)
	}
}

func TestPush(t *testing.T) {
	l := New("a b", testOps)

	a, _ := l.Next()
	l.Push(a)

	again, _ := l.Next()
	if again != a {
		t.Fatalf("expected pushed token %v, got %v", a, again)
	}

	b, _ := l.Next()
	if b.Lexeme != "b" {
		t.Errorf("expected b, got %v", b)
	}
}

func TestInterpolation(t *testing.T) {
	l := New(`"x=${x}, y=${ y }!"`, testOps)

	expect := func(kind token.Kind, lexeme string, next func() (token.Token, error)) {
		t.Helper()

		tok, err := next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Kind != kind || tok.Lexeme != lexeme {
			t.Fatalf("expected %v %q, got %v", kind, lexeme, tok)
		}
	}

	expect(token.Chunk, "x=", l.Next)
	expect(token.Ident, "x", l.Next)
	expect(token.Punct, "}", l.Next)
	expect(token.Chunk, ", y=", l.ResumeString)
	expect(token.Ident, "y", l.Next)
	expect(token.Punct, "}", l.Next)
	expect(token.String, "!", l.ResumeString)
	expect(token.EOF, "", l.Next)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unterminated string", `"abc`, diag.ErrUnterminated},
		{"unterminated comment", "/* /* */", diag.ErrUnterminated},
		{"bad escape", `"\q"`, diag.ErrMalformedLiteral},
		{"short unicode", `"\u12"`, diag.ErrMalformedLiteral},
		{"bad suffix", "12abc", diag.ErrMalformedLiteral},
		{"empty hex", "0x", diag.ErrMalformedLiteral},
		{"bad quote", "'1", diag.ErrMalformedLiteral},
		{"bad character", "`", diag.ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.src, testOps)

			var err error
			for err == nil {
				var tok token.Token

				tok, err = l.Next()
				if err == nil && tok.Kind == token.EOF {
					break
				}
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if !diag.Wrap(err).Pos().IsValid() {
				t.Errorf("expected error position, got none")
			}
		})
	}
}
