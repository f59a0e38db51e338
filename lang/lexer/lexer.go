// Package lexer converts ascript source text into a stream of located
// tokens.
//
// Operator runs are split by longest match against an [Operators] set
// supplied by the parser, so operators added to a parser table are lexed
// without changes here. Interpolated strings are returned as a sequence of
// [token.Chunk] fragments; after parsing each embedded expression the parser
// calls [Lexer.ResumeString] to continue the enclosing literal.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/token"
)

// Operators reports whether a string is a known operator.
type Operators interface {
	IsOperator(op string) bool
}

// opChars are the characters that may appear in symbolic operators.
const opChars = "+-*/%<>=!&|^~?:,@#\\"

const eof = -1

// Lexer is a single-pass tokenizer with one token of pushback.
type Lexer struct {
	src    string
	ops    Operators
	off    int
	line   int
	col    int
	pushed []token.Token
}

// New returns a lexer reading src.
func New(src string, ops Operators) *Lexer {
	return &Lexer{
		src:    src,
		ops:    ops,
		line:   1,
		col:    1,
		pushed: make([]token.Token, 0, 1),
	}
}

// Source returns the text being tokenized.
func (l *Lexer) Source() string { return l.src }

// Pos returns the position of the next unread character.
func (l *Lexer) Pos() token.Position {
	return token.Position{Offset: l.off, Line: l.line, Column: l.col}
}

// Push returns tok to the stream so the next call to Next yields it again.
// Only one token may be pushed back at a time.
func (l *Lexer) Push(tok token.Token) {
	if len(l.pushed) > 0 {
		panic("lexer: multiple pushback")
	}

	l.pushed = append(l.pushed, tok)
}

// Next returns the next token. At end of input it returns a token of kind
// [token.EOF] indefinitely.
func (l *Lexer) Next() (token.Token, error) {
	if n := len(l.pushed); n > 0 {
		tok := l.pushed[n-1]
		l.pushed = l.pushed[:n-1]

		return tok, nil
	}

	if err := l.skip(); err != nil {
		return token.Token{}, err
	}

	pos := l.Pos()
	r := l.peek(0)

	switch {
	case r == eof:
		return token.Token{Kind: token.EOF, Pos: pos}, nil

	case isIdentStart(r):
		return l.word(pos), nil

	case isDigit(r):
		return l.number(pos)

	case r == '"':
		l.advance()

		return l.str(pos)

	case r == '\'':
		return l.quote(pos)

	case r == '.':
		if l.peek(1) == '.' && l.peek(2) == '.' {
			l.advanceN(3)

			return token.Token{Kind: token.Punct, Lexeme: "...", Pos: pos}, nil
		}

		l.advance()

		return token.Token{Kind: token.Punct, Lexeme: ".", Pos: pos}, nil

	case strings.ContainsRune("()[]{};", r):
		l.advance()

		return token.Token{Kind: token.Punct, Lexeme: string(r), Pos: pos}, nil

	case strings.ContainsRune(opChars, r):
		return l.operator(pos), nil
	}

	return token.Token{}, diag.ErrUnexpectedToken.
		Detail("invalid character " + strconv.QuoteRune(r)).
		At(pos)
}

// ResumeString continues an interpolated string literal after the closing
// brace of an embedded expression. It returns a [token.Chunk] if another
// embedded expression follows, or a [token.String] holding the final
// fragment.
func (l *Lexer) ResumeString() (token.Token, error) {
	l.pushed = l.pushed[:0]

	return l.str(l.Pos())
}

func (l *Lexer) peek(ahead int) rune {
	off := l.off

	for range ahead {
		if off >= len(l.src) {
			return eof
		}

		_, w := utf8.DecodeRuneInString(l.src[off:])
		off += w
	}

	if off >= len(l.src) {
		return eof
	}

	r, _ := utf8.DecodeRuneInString(l.src[off:])

	return r
}

func (l *Lexer) advance() rune {
	if l.off >= len(l.src) {
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += w

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) advanceN(n int) {
	for range n {
		l.advance()
	}
}

// skip consumes whitespace and comments.
func (l *Lexer) skip() error {
	for {
		r := l.peek(0)

		switch {
		case r == eof:
			return nil

		case unicode.IsSpace(r):
			l.advance()

		case r == '/' && l.peek(1) == '/':
			for r != '\n' && r != eof {
				r = l.advance()
			}

		case r == '/' && l.peek(1) == '*':
			if err := l.blockComment(); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// blockComment consumes a possibly nested /* ... */ comment.
func (l *Lexer) blockComment() error {
	pos := l.Pos()
	depth := 0

	for {
		switch r := l.peek(0); {
		case r == eof:
			return diag.ErrUnterminated.Detail("block comment").At(pos)

		case r == '/' && l.peek(1) == '*':
			l.advanceN(2)

			depth++

		case r == '*' && l.peek(1) == '/':
			l.advanceN(2)

			if depth--; depth == 0 {
				return nil
			}

		default:
			l.advance()
		}
	}
}

func (l *Lexer) word(pos token.Position) token.Token {
	start := l.off

	for isIdentPart(l.peek(0)) {
		l.advance()
	}

	lexeme := l.src[start:l.off]
	kind := token.Ident

	switch {
	case l.ops != nil && l.ops.IsOperator(lexeme):
		kind = token.Op
	case token.IsReserved(lexeme):
		kind = token.Keyword
	}

	return token.Token{Kind: kind, Lexeme: lexeme, Pos: pos}
}

func (l *Lexer) number(pos token.Position) (token.Token, error) {
	start := l.off
	kind := token.Int

	if l.peek(0) == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.advanceN(2)

		if !isHex(l.peek(0)) {
			return token.Token{}, diag.ErrMalformedLiteral.
				Detail("hexadecimal literal has no digits").
				At(pos)
		}

		for isHex(l.peek(0)) || l.peek(0) == '_' {
			l.advance()
		}

		return token.Token{Kind: kind, Lexeme: l.src[start:l.off], Pos: pos}, nil
	}

	l.digits()

	// A '.' belongs to the literal only when a digit follows, so 1.f lexes
	// as 1 . f
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		kind = token.Decimal

		l.advance()
		l.digits()
	}

	if r := l.peek(0); r == 'e' || r == 'E' {
		sign := l.peek(1)
		if isDigit(sign) || ((sign == '+' || sign == '-') && isDigit(l.peek(2))) {
			kind = token.Decimal

			l.advanceN(2)
			l.digits()
		}
	}

	if isIdentStart(l.peek(0)) {
		return token.Token{}, diag.ErrMalformedLiteral.
			Detail("invalid suffix on numeric literal " +
				strconv.Quote(l.src[start:l.off])).
			At(pos)
	}

	return token.Token{Kind: kind, Lexeme: l.src[start:l.off], Pos: pos}, nil
}

func (l *Lexer) digits() {
	for isDigit(l.peek(0)) || (l.peek(0) == '_' && isDigit(l.peek(1))) {
		l.advance()
	}
}

// str scans string content up to the closing quote or an embedded "${".
// The opening quote (or closing brace) has already been consumed.
func (l *Lexer) str(pos token.Position) (token.Token, error) {
	var sb strings.Builder

	for {
		r := l.peek(0)

		switch {
		case r == eof:
			return token.Token{}, diag.ErrUnterminated.
				Detail("string literal").
				At(pos)

		case r == '"':
			l.advance()

			return token.Token{Kind: token.String, Lexeme: sb.String(), Pos: pos}, nil

		case r == '$' && l.peek(1) == '{':
			l.advanceN(2)

			return token.Token{Kind: token.Chunk, Lexeme: sb.String(), Pos: pos}, nil

		case r == '\\':
			e, err := l.escape()
			if err != nil {
				return token.Token{}, err
			}

			sb.WriteRune(e)

		default:
			sb.WriteRune(l.advance())
		}
	}
}

// quote scans a character literal 'c' or a symbol literal 'name.
func (l *Lexer) quote(pos token.Position) (token.Token, error) {
	l.advance()

	r := l.peek(0)

	if r == '\\' {
		e, err := l.escape()
		if err != nil {
			return token.Token{}, err
		}

		if l.peek(0) != '\'' {
			return token.Token{}, diag.ErrUnterminated.
				Detail("character literal").
				At(pos)
		}

		l.advance()

		return token.Token{Kind: token.Char, Lexeme: string(e), Pos: pos}, nil
	}

	if r != eof && r != '\n' && l.peek(1) == '\'' {
		l.advanceN(2)

		return token.Token{Kind: token.Char, Lexeme: string(r), Pos: pos}, nil
	}

	if !isIdentStart(r) {
		return token.Token{}, diag.ErrMalformedLiteral.
			Detail("expected character or symbol after quote").
			At(pos)
	}

	start := l.off

	for isIdentPart(l.peek(0)) {
		l.advance()
	}

	return token.Token{Kind: token.Symbol, Lexeme: l.src[start:l.off], Pos: pos}, nil
}

// escape decodes a backslash escape sequence.
func (l *Lexer) escape() (rune, error) {
	pos := l.Pos()

	l.advance()

	switch r := l.advance(); r {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '0':
		return 0, nil
	case '\\', '"', '\'', '$':
		return r, nil
	case 'u':
		start := l.off

		for range 4 {
			if !isHex(l.peek(0)) {
				return 0, diag.ErrMalformedLiteral.
					Detail("\\u escape requires 4 hexadecimal digits").
					At(pos)
			}

			l.advance()
		}

		n, _ := strconv.ParseUint(l.src[start:l.off], 16, 32)

		return rune(n), nil
	case eof:
		return 0, diag.ErrUnterminated.Detail("escape sequence").At(pos)
	default:
		return 0, diag.ErrMalformedLiteral.
			Detail("unknown escape sequence \\" + string(r)).
			At(pos)
	}
}

// operator splits the longest known operator off the current run of
// operator characters. An unknown run yields its first character, which the
// parser reports.
func (l *Lexer) operator(pos token.Position) token.Token {
	start := l.off
	end := start

	for end < len(l.src) && strings.IndexByte(opChars, l.src[end]) >= 0 {
		if end > start && l.src[end] == '/' && end+1 < len(l.src) &&
			(l.src[end+1] == '/' || l.src[end+1] == '*') {
			break
		}

		end++
	}

	n := 1

	if l.ops != nil {
		for i := end; i > start; i-- {
			if l.ops.IsOperator(l.src[start:i]) {
				n = i - start

				break
			}
		}
	}

	l.advanceN(n)

	return token.Token{Kind: token.Op, Lexeme: l.src[start:l.off], Pos: pos}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isHex(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
