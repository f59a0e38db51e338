// Package token defines the lexical tokens of the ascript language and the
// source positions attached to them.
package token

//go:generate go tool stringer -type=Kind -linecomment

import (
	"maps"
	"slices"
	"strconv"
)

// Kind identifies the lexical category of a token. A Chunk is a string
// fragment that ends where an embedded expression begins, and Punct covers
// ( ) [ ] { } ; and the member dot.
type Kind int

const (
	EOF Kind = iota // end of input

	Ident   // identifier
	Keyword // keyword
	Int     // integer
	Decimal // decimal
	String  // string
	Chunk   // string fragment
	Char    // character
	Symbol  // symbol
	Op      // operator
	Punct   // punctuation
)

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in runes, starting at 1
}

// IsValid reports whether the position refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String formats the position as "line:column".
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical token. Lexeme holds the decoded text for string,
// character and symbol literals and the raw text for everything else.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

// Is reports whether the token has the given kind and lexeme.
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

// IsPunct reports whether the token is the given punctuation mark.
func (t Token) IsPunct(lexeme string) bool { return t.Is(Punct, lexeme) }

// IsKeyword reports whether the token is the given reserved word.
func (t Token) IsKeyword(lexeme string) bool { return t.Is(Keyword, lexeme) }

// String returns a quoted description of the token used in diagnostics.
func (t Token) String() string {
	if t.Kind == EOF {
		return t.Kind.String()
	}

	return t.Kind.String() + " " + strconv.Quote(t.Lexeme)
}

// reserved is the static reserved-word table.
var reserved = map[string]struct{}{
	"as":         {},
	"catch":      {},
	"else":       {},
	"false":      {},
	"if":         {},
	"instanceof": {},
	"new":        {},
	"null":       {},
	"return":     {},
	"throw":      {},
	"true":       {},
	"try":        {},
	"val":        {},
	"var":        {},
	"while":      {},
	"with":       {},
}

// IsReserved reports whether s is a reserved word.
func IsReserved(s string) bool {
	_, ok := reserved[s]

	return ok
}

// ReservedWords returns the reserved words in sorted order.
func ReservedWords() []string {
	return slices.Sorted(maps.Keys(reserved))
}
