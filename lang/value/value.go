// Package value defines the runtime value types shared by the evaluator and
// the host interop layer.
//
// Script values are plain Go values:
//
//	null        nil
//	boolean     bool
//	integer     int32, int64 or *big.Int (also int8 and int16 from the host)
//	decimal     float32, float64 or *big.Float
//	character   Char
//	string      string
//	symbol      Symbol
//	list        []any
//	tuple       Tuple
//	map         map[string]any
//	function    Func
package value

import (
	"strings"
	"unique"
)

// Symbol is an interned identifier. Two symbols are equal exactly when their
// names are equal, and comparing them costs a pointer comparison.
type Symbol struct {
	h unique.Handle[string]
}

// Intern returns the canonical symbol for name.
func Intern(name string) Symbol {
	return Symbol{h: unique.Make(name)}
}

// Name returns the symbol's text.
func (s Symbol) Name() string {
	if s == (Symbol{}) {
		return ""
	}

	return s.h.Value()
}

// String returns the symbol in literal form, e.g. 'name.
func (s Symbol) String() string { return "'" + s.Name() }

// Char is a character value. It is distinct from int32 so characters and
// integers resolve to different host parameter types.
type Char rune

// String returns the character as a one-rune string.
func (c Char) String() string { return string(rune(c)) }

// Tuple is an ordered, fixed-size group of values produced by the comma
// operator. It is a distinct type from a list.
type Tuple []any

// Len returns the tuple's arity.
func (t Tuple) Len() int { return len(t) }

// Func is a callable value. Script closures and host function overload sets
// both implement it, so hosts can accept callbacks of either kind.
type Func interface {
	// Name returns the function's name, or "" for anonymous functions.
	Name() string
	// Call invokes the function with positional arguments.
	Call(args ...any) (any, error)
}

// Join formats each item with format and joins the results with sep.
func Join[T any](items []T, sep string, format func(T) string) string {
	var sb strings.Builder

	for i, item := range items {
		if i > 0 {
			sb.WriteString(sep)
		}

		sb.WriteString(format(item))
	}

	return sb.String()
}
