// Package diag defines the errors raised while parsing and evaluating
// scripts, together with the call-stack snapshots and source snippets used to
// report them.
package diag

//go:generate go tool stringer -type=Kind -linecomment

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/ascript/lang/token"
)

// Kind tags the category of an [Error].
type Kind int

const (
	KindRuntime          Kind = iota // runtime
	KindParse                        // parse
	KindScope                        // scope
	KindNoMatchingMember             // no matching member
	KindAmbiguousCall                // ambiguous call
	KindNoSuchMember                 // no such member
	KindConversion                   // conversion
	KindHostInvocation               // host invocation
	KindThrow                        // throw
)

// IsResolution reports whether the kind is raised by host member resolution.
func (k Kind) IsResolution() bool {
	return k == KindNoMatchingMember ||
		k == KindAmbiguousCall ||
		k == KindNoSuchMember
}

// Error is a script error. It carries a kind, the source position where it
// was raised, a snapshot of the script call stack, optional structured
// attributes, and an optional wrapped cause.
//
// Error values are immutable: [Error.With], [Error.Wrap], [Error.At] and
// [Error.WithStack] all return modified copies, so sentinel prototypes can
// be shared freely.
type Error struct {
	kind  Kind
	msg   string
	err   error
	attrs []slog.Attr
	pos   token.Position
	stack Stack
	value any
}

// New creates a new Error prototype of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap converts err to an *Error, returning it unchanged if it already is
// one, or wrapping it as a runtime error otherwise.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{kind: KindRuntime, err: err}
}

// Kind returns the error's category.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the error's own message, without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// Pos returns the source position where the error was raised.
func (e *Error) Pos() token.Position { return e.pos }

// Stack returns the call-stack snapshot, innermost frame first.
func (e *Error) Stack() Stack { return e.stack }

// Value returns the thrown value of a [KindThrow] error.
func (e *Error) Value() any { return e.value }

// Attrs returns the structured attributes attached to the error.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// Attr returns the value of the named attribute.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	for _, a := range e.attrs {
		if a.Key == detailKey {
			part = append(part, a.Value.String())
		}
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error prototype with the same kind and
// message, so derived errors match the sentinel they were created from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.kind == t.kind && e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	attrs = append(attrs, slog.String("kind", e.kind.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	if len(e.stack) > 0 {
		attrs = append(attrs, slog.String("stack", e.stack.String()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := e.clone()
	c.attrs = newAttrs

	return c
}

// detailKey is the attribute whose value is included in Error().
const detailKey = "detail"

// Detail adds a human-readable detail that is included in the message.
func (e *Error) Detail(detail string) *Error {
	return e.With(slog.String(detailKey, detail))
}

// At sets the source position unless one is already recorded.
func (e *Error) At(pos token.Position) *Error {
	if e.pos.IsValid() || !pos.IsValid() {
		return e
	}

	c := e.clone()
	c.pos = pos

	return c
}

// WithStack attaches a call-stack snapshot unless one is already recorded.
func (e *Error) WithStack(stack Stack) *Error {
	if len(e.stack) > 0 || len(stack) == 0 {
		return e
	}

	c := e.clone()
	c.stack = stack

	return c
}

// WithValue attaches the value carried by a thrown error.
func (e *Error) WithValue(v any) *Error {
	c := e.clone()
	c.value = v

	return c
}
