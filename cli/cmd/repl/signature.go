package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/scope"
)

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call whose argument list contains the
// cursor.
type functionCall struct {
	name     string // dotted callee path, e.g. "Path.join"
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the call enclosing cursor in input. Parentheses
// and commas inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	var (
		opens []int // unmatched '(' offsets
		args  []int // comma count per open paren
		quote byte
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}

		case c == '"':
			quote = c

		case c == '(' || c == '[' || c == '{':
			opens = append(opens, i)
			args = append(args, 0)

		case c == ')' || c == ']' || c == '}':
			if n := len(opens); n > 0 {
				opens, args = opens[:n-1], args[:n-1]
			}

		case c == ',':
			if n := len(args); n > 0 {
				args[n-1]++
			}
		}
	}

	n := len(opens)
	if n == 0 || input[opens[n-1]] != '(' {
		return functionCall{}
	}

	open := opens[n-1]
	start := open

	for start > 0 && (isIdentByte(input[start-1]) || input[start-1] == '.') {
		start--
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" || isDigitByte(name[0]) {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: args[n-1], inCall: true}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || isDigitByte(c)
}

func isDigitByte(c byte) bool { return '0' <= c && c <= '9' }

// hint is a callable's name and the parameter labels of one of its
// signatures.
type hint struct {
	name   string
	params []string
}

// signatureHint returns the signature of the callable at the dotted path
// name that best fits a call with argIndex+1 arguments.
func (s *Session) signatureHint(name string, argIndex int) (hint, bool) {
	parent, last, dotted := cutLast(name, ".")

	if dotted {
		recv, ok := s.resolve(parent)
		if !ok {
			return hint{}, false
		}

		switch r := recv.(type) {
		case *host.Class:
			return overloadHint(name, r.Overloads(last, true), argIndex)

		case *scope.Scope, map[string]any:
			// members that are script values

		default:
			if c, ok := s.interp.Registry().ClassOf(recv); ok && c.HasMethod(last) {
				return overloadHint(name, c.Overloads(last, false), argIndex)
			}
		}
	}

	fn, ok := s.resolve(name)
	if !ok {
		return hint{}, false
	}

	switch f := fn.(type) {
	case *lang.Closure:
		return hint{name: name, params: f.Params()}, true

	case *host.Function:
		return overloadHint(name, f.Signatures(), argIndex)
	}

	return hint{}, false
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", s, false
	}

	return s[:i], s[i+len(sep):], true
}

// overloadHint picks the first signature that accepts argIndex+1 arguments,
// or the first signature when none does.
func overloadHint(name string, sigs []*host.Signature, argIndex int) (hint, bool) {
	if len(sigs) == 0 {
		return hint{}, false
	}

	pick := sigs[0]

	for _, sig := range sigs {
		if sig.Variadic || len(sig.Params) > argIndex {
			pick = sig

			break
		}
	}

	params := make([]string, len(pick.Params))
	for i, t := range pick.Params {
		params[i] = t.String()
	}

	if pick.Variadic && len(params) > 0 {
		params[len(params)-1] = "..." + params[len(params)-1]
	}

	return hint{name: name, params: params}, true
}

// renderSignatureHint renders h with the parameter at argIndex highlighted.
// A variadic parameter stays highlighted for every trailing argument.
func renderSignatureHint(h hint, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(h.name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range h.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		current := i == argIndex ||
			(strings.HasPrefix(p, "...") && argIndex >= i)

		if current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
