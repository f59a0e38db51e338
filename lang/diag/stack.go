package diag

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/ascript/lang/token"
)

// Frame is a single entry in a script call stack.
type Frame struct {
	Name string         // function name, or "" for anonymous functions
	Pos  token.Position // call site
}

// String formats the frame as "name at line:col".
func (f Frame) String() string {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}

	return name + " at " + f.Pos.String()
}

// Stack is a call-stack snapshot ordered innermost frame first.
type Stack []Frame

// String formats the stack on a single line.
func (s Stack) String() string {
	part := make([]string, len(s))
	for i, f := range s {
		part[i] = f.String()
	}

	return strings.Join(part, " <- ")
}

// Trace formats the stack as an indented multi-line trace.
func (s Stack) Trace() string {
	var sb strings.Builder

	for _, f := range s {
		sb.WriteString("\tat ")
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Snapshot copies frames recorded outermost first into a Stack ordered
// innermost first.
func Snapshot(frames []Frame) Stack {
	if len(frames) == 0 {
		return nil
	}

	s := slices.Clone(frames)
	slices.Reverse(s)

	return s
}

// Snippet renders the source line containing pos with a caret marker under
// the offending column.
func Snippet(source string, pos token.Position) string {
	lines := strings.Split(source, "\n")
	if !pos.IsValid() || pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(pos.Line)

	// Print the line with line number
	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[pos.Line-1])
	sb.WriteByte('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if pos.Column > 0 {
		sb.WriteString(strings.Repeat(" ", pos.Column-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}

// Format renders err for humans: the message, the source snippet when
// source is known, and the call-stack trace.
func Format(err error, source string) string {
	e := Wrap(err)
	if e == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(e.kind.String())
	sb.WriteString(" error")

	if e.pos.IsValid() {
		sb.WriteString(" at line ")
		sb.WriteString(strconv.Itoa(e.pos.Line))
		sb.WriteString(", column ")
		sb.WriteString(strconv.Itoa(e.pos.Column))
	}

	sb.WriteString(": ")
	sb.WriteString(e.Error())
	sb.WriteByte('\n')

	if source != "" {
		sb.WriteString(Snippet(source, e.pos))
	}

	sb.WriteString(e.stack.Trace())

	return sb.String()
}
