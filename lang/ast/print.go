package ast

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/ascript/lang/value"
)

// String returns the canonical source form of n. Infix expressions are fully
// parenthesized, so the result exposes the tree's grouping and parses back
// to a tree with the same canonical form.
func String(n Node) string {
	var sb strings.Builder

	write(&sb, n)

	return sb.String()
}

// Program returns the canonical form of a statement sequence, with
// statements separated by "; ".
func Program(body []Node) string {
	var sb strings.Builder

	for i, n := range body {
		if i > 0 {
			sb.WriteString("; ")
		}

		write(&sb, n)
	}

	return sb.String()
}

// parenthesized reports whether the canonical form of n is already wrapped
// in parentheses.
func parenthesized(n Node) bool {
	switch n.(type) {
	case *Binary, *Assign, *Label, *Lambda, *Tuple, *Cast, *InstanceOf:
		return true
	}

	return false
}

func write(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		sb.WriteString("()")

	case *Literal:
		sb.WriteString(Literalize(n.Value))

	case *Ident:
		sb.WriteString(n.Name.Name())

	case *Interp:
		sb.WriteByte('"')

		for _, p := range n.Parts {
			if lit, ok := p.(*Literal); ok {
				if s, ok := lit.Value.(string); ok {
					sb.WriteString(escape(s, '"'))

					continue
				}
			}

			sb.WriteString("${")
			write(sb, p)
			sb.WriteByte('}')
		}

		sb.WriteByte('"')

	case *Binary:
		infix(sb, n.Left, n.Op, n.Right)

	case *Assign:
		infix(sb, n.Target, n.Op, n.Value)

	case *Cast:
		infix(sb, n.Value, "as", n.Type)

	case *InstanceOf:
		infix(sb, n.Value, "instanceof", n.Type)

	case *Label:
		sb.WriteByte('(')
		sb.WriteString(n.Name.Name())
		sb.WriteString(": ")
		write(sb, n.Value)
		sb.WriteByte(')')

	case *Lambda:
		sb.WriteString("((")

		for i, p := range n.Params {
			if i > 0 {
				sb.WriteString(", ")
			}

			if p.Variadic {
				sb.WriteString("...")
			}

			sb.WriteString(p.Name.Name())

			if p.Default != nil {
				sb.WriteString(" = ")
				write(sb, p.Default)
			}
		}

		sb.WriteString(") => ")
		write(sb, n.Body)
		sb.WriteByte(')')

	case *Tuple:
		sb.WriteByte('(')
		list(sb, n.Items)
		sb.WriteByte(')')

	case *Unary:
		sb.WriteString(n.Op)

		switch n.Operand.(type) {
		case *Unary, *Spread:
			sb.WriteByte('(')
			write(sb, n.Operand)
			sb.WriteByte(')')
		default:
			write(sb, n.Operand)
		}

	case *Postfix:
		write(sb, n.Operand)
		sb.WriteString(n.Op)

	case *Spread:
		sb.WriteString("...")
		write(sb, n.Value)

	case *List:
		sb.WriteByte('[')
		list(sb, n.Items)
		sb.WriteByte(']')

	case *Group:
		if n.Inner == nil {
			sb.WriteString("()")

			break
		}

		enclose(sb, n.Inner)

	case *Block:
		if len(n.Body) == 0 {
			sb.WriteString("{}")

			break
		}

		sb.WriteString("{ ")
		sb.WriteString(Program(n.Body))
		sb.WriteString(" }")

	case *If:
		sb.WriteString("if ")
		enclose(sb, n.Cond)
		sb.WriteByte(' ')
		write(sb, n.Then)

		if n.Else != nil {
			sb.WriteString(" else ")
			write(sb, n.Else)
		}

	case *While:
		sb.WriteString("while ")
		enclose(sb, n.Cond)
		sb.WriteByte(' ')
		write(sb, n.Body)

	case *With:
		sb.WriteString("with ")
		enclose(sb, n.Scope)
		sb.WriteByte(' ')
		write(sb, n.Body)

	case *Var:
		if n.Mutable {
			sb.WriteString("var ")
		} else {
			sb.WriteString("val ")
		}

		sb.WriteString(n.Name.Name())

	case *Throw:
		sb.WriteString("throw ")
		write(sb, n.Value)

	case *Return:
		sb.WriteString("return")

		if n.Value != nil {
			sb.WriteByte(' ')
			write(sb, n.Value)
		}

	case *Try:
		sb.WriteString("try ")
		write(sb, n.Body)
		sb.WriteString(" catch (")
		sb.WriteString(n.Name.Name())
		sb.WriteString(") ")
		write(sb, n.Handler)

	case *New:
		sb.WriteString("new ")
		write(sb, n.Type)
		sb.WriteByte('(')
		list(sb, n.Args)
		sb.WriteByte(')')

	case *Object:
		sb.WriteString("new ")
		write(sb, n.Body)

	case *Member:
		write(sb, n.Recv)
		sb.WriteByte('.')
		sb.WriteString(n.Name.Name())

	case *Call:
		write(sb, n.Fn)
		sb.WriteByte('(')
		list(sb, n.Args)
		sb.WriteByte(')')

	case *Index:
		write(sb, n.Recv)
		sb.WriteByte('[')
		list(sb, n.Args)
		sb.WriteByte(']')
	}
}

// enclose writes n in parentheses unless its canonical form already has
// them.
func enclose(sb *strings.Builder, n Node) {
	if parenthesized(n) {
		write(sb, n)

		return
	}

	sb.WriteByte('(')
	write(sb, n)
	sb.WriteByte(')')
}

func infix(sb *strings.Builder, left Node, op string, right Node) {
	sb.WriteByte('(')
	write(sb, left)
	sb.WriteByte(' ')
	sb.WriteString(op)
	sb.WriteByte(' ')
	write(sb, right)
	sb.WriteByte(')')
}

func list(sb *strings.Builder, items []Node) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}

		write(sb, item)
	}
}

// Literalize returns the source form of a literal value.
func Literalize(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case *big.Int:
		return v.String()
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}

		return s
	case string:
		return `"` + escape(v, '"') + `"`
	case value.Char:
		return "'" + escape(string(rune(v)), '\'') + "'"
	case value.Symbol:
		return v.String()
	}

	return "null"
}

func escape(s string, quote rune) string {
	var sb strings.Builder

	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '$':
			sb.WriteString(`\$`)
		case quote:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			} else {
				sb.WriteString(`\u`)

				h := strconv.FormatInt(int64(r), 16)
				sb.WriteString(strings.Repeat("0", max(0, 4-len(h))))
				sb.WriteString(h)
			}
		}
	}

	return sb.String()
}
