// Package ast defines the expression tree produced by the parser and walked
// by the evaluator.
//
// The node set is closed: every variant is declared in this package. Parents
// exclusively own their children and a tree never contains cycles, so trees
// can be shared read-only between concurrent evaluations.
package ast

import (
	"github.com/ardnew/ascript/lang/token"
	"github.com/ardnew/ascript/lang/value"
)

// Node is an expression tree node.
type Node interface {
	// Pos returns the node's source position.
	Pos() token.Position

	node()
}

// Infix is implemented by operator nodes that take part in precedence
// re-association. The parser splices tighter or right-associative operators
// into the right-hand operand of an Infix node.
type Infix interface {
	Node

	// Prec returns the precedence level of the node's operator. Lower levels
	// bind tighter.
	Prec() int
	// Rhs returns the right-hand operand.
	Rhs() Node
	// SetRhs replaces the right-hand operand.
	SetRhs(n Node)
}

// At is embedded in every node to record its source position.
type At struct {
	Position token.Position
}

// Pos returns the recorded position.
func (a At) Pos() token.Position { return a.Position }

func (At) node() {}

type (
	// Literal is a constant: integer, decimal, string, character, symbol,
	// boolean, or null.
	Literal struct {
		At

		Value any
	}

	// Ident is a reference to a name in scope.
	Ident struct {
		At

		Name value.Symbol
	}

	// Interp is a string with embedded expressions. Parts alternate between
	// string literals and expressions in source order.
	Interp struct {
		At

		Parts []Node
	}

	// Binary applies an infix operator to two operands. It covers
	// arithmetic, comparison, equality, logical, and user-defined operators.
	Binary struct {
		At

		Op    string
		Level int
		Left  Node
		Right Node
	}

	// Unary applies a prefix operator: + - ! ++ --.
	Unary struct {
		At

		Op      string
		Operand Node
	}

	// Postfix applies a postfix operator: ++ --.
	Postfix struct {
		At

		Op      string
		Operand Node
	}

	// Assign stores a value into a target. Op is "=" or a compound operator
	// such as "+=".
	Assign struct {
		At

		Op     string
		Level  int
		Target Node
		Value  Node
	}

	// Label names a value. It is meaningful as a named call argument.
	Label struct {
		At

		Name  value.Symbol
		Level int
		Value Node
	}

	// Lambda is a function literal.
	Lambda struct {
		At

		Params []Param
		Level  int
		Body   Node
	}

	// Tuple is an n-ary comma expression.
	Tuple struct {
		At

		Level int
		Items []Node
	}

	// Cast converts a value to a type: value as Type.
	Cast struct {
		At

		Level int
		Value Node
		Type  Node
	}

	// InstanceOf tests type membership: value instanceof Type.
	InstanceOf struct {
		At

		Level int
		Value Node
		Type  Node
	}

	// List is a list literal: [a, b, c].
	List struct {
		At

		Items []Node
	}

	// Group is a parenthesized expression. Inner is nil for "()".
	Group struct {
		At

		Inner Node
	}

	// Block is a sequence of expressions evaluated in a child scope.
	Block struct {
		At

		Body []Node
	}

	// If is a conditional. Else is nil when absent.
	If struct {
		At

		Cond Node
		Then Node
		Else Node
	}

	// While is a pre-tested loop.
	While struct {
		At

		Cond Node
		Body Node
	}

	// With evaluates Body with the members of the scope value Scope visible.
	With struct {
		At

		Scope Node
		Body  Node
	}

	// Var declares a name in the current scope. Mutable is false for val.
	Var struct {
		At

		Name    value.Symbol
		Mutable bool
	}

	// Throw raises a script error carrying Value.
	Throw struct {
		At

		Value Node
	}

	// Return leaves the enclosing function. Value is nil for a bare return.
	Return struct {
		At

		Value Node
	}

	// Try evaluates Body and, if it fails, evaluates Handler with the error
	// bound to Name.
	Try struct {
		At

		Body    Node
		Name    value.Symbol
		Handler Node
	}

	// New constructs a host object: new Type(args).
	New struct {
		At

		Type Node
		Args []Node
	}

	// Object evaluates Body in a fresh scope and yields that scope:
	// new { ... }.
	Object struct {
		At

		Body *Block
	}

	// Member selects a named member of a receiver: recv.name.
	Member struct {
		At

		Recv Node
		Name value.Symbol
	}

	// Call applies a callee to arguments: fn(args).
	Call struct {
		At

		Fn   Node
		Args []Node
	}

	// Index applies a receiver to bracketed arguments: recv[args].
	Index struct {
		At

		Recv Node
		Args []Node
	}

	// Spread expands a tuple or list into positional arguments: ...xs.
	Spread struct {
		At

		Value Node
	}
)

// Param is a function parameter.
type Param struct {
	Name     value.Symbol
	Default  Node // nil when the parameter has no default
	Variadic bool // collects trailing positional arguments
}

func (n *Binary) Prec() int { return n.Level }
func (n *Binary) Rhs() Node { return n.Right }
func (n *Binary) SetRhs(r Node) { n.Right = r }
func (n *Assign) Prec() int { return n.Level }
func (n *Assign) Rhs() Node { return n.Value }
func (n *Assign) SetRhs(r Node) { n.Value = r }
func (n *Label) Prec() int { return n.Level }
func (n *Label) Rhs() Node { return n.Value }
func (n *Label) SetRhs(r Node) { n.Value = r }
func (n *Lambda) Prec() int { return n.Level }
func (n *Lambda) Rhs() Node { return n.Body }
func (n *Lambda) SetRhs(r Node) { n.Body = r }
func (n *Cast) Prec() int { return n.Level }
func (n *Cast) Rhs() Node { return n.Type }
func (n *Cast) SetRhs(r Node) { n.Type = r }
func (n *InstanceOf) Prec() int { return n.Level }
func (n *InstanceOf) Rhs() Node { return n.Type }
func (n *InstanceOf) SetRhs(r Node) { n.Type = r }
func (n *Tuple) Prec() int { return n.Level }
func (n *Tuple) Rhs() Node { return n.Items[len(n.Items)-1] }
func (n *Tuple) SetRhs(r Node) { n.Items[len(n.Items)-1] = r }

// Unwrap strips any enclosing Group nodes.
func Unwrap(n Node) Node {
	for {
		g, ok := n.(*Group)
		if !ok || g.Inner == nil {
			return n
		}

		n = g.Inner
	}
}
