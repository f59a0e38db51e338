package parser

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/token"
)

// Precedence levels of the default operator table. Lower levels bind
// tighter.
const (
	LevelCast     = 2  // as instanceof
	LevelMultiply = 3  // * / %
	LevelAdd      = 4  // + -
	LevelCompare  = 5  // < > <= >=
	LevelEqual    = 6  // == !=
	LevelAnd      = 7  // &&
	LevelOr       = 8  // ||
	LevelAssign   = 9  // = += -= *= /= %= => :
	LevelTuple    = 10 // ,
)

// Assoc is the grouping rule applied between operators of equal precedence.
type Assoc int

const (
	Left  Assoc = iota // (a op b) op c
	Right              // a op (b op c)
	NAry               // op(a, b, c)
)

// Form selects the tree node an operator builds.
type Form int

const (
	FormBinary Form = iota
	FormAssign
	FormLambda
	FormLabel
	FormTuple
	FormCast
	FormInstanceOf
)

// Operator describes an infix operator.
type Operator struct {
	Symbol string
	Level  int
	Assoc  Assoc
	Form   Form
}

// prefix and postfix operators are fixed by the grammar.
var (
	prefixOps  = []string{"+", "-", "!", "++", "--"}
	postfixOps = []string{"++", "--"}
)

// Table is an immutable infix operator table. The zero value is not usable;
// start from [Default] and extend it with [Table.With].
type Table struct {
	ops   map[string]Operator
	assoc map[int]Assoc
}

// Default is the built-in operator table.
var Default = mustTable(
	Operator{"as", LevelCast, Left, FormCast},
	Operator{"instanceof", LevelCast, Left, FormInstanceOf},
	Operator{"*", LevelMultiply, Left, FormBinary},
	Operator{"/", LevelMultiply, Left, FormBinary},
	Operator{"%", LevelMultiply, Left, FormBinary},
	Operator{"+", LevelAdd, Left, FormBinary},
	Operator{"-", LevelAdd, Left, FormBinary},
	Operator{"<", LevelCompare, Left, FormBinary},
	Operator{">", LevelCompare, Left, FormBinary},
	Operator{"<=", LevelCompare, Left, FormBinary},
	Operator{">=", LevelCompare, Left, FormBinary},
	Operator{"==", LevelEqual, Left, FormBinary},
	Operator{"!=", LevelEqual, Left, FormBinary},
	Operator{"&&", LevelAnd, Left, FormBinary},
	Operator{"||", LevelOr, Left, FormBinary},
	Operator{"=", LevelAssign, Right, FormAssign},
	Operator{"+=", LevelAssign, Right, FormAssign},
	Operator{"-=", LevelAssign, Right, FormAssign},
	Operator{"*=", LevelAssign, Right, FormAssign},
	Operator{"/=", LevelAssign, Right, FormAssign},
	Operator{"%=", LevelAssign, Right, FormAssign},
	Operator{"=>", LevelAssign, Right, FormLambda},
	Operator{":", LevelAssign, Right, FormLabel},
	Operator{",", LevelTuple, NAry, FormTuple},
)

func mustTable(ops ...Operator) *Table {
	t, err := (&Table{}).With(ops...)
	if err != nil {
		panic(err)
	}

	return t
}

// With returns a copy of t extended with ops. An operator already in t is
// replaced. All operators sharing a level must share an associativity.
func (t *Table) With(ops ...Operator) (*Table, error) {
	c := &Table{
		ops:   maps.Clone(t.ops),
		assoc: maps.Clone(t.assoc),
	}

	if c.ops == nil {
		c.ops = make(map[string]Operator, len(ops))
		c.assoc = make(map[int]Assoc)
	}

	for _, op := range ops {
		if err := validate(op); err != nil {
			return nil, err
		}

		if a, ok := c.assoc[op.Level]; ok && a != op.Assoc {
			return nil, diag.ErrUnknownOperator.
				Detail("operator " + op.Symbol +
					" conflicts with the associativity of its level")
		}

		c.ops[op.Symbol] = op
		c.assoc[op.Level] = op.Assoc
	}

	return c, nil
}

func validate(op Operator) error {
	bad := func(why string) error {
		return diag.ErrUnknownOperator.Detail("operator " + op.Symbol + ": " + why)
	}

	switch {
	case op.Symbol == "":
		return bad("empty symbol")
	case op.Level < LevelCast || op.Level > LevelTuple:
		return bad("level out of range")
	}

	word := unicode.IsLetter(rune(op.Symbol[0]))

	for _, r := range op.Symbol {
		switch {
		case word && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)):
		case !word && strings.ContainsRune(`+-*/%<>=!&|^~?:,@#\`, r):
		default:
			return bad("invalid character " + string(r))
		}
	}

	if word && token.IsReserved(op.Symbol) && op.Form != FormCast && op.Form != FormInstanceOf {
		return bad("reserved word")
	}

	return nil
}

// Lookup returns the infix operator with the given symbol.
func (t *Table) Lookup(symbol string) (Operator, bool) {
	op, ok := t.ops[symbol]

	return op, ok
}

// IsOperator reports whether symbol is an infix, prefix or postfix operator.
// It lets the lexer split operator runs by longest match.
func (t *Table) IsOperator(symbol string) bool {
	_, ok := t.ops[symbol]

	return ok || slices.Contains(prefixOps, symbol)
}

// Operators returns the table's infix operators ordered by level, then
// symbol.
func (t *Table) Operators() []Operator {
	return slices.SortedFunc(maps.Values(t.ops), func(a, b Operator) int {
		if c := cmp.Compare(a.Level, b.Level); c != 0 {
			return c
		}

		return strings.Compare(a.Symbol, b.Symbol)
	})
}
