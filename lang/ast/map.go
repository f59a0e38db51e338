package ast

import (
	"math/big"

	"github.com/ardnew/ascript/lang/value"
)

// ToMap converts n to a tree of native Go maps and slices suitable for JSON
// or YAML encoding. Every node becomes a map with a "node" key naming its
// variant and a "pos" key holding its line:column position.
func ToMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{"pos": n.Pos().String()}

	switch n := n.(type) {
	case *Literal:
		m["node"] = "literal"
		m["value"] = native(n.Value)

	case *Ident:
		m["node"] = "ident"
		m["name"] = n.Name.Name()

	case *Interp:
		m["node"] = "interp"
		m["parts"] = maps(n.Parts)

	case *Binary:
		m["node"] = "binary"
		m["op"] = n.Op
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)

	case *Unary:
		m["node"] = "unary"
		m["op"] = n.Op
		m["operand"] = ToMap(n.Operand)

	case *Postfix:
		m["node"] = "postfix"
		m["op"] = n.Op
		m["operand"] = ToMap(n.Operand)

	case *Assign:
		m["node"] = "assign"
		m["op"] = n.Op
		m["target"] = ToMap(n.Target)
		m["value"] = ToMap(n.Value)

	case *Label:
		m["node"] = "label"
		m["name"] = n.Name.Name()
		m["value"] = ToMap(n.Value)

	case *Lambda:
		params := make([]any, len(n.Params))

		for i, p := range n.Params {
			pm := map[string]any{"name": p.Name.Name()}
			if p.Default != nil {
				pm["default"] = ToMap(p.Default)
			}

			if p.Variadic {
				pm["variadic"] = true
			}

			params[i] = pm
		}

		m["node"] = "lambda"
		m["params"] = params
		m["body"] = ToMap(n.Body)

	case *Tuple:
		m["node"] = "tuple"
		m["items"] = maps(n.Items)

	case *Cast:
		m["node"] = "cast"
		m["value"] = ToMap(n.Value)
		m["type"] = ToMap(n.Type)

	case *InstanceOf:
		m["node"] = "instanceof"
		m["value"] = ToMap(n.Value)
		m["type"] = ToMap(n.Type)

	case *List:
		m["node"] = "list"
		m["items"] = maps(n.Items)

	case *Group:
		m["node"] = "group"
		m["inner"] = ToMap(n.Inner)

	case *Block:
		m["node"] = "block"
		m["body"] = maps(n.Body)

	case *If:
		m["node"] = "if"
		m["cond"] = ToMap(n.Cond)
		m["then"] = ToMap(n.Then)

		if n.Else != nil {
			m["else"] = ToMap(n.Else)
		}

	case *While:
		m["node"] = "while"
		m["cond"] = ToMap(n.Cond)
		m["body"] = ToMap(n.Body)

	case *With:
		m["node"] = "with"
		m["scope"] = ToMap(n.Scope)
		m["body"] = ToMap(n.Body)

	case *Var:
		m["node"] = "var"
		m["name"] = n.Name.Name()
		m["mutable"] = n.Mutable

	case *Throw:
		m["node"] = "throw"
		m["value"] = ToMap(n.Value)

	case *Return:
		m["node"] = "return"

		if n.Value != nil {
			m["value"] = ToMap(n.Value)
		}

	case *Try:
		m["node"] = "try"
		m["body"] = ToMap(n.Body)
		m["name"] = n.Name.Name()
		m["handler"] = ToMap(n.Handler)

	case *New:
		m["node"] = "new"
		m["type"] = ToMap(n.Type)
		m["args"] = maps(n.Args)

	case *Object:
		m["node"] = "object"
		m["body"] = ToMap(n.Body)

	case *Member:
		m["node"] = "member"
		m["recv"] = ToMap(n.Recv)
		m["name"] = n.Name.Name()

	case *Call:
		m["node"] = "call"
		m["fn"] = ToMap(n.Fn)
		m["args"] = maps(n.Args)

	case *Index:
		m["node"] = "index"
		m["recv"] = ToMap(n.Recv)
		m["args"] = maps(n.Args)

	case *Spread:
		m["node"] = "spread"
		m["value"] = ToMap(n.Value)
	}

	return m
}

func maps(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = ToMap(n)
	}

	return out
}

// native converts literal values without a natural JSON form.
func native(v any) any {
	switch v := v.(type) {
	case *big.Int:
		return v.String()
	case value.Char:
		return v.String()
	case value.Symbol:
		return v.String()
	}

	return v
}
