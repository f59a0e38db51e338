package lang

import (
	"errors"
	"strings"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/token"
	"github.com/ardnew/ascript/lang/value"
)

// eval evaluates n in s. Errors leave with the position of the innermost
// failing node and the call stack at the point of failure.
func (ex *execution) eval(n ast.Node, s *scope.Scope) (any, error) {
	v, err := ex.dispatch(n, s)
	if err != nil {
		return nil, ex.fail(err, n.Pos())
	}

	return v, nil
}

func (ex *execution) dispatch(n ast.Node, s *scope.Scope) (any, error) {
	switch n := n.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.Ident:
		return s.Get(n.Name)

	case *ast.Interp:
		return ex.interpolate(n, s)

	case *ast.Group:
		if n.Inner == nil {
			return value.Tuple{}, nil
		}

		return ex.eval(n.Inner, s)

	case *ast.Block:
		return ex.sequence(n.Body, s.Child())

	case *ast.List:
		items, err := ex.items(n.Items, s)
		if err != nil {
			return nil, err
		}

		return items, nil

	case *ast.Tuple:
		items, err := ex.items(n.Items, s)
		if err != nil {
			return nil, err
		}

		return value.Tuple(items), nil

	case *ast.Binary:
		return ex.binary(n, s)

	case *ast.Unary:
		return ex.unary(n, s)

	case *ast.Postfix:
		return ex.step(n.Operand, n.Op, true, s)

	case *ast.Assign:
		return ex.assign(n, s)

	case *ast.Var:
		return nil, s.Define(n.Name, nil, n.Mutable)

	case *ast.Label:
		return nil, diag.ErrLabel.Detail(n.Name.Name())

	case *ast.Spread:
		return nil, diag.ErrArgument.Detail("spread outside argument list")

	case *ast.Lambda:
		return &Closure{params: n.Params, body: n.Body, scope: s, interp: ex.interp}, nil

	case *ast.Cast:
		v, t, err := ex.typed(n.Value, n.Type, s)
		if err != nil {
			return nil, err
		}

		return host.Cast(v, t)

	case *ast.InstanceOf:
		v, t, err := ex.typed(n.Value, n.Type, s)
		if err != nil {
			return nil, err
		}

		return host.Instance(v, t), nil

	case *ast.If:
		return ex.branch(n, s)

	case *ast.While:
		return ex.loop(n, s)

	case *ast.With:
		return ex.with(n, s)

	case *ast.Throw:
		return ex.throw(n, s)

	case *ast.Return:
		var v any

		if n.Value != nil {
			var err error
			if v, err = ex.eval(n.Value, s); err != nil {
				return nil, err
			}
		}

		return nil, &returnSignal{value: v}

	case *ast.Try:
		return ex.try(n, s)

	case *ast.New:
		return ex.construct(n, s)

	case *ast.Object:
		obj := s.Child()
		if _, err := ex.sequence(n.Body.Body, obj); err != nil {
			return nil, err
		}

		return obj, nil

	case *ast.Member:
		recv, err := ex.eval(n.Recv, s)
		if err != nil {
			return nil, err
		}

		return ex.member(recv, n.Name)

	case *ast.Call:
		return ex.callNode(n, s)

	case *ast.Index:
		fn, err := ex.eval(n.Recv, s)
		if err != nil {
			return nil, err
		}

		args, named, err := ex.arguments(n.Args, s)
		if err != nil {
			return nil, err
		}

		return ex.call(fn, args, named, n.Pos())
	}

	return nil, diag.ErrOperandType.Detail("unknown expression " + ast.String(n))
}

// sequence evaluates body in s and returns the last value. Cancellation is
// checked before each expression.
func (ex *execution) sequence(body []ast.Node, s *scope.Scope) (any, error) {
	var v any

	for _, n := range body {
		if err := ex.check(); err != nil {
			return nil, ex.fail(err, n.Pos())
		}

		var err error
		if v, err = ex.eval(n, s); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// items evaluates list or tuple items, expanding spreads.
func (ex *execution) items(nodes []ast.Node, s *scope.Scope) ([]any, error) {
	out := make([]any, 0, len(nodes))

	for _, n := range nodes {
		sp, ok := n.(*ast.Spread)
		if !ok {
			v, err := ex.eval(n, s)
			if err != nil {
				return nil, err
			}

			out = append(out, v)

			continue
		}

		v, err := ex.eval(sp.Value, s)
		if err != nil {
			return nil, err
		}

		expanded, err := spread(v)
		if err != nil {
			return nil, ex.fail(err, sp.Pos())
		}

		out = append(out, expanded...)
	}

	return out, nil
}

func spread(v any) ([]any, error) {
	switch v := v.(type) {
	case []any:
		return v, nil
	case value.Tuple:
		return v, nil
	}

	return nil, diag.ErrArgument.Detail("cannot spread " + host.TypeOf(v).String())
}

func (ex *execution) interpolate(n *ast.Interp, s *scope.Scope) (any, error) {
	var sb strings.Builder

	for _, part := range n.Parts {
		v, err := ex.eval(part, s)
		if err != nil {
			return nil, err
		}

		sb.WriteString(Display(v))
	}

	return sb.String(), nil
}

func (ex *execution) binary(n *ast.Binary, s *scope.Scope) (any, error) {
	l, err := ex.eval(n.Left, s)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "&&":
		if !truthy(l) {
			return l, nil
		}

		return ex.eval(n.Right, s)

	case "||":
		if truthy(l) {
			return l, nil
		}

		return ex.eval(n.Right, s)
	}

	r, err := ex.eval(n.Right, s)
	if err != nil {
		return nil, err
	}

	return ex.operate(n.Op, l, r, s, n.Pos())
}

// operate applies the binary operator op. Operators the core does not
// define, and core operators applied to operands they do not support, are
// dispatched to a method of the left operand or a function in scope named
// after the operator.
func (ex *execution) operate(
	op string, l, r any, s *scope.Scope, pos token.Position,
) (any, error) {
	var (
		v   any
		err error
	)

	switch op {
	case "+":
		v, err = add(l, r)
	case "-", "*", "/", "%":
		v, err = arith(op, l, r)
	case "<", ">", "<=", ">=":
		v, err = relation(op, l, r)
	case "==":
		return equal(l, r), nil
	case "!=":
		return !equal(l, r), nil
	default:
		err = operandError(op, l, r)
	}

	if errors.Is(err, diag.ErrOperandType) {
		if fn, ok := ex.operator(op, l, r, s, pos); ok {
			return fn()
		}
	}

	return v, err
}

// operator finds the implementation of a user-defined operator: a method
// of the left operand, or a function bound to the operator's name.
func (ex *execution) operator(
	op string, l, r any, s *scope.Scope, pos token.Position,
) (func() (any, error), bool) {
	sym := value.Intern(op)

	if obj, ok := l.(*scope.Scope); ok && obj.Local(sym) {
		return func() (any, error) {
			return ex.invokeMember(l, sym, []any{r}, nil, pos)
		}, true
	}

	if c, ok := ex.interp.registry.ClassOf(l); ok && c.HasMethod(op) {
		return func() (any, error) {
			return ex.invokeMember(l, sym, []any{r}, nil, pos)
		}, true
	}

	if b, ok := s.Lookup(sym); ok {
		return func() (any, error) {
			return ex.call(b.Get(), []any{l, r}, nil, pos)
		}, true
	}

	return nil, false
}

func (ex *execution) unary(n *ast.Unary, s *scope.Scope) (any, error) {
	switch n.Op {
	case "++", "--":
		return ex.step(n.Operand, n.Op, false, s)
	}

	v, err := ex.eval(n.Operand, s)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "!":
		return !truthy(v), nil
	case "-":
		return negate(v)
	default:
		if _, ok := rung(v); !ok {
			return nil, operandError(n.Op, v)
		}

		return v, nil
	}
}

// typed evaluates the operands of as and instanceof.
func (ex *execution) typed(vn, tn ast.Node, s *scope.Scope) (any, host.Type, error) {
	v, err := ex.eval(vn, s)
	if err != nil {
		return nil, host.Type{}, err
	}

	tv, err := ex.eval(tn, s)
	if err != nil {
		return nil, host.Type{}, err
	}

	switch t := tv.(type) {
	case host.Type:
		return v, t, nil
	case *host.Class:
		return v, t.Type(), nil
	}

	return nil, host.Type{}, ex.fail(
		diag.ErrOperandType.Detail(FormatValue(tv)+" is not a type"), tn.Pos())
}

func (ex *execution) branch(n *ast.If, s *scope.Scope) (any, error) {
	c, err := ex.eval(n.Cond, s)
	if err != nil {
		return nil, err
	}

	switch {
	case truthy(c):
		return ex.eval(n.Then, s)
	case n.Else != nil:
		return ex.eval(n.Else, s)
	}

	return nil, nil
}

func (ex *execution) loop(n *ast.While, s *scope.Scope) (any, error) {
	var v any

	for {
		if err := ex.check(); err != nil {
			return nil, err
		}

		c, err := ex.eval(n.Cond, s)
		if err != nil {
			return nil, err
		}

		if !truthy(c) {
			return v, nil
		}

		if v, err = ex.eval(n.Body, s); err != nil {
			return nil, err
		}
	}
}

func (ex *execution) with(n *ast.With, s *scope.Scope) (any, error) {
	v, err := ex.eval(n.Scope, s)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(*scope.Scope)
	if !ok {
		return nil, ex.fail(operandError("with", v), n.Scope.Pos())
	}

	return ex.eval(n.Body, obj.Combine(s).Child())
}

func (ex *execution) throw(n *ast.Throw, s *scope.Scope) (any, error) {
	v, err := ex.eval(n.Value, s)
	if err != nil {
		return nil, err
	}

	if e, ok := v.(*diag.Error); ok {
		return nil, e
	}

	return nil, diag.ErrThrow.WithValue(v).Detail(Display(v))
}

func (ex *execution) try(n *ast.Try, s *scope.Scope) (any, error) {
	v, err := ex.eval(n.Body, s)
	if err == nil || !catchable(err) {
		return v, err
	}

	ex.interp.logger.TraceContext(ex.ctx, "caught", diagAttr(err))

	h := s.Child()
	if err := h.Define(n.Name, caught(err), true); err != nil {
		return nil, err
	}

	return ex.eval(n.Handler, h)
}
