package lang

import (
	"strconv"
	"strings"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/value"
)

// ref is an assignable location.
type ref interface {
	get() (any, error)
	set(v any) error
}

// nameRef is an identifier. Assigning to an unbound name defines a mutable
// variable in the current scope; assigning to a bound name writes through
// to the scope that owns it.
type nameRef struct {
	s   *scope.Scope
	sym value.Symbol
}

func (r nameRef) get() (any, error) { return r.s.Get(r.sym) }

func (r nameRef) set(v any) error {
	if _, ok := r.s.Lookup(r.sym); ok {
		return r.s.Set(r.sym, v)
	}

	return r.s.Define(r.sym, v, true)
}

// declRef is a var or val declaration.
type declRef struct {
	s    *scope.Scope
	decl *ast.Var
}

func (r declRef) get() (any, error) { return r.s.Get(r.decl.Name) }

func (r declRef) set(v any) error { return r.s.Define(r.decl.Name, v, r.decl.Mutable) }

// memberRef is a named member of an evaluated receiver.
type memberRef struct {
	ex   *execution
	recv any
	sym  value.Symbol
}

func (r memberRef) get() (any, error) { return r.ex.member(r.recv, r.sym) }

func (r memberRef) set(v any) error { return r.ex.setMember(r.recv, r.sym, v) }

// reference resolves an assignment target. A member receiver is evaluated
// once.
func (ex *execution) reference(n ast.Node, s *scope.Scope) (ref, error) {
	switch t := ast.Unwrap(n).(type) {
	case *ast.Ident:
		return nameRef{s: s, sym: t.Name}, nil

	case *ast.Var:
		return declRef{s: s, decl: t}, nil

	case *ast.Member:
		recv, err := ex.eval(t.Recv, s)
		if err != nil {
			return nil, err
		}

		return memberRef{ex: ex, recv: recv, sym: t.Name}, nil
	}

	return nil, diag.ErrInvalidTarget.Detail(ast.String(n))
}

func (ex *execution) assign(n *ast.Assign, s *scope.Scope) (any, error) {
	if n.Op == "=" {
		v, err := ex.eval(n.Value, s)
		if err != nil {
			return nil, err
		}

		if c, ok := v.(*Closure); ok && c.name == "" {
			if _, fresh := ast.Unwrap(n.Value).(*ast.Lambda); fresh {
				c.name = targetName(n.Target)
			}
		}

		if err := ex.store(n.Target, v, s); err != nil {
			return nil, err
		}

		return v, nil
	}

	target, err := ex.reference(n.Target, s)
	if err != nil {
		return nil, err
	}

	old, err := target.get()
	if err != nil {
		return nil, err
	}

	r, err := ex.eval(n.Value, s)
	if err != nil {
		return nil, err
	}

	v, err := ex.operate(strings.TrimSuffix(n.Op, "="), old, r, s, n.Pos())
	if err != nil {
		return nil, err
	}

	if err := target.set(v); err != nil {
		return nil, err
	}

	return v, nil
}

// store assigns v to target, destructuring tuple patterns.
func (ex *execution) store(target ast.Node, v any, s *scope.Scope) error {
	pattern, ok := ast.Unwrap(target).(*ast.Tuple)
	if !ok {
		r, err := ex.reference(target, s)
		if err != nil {
			return ex.fail(err, target.Pos())
		}

		if err := r.set(v); err != nil {
			return ex.fail(err, target.Pos())
		}

		return nil
	}

	t, ok := v.(value.Tuple)
	if !ok {
		return ex.fail(
			diag.ErrSingleToTuple.Detail(host.TypeOf(v).String()),
			target.Pos())
	}

	if len(t) != len(pattern.Items) {
		return ex.fail(
			diag.ErrTupleArity.Detail(
				strconv.Itoa(len(pattern.Items))+" targets, "+
					strconv.Itoa(len(t))+" values"),
			target.Pos())
	}

	for i, item := range pattern.Items {
		if err := ex.store(item, t[i], s); err != nil {
			return err
		}
	}

	return nil
}

// targetName is the name a function literal takes when assigned.
func targetName(n ast.Node) string {
	switch t := ast.Unwrap(n).(type) {
	case *ast.Ident:
		return t.Name.Name()
	case *ast.Var:
		return t.Name.Name()
	case *ast.Member:
		return t.Name.Name()
	}

	return ""
}

// step implements ++ and --. Postfix forms return the previous value.
func (ex *execution) step(n ast.Node, op string, post bool, s *scope.Scope) (any, error) {
	cell, err := ex.variable(n, s)
	if err != nil {
		return nil, err
	}

	old := cell.Get()

	v, err := arith(op[:1], old, int32(1))
	if err != nil {
		return nil, err
	}

	cell.Set(v)

	if post {
		return old, nil
	}

	return v, nil
}

// variable returns the mutable binding named by n: an identifier, or a
// member of a scope object.
func (ex *execution) variable(n ast.Node, s *scope.Scope) (*scope.Variable, error) {
	var (
		b  scope.Binding
		ok bool
	)

	switch t := ast.Unwrap(n).(type) {
	case *ast.Ident:
		if b, ok = s.Lookup(t.Name); !ok {
			return nil, diag.ErrUndefined.Detail(t.Name.Name())
		}

	case *ast.Member:
		recv, err := ex.eval(t.Recv, s)
		if err != nil {
			return nil, err
		}

		if obj, isScope := recv.(*scope.Scope); isScope && obj.Local(t.Name) {
			b, ok = obj.Lookup(t.Name)
		}
	}

	if cell, isVar := b.(*scope.Variable); ok && isVar {
		return cell, nil
	}

	return nil, diag.ErrNotVariable.Detail(ast.String(n))
}
