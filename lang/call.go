package lang

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/token"
	"github.com/ardnew/ascript/lang/value"
)

// Closure is a script function: its parameters, its body and the scope it
// was defined in. It implements value.Func, so hosts can accept closures as
// callbacks.
type Closure struct {
	name   string
	params []ast.Param
	body   ast.Node
	scope  *scope.Scope
	interp *Interp
}

// Name returns the name the closure was first assigned to, or "" for an
// anonymous function.
func (c *Closure) Name() string { return c.name }

// Params returns the declared parameter names. A variadic collector is
// prefixed with "...".
func (c *Closure) Params() []string {
	out := make([]string, len(c.params))
	for i, p := range c.params {
		out[i] = p.Name.Name()
		if p.Variadic {
			out[i] = "..." + out[i]
		}
	}

	return out
}

// String formats the closure's signature, e.g. "<function f(a, ...rest)>".
func (c *Closure) String() string {
	name := c.name
	if name == "" {
		name = "<anonymous>"
	}

	return "<function " + name + "(" + strings.Join(c.Params(), ", ") + ")>"
}

// Call invokes the closure with positional arguments in a new execution
// without a deadline. Use [Interp.Call] to supply a context.
//
// A closure passed as an argument to a host call is handed over as a
// callback bound to the calling execution, so while the host call runs its
// Call shares that execution's context, call stack and depth limit.
func (c *Closure) Call(args ...any) (any, error) {
	return c.interp.execution(context.Background()).invoke(c, args, nil, token.Position{})
}

// callback is a closure handed to the host. Until the host call that
// received it returns, Call continues the calling execution from a copy of
// its frames; afterwards it behaves like [Closure.Call].
type callback struct {
	*Closure
	ctx    context.Context
	frames []diag.Frame
	pos    token.Position
	live   atomic.Bool
}

func (cb *callback) Call(args ...any) (any, error) {
	if !cb.live.Load() {
		return cb.Closure.Call(args...)
	}

	ex := &execution{ctx: cb.ctx, interp: cb.interp, frames: slices.Clone(cb.frames)}

	return ex.invoke(cb.Closure, args, nil, cb.pos)
}

// bindCallbacks replaces the closures among args with callbacks bound to ex.
// The returned function releases them.
func (ex *execution) bindCallbacks(args []any, pos token.Position) ([]any, func()) {
	var bound []*callback

	out := args

	for i, a := range args {
		c, ok := a.(*Closure)
		if !ok {
			continue
		}

		if bound == nil {
			out = slices.Clone(args)
		}

		cb := &callback{Closure: c, ctx: ex.ctx, frames: slices.Clone(ex.frames), pos: pos}
		cb.live.Store(true)

		bound = append(bound, cb)
		out[i] = cb
	}

	return out, func() {
		for _, cb := range bound {
			cb.live.Store(false)
		}
	}
}

// unbind returns the closure behind a callback the host handed back.
func unbind(v any) any {
	if cb, ok := v.(*callback); ok {
		return cb.Closure
	}

	return v
}

// named is a labeled call argument, f(name: value).
type named struct {
	sym value.Symbol
	v   any
	pos token.Position
}

// arguments evaluates call arguments, expanding spreads and collecting
// labeled arguments.
func (ex *execution) arguments(nodes []ast.Node, s *scope.Scope) ([]any, []named, error) {
	var (
		pos   []ast.Node
		names []named
	)

	for _, n := range nodes {
		l, ok := n.(*ast.Label)
		if !ok {
			pos = append(pos, n)

			continue
		}

		v, err := ex.eval(l.Value, s)
		if err != nil {
			return nil, nil, err
		}

		names = append(names, named{sym: l.Name, v: v, pos: l.Pos()})
	}

	args, err := ex.items(pos, s)
	if err != nil {
		return nil, nil, err
	}

	return args, names, nil
}

func (ex *execution) callNode(n *ast.Call, s *scope.Scope) (any, error) {
	if m, ok := ast.Unwrap(n.Fn).(*ast.Member); ok {
		recv, err := ex.eval(m.Recv, s)
		if err != nil {
			return nil, err
		}

		args, names, err := ex.arguments(n.Args, s)
		if err != nil {
			return nil, err
		}

		return ex.invokeMember(recv, m.Name, args, names, n.Pos())
	}

	fn, err := ex.eval(n.Fn, s)
	if err != nil {
		return nil, err
	}

	args, names, err := ex.arguments(n.Args, s)
	if err != nil {
		return nil, err
	}

	return ex.call(fn, args, names, n.Pos())
}

// call applies fn to args. Functions are invoked, a type converts its single
// argument, a class constructs an instance, and any other value is applied
// through its class's apply method.
func (ex *execution) call(fn any, args []any, names []named, pos token.Position) (any, error) {
	if c, ok := fn.(*Closure); ok {
		return ex.invoke(c, args, names, pos)
	}

	if len(names) > 0 {
		return nil, diag.ErrArgument.
			Detail("named argument " + names[0].sym.Name() + " passed to " + FormatValue(fn))
	}

	switch f := fn.(type) {
	case nil:
		return nil, diag.ErrNotCallable.Detail("null")

	case value.Func:
		return ex.host(f.Name(), pos, args, func(args []any) (any, error) { return f.Call(args...) })

	case host.Type:
		if len(args) != 1 {
			return nil, diag.ErrArgument.
				Detail(f.String() + " conversion takes 1 argument, got " + strconv.Itoa(len(args)))
		}

		return host.Cast(args[0], f)

	case *host.Class:
		return ex.host(f.Name(), pos, args, f.New)
	}

	c, ok := ex.interp.registry.ClassOf(fn)
	if !ok || !c.HasMethod(host.Apply) {
		return nil, diag.ErrNotCallable.Detail(host.TypeOf(fn).String())
	}

	return ex.host(c.Name()+"."+host.Apply, pos, args, func(args []any) (any, error) {
		return c.Call(fn, host.Apply, args)
	})
}

// host runs a host call inside a call frame. Closures among args reach fn
// as callbacks bound to ex.
func (ex *execution) host(
	name string, pos token.Position, args []any, fn func([]any) (any, error),
) (any, error) {
	leave, err := ex.enter(name, pos)
	if err != nil {
		return nil, ex.fail(err, pos)
	}
	defer leave()

	args, release := ex.bindCallbacks(args, pos)
	defer release()

	v, err := fn(args)
	if err != nil {
		ex.interp.logger.TraceContext(ex.ctx, "host call failed",
			slog.String("function", name), diagAttr(err))

		return nil, ex.fail(err, pos)
	}

	return unbind(host.Adapt(v)), nil
}

// invoke calls a closure: arguments are bound in a new child of the scope
// the closure was defined in, and a return inside the body ends the call.
func (ex *execution) invoke(c *Closure, args []any, names []named, pos token.Position) (any, error) {
	leave, err := ex.enter(c.name, pos)
	if err != nil {
		return nil, ex.fail(err, pos)
	}
	defer leave()

	local := c.scope.Child()

	if err := ex.bind(c, local, args, names); err != nil {
		return nil, ex.fail(err, pos)
	}

	v, err := ex.eval(c.body, local)
	if r, ok := err.(*returnSignal); ok {
		return r.value, nil
	}

	return v, err
}

// bind defines the parameters of c in local. Positional arguments fill the
// fixed parameters in order and the rest go to the variadic collector;
// labeled arguments fill the parameter of the same name. Defaults of unfilled
// parameters are evaluated in local, so they see the parameters before them.
func (ex *execution) bind(c *Closure, local *scope.Scope, args []any, names []named) error {
	n := len(c.params)

	vals := make([]any, n)
	set := make([]bool, n)

	fixed := n
	if n > 0 && c.params[n-1].Variadic {
		fixed = n - 1
	}

	for i, v := range args {
		switch {
		case i < fixed:
			vals[i], set[i] = v, true
		case fixed < n:
			rest, _ := vals[fixed].([]any)
			vals[fixed], set[fixed] = append(rest, v), true
		default:
			return diag.ErrArgument.Detail(
				"too many arguments to " + c.String() + ": expected " +
					strconv.Itoa(fixed) + ", got " + strconv.Itoa(len(args)))
		}
	}

	for _, a := range names {
		i := paramIndex(c.params, a.sym)
		if i < 0 {
			return diag.ErrArgument.
				Detail("unknown parameter " + a.sym.Name() + " of " + c.String()).
				At(a.pos)
		}

		if set[i] {
			return diag.ErrArgument.
				Detail("parameter " + a.sym.Name() + " given more than once").
				At(a.pos)
		}

		vals[i], set[i] = a.v, true
	}

	for i, p := range c.params {
		v := vals[i]

		switch {
		case set[i]:
		case p.Variadic:
			v = []any{}
		case p.Default != nil:
			var err error
			if v, err = ex.eval(p.Default, local); err != nil {
				return err
			}
		default:
			return diag.ErrArgument.Detail("missing argument " + p.Name.Name() + " to " + c.String())
		}

		if err := local.Define(p.Name, v, true); err != nil {
			return err
		}
	}

	return nil
}

func paramIndex(params []ast.Param, sym value.Symbol) int {
	for i, p := range params {
		if p.Name == sym {
			return i
		}
	}

	return -1
}

// member reads the member sym of recv: a local binding of a scope object, a
// static member of a class, a map entry, or a field or bound method of a
// host value.
func (ex *execution) member(recv any, sym value.Symbol) (any, error) {
	name := sym.Name()

	switch r := recv.(type) {
	case *scope.Scope:
		if r.Local(sym) {
			return r.Get(sym)
		}

		return nil, noSuchMember(recv, name)

	case *host.Class:
		if fn, ok := r.BindStatic(name); ok {
			return fn, nil
		}

		return r.GetStatic(name)

	case map[string]any:
		if v, ok := r[name]; ok {
			return v, nil
		}
	}

	c, ok := ex.interp.registry.ClassOf(recv)
	if !ok {
		return nil, noSuchMember(recv, name)
	}

	if c.HasField(name) {
		return c.Get(recv, name)
	}

	if fn, ok := c.Bind(recv, name); ok {
		return fn, nil
	}

	if _, isMap := recv.(map[string]any); isMap {
		return nil, nil
	}

	return nil, noSuchMember(recv, name)
}

// setMember assigns the member sym of recv.
func (ex *execution) setMember(recv any, sym value.Symbol, v any) error {
	name := sym.Name()

	switch r := recv.(type) {
	case *scope.Scope:
		if b, ok := r.Lookup(sym); ok && r.Local(sym) {
			cell, isVar := b.(*scope.Variable)
			if !isVar {
				return diag.ErrImmutable.Detail(name)
			}

			cell.Set(v)

			return nil
		}

		return r.Define(sym, v, true)

	case *host.Class:
		return r.SetStatic(name, v)

	case map[string]any:
		r[name] = v

		return nil
	}

	c, ok := ex.interp.registry.ClassOf(recv)
	if !ok {
		return noSuchMember(recv, name)
	}

	return c.Set(recv, name, v)
}

// invokeMember calls the member sym of recv with args.
func (ex *execution) invokeMember(
	recv any, sym value.Symbol, args []any, names []named, pos token.Position,
) (any, error) {
	name := sym.Name()

	switch r := recv.(type) {
	case *scope.Scope, map[string]any:
		if fn, ok := ex.field(r, sym); ok {
			return ex.call(fn, args, names, pos)
		}

	case *host.Class:
		if !r.HasStatic(name) {
			return nil, noSuchMember(recv, name)
		}

		fn, err := ex.member(recv, sym)
		if err != nil {
			return nil, err
		}

		return ex.call(fn, args, names, pos)
	}

	c, ok := ex.interp.registry.ClassOf(recv)
	if !ok {
		return nil, noSuchMember(recv, name)
	}

	if c.HasField(name) {
		fn, err := c.Get(recv, name)
		if err != nil {
			return nil, err
		}

		return ex.call(fn, args, names, pos)
	}

	if !c.HasMethod(name) {
		return nil, noSuchMember(recv, name)
	}

	if len(names) > 0 {
		return nil, diag.ErrArgument.
			Detail("named argument " + names[0].sym.Name() + " passed to " + c.Name() + "." + name)
	}

	return ex.host(c.Name()+"."+name, pos, args, func(args []any) (any, error) {
		return c.Call(recv, name, args)
	})
}

// field returns a member stored in a scope object or map.
func (ex *execution) field(recv any, sym value.Symbol) (any, bool) {
	switch r := recv.(type) {
	case *scope.Scope:
		if r.Local(sym) {
			v, err := r.Get(sym)
			return v, err == nil
		}

	case map[string]any:
		v, ok := r[sym.Name()]
		return v, ok
	}

	return nil, false
}

func noSuchMember(recv any, name string) *diag.Error {
	t := host.TypeOf(recv).String()

	return diag.ErrNoSuchMember.
		Detail(t+"."+name).
		With(slog.String("type", t), slog.String("member", name))
}

// construct evaluates new T(args).
func (ex *execution) construct(n *ast.New, s *scope.Scope) (any, error) {
	t, err := ex.eval(n.Type, s)
	if err != nil {
		return nil, err
	}

	args, names, err := ex.arguments(n.Args, s)
	if err != nil {
		return nil, err
	}

	if len(names) > 0 {
		return nil, diag.ErrArgument.Detail("named argument " + names[0].sym.Name() + " passed to new")
	}

	switch t := t.(type) {
	case *host.Class:
		return ex.host(t.Name(), n.Pos(), args, t.New)

	case host.Type:
		switch t.Kind() {
		case host.KindList:
			return host.Convert(args, t)
		case host.KindMap:
			if len(args) == 0 {
				return map[string]any{}, nil
			}
		case host.KindScope:
			if len(args) == 0 {
				return s.Child(), nil
			}
		}
	}

	return nil, diag.ErrNotCallable.Detail("new " + FormatValue(t))
}
