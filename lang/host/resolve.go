package host

import (
	"log/slog"
	"slices"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/value"
)

// Candidate is a signature matched against one argument list.
type Candidate struct {
	Signature *Signature
	// Params holds the parameter type each argument is converted to.
	Params   []Type
	Variadic bool
	// Expanded reports that trailing arguments are collected into the
	// variadic parameter, as opposed to a list passed in its place.
	Expanded bool
	Distance int

	args []any
}

// String formats the candidate's signature.
func (c *Candidate) String() string { return c.Signature.String() }

// match scores sig against args, returning false if it cannot accept them.
func match(sig *Signature, args []any) (*Candidate, bool) {
	n := sig.fixed()
	if len(args) < n || (!sig.Variadic && len(args) != n) {
		return nil, false
	}

	cand := &Candidate{
		Signature: sig,
		Params:    make([]Type, len(args)),
		Variadic:  sig.Variadic,
		args:      args,
	}

	for i := range n {
		d := Distance(TypeOf(args[i]), sig.Params[i])
		if d == Incompatible {
			return nil, false
		}

		cand.Params[i] = sig.Params[i]
		cand.Distance += d
	}

	if !sig.Variadic {
		return cand, true
	}

	elem := sig.Params[n]

	direct := Incompatible
	if len(args) == n+1 {
		direct = Distance(TypeOf(args[n]), ListOf(elem.kind))
		if !sequenceType(args[n]) {
			direct = Incompatible
		}
	}

	expanded := VariadicPenalty
	for _, arg := range args[n:] {
		d := Distance(TypeOf(arg), elem)
		if d == Incompatible {
			expanded = Incompatible
			break
		}

		expanded += d
	}

	switch {
	case direct != Incompatible && (expanded == Incompatible || direct <= expanded):
		cand.Params[n] = ListOf(elem.kind)
		cand.Distance += direct
	case expanded != Incompatible:
		for i := n; i < len(args); i++ {
			cand.Params[i] = elem
		}

		cand.Expanded = true
		cand.Distance += expanded
	default:
		return nil, false
	}

	return cand, true
}

func sequenceType(v any) bool {
	_, ok := sequence(v)
	return ok
}

// Resolve selects the overload of sigs that accepts args at the least total
// conversion distance. owner names the receiver's type in errors.
//
// It returns an error of kind [diag.KindNoMatchingMember] if no overload
// accepts args, and of kind [diag.KindAmbiguousCall] if several overloads
// share the least distance.
func Resolve(owner, name string, sigs []*Signature, args []any) (*Candidate, error) {
	var best []*Candidate

	for _, sig := range sigs {
		cand, ok := match(sig, args)
		if !ok {
			continue
		}

		switch {
		case len(best) == 0 || cand.Distance < best[0].Distance:
			best = append(best[:0], cand)
		case cand.Distance == best[0].Distance:
			best = append(best, cand)
		}
	}

	switch len(best) {
	case 0:
		return nil, diag.ErrNoMatchingMember.
			Detail(describe(owner, name, args)).
			With(
				slog.String("type", owner),
				slog.String("member", name),
				slog.String("args", argTypes(args)),
			)
	case 1:
		return best[0], nil
	}

	tied := make([]string, len(best))
	for i, c := range best {
		tied[i] = c.String()
	}

	slices.Sort(tied)

	return nil, diag.ErrAmbiguousCall.
		Detail(describe(owner, name, args) + " matches " + value.Join(tied, ", ", identity)).
		With(
			slog.String("type", owner),
			slog.String("member", name),
			slog.Any("candidates", tied),
		)
}

func identity(s string) string { return s }

func argTypes(args []any) string {
	return value.Join(args, ", ", func(v any) string { return TypeOf(v).String() })
}

func describe(owner, name string, args []any) string {
	if owner != "" {
		name = owner + "." + name
	}

	return name + "(" + argTypes(args) + ")"
}

// Invoke converts the matched arguments to the candidate's parameter types
// and calls the host on recv.
func (c *Candidate) Invoke(recv any) (any, error) {
	sig := c.Signature
	n := sig.fixed()

	args := make([]any, 0, len(sig.Params))

	for i := range n {
		v, err := Convert(c.args[i], c.Params[i])
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	if sig.Variadic {
		if c.Expanded {
			tail := make([]any, 0, len(c.args)-n)

			for i := n; i < len(c.args); i++ {
				v, err := Convert(c.args[i], c.Params[i])
				if err != nil {
					return nil, err
				}

				tail = append(tail, v)
			}

			args = append(args, tail)
		} else {
			v, err := Convert(c.args[n], c.Params[n])
			if err != nil {
				return nil, err
			}

			args = append(args, v)
		}
	}

	return sig.call(recv, args)
}

// Call resolves the instance method name of c against args and invokes it
// on recv.
func (c *Class) Call(recv any, name string, args []any) (any, error) {
	cand, err := Resolve(c.name, name, c.signatures(name), args)
	if err != nil {
		return nil, err
	}

	return cand.Invoke(recv)
}

// CallStatic resolves and invokes the static method name of c.
func (c *Class) CallStatic(name string, args []any) (any, error) {
	cand, err := Resolve(c.name, name, c.statics[name], args)
	if err != nil {
		return nil, err
	}

	return cand.Invoke(nil)
}

// New resolves and invokes a constructor of c.
func (c *Class) New(args []any) (any, error) {
	cand, err := Resolve(c.name, "new", c.ctors, args)
	if err != nil {
		return nil, err
	}

	return cand.Invoke(nil)
}

// Get reads the instance field name of recv.
func (c *Class) Get(recv any, name string) (any, error) {
	f, ok := c.field(name)
	if !ok {
		return nil, noSuchMember(c, name)
	}

	v, err := f.Get(recv)
	if err != nil {
		return nil, invocationError(err, c.name+"."+name)
	}

	return v, nil
}

// Set converts v to the type of the instance field name and stores it in
// recv.
func (c *Class) Set(recv any, name string, v any) error {
	f, ok := c.field(name)
	if !ok {
		return noSuchMember(c, name)
	}

	return setField(c, f, recv, v)
}

// GetStatic reads the static field name of c.
func (c *Class) GetStatic(name string) (any, error) {
	f, ok := c.sfields[name]
	if !ok {
		return nil, noSuchMember(c, name)
	}

	v, err := f.Get(nil)
	if err != nil {
		return nil, invocationError(err, c.name+"."+name)
	}

	return v, nil
}

// SetStatic converts v to the type of the static field name and stores it.
func (c *Class) SetStatic(name string, v any) error {
	f, ok := c.sfields[name]
	if !ok {
		return noSuchMember(c, name)
	}

	return setField(c, f, nil, v)
}

// HasStatic reports whether c has a static method or field named name.
func (c *Class) HasStatic(name string) bool {
	_, ok := c.sfields[name]
	return ok || len(c.statics[name]) > 0
}

func setField(c *Class, f *Field, recv, v any) error {
	if f.Set == nil {
		return diag.ErrReadOnly.Detail(c.name + "." + f.Name)
	}

	if Distance(TypeOf(v), f.Type) == Incompatible {
		return conversionError(v, f.Type).With(slog.String("field", c.name+"."+f.Name))
	}

	cv, err := Convert(v, f.Type)
	if err != nil {
		return err
	}

	if err := f.Set(recv, cv); err != nil {
		return invocationError(err, c.name+"."+f.Name)
	}

	return nil
}

func noSuchMember(c *Class, name string) *diag.Error {
	return diag.ErrNoSuchMember.
		Detail(c.name + "." + name).
		With(slog.String("type", c.name), slog.String("member", name))
}

func invocationError(err error, member string) error {
	if e, ok := err.(*diag.Error); ok {
		return e
	}

	return diag.ErrHostInvocation.Detail(member).Wrap(err)
}

// Bind returns the instance method name of c bound to recv as a callable
// value.
func (c *Class) Bind(recv any, name string) (value.Func, bool) {
	if !c.HasMethod(name) {
		return nil, false
	}

	return &bound{class: c, recv: recv, name: name}, true
}

type bound struct {
	class  *Class
	recv   any
	name   string
	static bool
}

func (b *bound) Name() string { return b.class.name + "." + b.name }

func (b *bound) Call(args ...any) (any, error) {
	if b.static {
		return b.class.CallStatic(b.name, args)
	}

	return b.class.Call(b.recv, b.name, args)
}

// BindStatic returns the static method name of c as a callable value.
func (c *Class) BindStatic(name string) (value.Func, bool) {
	if len(c.statics[name]) == 0 {
		return nil, false
	}

	return &bound{class: c, name: name, static: true}, true
}
