// Package scope implements the lexical environments of the evaluator.
//
// A [Scope] maps symbols to bindings. A binding is either a [Variable],
// whose value may be replaced, or a [Value], which is fixed when defined.
// Scopes nest: a name not bound locally is looked up in the parent chain,
// and assignments write through to the scope that owns the binding. Two
// scopes can be combined into a view that resolves names in the first scope,
// then the second, without copying either.
//
// A Scope is not safe for concurrent mutation. Independent executions each
// own their scopes; a scope shared between them must only be read.
package scope

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/value"
)

// Binding is the storage behind a name.
type Binding interface {
	// Get returns the bound value.
	Get() any
	// Mutable reports whether the binding can be reassigned.
	Mutable() bool
}

// Variable is a mutable binding.
type Variable struct {
	v any
}

// Get returns the variable's current value.
func (b *Variable) Get() any { return b.v }

// Set replaces the variable's value.
func (b *Variable) Set(v any) { b.v = v }

// Mutable reports true.
func (*Variable) Mutable() bool { return true }

// Value is an immutable binding.
type Value struct {
	v any
}

// Get returns the bound value.
func (b *Value) Get() any { return b.v }

// Mutable reports false.
func (*Value) Mutable() bool { return false }

// Scope is a lexical environment.
type Scope struct {
	parent *Scope
	vars   map[value.Symbol]Binding
	union  []*Scope // non-nil for a combined view
}

// New returns an empty root scope.
func New() *Scope {
	return &Scope{vars: make(map[value.Symbol]Binding)}
}

// Child returns a new empty scope whose parent is s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: make(map[value.Symbol]Binding)}
}

// Parent returns the enclosing scope, or nil for a root scope or a combined
// view.
func (s *Scope) Parent() *Scope { return s.parent }

// Combine returns a view of s and other. Names resolve in s first, then in
// other. Definitions made through the view are stored in s.
func (s *Scope) Combine(other *Scope) *Scope {
	if other == nil || other == s {
		return s
	}

	return &Scope{union: []*Scope{s, other}}
}

// Define binds sym in s, replacing any binding s already holds for it unless
// that binding is immutable. Bindings in ancestor scopes are shadowed.
func (s *Scope) Define(sym value.Symbol, v any, mutable bool) error {
	if s.union != nil {
		return s.union[0].Define(sym, v, mutable)
	}

	if b, ok := s.vars[sym]; ok && !b.Mutable() {
		return diag.ErrImmutable.Detail(sym.Name())
	}

	if mutable {
		s.vars[sym] = &Variable{v: v}
	} else {
		s.vars[sym] = &Value{v: v}
	}

	return nil
}

// Lookup returns the binding of sym visible from s.
func (s *Scope) Lookup(sym value.Symbol) (Binding, bool) {
	for c := s; c != nil; c = c.parent {
		if c.union != nil {
			for _, u := range c.union {
				if b, ok := u.Lookup(sym); ok {
					return b, true
				}
			}

			continue
		}

		if b, ok := c.vars[sym]; ok {
			return b, true
		}
	}

	return nil, false
}

// Local reports whether sym is bound directly in s, or in either side of a
// combined view.
func (s *Scope) Local(sym value.Symbol) bool {
	if s.union != nil {
		return slices.ContainsFunc(s.union, func(u *Scope) bool { return u.Local(sym) })
	}

	_, ok := s.vars[sym]

	return ok
}

// Get returns the value bound to sym.
func (s *Scope) Get(sym value.Symbol) (any, error) {
	b, ok := s.Lookup(sym)
	if !ok {
		return nil, diag.ErrUndefined.Detail(sym.Name())
	}

	return b.Get(), nil
}

// Set assigns v to the variable bound to sym in s or the nearest ancestor
// that binds it.
func (s *Scope) Set(sym value.Symbol, v any) error {
	b, ok := s.Lookup(sym)
	if !ok {
		return diag.ErrUndefined.Detail(sym.Name())
	}

	vb, ok := b.(*Variable)
	if !ok {
		return diag.ErrImmutable.Detail(sym.Name())
	}

	vb.Set(v)

	return nil
}

// All yields every binding visible from s. A name shadowed by a nearer
// binding is yielded once, with the nearer binding.
func (s *Scope) All() iter.Seq2[value.Symbol, Binding] {
	return func(yield func(value.Symbol, Binding) bool) {
		seen := make(map[value.Symbol]struct{})
		s.walk(seen, yield)
	}
}

func (s *Scope) walk(
	seen map[value.Symbol]struct{},
	yield func(value.Symbol, Binding) bool,
) bool {
	for c := s; c != nil; c = c.parent {
		for _, u := range c.union {
			if !u.walk(seen, yield) {
				return false
			}
		}

		for sym, b := range c.vars {
			if _, ok := seen[sym]; ok {
				continue
			}

			seen[sym] = struct{}{}

			if !yield(sym, b) {
				return false
			}
		}
	}

	return true
}

// Names returns the sorted names visible from s.
func (s *Scope) Names() []string {
	names := make(map[string]struct{})
	for sym := range s.All() {
		names[sym.Name()] = struct{}{}
	}

	return slices.Sorted(maps.Keys(names))
}

// LocalNames returns the sorted names bound directly in s.
func (s *Scope) LocalNames() []string {
	if s.union != nil {
		var out []string
		for _, u := range s.union {
			out = append(out, u.LocalNames()...)
		}

		slices.Sort(out)

		return slices.Compact(out)
	}

	out := make([]string, 0, len(s.vars))
	for sym := range s.vars {
		out = append(out, sym.Name())
	}

	slices.Sort(out)

	return out
}

// String lists the scope's local names, e.g. "{a, b}".
func (s *Scope) String() string {
	return "{" + strings.Join(s.LocalNames(), ", ") + "}"
}
