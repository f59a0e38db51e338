package host

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/ascript/lang/diag"
)

// Registry maps Go types to the classes that expose them. It is safe for
// concurrent use; registration normally completes before scripts run.
type Registry struct {
	mu     sync.RWMutex
	byType map[Type]*Class
	byName map[string]*Class
}

// NewRegistry returns a registry holding the intrinsic classes of the core
// value types.
func NewRegistry() *Registry {
	r := &Registry{
		byType: make(map[Type]*Class),
		byName: make(map[string]*Class),
	}

	for _, c := range intrinsics() {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}

	return r
}

// Register adds c and freezes it. It fails if c was built with an invalid
// member, or if a class with the same name or Go type is registered.
func (r *Registry) Register(c *Class) error {
	if c.err != nil {
		return c.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[c.name]; ok {
		return diag.ErrRegistration.
			Detail("duplicate class " + c.name).
			With(slog.String("class", c.name))
	}

	if prev, ok := r.byType[c.typ]; ok {
		return diag.ErrRegistration.
			Detail(c.typ.String() + " is registered as " + prev.name).
			With(slog.String("class", c.name))
	}

	c.frozen = true
	r.byName[c.name] = c
	r.byType[c.typ] = c

	return nil
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[name]

	return c, ok
}

// ClassOf returns the class of the script value v.
func (r *Registry) ClassOf(v any) (*Class, bool) {
	t := TypeOf(v)

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byType[t]

	return c, ok
}

// Classes yields the registered classes in name order.
func (r *Registry) Classes() iter.Seq[*Class] {
	r.mu.RLock()
	names := sortedKeys(r.byName)
	classes := make([]*Class, len(names))

	for i, name := range names {
		classes[i] = r.byName[name]
	}
	r.mu.RUnlock()

	return slices.Values(classes)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
