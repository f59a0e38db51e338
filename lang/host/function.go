package host

import (
	"strconv"

	"github.com/ardnew/ascript/lang/diag"
)

// Function is a set of overloads bound to one script name. It implements
// value.Func; each call resolves the overload that best fits its arguments.
type Function struct {
	name string
	sigs []*Signature
	err  error
}

// NewFunction returns the overload set sigs under name. Each signature's
// name is replaced with name.
func NewFunction(name string, sigs ...Signature) *Function {
	f := &Function{name: name}
	for _, sig := range sigs {
		f.Overload(sig)
	}

	return f
}

// Overload adds sig to the set.
func (f *Function) Overload(sig Signature) *Function {
	sig.Name = f.name

	c := &Class{name: f.name}
	f.sigs = addSignature(c, f.sigs, sig)

	if f.err == nil && c.err != nil {
		f.err = c.err
	}

	return f
}

// Err returns the first error recorded while adding overloads.
func (f *Function) Err() error { return f.err }

// Name returns the function's name.
func (f *Function) Name() string { return f.name }

// Signatures returns the overloads of f.
func (f *Function) Signatures() []*Signature { return f.sigs }

// String formats the function's overloads.
func (f *Function) String() string {
	if len(f.sigs) == 1 {
		return f.sigs[0].String()
	}

	return f.name + "{" + strconv.Itoa(len(f.sigs)) + " overloads}"
}

// Call resolves the overload of f that best fits args and invokes it.
func (f *Function) Call(args ...any) (any, error) {
	if f.err != nil {
		return nil, diag.Wrap(f.err)
	}

	cand, err := Resolve("", f.name, f.sigs, args)
	if err != nil {
		return nil, err
	}

	return cand.Invoke(nil)
}
