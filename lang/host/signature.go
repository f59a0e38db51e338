package host

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/value"
)

// Signature describes one callable overload exposed to scripts.
type Signature struct {
	Name string
	// Params are the declared parameter types. For a variadic signature the
	// last entry is the element type of the trailing arguments.
	Params   []Type
	Variadic bool
	// Invoke calls the host with arguments already converted to Params. The
	// trailing arguments of a variadic call arrive packed in one []any.
	// recv is nil for functions, constructors and static methods.
	Invoke func(recv any, args []any) (any, error)
}

// String formats the signature, e.g. "move(Int, Long...)".
func (s *Signature) String() string {
	params := value.Join(s.Params, ", ", Type.String)
	if s.Variadic {
		params += "..."
	}

	return s.Name + "(" + params + ")"
}

// fixed returns the number of non-variadic parameters.
func (s *Signature) fixed() int {
	if s.Variadic {
		return len(s.Params) - 1
	}

	return len(s.Params)
}

// call invokes the signature, translating host failures into script errors.
func (s *Signature) call(recv any, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*diag.Error); ok {
				err = e
				return
			}

			err = diag.ErrHostInvocation.
				Detail(s.String()).
				Wrap(fmt.Errorf("panic: %v", r))
		}
	}()

	result, err = s.Invoke(recv, args)
	if err != nil {
		if e, ok := err.(*diag.Error); ok {
			return nil, e
		}

		return nil, diag.ErrHostInvocation.Detail(s.String()).Wrap(err)
	}

	return result, nil
}

// Field describes a named host field. A nil Set makes the field read-only.
type Field struct {
	Name string
	Type Type
	Get  func(recv any) (any, error)
	Set  func(recv, v any) error
}

// Func derives a signature from the Go function fn. Parameter types follow
// [TypeFor]; a Go variadic parameter makes the signature variadic. fn may
// return nothing, a result, an error, or a result and an error.
//
// Func panics if fn is not a function.
func Func(name string, fn any) Signature {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		panic("host.Func: " + name + " is not a function")
	}

	return adapt(name, rv, 0)
}

// Method derives an instance-method signature from a Go method expression,
// such as (*T).Name. The receiver is passed as fn's first argument.
//
// Method panics if fn is not a function with at least one parameter.
func Method(name string, fn any) Signature {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.Type().NumIn() == 0 {
		panic("host.Method: " + name + " is not a method expression")
	}

	return adapt(name, rv, 1)
}

func adapt(name string, fn reflect.Value, skip int) Signature {
	ft := fn.Type()
	n := ft.NumIn()

	params := make([]Type, 0, n-skip)
	for i := skip; i < n; i++ {
		in := ft.In(i)
		if ft.IsVariadic() && i == n-1 {
			in = in.Elem()
		}

		params = append(params, TypeFor(in))
	}

	return Signature{
		Name:     name,
		Params:   params,
		Variadic: ft.IsVariadic(),
		Invoke: func(recv any, args []any) (any, error) {
			in := make([]reflect.Value, 0, n)

			if skip > 0 {
				r, err := toGo(recv, ft.In(0))
				if err != nil {
					return nil, err
				}

				in = append(in, r)
			}

			for i, arg := range args {
				a, err := toGo(arg, ft.In(i+skip))
				if err != nil {
					return nil, err
				}

				in = append(in, a)
			}

			if ft.IsVariadic() {
				return results(fn.CallSlice(in))
			}

			return results(fn.Call(in))
		},
	}
}

// results unpacks the return values of a reflected call.
func results(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}

	last := out[len(out)-1]
	if last.Type() == typeOfError {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}

		out = out[:len(out)-1]
	}

	if len(out) == 0 {
		return nil, nil
	}

	return Adapt(out[0].Interface()), nil
}

// toGo converts a script value to a Go value of type rt.
func toGo(v any, rt reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch rt.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
			reflect.Func, reflect.Chan:
			return reflect.Zero(rt), nil
		}

		return reflect.Value{}, conversionError(v, TypeFor(rt))
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(rt) {
		return rv, nil
	}

	switch rt.Kind() {
	case reflect.Slice:
		items, ok := sequence(v)
		if !ok {
			break
		}

		out := reflect.MakeSlice(rt, len(items), len(items))
		for i, item := range items {
			e, err := toGo(item, rt.Elem())
			if err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(e)
		}

		return out, nil

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok || rt.Key().Kind() != reflect.String {
			break
		}

		out := reflect.MakeMapWithSize(rt, len(m))
		for k, item := range m {
			e, err := toGo(item, rt.Elem())
			if err != nil {
				return reflect.Value{}, err
			}

			out.SetMapIndex(reflect.ValueOf(k).Convert(rt.Key()), e)
		}

		return out, nil

	case reflect.Func:
		if f, ok := v.(value.Func); ok {
			return callback(f, rt), nil
		}
	}

	t := TypeFor(rt)
	if t.kind == KindObject {
		return reflect.Value{}, conversionError(v, t)
	}

	c, err := Convert(v, t)
	if err != nil {
		return reflect.Value{}, err
	}

	cv := reflect.ValueOf(c)
	if !cv.IsValid() {
		return reflect.Zero(rt), nil
	}

	if !cv.Type().ConvertibleTo(rt) {
		return reflect.Value{}, conversionError(v, t)
	}

	return cv.Convert(rt), nil
}

// callback adapts a script function to the Go function type rt. A script
// error is returned through a trailing error result when rt has one, and
// panics otherwise; the panic is recovered by the enclosing host call.
func callback(f value.Func, rt reflect.Type) reflect.Value {
	return reflect.MakeFunc(rt, func(in []reflect.Value) []reflect.Value {
		args := make([]any, len(in))
		for i, a := range in {
			args[i] = Adapt(a.Interface())
		}

		res, err := f.Call(args...)

		out := make([]reflect.Value, rt.NumOut())
		for i := range out {
			out[i] = reflect.Zero(rt.Out(i))
		}

		if n := rt.NumOut(); n > 0 && rt.Out(n-1) == typeOfError {
			if err != nil {
				out[n-1] = reflect.ValueOf(&err).Elem()
				return out
			}
		} else if err != nil {
			panic(err)
		}

		if rt.NumOut() > 0 && rt.Out(0) != typeOfError {
			r, cerr := toGo(res, rt.Out(0))
			if cerr != nil {
				panic(cerr)
			}

			out[0] = r
		}

		return out
	})
}

// Adapt normalizes a Go value returned by the host into a script value.
// Unnamed Go integers become Int or Long, typed slices and string-keyed
// maps become lists and maps, and Go functions become callable [Function]
// values. Named Go types are kept as objects.
func Adapt(v any) any {
	switch v := v.(type) {
	case nil, bool, int8, int16, int32, int64, float32, float64, string,
		value.Char, value.Symbol, value.Tuple, value.Func, []any,
		map[string]any, Type, *Class:
		return v
	case int:
		return int64(v)
	case uint8:
		return int32(v)
	case uint16:
		return int32(v)
	case uint32:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	if rt.PkgPath() != "" {
		return v
	}

	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		if rt.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}

		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Adapt(rv.Index(i).Interface())
		}

		return out

	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return v
		}

		out := make(map[string]any, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			out[it.Key().String()] = Adapt(it.Value().Interface())
		}

		return out

	case reflect.Func:
		if rv.IsNil() {
			return nil
		}

		return NewFunction("", Func("", v))
	}

	return v
}

// Class describes a Go type exposed to scripts. Build one with [NewClass]
// and its chained methods, then add it to a [Registry]. A registered class
// is frozen.
type Class struct {
	name    string
	typ     Type
	super   *Class
	ctors   []*Signature
	methods map[string][]*Signature
	statics map[string][]*Signature
	fields  map[string]*Field
	sfields map[string]*Field
	frozen  bool
	err     error
}

// NewClass starts the description of the Go type rt under the script name
// name.
func NewClass(name string, rt reflect.Type) *Class {
	return &Class{
		name:    name,
		typ:     TypeFor(rt),
		methods: make(map[string][]*Signature),
		statics: make(map[string][]*Signature),
		fields:  make(map[string]*Field),
		sfields: make(map[string]*Field),
	}
}

// Name returns the class's script name.
func (c *Class) Name() string { return c.name }

// Type returns the script type of the class's instances.
func (c *Class) Type() Type { return c.typ }

// Super returns the class whose members c inherits, or nil.
func (c *Class) Super() *Class { return c.super }

// String returns the class name.
func (c *Class) String() string { return c.name }

func (c *Class) fail(err *diag.Error) *Class {
	if c.err == nil {
		c.err = err.With(slog.String("class", c.name))
	}

	return c
}

func (c *Class) mutable() bool {
	if c.frozen {
		c.fail(diag.ErrRegistration.Detail("class is registered"))
		return false
	}

	return true
}

func addSignature(c *Class, table []*Signature, sig Signature) []*Signature {
	if sig.Invoke == nil {
		c.fail(diag.ErrRegistration.Detail(sig.String() + " has no implementation"))
		return table
	}

	if sig.Variadic && len(sig.Params) == 0 {
		c.fail(diag.ErrRegistration.Detail(sig.String() + " is variadic without parameters"))
		return table
	}

	for _, s := range table {
		if s.Variadic == sig.Variadic && equalParams(s.Params, sig.Params) {
			c.fail(diag.ErrRegistration.Detail("duplicate signature " + sig.String()))
			return table
		}
	}

	return append(table, &sig)
}

func equalParams(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Constructor adds a constructor overload. The signature's name is replaced
// with the class name.
func (c *Class) Constructor(sig Signature) *Class {
	if c.mutable() {
		sig.Name = c.name
		c.ctors = addSignature(c, c.ctors, sig)
	}

	return c
}

// Method adds an instance-method overload.
func (c *Class) Method(sig Signature) *Class {
	if c.mutable() {
		c.methods[sig.Name] = addSignature(c, c.methods[sig.Name], sig)
	}

	return c
}

// Static adds a static-method overload, called on the class itself.
func (c *Class) Static(sig Signature) *Class {
	if c.mutable() {
		c.statics[sig.Name] = addSignature(c, c.statics[sig.Name], sig)
	}

	return c
}

// Field adds an instance field.
func (c *Class) Field(f Field) *Class {
	return c.addField(c.fields, f)
}

// StaticField adds a field of the class itself.
func (c *Class) StaticField(f Field) *Class {
	return c.addField(c.sfields, f)
}

func (c *Class) addField(table map[string]*Field, f Field) *Class {
	if !c.mutable() {
		return c
	}

	if f.Get == nil {
		return c.fail(diag.ErrRegistration.Detail("field " + f.Name + " has no getter"))
	}

	if _, ok := table[f.Name]; ok {
		return c.fail(diag.ErrRegistration.Detail("duplicate field " + f.Name))
	}

	table[f.Name] = &f

	return c
}

// Extends makes c inherit the instance methods and fields of super. Members
// declared on c take precedence over inherited members with the same name
// and parameter types. Inherited members receive instances of c, so their
// implementations must accept them; struct fields promoted by embedding do.
func (c *Class) Extends(super *Class) *Class {
	if !c.mutable() {
		return c
	}

	for s := super; s != nil; s = s.super {
		if s == c {
			return c.fail(diag.ErrRegistration.Detail("cyclic inheritance"))
		}
	}

	c.super = super

	return c
}

// StructFields adds a field for every exported field of the class's Go
// struct type. A field's script name is its ascript tag, or its Go name;
// the tag "-" omits it. Fields are writable when instances are pointers.
func (c *Class) StructFields() *Class {
	rt := c.typ.rtype
	if rt == nil {
		return c.fail(diag.ErrRegistration.Detail("not a struct type"))
	}

	ptr := rt.Kind() == reflect.Pointer
	if ptr {
		rt = rt.Elem()
	}

	if rt.Kind() != reflect.Struct {
		return c.fail(diag.ErrRegistration.Detail("not a struct type"))
	}

	for _, sf := range reflect.VisibleFields(rt) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		name := sf.Name
		if tag, ok := sf.Tag.Lookup("ascript"); ok {
			if tag == "-" {
				continue
			}

			name = tag
		}

		f := Field{
			Name: name,
			Type: TypeFor(sf.Type),
			Get: func(recv any) (any, error) {
				return Adapt(reflect.Indirect(reflect.ValueOf(recv)).
					FieldByName(sf.Name).Interface()), nil
			},
		}

		if ptr {
			f.Set = func(recv, v any) error {
				fv := reflect.ValueOf(recv).Elem().FieldByName(sf.Name)

				gv, err := toGo(v, sf.Type)
				if err != nil {
					return err
				}

				fv.Set(gv)

				return nil
			}
		}

		c.Field(f)
	}

	return c
}

// signatures returns the instance-method overloads named name, including
// inherited ones not overridden by a nearer class.
func (c *Class) signatures(name string) []*Signature {
	var out []*Signature

	for k := c; k != nil; k = k.super {
	next:
		for _, sig := range k.methods[name] {
			for _, o := range out {
				if o.Variadic == sig.Variadic && equalParams(o.Params, sig.Params) {
					continue next
				}
			}

			out = append(out, sig)
		}
	}

	return out
}

func (c *Class) field(name string) (*Field, bool) {
	for k := c; k != nil; k = k.super {
		if f, ok := k.fields[name]; ok {
			return f, true
		}
	}

	return nil, false
}

// HasMethod reports whether instances of c have a method named name.
func (c *Class) HasMethod(name string) bool {
	return len(c.signatures(name)) > 0
}

// HasField reports whether instances of c have a field named name.
func (c *Class) HasField(name string) bool {
	_, ok := c.field(name)
	return ok
}

// Members returns the sorted names of c's instance methods and fields.
func (c *Class) Members() []string {
	seen := make(map[string]struct{})

	for k := c; k != nil; k = k.super {
		for name := range k.methods {
			seen[name] = struct{}{}
		}

		for name := range k.fields {
			seen[name] = struct{}{}
		}
	}

	return sortedKeys(seen)
}

// StaticMembers returns the sorted names of c's static methods and fields.
func (c *Class) StaticMembers() []string {
	seen := make(map[string]struct{}, len(c.statics)+len(c.sfields))

	for name := range c.statics {
		seen[name] = struct{}{}
	}

	for name := range c.sfields {
		seen[name] = struct{}{}
	}

	return sortedKeys(seen)
}

// Overloads returns the signatures of the static method name when static is
// set, otherwise those of the instance method name.
func (c *Class) Overloads(name string, static bool) []*Signature {
	if static {
		return c.statics[name]
	}

	return c.signatures(name)
}
