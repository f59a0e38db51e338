// Package host exposes Go functions, methods and fields to scripts and
// resolves script calls against them.
//
// A host describes each exposed Go type with a [Class]: tables of
// [Signature] values (parameter types, a variadic flag and an invoke
// callback) and [Field] accessors. At call time the resolver scores every
// name- and arity-compatible signature by summing per-argument conversion
// distances from the [Distance] tables, and picks the unique cheapest one.
// Ties are reported as ambiguous calls rather than broken arbitrarily.
package host

//go:generate go tool stringer -type=Kind -linecomment

import (
	"math/big"
	"reflect"

	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/value"
)

// Kind is the category of a [Type]. Each kind's line comment is its script
// name.
type Kind uint8

const (
	KindAny     Kind = iota // Any
	KindNull                // Null
	KindBool                // Bool
	KindByte                // Byte
	KindShort               // Short
	KindChar                // Char
	KindInt                 // Int
	KindLong                // Long
	KindBigInt              // BigInt
	KindFloat               // Float
	KindDouble              // Double
	KindDecimal             // Decimal
	KindNumber              // Number
	KindString              // String
	KindSymbol              // Symbol
	KindList                // List
	KindTuple               // Tuple
	KindMap                 // Map
	KindFunc                // Function
	KindScope               // Scope
	KindType                // Type
	KindObject              // Object
)

// IsNumeric reports whether k is one of the numeric ladder kinds.
func (k Kind) IsNumeric() bool {
	return k >= KindByte && k <= KindDecimal
}

// IsPrimitive reports whether k is a primitive kind. Primitive parameters
// do not accept null.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindBool, KindByte, KindShort, KindChar, KindInt, KindLong,
		KindFloat, KindDouble:
		return true
	}

	return false
}

// Type is a script-visible type. Types are comparable values; two types are
// equal when they describe the same set of values.
type Type struct {
	kind  Kind
	elem  Kind         // element kind of a typed list
	rtype reflect.Type // Go type of an object
}

// Predefined types.
var (
	Any      = Type{kind: KindAny}
	Null     = Type{kind: KindNull}
	Bool     = Type{kind: KindBool}
	Byte     = Type{kind: KindByte}
	Short    = Type{kind: KindShort}
	Char     = Type{kind: KindChar}
	Int      = Type{kind: KindInt}
	Long     = Type{kind: KindLong}
	BigInt   = Type{kind: KindBigInt}
	Float    = Type{kind: KindFloat}
	Double   = Type{kind: KindDouble}
	Decimal  = Type{kind: KindDecimal}
	Number   = Type{kind: KindNumber}
	String   = Type{kind: KindString}
	Symbol   = Type{kind: KindSymbol}
	List     = Type{kind: KindList}
	Tuple    = Type{kind: KindTuple}
	Map      = Type{kind: KindMap}
	FuncType = Type{kind: KindFunc}
	Scope    = Type{kind: KindScope}
	Meta     = Type{kind: KindType} // the type of types
)

// Builtins are the predefined types in the order they are bound as script
// globals.
var Builtins = []Type{
	Any, Bool, Byte, Short, Char, Int, Long, BigInt, Float, Double, Decimal,
	Number, String, Symbol, List, Tuple, Map, FuncType, Scope, Meta,
}

// ListOf returns the type of lists whose elements have kind elem.
func ListOf(elem Kind) Type {
	if elem == KindAny || elem == KindObject || elem == KindList {
		return List
	}

	return Type{kind: KindList, elem: elem}
}

// Object returns the type of Go values of type rt.
func Object(rt reflect.Type) Type {
	return Type{kind: KindObject, rtype: rt}
}

// Kind returns the type's category.
func (t Type) Kind() Kind { return t.kind }

// Elem returns the element kind of a list type.
func (t Type) Elem() Kind { return t.elem }

// GoType returns the Go type of an object type.
func (t Type) GoType() reflect.Type { return t.rtype }

// IsZero reports whether t is the zero Type, which is [Any].
func (t Type) IsZero() bool { return t == Type{} }

// String returns the type's script name.
func (t Type) String() string {
	switch t.kind {
	case KindObject:
		if t.rtype != nil {
			return t.rtype.String()
		}
	case KindList:
		if t.elem != KindAny {
			return "List<" + t.elem.String() + ">"
		}
	}

	return t.kind.String()
}

var (
	typeOfAny     = reflect.TypeFor[any]()
	typeOfError   = reflect.TypeFor[error]()
	typeOfFunc    = reflect.TypeFor[value.Func]()
	typeOfChar    = reflect.TypeFor[value.Char]()
	typeOfSymbol  = reflect.TypeFor[value.Symbol]()
	typeOfTuple   = reflect.TypeFor[value.Tuple]()
	typeOfList    = reflect.TypeFor[[]any]()
	typeOfMap     = reflect.TypeFor[map[string]any]()
	typeOfBigInt  = reflect.TypeFor[*big.Int]()
	typeOfDecimal = reflect.TypeFor[*big.Float]()
	typeOfScope   = reflect.TypeFor[*scope.Scope]()
	typeOfType    = reflect.TypeFor[Type]()
)

// TypeOf returns the runtime type of a script value.
func TypeOf(v any) Type {
	switch v := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool
	case int8:
		return Byte
	case int16:
		return Short
	case value.Char:
		return Char
	case int32:
		return Int
	case int64:
		return Long
	case *big.Int:
		return BigInt
	case float32:
		return Float
	case float64:
		return Double
	case *big.Float:
		return Decimal
	case string:
		return String
	case value.Symbol:
		return Symbol
	case []any:
		return List
	case value.Tuple:
		return Tuple
	case map[string]any:
		return Map
	case value.Func:
		return FuncType
	case *scope.Scope:
		return Scope
	case Type, *Class:
		return Meta
	default:
		return Object(reflect.TypeOf(v))
	}
}

// TypeFor returns the script type of Go values of type rt. It is used to
// derive parameter tables from Go function signatures.
func TypeFor(rt reflect.Type) Type {
	switch rt {
	case typeOfAny:
		return Any
	case typeOfChar:
		return Char
	case typeOfSymbol:
		return Symbol
	case typeOfTuple:
		return Tuple
	case typeOfBigInt:
		return BigInt
	case typeOfDecimal:
		return Decimal
	case typeOfScope:
		return Scope
	case typeOfType:
		return Meta
	case typeOfFunc:
		return FuncType
	}

	switch rt.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int8:
		return Byte
	case reflect.Int16:
		return Short
	case reflect.Int32, reflect.Uint8, reflect.Uint16:
		return Int
	case reflect.Int, reflect.Int64, reflect.Uint32, reflect.Uint,
		reflect.Uint64, reflect.Uintptr:
		return Long
	case reflect.Float32:
		return Float
	case reflect.Float64:
		return Double
	case reflect.String:
		return String
	case reflect.Slice, reflect.Array:
		return ListOf(TypeFor(rt.Elem()).kind)
	case reflect.Map:
		if rt.Key().Kind() == reflect.String {
			return Map
		}
	case reflect.Func:
		return FuncType
	}

	return Object(rt)
}
