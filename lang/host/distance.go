package host

import (
	"reflect"
	"sync"
)

// Conversion distances. Only their relative order is significant:
//
//	identity < widening < collection < boxing < string < narrowing < variadic
//
// A candidate's distance is the sum of its per-argument distances, plus
// [VariadicPenalty] when trailing arguments are collected into a variadic
// parameter.
const (
	Identity        = 0
	NullDistance    = 1   // null passed to a non-primitive parameter
	Widening        = 1   // one rung up the numeric ladder; more rungs cost more
	Collection      = 10  // list and tuple coercion
	Boxing          = 20  // value passed as Number or Any
	StringCoercion  = 30  // between String, Symbol and Char
	Narrowing       = 40  // down the numeric ladder; more rungs cost more
	VariadicPenalty = 100 // trailing arguments collected into a variadic list
	Incompatible    = -1  // no conversion exists
)

const x = Incompatible

// ladder is the static distance matrix between the boolean and numeric
// kinds, indexed by kind offset from KindBool: Bool, Byte, Short, Char, Int,
// Long, BigInt, Float, Double, Decimal. Rows are the argument kind, columns
// the parameter kind.
var ladder = [10][10]int{
	/* Bool    */ {0, x, x, x, x, x, x, x, x, x},
	/* Byte    */ {x, 0, 1, 41, 2, 3, 4, 5, 6, 7},
	/* Short   */ {x, 41, 0, 41, 1, 2, 3, 4, 5, 6},
	/* Char    */ {x, 41, 41, 0, 1, 2, 3, 4, 5, 6},
	/* Int     */ {x, 42, 41, 41, 0, 1, 2, 3, 4, 5},
	/* Long    */ {x, 43, 42, 42, 41, 0, 1, 2, 3, 4},
	/* BigInt  */ {x, 44, 43, 43, 42, 41, 0, 1, 2, 3},
	/* Float   */ {x, 45, 44, 44, 43, 42, 41, 0, 1, 2},
	/* Double  */ {x, 46, 45, 45, 44, 43, 42, 41, 0, 1},
	/* Decimal */ {x, 47, 46, 46, 45, 44, 43, 42, 41, 0},
}

func onLadder(k Kind) bool { return k >= KindBool && k <= KindDecimal }

type pair struct{ from, to Type }

// memo caches Distance results. Distances are a pure function of the type
// pair, so concurrent executions may share it freely.
var memo sync.Map

// Distance returns the cost of passing a value of type from as a parameter
// of type to, or [Incompatible].
func Distance(from, to Type) int {
	key := pair{from, to}
	if d, ok := memo.Load(key); ok {
		return d.(int)
	}

	d := distance(from, to)
	memo.Store(key, d)

	return d
}

func distance(from, to Type) int {
	if from == to {
		return Identity
	}

	if from.kind == KindNull {
		if to.kind.IsPrimitive() {
			return Incompatible
		}

		return NullDistance
	}

	switch to.kind {
	case KindAny:
		return Boxing

	case KindNumber:
		if from.kind.IsNumeric() {
			return Boxing
		}

	case KindString:
		if from.kind == KindChar || from.kind == KindSymbol {
			return StringCoercion
		}

	case KindSymbol:
		if from.kind == KindString {
			return StringCoercion
		}

	case KindList:
		switch from.kind {
		case KindList:
			if to.elem == KindAny {
				return Widening
			}

			return Collection
		case KindTuple:
			return Collection
		}

	case KindTuple:
		if from.kind == KindList {
			return Collection
		}

	case KindObject:
		return objectDistance(from, to.rtype)
	}

	if onLadder(from.kind) && onLadder(to.kind) {
		return ladder[from.kind-KindBool][to.kind-KindBool]
	}

	if to.kind == KindChar && from.kind == KindString {
		return Narrowing
	}

	return Incompatible
}

// objectDistance scores passing a value of type from to a parameter of Go
// type rt.
func objectDistance(from Type, rt reflect.Type) int {
	if rt == nil {
		return Incompatible
	}

	if from.kind == KindObject {
		if from.rtype.AssignableTo(rt) {
			return Widening
		}

		return Incompatible
	}

	if rt.Kind() == reflect.Interface {
		if gt := goType(from); gt != nil && gt.Implements(rt) {
			return Boxing
		}
	}

	return Incompatible
}

// goType returns the Go type that represents values of a builtin type.
func goType(t Type) reflect.Type {
	switch t.kind {
	case KindBool:
		return reflect.TypeFor[bool]()
	case KindByte:
		return reflect.TypeFor[int8]()
	case KindShort:
		return reflect.TypeFor[int16]()
	case KindChar:
		return typeOfChar
	case KindInt:
		return reflect.TypeFor[int32]()
	case KindLong:
		return reflect.TypeFor[int64]()
	case KindBigInt:
		return typeOfBigInt
	case KindFloat:
		return reflect.TypeFor[float32]()
	case KindDouble:
		return reflect.TypeFor[float64]()
	case KindDecimal:
		return typeOfDecimal
	case KindString:
		return reflect.TypeFor[string]()
	case KindSymbol:
		return typeOfSymbol
	case KindList:
		return typeOfList
	case KindTuple:
		return typeOfTuple
	case KindMap:
		return typeOfMap
	case KindScope:
		return typeOfScope
	case KindType:
		return typeOfType
	case KindObject:
		return t.rtype
	}

	return nil
}
