package host

import (
	"math"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/value"
)

// Convert converts v to type t, applying the conversion whose cost
// [Distance] reports. A null value converts to any non-primitive type.
func Convert(v any, t Type) (any, error) {
	if t.kind == KindAny {
		return v, nil
	}

	if v == nil {
		if t.kind.IsPrimitive() {
			return nil, conversionError(v, t)
		}

		return nil, nil
	}

	from := TypeOf(v)
	if from == t {
		return v, nil
	}

	switch t.kind {
	case KindNumber:
		if from.kind.IsNumeric() {
			return v, nil
		}

	case KindString:
		switch v := v.(type) {
		case value.Char:
			return v.String(), nil
		case value.Symbol:
			return v.Name(), nil
		}

	case KindSymbol:
		if s, ok := v.(string); ok {
			return value.Intern(s), nil
		}

	case KindChar:
		if s, ok := v.(string); ok {
			if r, n := utf8.DecodeRuneInString(s); n > 0 && n == len(s) {
				return value.Char(r), nil
			}

			return nil, conversionError(v, t).Detail("string is not a single character")
		}

	case KindList:
		if items, ok := sequence(v); ok {
			return convertItems(items, t)
		}

	case KindTuple:
		if items, ok := v.([]any); ok {
			return value.Tuple(append([]any(nil), items...)), nil
		}

	case KindObject:
		if objectDistance(from, t.rtype) != Incompatible {
			return v, nil
		}

	case KindFunc:
		if _, ok := v.(value.Func); ok {
			return v, nil
		}

	case KindType:
		if c, ok := v.(*Class); ok {
			return c.Type(), nil
		}
	}

	if onLadder(from.kind) && onLadder(t.kind) && from.kind != KindBool &&
		t.kind != KindBool {
		if n, ok := numeric(v, t.kind); ok {
			return n, nil
		}
	}

	return nil, conversionError(v, t)
}

// Cast is the conversion applied by the as operator. Unlike [Convert] it
// rejects null, so a successful cast always yields an instance of t.
func Cast(v any, t Type) (any, error) {
	if v == nil {
		return nil, conversionError(v, t)
	}

	return Convert(v, t)
}

// Instance reports whether v is a member of type t, without converting it.
func Instance(v any, t Type) bool {
	if v == nil {
		return false
	}

	from := TypeOf(v)

	switch t.kind {
	case KindAny:
		return true
	case KindNumber:
		return from.kind.IsNumeric()
	case KindList:
		items, ok := v.([]any)
		if !ok {
			return false
		}

		if t.elem == KindAny {
			return true
		}

		elem := Type{kind: t.elem}
		for _, item := range items {
			if !Instance(item, elem) {
				return false
			}
		}

		return true
	case KindObject:
		return t.rtype != nil && reflect.TypeOf(v).AssignableTo(t.rtype)
	}

	return from.kind == t.kind
}

func conversionError(v any, t Type) *diag.Error {
	return diag.ErrConversion.Detail(TypeOf(v).String() + " to " + t.String())
}

// sequence returns the items of a list or tuple.
func sequence(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case value.Tuple:
		return v, true
	}

	return nil, false
}

func convertItems(items []any, t Type) (any, error) {
	if t.elem == KindAny {
		return append([]any(nil), items...), nil
	}

	elem := Type{kind: t.elem}
	out := make([]any, len(items))

	for i, item := range items {
		c, err := Convert(item, elem)
		if err != nil {
			return nil, err
		}

		out[i] = c
	}

	return out, nil
}

// numeric converts a numeric value to the numeric kind k. Float-to-integer
// conversion truncates toward zero. A value outside the range of k has no
// conversion, so narrowing never wraps or saturates.
func numeric(v any, k Kind) (any, bool) {
	switch v := v.(type) {
	case int8:
		return fromInt64(int64(v), k)
	case int16:
		return fromInt64(int64(v), k)
	case value.Char:
		return fromInt64(int64(v), k)
	case int32:
		return fromInt64(int64(v), k)
	case int64:
		return fromInt64(v, k)
	case *big.Int:
		return fromBigInt(v, k)
	case float32:
		return fromFloat64(float64(v), k)
	case float64:
		return fromFloat64(v, k)
	case *big.Float:
		return fromBigFloat(v, k)
	}

	return nil, false
}

func fromInt64(i int64, k Kind) (any, bool) {
	switch k {
	case KindByte:
		if i < math.MinInt8 || i > math.MaxInt8 {
			return nil, false
		}

		return int8(i), true
	case KindShort:
		if i < math.MinInt16 || i > math.MaxInt16 {
			return nil, false
		}

		return int16(i), true
	case KindChar:
		if i < 0 || i > utf8.MaxRune {
			return nil, false
		}

		return value.Char(i), true
	case KindInt:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, false
		}

		return int32(i), true
	case KindLong:
		return i, true
	case KindBigInt:
		return big.NewInt(i), true
	case KindFloat:
		return float32(i), true
	case KindDouble:
		return float64(i), true
	case KindDecimal:
		return new(big.Float).SetInt64(i), true
	}

	return nil, false
}

func fromBigInt(b *big.Int, k Kind) (any, bool) {
	switch k {
	case KindBigInt:
		return b, true
	case KindFloat:
		f, _ := new(big.Float).SetInt(b).Float32()
		if math.IsInf(float64(f), 0) {
			return nil, false
		}

		return f, true
	case KindDouble:
		f, _ := new(big.Float).SetInt(b).Float64()
		if math.IsInf(f, 0) {
			return nil, false
		}

		return f, true
	case KindDecimal:
		return new(big.Float).SetInt(b), true
	}

	if !b.IsInt64() {
		return nil, false
	}

	return fromInt64(b.Int64(), k)
}

// 2^63 is exact in float64; int64 holds [-2^63, 2^63).
const twoTo63 = 1 << 63

func fromFloat64(f float64, k Kind) (any, bool) {
	switch k {
	case KindFloat:
		if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return nil, false
		}

		return float32(f), true
	case KindDouble:
		return f, true
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}

	switch k {
	case KindDecimal:
		return new(big.Float).SetFloat64(f), true
	case KindBigInt:
		bi, _ := new(big.Float).SetFloat64(f).Int(nil)

		return bi, true
	}

	t := math.Trunc(f)
	if t < -twoTo63 || t >= twoTo63 {
		return nil, false
	}

	return fromInt64(int64(t), k)
}

func fromBigFloat(b *big.Float, k Kind) (any, bool) {
	switch k {
	case KindDecimal:
		return b, true
	case KindBigInt:
		if b.IsInf() {
			return nil, false
		}

		bi, _ := b.Int(nil)

		return bi, true
	case KindFloat:
		f, _ := b.Float32()
		if math.IsInf(float64(f), 0) && !b.IsInf() {
			return nil, false
		}

		return f, true
	}

	f, _ := b.Float64()
	if math.IsInf(f, 0) && !b.IsInf() {
		return nil, false
	}

	return fromFloat64(f, k)
}
