package lang

import (
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/value"
)

// rung returns the arithmetic rung of a numeric value. Bytes, shorts and
// characters compute as Int.
func rung(v any) (host.Kind, bool) {
	k := host.TypeOf(v).Kind()

	switch k {
	case host.KindByte, host.KindShort, host.KindChar:
		return host.KindInt, true
	case host.KindInt, host.KindLong, host.KindBigInt,
		host.KindFloat, host.KindDouble, host.KindDecimal:
		return k, true
	}

	return 0, false
}

var rungType = map[host.Kind]host.Type{
	host.KindInt:     host.Int,
	host.KindLong:    host.Long,
	host.KindBigInt:  host.BigInt,
	host.KindFloat:   host.Float,
	host.KindDouble:  host.Double,
	host.KindDecimal: host.Decimal,
}

// common returns the lowest rung representing both kinds. Long and Float
// meet at Double; BigInt and any binary float meet at Decimal.
func common(a, b host.Kind) host.Kind {
	lo, hi := min(a, b), max(a, b)

	switch {
	case lo == host.KindLong && hi == host.KindFloat:
		return host.KindDouble
	case lo == host.KindBigInt && (hi == host.KindFloat || hi == host.KindDouble):
		return host.KindDecimal
	}

	return hi
}

// promote converts both operands to their common rung.
func promote(op string, l, r any) (host.Kind, any, any, error) {
	kl, okl := rung(l)
	kr, okr := rung(r)

	if !okl || !okr {
		return 0, nil, nil, operandError(op, l, r)
	}

	k := common(kl, kr)
	t := rungType[k]

	cl, err := host.Convert(l, t)
	if err != nil {
		return 0, nil, nil, err
	}

	cr, err := host.Convert(r, t)
	if err != nil {
		return 0, nil, nil, err
	}

	return k, cl, cr, nil
}

func operandError(op string, operands ...any) *diag.Error {
	types := value.Join(operands, ", ", func(v any) string { return host.TypeOf(v).String() })

	return diag.ErrOperandType.Detail(op + " (" + types + ")")
}

// truthy reports the truth value of v: null, false and numeric zero are
// false, everything else is true.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int8:
		return v != 0
	case int16:
		return v != 0
	case value.Char:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case *big.Int:
		return v.Sign() != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case *big.Float:
		return v.Sign() != 0
	}

	return true
}

// add implements +: string concatenation when either operand is a string,
// list concatenation, scope combination, or numeric addition.
func add(l, r any) (any, error) {
	_, ls := l.(string)
	_, rs := r.(string)

	if ls || rs {
		return Display(l) + Display(r), nil
	}

	switch lv := l.(type) {
	case []any:
		if rv, ok := r.([]any); ok {
			out := make([]any, 0, len(lv)+len(rv))

			return append(append(out, lv...), rv...), nil
		}

	case *scope.Scope:
		if rv, ok := r.(*scope.Scope); ok {
			return lv.Combine(rv), nil
		}
	}

	return arith("+", l, r)
}

// arith applies a numeric operator after promoting both operands.
func arith(op string, l, r any) (any, error) {
	k, a, b, err := promote(op, l, r)
	if err != nil {
		return nil, err
	}

	switch k {
	case host.KindInt:
		return intOp(op, a.(int32), b.(int32))
	case host.KindLong:
		return longOp(op, a.(int64), b.(int64))
	case host.KindBigInt:
		return bigOp(op, a.(*big.Int), b.(*big.Int))
	case host.KindFloat:
		v, err := floatOp(op, float64(a.(float32)), float64(b.(float32)))
		if err != nil {
			return nil, err
		}

		return float32(v), nil
	case host.KindDouble:
		return floatOp(op, a.(float64), b.(float64))
	default:
		return decimalOp(op, a.(*big.Float), b.(*big.Float))
	}
}

// intOp computes in 64 bits and widens to Long on overflow.
func intOp(op string, a, b int32) (any, error) {
	v, err := longOp(op, int64(a), int64(b))
	if err != nil {
		return nil, err
	}

	if n, ok := v.(int64); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
		return int32(n), nil
	}

	return v, nil
}

// longOp widens to BigInt on overflow.
func longOp(op string, a, b int64) (any, error) {
	switch op {
	case "+":
		if c := a + b; (c > a) == (b > 0) {
			return c, nil
		}
	case "-":
		if c := a - b; (c < a) == (b > 0) {
			return c, nil
		}
	case "*":
		if a == 0 || b == 0 {
			return int64(0), nil
		}

		c := a * b
		if c/b == a && !(a == -1 && b == math.MinInt64) && !(b == -1 && a == math.MinInt64) {
			return c, nil
		}
	case "/":
		if b == 0 {
			return nil, diag.ErrDivideByZero
		}

		if a != math.MinInt64 || b != -1 {
			return a / b, nil
		}
	case "%":
		if b == 0 {
			return nil, diag.ErrDivideByZero
		}

		if b == -1 {
			return int64(0), nil
		}

		return a % b, nil
	default:
		return nil, diag.ErrOperandType.Detail(op)
	}

	return bigOp(op, big.NewInt(a), big.NewInt(b))
}

func bigOp(op string, a, b *big.Int) (any, error) {
	z := new(big.Int)

	switch op {
	case "+":
		return z.Add(a, b), nil
	case "-":
		return z.Sub(a, b), nil
	case "*":
		return z.Mul(a, b), nil
	case "/", "%":
		if b.Sign() == 0 {
			return nil, diag.ErrDivideByZero
		}

		if op == "/" {
			return z.Quo(a, b), nil
		}

		return z.Rem(a, b), nil
	}

	return nil, diag.ErrOperandType.Detail(op)
}

// floatOp follows IEEE 754: division by zero yields an infinity or NaN.
func floatOp(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		return a / b, nil
	case "%":
		return math.Mod(a, b), nil
	}

	return 0, diag.ErrOperandType.Detail(op)
}

func decimalOp(op string, a, b *big.Float) (any, error) {
	z := new(big.Float)

	switch op {
	case "+":
		return z.Add(a, b), nil
	case "-":
		return z.Sub(a, b), nil
	case "*":
		return z.Mul(a, b), nil
	case "/", "%":
		if b.Sign() == 0 {
			return nil, diag.ErrDivideByZero
		}

		z.Quo(a, b)
		if op == "/" {
			return z, nil
		}

		// a - trunc(a/b)*b
		q, _ := z.Int(nil)

		return z.Sub(a, new(big.Float).Mul(new(big.Float).SetInt(q), b)), nil
	}

	return nil, diag.ErrOperandType.Detail(op)
}

// negate implements unary minus.
func negate(v any) (any, error) {
	k, ok := rung(v)
	if !ok {
		return nil, operandError("-", v)
	}

	n, err := host.Convert(v, rungType[k])
	if err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case int32:
		if n == math.MinInt32 {
			return -int64(n), nil
		}

		return -n, nil
	case int64:
		if n == math.MinInt64 {
			return new(big.Int).Neg(big.NewInt(n)), nil
		}

		return -n, nil
	case *big.Int:
		return new(big.Int).Neg(n), nil
	case float32:
		return -n, nil
	case float64:
		return -n, nil
	case *big.Float:
		return new(big.Float).Neg(n), nil
	}

	return nil, operandError("-", v)
}

// compare orders two numbers, two strings or two characters.
func compare(op string, l, r any) (int, error) {
	switch lv := l.(type) {
	case string:
		if rv, ok := r.(string); ok {
			return strings.Compare(lv, rv), nil
		}

		return 0, operandError(op, l, r)
	}

	k, a, b, err := promote(op, l, r)
	if err != nil {
		return 0, err
	}

	switch k {
	case host.KindInt:
		return cmpOrdered(a.(int32), b.(int32)), nil
	case host.KindLong:
		return cmpOrdered(a.(int64), b.(int64)), nil
	case host.KindBigInt:
		return a.(*big.Int).Cmp(b.(*big.Int)), nil
	case host.KindFloat:
		return cmpOrdered(a.(float32), b.(float32)), nil
	case host.KindDouble:
		return cmpOrdered(a.(float64), b.(float64)), nil
	default:
		return a.(*big.Float).Cmp(b.(*big.Float)), nil
	}
}

func cmpOrdered[T int32 | int64 | float32 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

// relation evaluates a relational operator.
func relation(op string, l, r any) (bool, error) {
	c, err := compare(op, l, r)
	if err != nil {
		return false, err
	}

	switch op {
	case "<":
		return c < 0, nil
	case ">":
		return c > 0, nil
	case "<=":
		return c <= 0, nil
	default:
		return c >= 0, nil
	}
}

// equal reports value equality. Numbers compare across rungs, lists,
// tuples and maps compare element-wise, and other values compare by Go
// equality when their types match.
func equal(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}

	if _, ok := rung(l); ok {
		if _, ok := rung(r); ok {
			c, err := compare("==", l, r)
			return err == nil && c == 0
		}

		return false
	}

	switch lv := l.(type) {
	case []any:
		rv, ok := r.([]any)
		return ok && equalItems(lv, rv)
	case value.Tuple:
		rv, ok := r.(value.Tuple)
		return ok && equalItems(lv, rv)
	case map[string]any:
		rv, ok := r.(map[string]any)
		if !ok || len(lv) != len(rv) {
			return false
		}

		for k, x := range lv {
			y, ok := rv[k]
			if !ok || !equal(x, y) {
				return false
			}
		}

		return true
	}

	if reflect.TypeOf(l) != reflect.TypeOf(r) || !reflect.ValueOf(l).Comparable() {
		return false
	}

	return l == r
}

func equalItems(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
