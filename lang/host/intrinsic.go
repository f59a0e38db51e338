package host

import (
	"log/slog"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/value"
)

// Intrinsic member names used by the evaluator: a call on a value that is
// not a function invokes Apply, and an indexed assignment invokes Update.
const (
	Apply  = "apply"
	Update = "update"
)

func indexError(i int32, n int) *diag.Error {
	return diag.ErrIndex.
		Detail(strconv.Itoa(int(i))).
		With(slog.Int("index", int(i)), slog.Int("length", n))
}

func element[S ~[]any](items S, i int32) (any, error) {
	if i < 0 || int(i) >= len(items) {
		return nil, indexError(i, len(items))
	}

	return items[i], nil
}

func size(n int) any { return int32(n) }

// intrinsics returns the classes of the core collection and error values.
func intrinsics() []*Class {
	list := NewClass("List", typeOfList).
		Method(Signature{
			Name:   Apply,
			Params: []Type{Int},
			Invoke: func(recv any, args []any) (any, error) {
				return element(recv.([]any), args[0].(int32))
			},
		}).
		Method(Signature{
			Name:   Update,
			Params: []Type{Any, Int},
			Invoke: func(recv any, args []any) (any, error) {
				items, i := recv.([]any), args[1].(int32)
				if i < 0 || int(i) >= len(items) {
					return nil, indexError(i, len(items))
				}

				items[i] = args[0]

				return args[0], nil
			},
		}).
		Method(Signature{
			Name: "size",
			Invoke: func(recv any, _ []any) (any, error) {
				return size(len(recv.([]any))), nil
			},
		})

	tuple := NewClass("Tuple", typeOfTuple).
		Method(Signature{
			Name:   Apply,
			Params: []Type{Int},
			Invoke: func(recv any, args []any) (any, error) {
				return element(recv.(value.Tuple), args[0].(int32))
			},
		}).
		Method(Signature{
			Name: "size",
			Invoke: func(recv any, _ []any) (any, error) {
				return size(recv.(value.Tuple).Len()), nil
			},
		})

	dict := NewClass("Map", typeOfMap).
		Method(Signature{
			Name:   Apply,
			Params: []Type{String},
			Invoke: func(recv any, args []any) (any, error) {
				return recv.(map[string]any)[args[0].(string)], nil
			},
		}).
		Method(Signature{
			Name:   Update,
			Params: []Type{Any, String},
			Invoke: func(recv any, args []any) (any, error) {
				recv.(map[string]any)[args[1].(string)] = args[0]
				return args[0], nil
			},
		}).
		Method(Signature{
			Name:   "has",
			Params: []Type{String},
			Invoke: func(recv any, args []any) (any, error) {
				_, ok := recv.(map[string]any)[args[0].(string)]
				return ok, nil
			},
		}).
		Method(Signature{
			Name: "keys",
			Invoke: func(recv any, _ []any) (any, error) {
				keys := sortedKeys(recv.(map[string]any))

				out := make([]any, len(keys))
				for i, k := range keys {
					out[i] = k
				}

				return out, nil
			},
		}).
		Method(Signature{
			Name: "size",
			Invoke: func(recv any, _ []any) (any, error) {
				return size(len(recv.(map[string]any))), nil
			},
		})

	str := NewClass("String", reflect.TypeFor[string]()).
		Method(Signature{
			Name:   Apply,
			Params: []Type{Int},
			Invoke: func(recv any, args []any) (any, error) {
				s, i := recv.(string), args[0].(int32)
				if i >= 0 {
					for j, r := range []rune(s) {
						if int32(j) == i {
							return value.Char(r), nil
						}
					}
				}

				return nil, indexError(i, utf8.RuneCountInString(s))
			},
		}).
		Method(Signature{
			Name: "size",
			Invoke: func(recv any, _ []any) (any, error) {
				return size(utf8.RuneCountInString(recv.(string))), nil
			},
		})

	errc := NewClass("Error", reflect.TypeFor[*diag.Error]()).
		Field(Field{
			Name: "message",
			Type: String,
			Get:  func(recv any) (any, error) { return recv.(*diag.Error).Error(), nil },
		}).
		Field(Field{
			Name: "kind",
			Type: String,
			Get:  func(recv any) (any, error) { return recv.(*diag.Error).Kind().String(), nil },
		}).
		Field(Field{
			Name: "value",
			Type: Any,
			Get:  func(recv any) (any, error) { return Adapt(recv.(*diag.Error).Value()), nil },
		}).
		Field(Field{
			Name: "stack",
			Type: List,
			Get: func(recv any) (any, error) {
				stack := recv.(*diag.Error).Stack()

				out := make([]any, len(stack))
				for i, f := range stack {
					out[i] = f.String()
				}

				return out, nil
			},
		})

	return []*Class{list, tuple, dict, str, errc}
}
