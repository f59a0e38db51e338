package builtin

import (
	"log/slog"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/host"
)

// ErrExpr reports an expression the expr-lang engine rejected.
var ErrExpr = diag.New(diag.KindHostInvocation, "expr")

type exprLib struct{}

// Program is a compiled expr-lang expression.
type Program struct {
	src  string
	prog *vm.Program
}

func compile(src string) (*Program, error) {
	p, err := expr.Compile(src)
	if err != nil {
		return nil, ErrExpr.Wrap(err).With(slog.String("source", src))
	}

	return &Program{src: src, prog: p}, nil
}

// Run evaluates the program against env.
func (p *Program) Run(env map[string]any) (any, error) {
	if env == nil {
		env = map[string]any{}
	}

	out, err := expr.Run(p.prog, env)
	if err != nil {
		return nil, ErrExpr.Wrap(err).With(slog.String("source", p.src))
	}

	return out, nil
}

func evaluate(src string, env map[string]any) (any, error) {
	if env == nil {
		env = map[string]any{}
	}

	out, err := expr.Eval(src, env)
	if err != nil {
		return nil, ErrExpr.Wrap(err).With(slog.String("source", src))
	}

	return out, nil
}

func exprClass() *host.Class {
	return host.NewClass("Expr", reflect.TypeFor[exprLib]()).
		Static(host.Func("eval", func(src string) (any, error) { return evaluate(src, nil) })).
		Static(host.Func("eval", evaluate)).
		Static(host.Func("compile", compile))
}

func programClass() *host.Class {
	return host.NewClass("ExprProgram", reflect.TypeFor[*Program]()).
		Field(host.Field{
			Name: "source",
			Type: host.String,
			Get:  func(recv any) (any, error) { return recv.(*Program).src, nil },
		}).
		Method(host.Method("run", (*Program).Run)).
		Method(host.Method("run", func(p *Program) (any, error) { return p.Run(nil) }))
}
