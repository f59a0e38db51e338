// Package builtin is the host library the ascript command installs into its
// interpreters.
//
// The core language has no standard library; hosts choose what scripts may
// reach. The command exposes:
//
//	print(...values)       write values separated by spaces to the output
//	str(v), repr(v)        display and source forms of a value
//	typeOf(v)              the script type of a value
//	Env.get/has/set/names  the process environment
//	Path.*                 path manipulation and PATH-style list editing
//	Expr.eval/compile      expressions in the expr-lang dialect
//	Sys.os, Sys.arch, ...  facts about the running system
package builtin

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/lang/host"
)

// Option configures [Install].
type Option func(*library)

// WithOutput sets the writer print uses. The default is [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(l *library) {
		if w != nil {
			l.out = w
		}
	}
}

type library struct {
	out io.Writer
}

// Install registers the library's classes and functions with in.
func Install(in *lang.Interp, opts ...Option) error {
	lib := library{out: os.Stdout}

	for _, opt := range opts {
		opt(&lib)
	}

	errs := []error{
		in.Define("print", lib.print),
		in.Define("str", lang.Display),
		in.Define("repr", lang.FormatValue),
		in.Define("typeOf", host.TypeOf),
	}

	for _, c := range []*host.Class{
		envClass(),
		pathClass(),
		exprClass(),
		programClass(),
		sysClass(),
	} {
		errs = append(errs, in.Register(c))
	}

	return errors.Join(errs...)
}

func (l *library) print(values ...any) error {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = lang.Display(v)
	}

	_, err := io.WriteString(l.out, strings.Join(parts, " ")+"\n")

	return err
}
