package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/log"
	"github.com/ardnew/ascript/pkg"
)

// Eval runs scripts and prints the value of each.
type Eval struct {
	Expr   []string `help:"Evaluate EXPR before any FILE (repeatable)"        placeholder:"EXPR" short:"e"`
	Format string   `help:"Result format"                                     default:"native"   short:"o" enum:"native,json,yaml"`
	Indent int      `help:"Indent width for json and yaml results"            default:"2"        short:"i"`
	Jobs   int      `help:"Scripts evaluated at once (0 for one per CPU)"     default:"0"        short:"j"`
	Quiet  bool     `help:"Print only what scripts print, not their results"                     short:"q"`

	Files []string `arg:"" help:"Script files or '-' for stdin" name:"file" optional:"" type:"path"`
}

// outcome is the result of one source, held until every source has run.
type outcome struct {
	name    string
	printed bytes.Buffer
	result  any
	err     error
}

// Run executes the eval command. Each source runs in its own interpreter,
// concurrently up to Jobs at a time. Results and printed output appear in
// argument order, and every failure is reported.
func (e *Eval) Run(ctx context.Context, newInterp NewInterp) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := e.sources(ctx)
	if err != nil {
		return err
	}

	jobs := e.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	log.DebugContext(ctx, "eval start",
		slog.Int("sources", len(srcs)),
		slog.Int("jobs", jobs),
		slog.String("format", e.Format),
	)

	outcomes := make([]outcome, len(srcs))

	var g errgroup.Group

	g.SetLimit(jobs)

	for i, src := range srcs {
		g.Go(func() error {
			out := &outcomes[i]
			out.name = src.Name
			out.result, out.err = evalSource(ctx, newInterp, src, &out.printed)

			// failures are collected per source so one script cannot hide
			// another's result
			return nil
		})
	}

	_ = g.Wait()

	return e.report(ctx, outcomes)
}

func (e *Eval) sources(ctx context.Context) ([]Source, error) {
	files := e.Files
	if len(e.Expr) == 0 && len(files) == 0 {
		files = []string{stdinSource}
	}

	srcs := make([]Source, 0, len(e.Expr)+len(files))
	for i, expr := range e.Expr {
		srcs = append(srcs, ExprSource(i+1, expr))
	}

	fileSrcs, err := FileSources(ctx, files)
	if err != nil {
		return nil, err
	}

	return append(srcs, fileSrcs...), nil
}

func evalSource(ctx context.Context, newInterp NewInterp, src Source, w io.Writer) (any, error) {
	in, err := newInterp(w)
	if err != nil {
		return nil, ErrInterpreter.Wrap(err)
	}

	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	prog, err := in.ParseReader(ctx, r)
	if err != nil {
		return nil, err
	}

	return in.Exec(ctx, prog, in.NewScope())
}

func (e *Eval) report(ctx context.Context, outcomes []outcome) error {
	w := stdout(ctx)

	var (
		errs    []error
		written int
	)

	for i := range outcomes {
		out := &outcomes[i]

		if _, err := out.printed.WriteTo(w); err != nil {
			return err
		}

		if out.err != nil {
			log.DebugContext(ctx, "eval failed", slog.String("source", out.name))

			errs = append(errs, ErrEvaluate.
				With(slog.String("source", out.name)).
				Wrap(out.err))

			continue
		}

		if e.Quiet || out.result == nil {
			continue
		}

		if err := e.write(ctx, w, out.result, written > 0); err != nil {
			return err
		}

		written++
	}

	return pkg.MakeError(errs...)
}

func (e *Eval) write(ctx context.Context, w io.Writer, v any, more bool) error {
	switch e.Format {
	case "json":
		return lang.FormatJSON(ctx, w, v, e.Indent)

	case "yaml":
		if more {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}

		if err := lang.FormatYAML(ctx, w, v, e.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil
	}

	_, err := fmt.Fprintln(w, lang.FormatValue(v))

	return err
}
