package lang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/token"
)

// execution is the state of one evaluation: its context, its call stack and
// the interpreter it runs on. It is passed explicitly through every
// evaluation step and never shared between goroutines.
type execution struct {
	ctx    context.Context
	interp *Interp
	frames []diag.Frame // outermost first
}

func (in *Interp) execution(ctx context.Context) *execution {
	if ctx == nil {
		ctx = context.Background()
	}

	return &execution{ctx: ctx, interp: in}
}

// returnSignal unwinds evaluation to the nearest function boundary.
type returnSignal struct {
	value any
}

func (*returnSignal) Error() string { return "return outside function" }

// check reports cancellation of the execution's context.
func (ex *execution) check() error {
	if err := context.Cause(ex.ctx); err != nil {
		return diag.ErrCanceled.Wrap(err)
	}

	return nil
}

// fail attaches pos and the current call stack to err unless it already
// carries them.
func (ex *execution) fail(err error, pos token.Position) error {
	if _, ok := err.(*returnSignal); ok {
		return err
	}

	return diag.Wrap(err).At(pos).WithStack(diag.Snapshot(ex.frames))
}

// enter pushes a call frame, failing when the depth limit is reached. The
// returned function pops it.
func (ex *execution) enter(name string, pos token.Position) (func(), error) {
	if len(ex.frames) >= ex.interp.maxDepth {
		return nil, diag.ErrStackOverflow.
			Detail(strconv.Itoa(ex.interp.maxDepth)).
			With(slog.String("function", name))
	}

	ex.frames = append(ex.frames, diag.Frame{Name: name, Pos: pos})

	return func() { ex.frames = ex.frames[:len(ex.frames)-1] }, nil
}

// catchable reports whether a try handler may intercept err.
func catchable(err error) bool {
	var r *returnSignal
	if errors.As(err, &r) || errors.Is(err, diag.ErrCanceled) {
		return false
	}

	return diag.Wrap(err).Kind() != diag.KindParse
}

// caught returns the value a catch clause binds for err: the thrown value
// of a script throw, or the error itself.
func caught(err error) any {
	e := diag.Wrap(err)
	if e.Kind() == diag.KindThrow {
		return e.Value()
	}

	return e
}
