package lang

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/parser"
	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/token"
	"github.com/ardnew/ascript/lang/value"
	"github.com/ardnew/ascript/log"
)

// DefaultMaxDepth is the default limit on nested function calls.
const DefaultMaxDepth = 512

// DefaultCacheSize is the default number of parse trees an [Interp] caches.
const DefaultCacheSize = 1024

// Interp parses and evaluates scripts against a set of host-registered
// globals.
//
// Configure an Interp with [Option] values and [Interp.Define] and
// [Interp.Register] before running scripts. After that, its methods are safe
// for concurrent use: every evaluation gets its own root scope and call
// stack, and the globals are only read.
type Interp struct {
	table    *parser.Table
	registry *host.Registry
	globals  *scope.Scope
	logger   log.Logger
	maxDepth int

	cache     sync.Map // uint64 -> *parsed
	cached    atomic.Int64
	cacheSize int
}

// Option configures an [Interp].
type Option func(*Interp)

// WithMaxDepth sets the maximum depth of nested function calls.
func WithMaxDepth(depth int) Option {
	return func(in *Interp) {
		in.maxDepth = depth
	}
}

// WithCacheSize bounds the parse cache to size entries. A size of zero
// disables caching.
func WithCacheSize(size int) Option {
	return func(in *Interp) {
		in.cacheSize = max(size, 0)
	}
}

// WithOperators sets the operator table used to parse scripts.
func WithOperators(table *parser.Table) Option {
	return func(in *Interp) {
		in.table = table
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(in *Interp) {
		in.logger = logger
	}
}

// WithRegistry sets the registry of host classes. The default registry holds
// only the intrinsic classes.
func WithRegistry(r *host.Registry) Option {
	return func(in *Interp) {
		in.registry = r
	}
}

// New returns an interpreter whose globals hold the builtin types.
func New(opts ...Option) *Interp {
	in := &Interp{
		table:    parser.Default,
		maxDepth: DefaultMaxDepth,
		globals:  scope.New(),

		cacheSize: DefaultCacheSize,
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.registry == nil {
		in.registry = host.NewRegistry()
	}

	for _, t := range host.Builtins {
		_ = in.globals.Define(value.Intern(t.String()), t, false)
	}

	for c := range in.registry.Classes() {
		if c.Type().Kind() == host.KindObject {
			_ = in.globals.Define(value.Intern(c.Name()), c, false)
		}
	}

	return in
}

// Operators returns the interpreter's operator table.
func (in *Interp) Operators() *parser.Table { return in.table }

// Registry returns the interpreter's host class registry.
func (in *Interp) Registry() *host.Registry { return in.registry }

// Globals returns the scope of host-defined globals. Scripts read it but
// never write to it.
func (in *Interp) Globals() *scope.Scope { return in.globals }

// NewScope returns an empty root scope for one execution. Its parent is the
// globals scope.
func (in *Interp) NewScope() *scope.Scope { return in.globals.Child() }

// Define binds v to name as an immutable global. Go functions are exposed
// through [host.Func]; a [host.Signature] or several of them become one
// overload set.
func (in *Interp) Define(name string, v any) error {
	switch fn := v.(type) {
	case host.Signature:
		v = host.NewFunction(name, fn)
	case []host.Signature:
		v = host.NewFunction(name, fn...)
	case *host.Class:
		return diag.ErrRegistration.Detail("use Register for class " + fn.Name())
	default:
		if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
			v = host.NewFunction(name, host.Func(name, v))
		}
	}

	if f, ok := v.(*host.Function); ok && f.Err() != nil {
		return f.Err()
	}

	return in.globals.Define(value.Intern(name), host.Adapt(v), false)
}

// Register adds c to the registry and binds it as a global under its name.
func (in *Interp) Register(c *host.Class) error {
	if err := in.registry.Register(c); err != nil {
		return err
	}

	return in.globals.Define(value.Intern(c.Name()), c, false)
}

// Eval parses and evaluates src in a new root scope.
func (in *Interp) Eval(ctx context.Context, src string) (any, error) {
	return in.EvalIn(ctx, src, in.NewScope())
}

// EvalIn parses src and evaluates it in s. Definitions made by the script
// remain in s, so successive calls can build on each other.
func (in *Interp) EvalIn(ctx context.Context, src string, s *scope.Scope) (any, error) {
	prog, err := in.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	return in.Exec(ctx, prog, s)
}

// Exec evaluates a parsed program in s.
func (in *Interp) Exec(ctx context.Context, prog *ast.Block, s *scope.Scope) (any, error) {
	ex := in.execution(ctx)

	in.logger.TraceContext(ctx, "exec start", slog.Int("statements", len(prog.Body)))

	v, err := ex.sequence(prog.Body, s)
	if r, ok := err.(*returnSignal); ok {
		v, err = r.value, nil
	}

	if err != nil {
		in.logger.DebugContext(ctx, "exec failed", diagAttr(err))

		return nil, err
	}

	in.logger.TraceContext(ctx, "exec complete", slog.String("result", host.TypeOf(v).String()))

	return v, nil
}

// Call invokes the script or host function fn with args.
func (in *Interp) Call(ctx context.Context, fn any, args ...any) (any, error) {
	return in.execution(ctx).call(fn, args, nil, token.Position{})
}
