package repl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/value"
	"github.com/ardnew/ascript/log"
)

// Session is the state an interactive session evaluates against: an
// interpreter and one root scope that outlives each line of input.
type Session struct {
	interp *lang.Interp
	scope  *scope.Scope
	logger log.Logger
	out    *Output
}

// Output collects what scripts write while the terminal is owned by the
// line editor. The session drains it after each evaluation.
type Output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to the pending output.
func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.buf.Write(p)
}

// Drain returns and clears the pending output without its final newline.
func (o *Output) Drain() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := strings.TrimSuffix(o.buf.String(), "\n")
	o.buf.Reset()

	return s
}

// NewSession returns a session with an empty root scope.
func NewSession(in *lang.Interp, logger log.Logger) *Session {
	return &Session{interp: in, scope: in.NewScope(), logger: logger}
}

// WithOutput attaches the writer the interpreter's host functions print to,
// so their output is shown ahead of each result.
func (s *Session) WithOutput(o *Output) *Session {
	s.out = o
	return s
}

func (s *Session) drain() string {
	if s.out == nil {
		return ""
	}

	return s.out.Drain()
}

// Scope returns the session's root scope.
func (s *Session) Scope() *scope.Scope { return s.scope }

// Interp returns the session's interpreter.
func (s *Session) Interp() *lang.Interp { return s.interp }

// Eval evaluates src in the session scope.
func (s *Session) Eval(ctx context.Context, src string) (any, error) {
	s.logger.TraceContext(ctx, "session eval", slog.Int("length", len(src)))

	return s.interp.EvalIn(ctx, src, s.scope)
}

// Exec evaluates a parsed program in the session scope.
func (s *Session) Exec(ctx context.Context, prog *ast.Block) (any, error) {
	return s.interp.Exec(ctx, prog, s.scope)
}

// Load parses r and evaluates it in the session scope.
func (s *Session) Load(ctx context.Context, r io.Reader) (any, error) {
	prog, err := s.interp.ParseReader(ctx, r)
	if err != nil {
		return nil, err
	}

	return s.Exec(ctx, prog)
}

// Reset discards every binding made in the session.
func (s *Session) Reset() {
	s.scope = s.interp.NewScope()
}

// Binding is a name bound in the session scope.
type Binding struct {
	Name    string
	Mutable bool
	Value   any
}

// Bindings returns the names defined by the session, in name order.
func (s *Session) Bindings() []Binding {
	names := s.scope.LocalNames()
	out := make([]Binding, 0, len(names))

	for _, name := range names {
		b, ok := s.scope.Lookup(value.Intern(name))
		if !ok {
			continue
		}

		out = append(out, Binding{Name: name, Mutable: b.Mutable(), Value: b.Get()})
	}

	return out
}

// resolve evaluates a dotted path of names without running any script code.
// Each segment after the first is a member of the previous value.
func (s *Session) resolve(path string) (any, bool) {
	segs := strings.Split(path, ".")

	v, err := s.scope.Get(value.Intern(segs[0]))
	if err != nil {
		return nil, false
	}

	for _, seg := range segs[1:] {
		var ok bool
		if v, ok = s.member(v, seg); !ok {
			return nil, false
		}
	}

	return v, true
}

func (s *Session) member(v any, name string) (any, bool) {
	switch t := v.(type) {
	case *scope.Scope:
		sym := value.Intern(name)
		if !t.Local(sym) {
			return nil, false
		}

		m, err := t.Get(sym)

		return m, err == nil

	case *host.Class:
		if f, ok := t.BindStatic(name); ok {
			return f, true
		}

		m, err := t.GetStatic(name)

		return m, err == nil

	case map[string]any:
		m, ok := t[name]

		return m, ok
	}

	c, ok := s.interp.Registry().ClassOf(v)
	if !ok || !c.HasField(name) {
		return nil, false
	}

	m, err := c.Get(v, name)

	return m, err == nil
}

// members returns the member names of v offered for completion.
func (s *Session) members(v any) []string {
	var out []string

	switch t := v.(type) {
	case *scope.Scope:
		return t.LocalNames()

	case *host.Class:
		return t.StaticMembers()

	case map[string]any:
		for k := range t {
			out = append(out, k)
		}
	}

	if c, ok := s.interp.Registry().ClassOf(v); ok {
		out = append(out, c.Members()...)
	}

	return out
}

// Names returns the names visible at the top level of the session.
func (s *Session) Names() []string { return s.scope.Names() }

// Candidates returns the completion candidates for the members of the
// dotted path parent, or the top-level names when parent is empty.
func (s *Session) Candidates(parent string) []string {
	if parent == "" {
		return s.Names()
	}

	v, ok := s.resolve(parent)
	if !ok {
		return nil
	}

	return s.members(v)
}
