package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/ascript/cli/cmd/repl"
	"github.com/ardnew/ascript/log"
)

// Repl starts an interactive session.
type Repl struct {
	History bool `default:"true" help:"Keep input history in the cache directory" negatable:""`

	Files []string `arg:"" help:"Scripts to load before the first prompt" name:"file" optional:"" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, newInterp NewInterp) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNotTerminal
	}

	sess, err := r.session(ctx, newInterp, stdout(ctx))
	if err != nil {
		return err
	}

	cache := ""
	if r.History {
		cache = kongVar(ctx, CacheIdentifier)
	}

	return repl.Run(ctx, sess, cache)
}

// session builds the session and evaluates Files in it. What the files
// print is copied to w.
func (r *Repl) session(ctx context.Context, newInterp NewInterp, w io.Writer) (*repl.Session, error) {
	out := new(repl.Output)

	in, err := newInterp(out)
	if err != nil {
		return nil, ErrInterpreter.Wrap(err)
	}

	sess := repl.NewSession(in, log.Default()).WithOutput(out)

	srcs, err := FileSources(ctx, r.Files)
	if err != nil {
		return nil, err
	}

	for _, src := range srcs {
		if err := loadSource(ctx, sess, src); err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "loaded script", slog.String("source", src.Name))
	}

	if printed := out.Drain(); printed != "" {
		if _, err := io.WriteString(w, printed+"\n"); err != nil {
			return nil, err
		}
	}

	return sess, nil
}

func loadSource(ctx context.Context, sess *repl.Session, src Source) error {
	rc, err := src.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := sess.Load(ctx, rc); err != nil {
		return ErrLoad.With(slog.String("source", src.Name)).Wrap(err)
	}

	return nil
}
