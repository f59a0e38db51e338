package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/lang/ast"
)

// Fmt parses a script and prints its tree in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Print canonical ascript source (default)."`
	JSON   JSON   `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Print the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Print the syntax tree as an outline."`
}

// parseSource opens path and parses it with a fresh interpreter's operator
// table.
func parseSource(ctx context.Context, newInterp NewInterp, path, format string) (*ast.Block, error) {
	srcs, err := FileSources(ctx, []string{path})
	if err != nil {
		return nil, err
	}

	in, err := newInterp(io.Discard)
	if err != nil {
		return nil, ErrInterpreter.Wrap(err)
	}

	// FileSources yields exactly one source for a single path
	r, err := srcs[0].Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	prog, err := in.ParseReader(ctx, r)
	if err != nil {
		return nil, ErrFormat.
			With(slog.String("format", format), slog.String("source", srcs[0].Name)).
			Wrap(err)
	}

	return prog, nil
}

// Native prints the canonical source form, one statement per line.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context, newInterp NewInterp) error {
	prog, err := parseSource(ctx, newInterp, f.Source, "native")
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, stmt := range prog.Body {
		if _, err := fmt.Fprintln(w, ast.String(stmt)); err != nil {
			return err
		}
	}

	return nil
}

// JSON prints the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context, newInterp NewInterp) error {
	prog, err := parseSource(ctx, newInterp, j.Source, "json")
	if err != nil {
		return err
	}

	return lang.DumpJSON(ctx, stdout(ctx), prog, j.Indent)
}

// YAML prints the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context, newInterp NewInterp) error {
	prog, err := parseSource(ctx, newInterp, y.Source, "yaml")
	if err != nil {
		return err
	}

	if err := lang.DumpYAML(ctx, stdout(ctx), prog, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST prints the syntax tree as an indented outline.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context, newInterp NewInterp) error {
	prog, err := parseSource(ctx, newInterp, a.Source, "ast")
	if err != nil {
		return err
	}

	return lang.DumpTree(stdout(ctx), prog)
}
