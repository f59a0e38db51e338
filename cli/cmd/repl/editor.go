package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/ascript/lang/ast"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the user's editor on a
// scratch script, parses the result and asks to re-edit on a parse error.
type editCommand struct {
	session *Session
	ctxFunc func() context.Context
	content string

	src  string
	prog *ast.Block

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run loops until the edited script parses, the user empties the file, or
// the user declines to re-edit ([ErrEditDeclined]).
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "ascript-repl-*.as")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.content

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		prog, err := c.session.Interp().Parse(ctx, content)
		c.session.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("length", len(content)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.src, c.prog = content, prog

			return nil
		}

		fmt.Fprintf(c.stderr, "\nparse error: %s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		sc := bufio.NewScanner(c.stdin)
		if !sc.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
