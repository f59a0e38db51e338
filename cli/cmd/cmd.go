package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/log"
)

// NewInterp returns a ready interpreter whose host functions print to w.
// Commands call it once per independent execution.
type NewInterp func(w io.Writer) (*lang.Interp, error)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// kongVar returns the kong variable name, or "" when unset.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is one script to run: a file, standard input or an inline
// expression.
type Source struct {
	Name string
	open func() (io.ReadCloser, error)
}

// Open returns the script text. The caller closes it.
func (s Source) Open() (io.ReadCloser, error) {
	r, err := s.open()
	if err != nil {
		return nil, ErrOpenSource.With(slog.String("source", s.Name)).Wrap(err)
	}

	return r, nil
}

// ExprSource returns a source for the n'th (1-based) inline expression.
func ExprSource(n int, expr string) Source {
	return Source{
		Name: "-e#" + strconv.Itoa(n),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(expr)), nil
		},
	}
}

// StdinSource returns a source reading standard input.
func StdinSource() Source {
	return Source{
		Name: "<stdin>",
		open: func() (io.ReadCloser, error) { return io.NopCloser(os.Stdin), nil },
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// FileSources returns a source for each distinct path.
//
// Paths naming the same file through symlinks or relative forms are
// collapsed by device/inode, keeping the first. All occurrences of "-", and
// any path that resolves to standard input itself, become a single stdin
// source placed last. A path that cannot be resolved is an error.
func FileSources(ctx context.Context, paths []string) ([]Source, error) {
	srcs := make([]Source, 0, len(paths))
	seen := make(map[fileKey]struct{})

	var (
		stdinKey   fileKey
		stdinKnown bool
		hasStdin   bool
	)

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, stdinKnown = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		resolved, key, keyed, err := resolveFile(path)
		if err != nil {
			return nil, ErrOpenSource.With(slog.String("source", path)).Wrap(err)
		}

		if keyed {
			if stdinKnown && key == stdinKey {
				hasStdin = true

				continue
			}

			if _, dup := seen[key]; dup {
				log.DebugContext(ctx, "skip duplicate source", slog.String("source", path))

				continue
			}

			seen[key] = struct{}{}
		}

		srcs = append(srcs, Source{
			Name: path,
			open: func() (io.ReadCloser, error) { return os.Open(resolved) },
		})
	}

	if hasStdin {
		srcs = append(srcs, StdinSource())
	}

	return srcs, nil
}

// resolveFile resolves path to an absolute, symlink-free path and its
// identity. keyed is false where the platform reports no inode.
func resolveFile(path string) (resolved string, key fileKey, keyed bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", key, false, err
	}

	resolved, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return "", key, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", key, false, err
	}

	key, keyed = makeFileKey(info)

	return resolved, key, keyed, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
