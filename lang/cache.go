package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/parser"
)

// ErrReadInput is returned when script source cannot be read.
var ErrReadInput = diag.New(diag.KindParse, "failed to read input")

// parsed is a parse cache entry. The first caller parses; concurrent callers
// for the same source wait on once and share the result.
type parsed struct {
	src  string
	once sync.Once
	prog *ast.Block
	err  error
}

func (p *parsed) parse(ctx context.Context, in *Interp) {
	p.once.Do(func() {
		in.logger.TraceContext(ctx, "parse start", slog.Int("source_bytes", len(p.src)))

		p.prog, p.err = parser.Parse(p.src, in.table)
		if p.err != nil {
			p.err = diag.Wrap(p.err).With(slog.Int("source_length", len(p.src)))

			return
		}

		in.logger.TraceContext(ctx, "parse complete", slog.Int("statements", len(p.prog.Body)))
	})
}

// Parse parses src with the interpreter's operator table. Trees are cached
// by a hash of the source, so repeated evaluation of the same text parses
// once. The returned tree is shared and must not be modified.
//
// The cache holds at most the number of entries set by [WithCacheSize] and
// is emptied when it fills. Sources whose hashes collide are parsed
// without caching.
func (in *Interp) Parse(ctx context.Context, src string) (*ast.Block, error) {
	return in.parseKey(ctx, xxh3.HashString(src), src)
}

func (in *Interp) parseKey(ctx context.Context, key uint64, src string) (*ast.Block, error) {
	entry := &parsed{src: src}

	if in.cacheSize > 0 {
		v, hit := in.cache.LoadOrStore(key, entry)

		in.logger.TraceContext(
			ctx,
			"cache lookup",
			slog.String("source_hash", strconv.FormatUint(key, 16)),
			slog.Bool("cache_hit", hit),
		)

		switch {
		case !hit:
			if in.cached.Add(1) > int64(in.cacheSize) {
				in.logger.TraceContext(ctx, "cache full", slog.Int("entries", in.cacheSize))
				in.ClearCache()
			}
		case v.(*parsed).src == src:
			entry = v.(*parsed)
		default:
			in.logger.TraceContext(ctx, "cache collision",
				slog.String("source_hash", strconv.FormatUint(key, 16)))
		}
	}

	entry.parse(ctx, in)

	return entry.prog, entry.err
}

// ParseReader reads all of r and parses it like [Interp.Parse].
func (in *Interp) ParseReader(ctx context.Context, r io.Reader) (*ast.Block, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	in.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return in.Parse(ctx, string(data))
}

// ClearCache drops every cached parse tree.
func (in *Interp) ClearCache() {
	in.cache.Clear()
	in.cached.Store(0)
}
