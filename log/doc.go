// Package log provides the structured logger shared by the interpreter and
// the ascript command.
//
// A [Logger] wraps [log/slog] with an immutable configuration chosen at
// creation time through functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithPretty(false))
//	logger.InfoContext(ctx, "script loaded", slog.String("file", name))
//
// The zero [Logger] discards everything, so components may hold one by value
// and log unconditionally.
//
// # Levels
//
// In addition to the four [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] and is used for per-evaluation detail such as parse cache
// lookups and caught script exceptions.
//
// # Package Logger
//
// The package-level functions ([Info], [DebugContext], and friends) write to a
// process-wide default logger reconfigured with [Config]. The command line
// adjusts it while flags are parsed.
package log
