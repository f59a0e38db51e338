package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ascript/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// logFlag applies one logger flag found by scan. valued flags take a value;
// the others are booleans.
type logFlag struct {
	valued bool
	apply  func(f *logConfig, value string)
}

func boolFlag(set func(*logConfig, bool), opt func(bool) log.Option, negate bool) logFlag {
	return logFlag{apply: func(f *logConfig, value string) {
		v := true
		if value != "" {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return
			}

			v = b
		}

		if negate {
			v = !v
		}

		set(f, v)
		log.Config(opt(v))
	}}
}

var logFlags = map[string]logFlag{
	"--log-level": {valued: true, apply: func(f *logConfig, v string) {
		_ = f.Level.UnmarshalText([]byte(v))
	}},
	"--log-format": {valued: true, apply: func(f *logConfig, v string) {
		_ = f.Format.UnmarshalText([]byte(v))
	}},
	"--log-time-layout": {valued: true, apply: func(f *logConfig, v string) {
		f.TimeLayout = v
		log.Config(log.WithTimeLayout(v))
	}},
	"--log-pretty":    boolFlag(func(f *logConfig, v bool) { f.Pretty = v }, log.WithPretty, false),
	"--no-log-pretty": boolFlag(func(f *logConfig, v bool) { f.Pretty = v }, log.WithPretty, true),
	"--log-caller":    boolFlag(func(f *logConfig, v bool) { f.Caller = v }, log.WithCaller, false),
	"--no-log-caller": boolFlag(func(f *logConfig, v bool) { f.Caller = v }, log.WithCaller, true),
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line, including for the boolean flags that never reach a
// TextUnmarshaler.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		flag, ok := logFlags[name]
		if !ok {
			continue
		}

		if flag.valued && !assigned && i+1 < len(args) &&
			args[i+1] != "" && args[i+1][0] != '-' {
			i++
			value = args[i]
		}

		flag.apply(f, value)
	}
}
