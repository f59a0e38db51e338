package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// DefaultTimeLayout is the timestamp layout of a newly made [Logger].
const DefaultTimeLayout = time.RFC3339

const (
	DefaultCaller = false
	DefaultPretty = true
)

// Option adjusts a logger configuration.
type Option func(config) config

// config is immutable once a Logger holds it; options return modified
// copies.
type config struct {
	output io.Writer
	stamp  func(time.Time) string
	level  Level
	format Format
	caller bool
	pretty bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return config{
		output: discardNil(w),
		stamp:  stampFunc(DefaultTimeLayout),
		level:  DefaultLevel,
		format: DefaultFormat,
		caller: DefaultCaller,
		pretty: DefaultPretty,
	}.with(opts...)
}

func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

func discardNil(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

// replace rewrites the time and level attributes of every record.
func (c config) replace(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			s := c.stamp(t)
			if s == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(s)
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replace,
	}

	switch {
	case c.pretty && c.format == FormatJSON:
		return newPrettyHandler(c.output, opts, c.stamp, true)
	case c.pretty && c.format == FormatText:
		return newPrettyHandler(c.output, opts, c.stamp, false)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	}

	return slog.DiscardHandler
}

// WithOutput sets the destination of log records. A nil writer discards them.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		c.output = discardNil(w)

		return c
	}
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout: a name from the [time] package
// such as "RFC3339Nano" or "Kitchen", a short alias like "ms", or a custom
// layout. An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.stamp = stampFunc(layout)

		return c
	}
}

// WithCaller includes the calling source location in each record.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty selects colorized output for terminals.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

var namedLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"none":        "",

	"stampmilli": time.StampMilli,
	"ms":         time.StampMilli,
	"stampmicro": time.StampMicro,
	"us":         time.StampMicro,
	"stampnano":  time.StampNano,
	"ns":         time.StampNano,
}

// stampFunc returns the formatter for layout. Named layouts match ignoring
// case and punctuation; anything else is used verbatim.
func stampFunc(layout string) func(time.Time) string {
	key := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if std, ok := namedLayouts[key]; ok {
		layout = std
	} else if key == "" {
		layout = ""
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
