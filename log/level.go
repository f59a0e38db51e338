package log

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level of a newly made [Logger].
const DefaultLevel = LevelInfo

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// String returns the lowercase level name. Levels between the named ones are
// written as an offset from the nearest lower name, e.g. "info+2".
func (l Level) String() string {
	base := levelNames[0]

	for _, n := range levelNames {
		if n.level <= l {
			base = n
		}
	}

	switch d := int(l - base.level); {
	case d > 0:
		return base.name + "+" + strconv.Itoa(d)
	case d < 0:
		return base.name + strconv.Itoa(d)
	}

	return base.name
}

// Levels returns the names of the defined levels in ascending severity.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively. Besides "trace", any
// form accepted by [slog.Level.UnmarshalText] is valid. Unknown names yield
// [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format is the encoding of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format of a newly made [Logger].
const DefaultFormat = FormatJSON

// String returns "text" or "json".
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns the names of the supported formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = yield(FormatJSON.String()) && yield(FormatText.String())
	}
}

// ParseFormat parses a format name. Unknown names yield [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	}

	return DefaultFormat
}
