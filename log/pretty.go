package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal, either as
// key=value pairs on one line or as an indented object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	stamp  func(time.Time) string
	object bool

	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
	group string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	stamp func(time.Time) string,
	object bool,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		stamp:  stamp,
		object: object,
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.group + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	if !r.Time.IsZero() {
		if s := h.stamp(r.Time); s != "" {
			fields = append(fields, slog.String(slog.TimeKey, s))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	var own []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	fields = append(fields, h.qualify(own)...)

	buf := new(bytes.Buffer)

	if h.object {
		h.writeObject(buf, fields)
	} else {
		h.writeLine(buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr) {
	for i, a := range flatten("", fields) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		paint(buf, ansiGray, a.Key)
		buf.WriteByte('=')
		writeValue(buf, a.Value)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range flatten("", fields) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		paint(buf, ansiGray, a.Key)
		buf.WriteString(": ")
		writeValue(buf, a.Value)
	}

	buf.WriteString("\n}\n")
}

// flatten expands group values into dotted keys and resolves
// [slog.LogValuer] attributes.
func flatten(prefix string, attrs []slog.Attr) []slog.Attr {
	var out []slog.Attr

	for _, a := range attrs {
		v := a.Value.Resolve()

		if a.Equal(slog.Attr{}) {
			continue
		}

		if v.Kind() == slog.KindGroup {
			sub := prefix
			if a.Key != "" {
				sub += a.Key + "."
			}

			out = append(out, flatten(sub, v.Group())...)

			continue
		}

		out = append(out, slog.Attr{Key: prefix + a.Key, Value: v})
	}

	return out
}

func paint(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(ansiReset)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		paint(buf, ansiCyan, v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		paint(buf, ansiYellow, v.String())

	case slog.KindBool:
		if v.Bool() {
			paint(buf, ansiGreen, "true")
		} else {
			paint(buf, ansiRed, "false")
		}

	case slog.KindDuration:
		paint(buf, ansiMagenta, v.Duration().String())

	case slog.KindTime:
		paint(buf, ansiBlue, v.Time().Format(time.RFC3339))

	default:
		switch a := v.Any().(type) {
		case slog.Level:
			paint(buf, levelColor(a), strings.ToUpper(Level(a).String()))
		case nil:
			paint(buf, ansiGray, "null")
		case error:
			paint(buf, ansiRed, a.Error())
		default:
			paint(buf, ansiCyan, fmt.Sprint(a))
		}
	}
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	case l >= slog.LevelDebug:
		return ansiBlue
	}

	return ansiMagenta
}
