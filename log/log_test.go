package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithPretty(false), WithTimeLayout("none")}, opts...)...)
}

func TestMakeDefaults(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != LevelInfo {
		t.Errorf("expected level %v, got %v", LevelInfo, logger.Level())
	}

	if logger.Format() != FormatJSON {
		t.Errorf("expected format %v, got %v", FormatJSON, logger.Format())
	}

	// writes to a nil output are discarded
	logger.Error("dropped")
}

func TestZeroLogger(t *testing.T) {
	var logger Logger

	logger.TraceContext(t.Context(), "nothing")
	logger.Error("nothing", slog.Int("n", 1))

	if got := logger.With(slog.Bool("k", true)); got.Logger != nil {
		t.Errorf("expected zero logger, got %v", got)
	}

	if logger.Level() != DefaultLevel {
		t.Errorf("expected level %v, got %v", DefaultLevel, logger.Level())
	}
}

func TestLevelFilter(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger)
		want  bool
	}{
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{"trace at debug", LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{"debug at info", LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{"info at info", LevelInfo, func(l Logger) { l.Info("m") }, true},
		{"warn at error", LevelError, func(l Logger) { l.Warn("m") }, false},
		{"error at error", LevelError, func(l Logger) { l.ErrorContext(t.Context(), "m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(plain(&buf, WithLevel(tt.level)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("expected written=%v, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestJSONRecord(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf, WithLevel(LevelTrace)).With(slog.String("component", "lexer"))
	logger.TraceContext(t.Context(), "token", slog.Int("line", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unexpected error: %v: %s", err, buf.String())
	}

	want := map[string]any{
		"level":     "TRACE",
		"msg":       "token",
		"component": "lexer",
		"line":      3.0,
	}

	for k, v := range want {
		if rec[k] != v {
			t.Errorf("expected %s=%v, got %v", k, v, rec[k])
		}
	}

	if _, ok := rec["time"]; ok {
		t.Errorf("expected no timestamp, got %v", rec["time"])
	}
}

func TestTextRecord(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithFormat(FormatText)).Warn("slow parse", slog.Int("bytes", 10))

	if got, want := buf.String(), "level=WARN msg=\"slow parse\" bytes=10\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCaller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).InfoContext(t.Context(), "here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller in log_test.go, got %s", buf.String())
	}
}

func TestWrap(t *testing.T) {
	var a, b bytes.Buffer

	base := plain(&a)
	moved := base.Wrap(WithOutput(&b), WithLevel(LevelDebug))

	moved.Debug("moved")
	base.Debug("base")

	if a.Len() != 0 {
		t.Errorf("expected base logger unchanged, got %q", a.String())
	}

	if !strings.Contains(b.String(), "moved") {
		t.Errorf("expected wrapped output, got %q", b.String())
	}
}

func TestPretty(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{"text", FormatText, []string{"msg" + ansiReset + "=" + ansiCyan + "hello", ansiGreen + "true"}},
		{"json", FormatJSON, []string{"{\n", "  " + ansiGray + "msg" + ansiReset + ": ", "\n}\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithFormat(tt.format), WithTimeLayout(""))
			logger.With(slog.Bool("ok", true)).Info("hello",
				slog.Group("err", slog.String("kind", "parse")))

			out := buf.String()

			for _, w := range append(tt.want, "err.kind") {
				if !strings.Contains(out, w) {
					t.Errorf("expected output to contain %q, got %q", w, out)
				}
			}
		})
	}
}

func TestPrettyError(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatText)).Error("failed", slog.Any("error", errors.New("boom")))

	if !strings.Contains(buf.String(), ansiRed+"boom") {
		t.Errorf("expected red error value, got %q", buf.String())
	}
}

func TestConcurrentLogging(t *testing.T) {
	var (
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithFormat(FormatText))

	for range 8 {
		wg.Go(func() {
			for range 10 {
				logger.Info("tick")
			}
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 80 {
		t.Errorf("expected 80 lines, got %d", n)
	}
}

func TestPackageLogger(t *testing.T) {
	saved := Default()
	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = saved
		defaultMu.Unlock()
	})

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelDebug), WithPretty(false), WithTimeLayout("none"))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) || !strings.Contains(out, `"key":"value"`) {
				t.Errorf("expected %s record with attribute, got %s", tt.level, out)
			}
		})
	}

	buf.Reset()
	TraceContext(t.Context(), "hidden")

	if buf.Len() != 0 {
		t.Errorf("expected trace filtered at debug, got %s", buf.String())
	}
}
