package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelTrace - 1, "trace-1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("unexpected levels %v", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"text", FormatText},
		{" JSON ", FormatJSON},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("unexpected formats %v", got)
	}
}

func TestStampFunc(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:00Z"},
		{"rfc-3339", "2024-03-09T14:05:00Z"},
		{"Kitchen", "2:05PM"},
		{"DateTime", "2024-03-09 14:05:00"},
		{"none", ""},
		{"  ", ""},
		{"2006", "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := stampFunc(tt.layout)(at); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOptionsCompose(t *testing.T) {
	c := makeConfig(nil, WithLevel(LevelWarn), nil, WithFormat(FormatText), WithCaller(true), WithPretty(false))

	if c.level != LevelWarn || c.format != FormatText || !c.caller || c.pretty {
		t.Errorf("unexpected config %+v", c)
	}

	if c.output == nil {
		t.Error("expected discard output for nil writer")
	}
}
