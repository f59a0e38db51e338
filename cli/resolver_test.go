package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return v
}

func TestLoadYAML(t *testing.T) {
	const doc = `
log-level: debug
log:
  format: json
  pretty: false
max_depth: 128
ratio: 0.5
tags: [a, 2]
`

	r, err := loadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-pretty", false},
		{"max-depth", "128"},
		{"ratio", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := resolveFlag(t, r, tt.flag); got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}

	tags, ok := resolveFlag(t, r, "tags").([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "2" {
		t.Errorf("expected [a 2], got %v", resolveFlag(t, r, "tags"))
	}
}

func TestLoadYAMLEmpty(t *testing.T) {
	r, err := loadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := resolveFlag(t, r, "log-level"); got != nil {
		t.Errorf("expected no value, got %v", got)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	if _, err := loadYAML(strings.NewReader("a: [1, 2\n")); err == nil {
		t.Errorf("expected a parse error")
	}
}
