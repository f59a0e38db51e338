package profile

import (
	"slices"
	"testing"
)

func TestStartDisabled(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{"empty", Profiler{}},
		{"unknown", Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.p.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("expected no-op stopper, got %T", s)
			}

			s.Stop()
		})
	}
}

func TestModesSorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("expected sorted modes, got %v", m)
	}
}
