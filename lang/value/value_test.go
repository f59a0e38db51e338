package value

import (
	"strconv"
	"testing"
)

func TestIntern(t *testing.T) {
	a := Intern("name")
	b := Intern(string([]byte("name")))

	if a != b {
		t.Errorf("expected equal names to intern to the same symbol")
	}

	if a == Intern("other") {
		t.Errorf("expected distinct names to intern to distinct symbols")
	}

	if got := a.Name(); got != "name" {
		t.Errorf("expected name, got %q", got)
	}

	if got := a.String(); got != "'name" {
		t.Errorf("expected 'name, got %q", got)
	}

	var zero Symbol
	if zero.Name() != "" {
		t.Errorf("expected the zero symbol to have no name, got %q", zero.Name())
	}

	seen := map[Symbol]int{a: 1}
	if seen[Intern("name")] != 1 {
		t.Errorf("expected symbols to work as map keys")
	}
}

func TestChar(t *testing.T) {
	if got := Char('é').String(); got != "é" {
		t.Errorf("expected é, got %q", got)
	}
}

func TestTuple(t *testing.T) {
	tup := Tuple{int32(1), "two", nil}
	if tup.Len() != 3 {
		t.Errorf("expected 3, got %d", tup.Len())
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		items []int
		want  string
	}{
		{nil, ""},
		{[]int{1}, "1"},
		{[]int{1, 2, 3}, "1, 2, 3"},
	}

	for _, tt := range tests {
		if got := Join(tt.items, ", ", strconv.Itoa); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func BenchmarkIntern(b *testing.B) {
	names := []string{"alpha", "beta", "gamma", "delta"}

	var i int
	for b.Loop() {
		_ = Intern(names[i%len(names)])
		i++
	}
}
