package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
)

func TestIdentity(t *testing.T) {
	if Name != "ascript" {
		t.Errorf("expected Name %q, got %q", "ascript", Name)
	}

	if Description == "" {
		t.Error("expected a description")
	}

	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := Version(), strings.TrimSpace(string(buf)); got != want {
		t.Errorf("expected version %q, got %q", want, got)
	}

	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version()) {
		t.Errorf("expected semantic version, got %q", Version())
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("expected ardnew among authors, got %v", Author)
	}
}

func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("expected %s dir to end in %q, got %q", name, Prefix(), dir)
		}
	}
}

func TestPrefixRules(t *testing.T) {
	tests := []struct{ in, want string }{
		{"__debug_bin3012", Name},
		{".hidden", "hidden"},
		{"ascript", "ascript"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := tt.in
			for _, r := range prefixRules {
				got = r.rex.ReplaceAllString(got, r.rep)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMakeError(t *testing.T) {
	a, b, c := errors.New("a"), errors.New("b"), errors.New("c")

	if MakeError(nil, nil) != nil {
		t.Error("expected nil for no errors")
	}

	err := MakeError(a, MakeError(b, nil, c))

	if got := err.Error(); got != "a; b; c" {
		t.Errorf("expected %q, got %q", "a; b; c", got)
	}

	if !errors.Is(err, c) {
		t.Errorf("expected chain to contain %v", c)
	}

	if n := len(err.(Error)); n != 3 {
		t.Errorf("expected flat list of 3, got %d", n)
	}
}
