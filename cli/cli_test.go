package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/ascript/cli/cmd"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/pkg"
)

// TestMain points the user directories at a temporary directory. The paths
// are resolved once per process, so every test in the package shares them.
func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "ascript-cli-test-*")
	if err != nil {
		panic(err)
	}

	for k, v := range map[string]string{
		"HOME":            home,
		"XDG_CONFIG_HOME": filepath.Join(home, "config"),
		"XDG_CACHE_HOME":  filepath.Join(home, "cache"),
	} {
		if err := os.Setenv(k, v); err != nil {
			panic(err)
		}
	}

	code := m.Run()

	_ = os.RemoveAll(home)

	os.Exit(code)
}

func TestRunEval(t *testing.T) {
	if err := Run(t.Context(), func(int) {}, "eval", "-q", "-e", "1 + 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s, got %v", dir, err)
		}
	}

	err := Run(t.Context(), func(int) {}, "eval", "-q", "-e", "nope")
	if !errors.Is(err, cmd.ErrEvaluate) || !errors.Is(err, diag.ErrUndefined) {
		t.Errorf("expected %v wrapping %v, got %v", cmd.ErrEvaluate, diag.ErrUndefined, err)
	}
}

func TestRunMaxDepth(t *testing.T) {
	err := Run(t.Context(), func(int) {},
		"--max-depth", "8", "eval", "-q", "-e", "f = n => f(n + 1); f(0)")
	if !errors.Is(err, diag.ErrStackOverflow) {
		t.Errorf("expected %v, got %v", diag.ErrStackOverflow, err)
	}
}

func TestRunCacheSize(t *testing.T) {
	if err := Run(t.Context(), func(int) {},
		"--cache-size", "0", "eval", "-q", "-e", "1 + 1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := Run(t.Context(), func(int) {}, "--cache-size", "many", "eval", "-q", "-e", "1")
	if err == nil {
		t.Errorf("expected an error for a non-numeric cache size")
	}
}

func TestRunInitThenConfig(t *testing.T) {
	if err := Run(t.Context(), func(int) {}, "--log-level", "warn", "init", "--force"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(configPath(".yaml"))
	if err != nil {
		t.Fatalf("expected the configuration file, got %v", err)
	}

	r, err := loadYAML(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := resolveFlag(t, r, "log-level"); got != "warn" {
		t.Errorf("expected the saved level, got %v", got)
	}

	// the saved file now configures later runs
	if err := Run(t.Context(), func(int) {}, "eval", "-q", "-e", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Remove(configPath(".yaml")); err != nil {
		t.Fatal(err)
	}
}

func TestRunVersion(t *testing.T) {
	code := -1
	exited := errors.New("exited")

	func() {
		defer func() {
			if r := recover(); r != nil && r != exited {
				panic(r)
			}
		}()

		_ = Run(t.Context(), func(c int) {
			code = c
			panic(exited)
		}, "--version")
	}()

	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}
