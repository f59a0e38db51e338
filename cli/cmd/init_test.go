package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Level    string `default:"info"`
	Depth    int    `default:"64"`
	Color    bool   `default:"true"`
	Tags     []string
	Secret   string `default:"x"    hidden:""`
	PprofDir string `default:"/tmp" name:"pprof-dir"`
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli initCLI

			ctx := testContext(t, &cli, &bytes.Buffer{}, kong.Vars{ConfigIdentifier: confPath})

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("expected valid YAML, got %v", err)
			}

			if got["level"] != "info" || got["color"] != true {
				t.Errorf("expected flag values, got %v", got)
			}

			if n := fmt.Sprint(got["depth"]); n != "64" {
				t.Errorf("expected depth 64, got %v (%T)", got["depth"], got["depth"])
			}

			for _, absent := range []string{"help", "tags", "secret", "pprof-dir"} {
				if _, ok := got[absent]; ok {
					t.Errorf("expected %s to be omitted from %s", absent, data)
				}
			}

			if strings.Index(string(data), "level") > strings.Index(string(data), "depth") {
				t.Errorf("expected declaration order, got %s", data)
			}
		})
	}
}

func TestInitMissingPath(t *testing.T) {
	var cli struct{}

	ctx := testContext(t, &cli, &bytes.Buffer{}, nil)

	if err := (&Init{}).Run(ctx); !errors.Is(err, ErrMissingValue) {
		t.Errorf("expected %v, got %v", ErrMissingValue, err)
	}
}
