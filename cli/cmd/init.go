package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ascript/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// ignoredFlags are never written to the configuration file.
var ignoredFlags = []string{"help", "version", "pprof-"}

// Init writes a YAML configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		return ErrMissingValue.With(slog.String("var", ConfigIdentifier))
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, i.settings(ctx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("bytes", len(data)),
	)

	return nil
}

// settings returns the value of every configurable flag, in declaration
// order. Empty strings and lists are omitted.
func (i *Init) settings(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		switch v := ktx.FlagValue(flag).(type) {
		case nil:
		case string:
			if v != "" {
				out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
			}
		case []string:
			if len(v) > 0 {
				out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
			}
		default:
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}
