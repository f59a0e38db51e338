package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadYAML, "/path/to/config.yaml")
//
// Keys name flags. Nested mappings join their keys with hyphens, so both of
// these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may stand in for hyphens. Command-line flags override config
// file values. An empty file configures nothing.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened configuration.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	name := flag.Name
	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

func (r config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		switch v := v.(type) {
		case map[string]any:
			r.flatten(key, v)
		case map[any]any:
			sub := make(map[string]any, len(v))
			for mk, mv := range v {
				sub[fmt.Sprint(mk)] = mv
			}

			r.flatten(key, sub)
		default:
			r[key] = scalar(v)
		}
	}
}

// scalar converts a decoded YAML value to the form kong's mappers parse.
// Kong requires numbers as strings.
func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = scalar(item)
		}

		return out
	}

	return v
}
