package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/host"
	"github.com/ardnew/ascript/lang/scope"
	"github.com/ardnew/ascript/lang/value"
)

// FormatValue returns the source-like form of a script value: strings and
// characters are quoted, collections list their formatted items.
func FormatValue(v any) string {
	var sb strings.Builder

	writeValue(&sb, v, true)

	return sb.String()
}

// Display returns the text of v used by concatenation and interpolation.
// Strings, characters and symbols contribute their bare text.
func Display(v any) string {
	var sb strings.Builder

	writeValue(&sb, v, false)

	return sb.String()
}

func writeValue(sb *strings.Builder, v any, quote bool) {
	switch v := v.(type) {
	case nil, bool, int32, int64, *big.Int, float64:
		sb.WriteString(ast.Literalize(v))
	case int8:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case float32:
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case *big.Float:
		sb.WriteString(v.Text('g', -1))
	case string:
		if quote {
			sb.WriteString(ast.Literalize(v))
		} else {
			sb.WriteString(v)
		}
	case value.Char:
		if quote {
			sb.WriteString(ast.Literalize(v))
		} else {
			sb.WriteRune(rune(v))
		}
	case value.Symbol:
		if quote {
			sb.WriteString(v.String())
		} else {
			sb.WriteString(v.Name())
		}
	case []any:
		sb.WriteByte('[')
		writeItems(sb, v)
		sb.WriteByte(']')
	case value.Tuple:
		sb.WriteByte('(')
		writeItems(sb, v)
		sb.WriteByte(')')
	case map[string]any:
		sb.WriteByte('{')

		for i, k := range slices.Sorted(maps.Keys(v)) {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(ast.Literalize(k))
			sb.WriteString(": ")
			writeValue(sb, v[k], true)
		}

		sb.WriteByte('}')
	case *scope.Scope:
		sb.WriteString(v.String())
	case *Closure:
		sb.WriteString(v.String())
	case value.Func:
		sb.WriteString("<function ")
		sb.WriteString(v.Name())
		sb.WriteByte('>')
	case host.Type:
		sb.WriteString(v.String())
	case *host.Class:
		sb.WriteString("<class ")
		sb.WriteString(v.Name())
		sb.WriteByte('>')
	case *diag.Error:
		sb.WriteString(v.Error())
	case fmt.Stringer:
		sb.WriteString(v.String())
	default:
		fmt.Fprint(sb, v)
	}
}

func writeItems(sb *strings.Builder, items []any) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}

		writeValue(sb, item, true)
	}
}

// Marshal converts a script value into plain data that encodes as JSON or
// YAML: numbers, strings, booleans, lists and string-keyed maps. Scopes
// become maps of their local bindings; values with no data form become their
// formatted text.
func Marshal(v any) any {
	switch v := v.(type) {
	case nil, bool, int8, int16, int32, int64, string:
		return v
	case float32:
		return marshalFloat(float64(v))
	case float64:
		return marshalFloat(v)
	case *big.Int:
		if v.IsInt64() {
			return v.Int64()
		}

		return v.String()
	case *big.Float:
		if f, acc := v.Float64(); acc == big.Exact {
			return marshalFloat(f)
		}

		return v.Text('g', -1)
	case value.Char:
		return v.String()
	case value.Symbol:
		return v.Name()
	case []any:
		return marshalItems(v)
	case value.Tuple:
		return marshalItems(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			out[k] = Marshal(x)
		}

		return out
	case *scope.Scope:
		out := make(map[string]any)
		for _, name := range v.LocalNames() {
			if x, err := v.Get(value.Intern(name)); err == nil {
				out[name] = Marshal(x)
			}
		}

		return out
	}

	return FormatValue(v)
}

func marshalFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return f
}

func marshalItems(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Marshal(item)
	}

	return out
}

// FormatJSON writes v as JSON to w. A positive indent selects indented
// output.
func FormatJSON(_ context.Context, w io.Writer, v any, indent int) error {
	return encodeJSON(w, Marshal(v), indent)
}

func encodeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML to w. A positive indent selects block style;
// otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	return encodeYAML(ctx, w, Marshal(v), indent)
}

func encodeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// DumpJSON writes the tree of prog as JSON to w.
func DumpJSON(_ context.Context, w io.Writer, prog *ast.Block, indent int) error {
	return encodeJSON(w, ast.ToMap(prog), indent)
}

// DumpYAML writes the tree of prog as YAML to w.
func DumpYAML(ctx context.Context, w io.Writer, prog *ast.Block, indent int) error {
	return encodeYAML(ctx, w, ast.ToMap(prog), indent)
}

// DumpTree writes the tree of prog to w as an indented outline, one node
// per line with its scalar attributes inline.
func DumpTree(w io.Writer, prog *ast.Block) error {
	var sb strings.Builder

	writeTree(&sb, "", ast.ToMap(prog), 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeTree(sb *strings.Builder, label string, node map[string]any, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))

	if label != "" {
		sb.WriteString(label)
		sb.WriteString(": ")
	}

	if kind, ok := node["node"]; ok {
		sb.WriteString(fmt.Sprint(kind))
		sb.WriteString(" @")
		sb.WriteString(fmt.Sprint(node["pos"]))
	} else {
		sb.WriteString("param")
	}

	var children []string

	for _, k := range slices.Sorted(maps.Keys(node)) {
		switch v := node[k].(type) {
		case map[string]any, []any:
			children = append(children, k)
		default:
			if k == "node" || k == "pos" {
				continue
			}

			fmt.Fprintf(sb, " %s=%v", k, v)
		}
	}

	sb.WriteByte('\n')

	for _, k := range children {
		switch v := node[k].(type) {
		case map[string]any:
			writeTree(sb, k, v, depth+1)
		case []any:
			for i, item := range v {
				label := k + "[" + strconv.Itoa(i) + "]"
				if m, ok := item.(map[string]any); ok {
					writeTree(sb, label, m, depth+1)

					continue
				}

				fmt.Fprintf(sb, "%s%s: %v\n", strings.Repeat("  ", depth+1), label, item)
			}
		}
	}
}
