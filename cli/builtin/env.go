package builtin

import (
	"os"
	"os/user"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/ardnew/ascript/lang/host"
)

type (
	envLib struct{}
	sysLib struct{}
)

func envClass() *host.Class {
	return host.NewClass("Env", reflect.TypeFor[envLib]()).
		Static(host.Func("get", func(name string) any {
			if v, ok := os.LookupEnv(name); ok {
				return v
			}

			return nil
		})).
		Static(host.Func("get", func(name, fallback string) string {
			if v, ok := os.LookupEnv(name); ok {
				return v
			}

			return fallback
		})).
		Static(host.Func("has", func(name string) bool {
			_, ok := os.LookupEnv(name)
			return ok
		})).
		Static(host.Func("set", os.Setenv)).
		Static(host.Func("unset", os.Unsetenv)).
		Static(host.Func("expand", os.ExpandEnv)).
		Static(host.Func("names", func() []string {
			env := os.Environ()
			names := make([]string, 0, len(env))

			for _, kv := range env {
				if k, _, ok := strings.Cut(kv, "="); ok && k != "" {
					names = append(names, k)
				}
			}

			slices.Sort(names)

			return slices.Compact(names)
		}))
}

func constant(name string, v any) host.Field {
	return host.Field{
		Name: name,
		Type: host.TypeOf(v),
		Get:  func(any) (any, error) { return v, nil },
	}
}

func sysClass() *host.Class {
	hostname, _ := os.Hostname()

	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}

	return host.NewClass("Sys", reflect.TypeFor[sysLib]()).
		StaticField(constant("os", runtime.GOOS)).
		StaticField(constant("arch", runtime.GOARCH)).
		StaticField(constant("hostname", hostname)).
		StaticField(constant("user", username)).
		StaticField(constant("pathSeparator", string(os.PathSeparator))).
		StaticField(constant("listSeparator", string(os.PathListSeparator))).
		Static(host.Func("cwd", os.Getwd)).
		Static(host.Func("pid", os.Getpid))
}
