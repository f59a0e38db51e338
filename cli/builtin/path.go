package builtin

import (
	"os"
	"path/filepath"
	"reflect"

	"github.com/ardnew/mung"

	"github.com/ardnew/ascript/lang/host"
)

type pathLib struct{}

func pathClass() *host.Class {
	return host.NewClass("Path", reflect.TypeFor[pathLib]()).
		Static(host.Func("join", filepath.Join)).
		Static(host.Func("abs", filepath.Abs)).
		Static(host.Func("rel", filepath.Rel)).
		Static(host.Func("base", filepath.Base)).
		Static(host.Func("dir", filepath.Dir)).
		Static(host.Func("ext", filepath.Ext)).
		Static(host.Func("clean", filepath.Clean)).
		Static(host.Func("split", filepath.SplitList)).
		Static(host.Func("exists", func(p string) bool {
			_, err := os.Lstat(p)
			return err == nil
		})).
		Static(host.Func("isDir", func(p string) bool {
			fi, err := os.Stat(p)
			return err == nil && fi.IsDir()
		})).
		Static(host.Func("isFile", func(p string) bool {
			fi, err := os.Stat(p)
			return err == nil && fi.Mode().IsRegular()
		})).
		Static(host.Func("prefix", prefix)).
		Static(host.Func("prefix", prefixIf))
}

// prefix places items at the front of the PATH-style list, removing
// duplicates.
func prefix(list string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}

// prefixIf is prefix restricted to the elements accepted by keep.
func prefixIf(list string, keep func(string) bool, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
		mung.WithFilter(keep),
	).String()
}
