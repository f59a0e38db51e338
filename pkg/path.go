package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), Name},
	{regexp.MustCompile(`^\.+`), ""},
}

// Prefix returns the executable's base name without extension, used to name
// the configuration and cache directories. Debugger builds map to [Name] and
// leading dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, r := range prefixRules {
		id = r.rex.ReplaceAllString(id, r.rep)
	}

	if id == "" {
		return Name
	}

	return id
})

// ConfigDir returns the directory holding the configuration script.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory for transient files such as REPL history and
// profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir resolves a per-user directory, falling back to a dot directory in
// $HOME and then to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if wd, werr := os.Getwd(); werr == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
