package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/ascript/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the path of the configuration file with extension ext.
func configPath(ext string) string {
	return filepath.Join(pkg.ConfigDir(), baseConfig+ext)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
