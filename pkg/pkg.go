// Package pkg holds the identity of the ascript module and process-wide
// filesystem locations.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text and in the default
	// configuration and cache paths.
	Name = "ascript"
	// Description summarizes the project for help output.
	Description = "Embeddable expression-oriented scripting language"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the project authors.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
