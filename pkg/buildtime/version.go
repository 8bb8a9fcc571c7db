// Package buildtime tells which build of grammarfab is running.
//
// VERSION and revision are embedded. Release builds overwrite them before compiling.
package buildtime

import (
	_ "embed"
	"strings"
)

var (
	//go:embed VERSION
	version string

	//go:embed revision
	revision string
)

// Version is the released version, like "v0.1.0".
func Version() string {
	return strings.TrimSpace(version)
}

// Revision is the commit hash the build is made from. "unknown" for local builds.
func Revision() string {
	return strings.TrimSpace(revision)
}

// VersionString is "<version> (commit: <revision>)", for --version of commands.
func VersionString() string {
	return Version() + " (commit: " + Revision() + ")"
}
