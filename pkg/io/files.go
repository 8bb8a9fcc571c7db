// Package io has helpers for files written by commands.
package io

import (
	"os"
	"path/filepath"

	xe "github.com/opst/grammarfab/pkg/errors"
)

// CreateAll creates (or truncates) a file with its parent directories, if missing.
//
// # Args
//
// - name: filepath to be created.
//
// - fmod: permission for the file.
//
// - dmod: permission for directories.
// Note that dmod effects only newly-created directories.
//
// # Returns
//
// - *os.File: the file opened for writing. Close it after use.
//
// - error: when it failed creating one of the file or directories.
func CreateAll(name string, fmod os.FileMode, dmod os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(name), dmod); err != nil {
		return nil, xe.Wrap(err)
	}

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fmod)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return f, nil
}
