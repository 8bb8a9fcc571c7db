// Package filewatch ties lifetime of contexts to files.
package filewatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrModified is the cause of contexts canceled by UntilModified.
var ErrModified = errors.New("file is modified")

// Modified tells which file has been modified.
type Modified struct {
	Path string
	Op   fsnotify.Op
}

func (m *Modified) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrModified, m.Path, m.Op)
}

func (m *Modified) Unwrap() error {
	return ErrModified
}

// UntilModified returns a context that is canceled
// when one of files is written, created, removed, or renamed.
//
// Changes of file mode do not cancel the context.
//
// Parent directories of the files are watched, not files themselves.
// So the context notices files replaced with rename(2), as editors and
// configmap updaters do.
//
// # Args
//
// - ctx: context.Context
//
// - files ...string: file paths to be watched. They should exist.
//
// # Returns
//
// - context.Context: context that is canceled when one of files is modified.
// context.Cause(ctx) is a *Modified.
//
// - context.CancelFunc: cancel function. Call it to stop watching.
//
// - error: error caused when it fails to start watching files.
//
// If error is not nil, both of the the context and the cancel function are nil.
func UntilModified(ctx context.Context, files ...string) (context.Context, context.CancelFunc, error) {
	targets := map[string]struct{}{}
	dirs := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, nil, err
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, nil, err
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			w.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(err)
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				name, err := filepath.Abs(event.Name)
				if err != nil {
					continue
				}
				if _, ok := targets[name]; !ok {
					continue
				}
				cancel(&Modified{Path: name, Op: event.Op})
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
