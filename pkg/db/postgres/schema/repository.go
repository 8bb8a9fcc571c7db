package schema

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	xe "github.com/opst/grammarfab/pkg/errors"
)

// repository is a directory of schema versions.
//
// Entries which are not numbered directories are ignored.
type repository string

// step is a schema version in a repository.
type step struct {
	Version int

	// SQL files in lexical order.
	Files []string
}

// steps returns schema versions sorted by version number.
func (r repository) steps() ([]step, error) {
	entries, err := os.ReadDir(string(r))
	if err != nil {
		return nil, xe.Wrap(err)
	}

	steps := []step{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := strconv.Atoi(entry.Name())
		if err != nil || v <= 0 {
			continue
		}

		dir := filepath.Join(string(r), entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		s := step{Version: v}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
				continue
			}
			s.Files = append(s.Files, filepath.Join(dir, f.Name()))
		}
		slices.Sort(s.Files)
		steps = append(steps, s)
	}

	slices.SortFunc(steps, func(a, b step) int { return a.Version - b.Version })
	return steps, nil
}

// latest returns the newest version in the repository. 0 when it is empty.
func (r repository) latest() (int, error) {
	steps, err := r.steps()
	if err != nil {
		return 0, err
	}
	if len(steps) == 0 {
		return 0, nil
	}
	return steps[len(steps)-1].Version, nil
}

// apply runs all SQL files of the step, in order.
func (s step) apply(ctx context.Context, q kpool.Queryer) error {
	for _, file := range s.Files {
		query, err := os.ReadFile(file)
		if err != nil {
			return xe.Wrap(err)
		}
		if _, err := q.Exec(ctx, string(query)); err != nil {
			return xe.WrapWithNote(file, err)
		}
	}
	return nil
}
