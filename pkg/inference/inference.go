// Package inference holds what text-to-text models have in common.
//
// Models themselves are in sub packages.
package inference

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opst/grammarfab/pkg/correction"
)

// ErrEmptyOutput is returned when a model says nothing useful.
var ErrEmptyOutput = errors.New("model returned empty output")

// echoes are prefixes models put back from prompts.
var echoes = []string{
	"grammar:",
	"Correct the grammar in this text:",
	"Corrected text:",
	"Corrected:",
}

// Clean trims whitespaces and a prompt echo from model output.
//
// Only the first matching echo is removed.
// If nothing is left, it returns ErrEmptyOutput.
func Clean(output string) (string, error) {
	out := strings.TrimSpace(output)
	for _, e := range echoes {
		if rest, ok := strings.CutPrefix(out, e); ok {
			out = strings.TrimSpace(rest)
			break
		}
	}
	if out == "" {
		return "", ErrEmptyOutput
	}
	return out, nil
}

// WithTimeout limits time to wait for the model per inference.
//
// timeout <= 0 means no limit, and model is returned as it is.
func WithTimeout(model correction.Inferencer, timeout time.Duration) correction.Inferencer {
	if timeout <= 0 || model == nil {
		return model
	}
	return correction.InferencerFunc(func(ctx context.Context, text string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return model.Infer(ctx, text)
	})
}
