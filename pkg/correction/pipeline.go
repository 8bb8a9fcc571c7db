// Package correction corrects grammar of English text.
//
// Correction goes as below:
//
//  1. normalize whitespaces. Blank text is corrected into "".
//  2. apply all rules in the Table, in order.
//  3. capitalize the first letter, and put a period if the text is not terminated.
//  4. (optional) ask an Inferencer to refine the text,
//     when rules did nothing or the text still looks wrong.
//
// When the Inferencer fails, the result of step 3 is used.
// Pipeline never fails.
package correction

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
)

// Inferencer is a text-to-text model which returns corrected text.
//
// It may be slow, and may fail.
type Inferencer interface {
	Infer(ctx context.Context, text string) (string, error)
}

// InferencerFunc is an adapter to use a function as Inferencer.
type InferencerFunc func(ctx context.Context, text string) (string, error)

func (f InferencerFunc) Infer(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

type Result struct {
	Original  string
	Corrected string

	// Refined is true when Corrected is output of the Inferencer.
	Refined bool
}

type Pipeline struct {
	table *Table
	model Inferencer
}

type Option func(*Pipeline) *Pipeline

// WithInferencer enables model refinement. nil disables it.
func WithInferencer(model Inferencer) Option {
	return func(p *Pipeline) *Pipeline {
		p.model = model
		return p
	}
}

// New creates a Pipeline.
//
// # Args
//
// - table: rule table. If nil, DefaultTable() is used.
//
// - options: Options
func New(table *Table, options ...Option) *Pipeline {
	if table == nil {
		table = DefaultTable()
	}
	p := &Pipeline{table: table}
	for _, opt := range options {
		p = opt(p)
	}
	return p
}

// Inferencer returns the Inferencer in use, or nil.
func (p *Pipeline) Inferencer() Inferencer {
	return p.model
}

// Table returns the rule table in use.
func (p *Pipeline) Table() *Table {
	return p.table
}

// Correct returns corrected text.
func (p *Pipeline) Correct(ctx context.Context, text string) string {
	return p.Run(ctx, text).Corrected
}

// Run corrects text and tells how it is corrected.
func (p *Pipeline) Run(ctx context.Context, text string) Result {
	result := Result{Original: text}

	normalized := normalize(text)
	if normalized == "" {
		return result
	}

	ruled := strings.TrimSpace(p.table.Apply(normalized))
	if ruled == "" {
		return result
	}
	finished := finish(ruled)
	result.Corrected = finished

	if p.model == nil {
		return result
	}
	if ruled != normalized && !hasErrorMarker(ruled) {
		return result
	}

	if refined, ok := refine(ctx, p.model, finished); ok {
		result.Corrected = refined
		result.Refined = true
	}
	return result
}

// CorrectAll corrects each text concurrently.
//
// # Args
//
// - ctx: passed to each Correct.
//
// - texts: texts to be corrected
//
// - limit: max number of concurrent corrections. limit <= 0 means unlimited.
//
// # Returns
//
// - []string: corrected texts, in the same order of texts.
func (p *Pipeline) CorrectAll(ctx context.Context, texts []string, limit int) []string {
	out := make([]string, len(texts))

	g := new(errgroup.Group)
	if 0 < limit {
		g.SetLimit(limit)
	}
	for nth, text := range texts {
		g.Go(func() error {
			out[nth] = p.Correct(ctx, text)
			return nil
		})
	}
	g.Wait()
	return out
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// finish capitalizes the first letter and terminates the sentence.
func finish(text string) string {
	// bytes other than the first letter are kept as they are, even if not valid UTF-8.
	if i, r, size, ok := firstLetter(text); ok {
		text = text[:i] + string(unicode.ToUpper(r)) + text[i+size:]
	}

	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	default:
		return text + "."
	}
}

// refine asks model. ok is false when the model is not usable this time.
func refine(ctx context.Context, model Inferencer, text string) (refined string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			refined, ok = "", false
		}
	}()

	if ctx.Err() != nil {
		return "", false
	}

	out, err := model.Infer(ctx, text)
	if err != nil {
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", false
	}
	return out, true
}
