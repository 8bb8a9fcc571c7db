package correction_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/opst/grammarfab/pkg/correction"
)

// identity model: returns its input unchanged.
var identity = correction.InferencerFunc(func(_ context.Context, text string) (string, error) {
	return text, nil
})

type countingModel struct {
	calls atomic.Int32
	reply func(string) (string, error)
}

func (m *countingModel) Infer(_ context.Context, text string) (string, error) {
	m.calls.Add(1)
	return m.reply(text)
}

func TestPipeline_Correct(t *testing.T) {
	type when struct {
		table *correction.Table
		text  string
	}
	type then struct {
		corrected string
	}

	for name, testcase := range map[string]struct {
		when
		then
	}{
		"it capitalizes and terminates a sentence": {
			when{text: "i am going to store"},
			then{corrected: "I am going to store."},
		},
		"whitespace-only text is corrected into empty": {
			when{text: "  "},
			then{corrected: ""},
		},
		"empty text is corrected into empty": {
			when{text: ""},
			then{corrected: ""},
		},
		"tabs and newlines are blank": {
			when{text: "\t\n  \r\n"},
			then{corrected: ""},
		},
		"indefinite pronoun takes singular verb": {
			when{text: "everyone are happy"},
			then{corrected: "Everyone is happy."},
		},
		"single letter gets a period": {
			when{text: "A"},
			then{corrected: "A."},
		},
		"incidental whitespaces are collapsed": {
			when{text: "  she   are \t a  nurse  "},
			then{corrected: "She is a nurse."},
		},
		"terminal punctuation is kept": {
			when{text: "where are you going?"},
			then{corrected: "Where are you going?"},
		},
		"informal phrases are expanded": {
			when{text: "we gonna win"},
			then{corrected: "We going to win."},
		},
		"contractions without apostrophe are fixed": {
			when{text: "they dont know"},
			then{corrected: "They don't know."},
		},
		"articles are fixed": {
			when{text: "I ate a apple"},
			then{corrected: "I ate an apple."},
		},
		"rules compose in order": {
			when{
				table: correction.MustTable(
					correction.Rule{Pattern: `\balpha\b`, Replacement: "beta"},
					correction.Rule{Pattern: `\bbeta\b`, Replacement: "gamma"},
				),
				text: "alpha",
			},
			then{corrected: "Gamma."},
		},
		"rules in reversed order do not compose": {
			when{
				table: correction.MustTable(
					correction.Rule{Pattern: `\bbeta\b`, Replacement: "gamma"},
					correction.Rule{Pattern: `\balpha\b`, Replacement: "beta"},
				),
				text: "alpha",
			},
			then{corrected: "Beta."},
		},
		"rules are case-insensitive": {
			when{
				table: correction.MustTable(
					correction.Rule{Pattern: `\bcolour\b`, Replacement: "color"},
				),
				text: "COLOUR of sky",
			},
			then{corrected: "Color of sky."},
		},
		"capitalization is applied once, after all rules": {
			when{
				table: correction.MustTable(
					correction.Rule{Pattern: `^x`, Replacement: "y."},
					correction.Rule{Pattern: `^y\.`, Replacement: "z"},
				),
				text: "x",
			},
			then{corrected: "Z."},
		},
		"invalid UTF-8 bytes are kept": {
			when{text: "caf\xe9 is open"},
			then{corrected: "Caf\xe9 is open."},
		},
		"invalid UTF-8 only text is terminated as is": {
			when{text: "\xff"},
			then{corrected: "\xff."},
		},
		"invalid UTF-8 before the first letter is kept": {
			when{text: "\xffok"},
			then{corrected: "\xffOk."},
		},
		"capitalized contractions in later sentences are kept": {
			when{text: "Don't go. Don't stop."},
			then{corrected: "Don't go. Don't stop."},
		},
		"expanded contraction keeps its capital": {
			when{text: "I said no. Do not go"},
			then{corrected: "I said no. Don't go."},
		},
		"article before capitalized word keeps its capital": {
			when{text: "A apple a day"},
			then{corrected: "An apple a day."},
		},
		"article before vowel sounding as consonant is kept": {
			when{text: "It is a university"},
			then{corrected: "It is a university."},
		},
		"article before u with consonant sound is fixed": {
			when{text: "take a umbrella"},
			then{corrected: "Take an umbrella."},
		},
		"article before one and euro is kept": {
			when{text: "a one-way ticket costs a euro"},
			then{corrected: "A one-way ticket costs a euro."},
		},
		"leading non-letters are kept, first letter is capitalized": {
			when{text: `"hello world"`},
			then{corrected: `"Hello world".`},
		},
	} {
		t.Run(name, func(t *testing.T) {
			testee := correction.New(testcase.when.table, correction.WithInferencer(identity))

			got := testee.Correct(context.Background(), testcase.when.text)
			if got != testcase.then.corrected {
				t.Errorf("Correct(%q) = %q, want %q", testcase.when.text, got, testcase.then.corrected)
			}
		})
	}
}

func TestPipeline_Correct_IsIdempotentOnCleanText(t *testing.T) {
	testee := correction.New(nil, correction.WithInferencer(identity))
	for _, text := range []string{
		"The quick brown fox jumps over the lazy dog.",
		"I am going to store.",
		"Where are you going?",
		"Everyone is happy.",
	} {
		if got := testee.Correct(context.Background(), text); got != text {
			t.Errorf("Correct(%q) = %q, want unchanged", text, got)
		}
		if got := testee.Correct(context.Background(), testee.Correct(context.Background(), text)); got != text {
			t.Errorf("Correct(Correct(%q)) = %q, want unchanged", text, got)
		}
	}
}

func TestPipeline_Refinement(t *testing.T) {
	t.Run("model is not asked when rules fixed the text and it looks clean", func(t *testing.T) {
		model := &countingModel{reply: func(s string) (string, error) { return "should not be used", nil }}
		testee := correction.New(nil, correction.WithInferencer(model))

		got := testee.Run(context.Background(), "i am going to store")
		if got.Corrected != "I am going to store." || got.Refined {
			t.Errorf("unexpected result: %+v", got)
		}
		if n := model.calls.Load(); n != 0 {
			t.Errorf("model is called %d times", n)
		}
	})

	t.Run("model is asked when rules made no change, and its output replaces the text", func(t *testing.T) {
		model := &countingModel{reply: func(s string) (string, error) { return "  He should have gone.  ", nil }}
		testee := correction.New(nil, correction.WithInferencer(model))

		got := testee.Run(context.Background(), "he should of gone")
		want := correction.Result{
			Original:  "he should of gone",
			Corrected: "He should have gone.",
			Refined:   true,
		}
		if got != want {
			t.Errorf("unexpected result: %+v, want %+v", got, want)
		}
		if n := model.calls.Load(); n != 1 {
			t.Errorf("model is called %d times", n)
		}
	})

	t.Run("model is asked when the text still has an error marker", func(t *testing.T) {
		var received string
		model := &countingModel{reply: func(s string) (string, error) {
			received = s
			return "I should have known.", nil
		}}
		testee := correction.New(nil, correction.WithInferencer(model))

		got := testee.Correct(context.Background(), "i should of known")
		if got != "I should have known." {
			t.Errorf("unexpected result: %q", got)
		}
		if received != "I should of known." {
			t.Errorf("model received %q, want rule-corrected text", received)
		}
	})

	t.Run("repeated word is an error marker", func(t *testing.T) {
		model := &countingModel{reply: func(s string) (string, error) { return "I saw the cat.", nil }}
		testee := correction.New(nil, correction.WithInferencer(model))

		if got := testee.Correct(context.Background(), "i saw the the cat"); got != "I saw the cat." {
			t.Errorf("unexpected result: %q", got)
		}
	})

	t.Run("without model, rule-corrected text is returned", func(t *testing.T) {
		testee := correction.New(nil)
		got := testee.Run(context.Background(), "he should of gone")
		if got.Corrected != "He should of gone." || got.Refined {
			t.Errorf("unexpected result: %+v", got)
		}
	})
}

func TestPipeline_Fallback(t *testing.T) {
	for name, model := range map[string]correction.Inferencer{
		"model fails": correction.InferencerFunc(func(context.Context, string) (string, error) {
			return "", errors.New("model unavailable")
		}),
		"model times out": correction.InferencerFunc(func(ctx context.Context, _ string) (string, error) {
			return "", context.DeadlineExceeded
		}),
		"model returns blank": correction.InferencerFunc(func(context.Context, string) (string, error) {
			return " \n ", nil
		}),
		"model panics": correction.InferencerFunc(func(context.Context, string) (string, error) {
			panic("boom")
		}),
	} {
		t.Run(fmt.Sprintf("when %s, rule-corrected text is returned", name), func(t *testing.T) {
			testee := correction.New(nil, correction.WithInferencer(model))

			got := testee.Run(context.Background(), "  he should of gone ")
			if got.Corrected != "He should of gone." {
				t.Errorf("unexpected corrected text: %q", got.Corrected)
			}
			if got.Refined {
				t.Error("result is marked as refined")
			}
		})
	}

	t.Run("when context is already done, model is not asked", func(t *testing.T) {
		model := &countingModel{reply: func(s string) (string, error) { return "x", nil }}
		testee := correction.New(nil, correction.WithInferencer(model))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if got := testee.Correct(ctx, "he should of gone"); got != "He should of gone." {
			t.Errorf("unexpected result: %q", got)
		}
		if n := model.calls.Load(); n != 0 {
			t.Errorf("model is called %d times", n)
		}
	})
}

func TestPipeline_CorrectAll(t *testing.T) {
	testee := correction.New(nil, correction.WithInferencer(identity))

	texts := []string{"i am going to store", "  ", "everyone are happy", "A"}
	want := []string{"I am going to store.", "", "Everyone is happy.", "A."}

	for _, limit := range []int{0, 1, 3} {
		got := testee.CorrectAll(context.Background(), texts, limit)
		if len(got) != len(want) {
			t.Fatalf("limit=%d: len = %d, want %d", limit, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("limit=%d: [%d] = %q, want %q", limit, i, got[i], want[i])
			}
		}
	}
}
