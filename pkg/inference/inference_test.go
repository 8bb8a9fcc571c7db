package inference_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opst/grammarfab/pkg/correction"
	"github.com/opst/grammarfab/pkg/inference"
)

func TestClean(t *testing.T) {
	for name, testcase := range map[string]struct {
		when string
		then string
		err  error
	}{
		"plain output is trimmed": {
			when: "  He should have gone.\n",
			then: "He should have gone.",
		},
		"task prefix is removed": {
			when: "grammar: He should have gone.",
			then: "He should have gone.",
		},
		"instruction echo is removed": {
			when: "Correct the grammar in this text: He should have gone.",
			then: "He should have gone.",
		},
		"label is removed": {
			when: "Corrected text:  He should have gone.",
			then: "He should have gone.",
		},
		"short label is removed": {
			when: "Corrected: He should have gone.",
			then: "He should have gone.",
		},
		"only one echo is removed": {
			when: "grammar: Corrected: yes.",
			then: "Corrected: yes.",
		},
		"echo in the middle is kept": {
			when: "The grammar: it is fine.",
			then: "The grammar: it is fine.",
		},
		"blank output": {
			when: " \n\t",
			err:  inference.ErrEmptyOutput,
		},
		"echo only": {
			when: "Corrected text:   ",
			err:  inference.ErrEmptyOutput,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := inference.Clean(testcase.when)
			if testcase.err != nil {
				if !errors.Is(err, testcase.err) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != testcase.then {
				t.Errorf("got %q, want %q", got, testcase.then)
			}
		})
	}
}

func TestWithTimeout(t *testing.T) {
	slow := correction.InferencerFunc(func(ctx context.Context, text string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	t.Run("it gives up slow model", func(t *testing.T) {
		testee := inference.WithTimeout(slow, 10*time.Millisecond)
		if _, err := testee.Infer(context.Background(), "x"); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("non-positive timeout leaves model as it is", func(t *testing.T) {
		fast := correction.InferencerFunc(func(ctx context.Context, text string) (string, error) {
			if _, ok := ctx.Deadline(); ok {
				t.Error("deadline is set")
			}
			return text, nil
		})
		got, err := inference.WithTimeout(fast, 0).Infer(context.Background(), "x")
		if err != nil || got != "x" {
			t.Errorf("got (%q, %v)", got, err)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if inference.WithTimeout(nil, time.Second) != nil {
			t.Error("nil model is wrapped")
		}
	})
}
