package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	apicorrections "github.com/opst/grammarfab/pkg/api/types/corrections"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
	kdb "github.com/opst/grammarfab/pkg/db"
)

// Corrector corrects grammar. *correction.Pipeline is a Corrector.
type Corrector interface {
	Correct(ctx context.Context, text string) string
	CorrectAll(ctx context.Context, texts []string, limit int) []string
}

// MaxBatchSize is the max number of texts in a batch request.
const MaxBatchSize = 100

// CorrectHandler corrects text and records it as the user's history.
//
// Blank text is corrected into "" and not recorded.
func CorrectHandler(pipeline Corrector, corrections kdb.CorrectionInterface, maxLength int) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}

		req := new(apicorrections.TextRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if err := checkText(req.Text, maxLength); err != nil {
			return err
		}

		ctx := c.Request().Context()
		corrected := pipeline.Correct(ctx, req.Text)
		if err := record(ctx, corrections, user.Id, req.Text, corrected); err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apicorrections.Result{Original: req.Text, Corrected: corrected})
	}
}

// AnonymousCorrectHandler corrects text without recording.
func AnonymousCorrectHandler(pipeline Corrector, maxLength int) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apicorrections.TextRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if err := checkText(req.Text, maxLength); err != nil {
			return err
		}

		corrected := pipeline.Correct(c.Request().Context(), req.Text)
		return c.JSON(http.StatusOK, apicorrections.Result{Original: req.Text, Corrected: corrected})
	}
}

// BatchCorrectHandler corrects texts concurrently, and records non-blank ones at once.
//
// When recording fails, none of them are recorded.
//
// # Args
//
// - concurrency: max number of texts corrected at once.
func BatchCorrectHandler(pipeline Corrector, corrections kdb.CorrectionInterface, maxLength int, concurrency int) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}

		req := new(apicorrections.BatchRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if len(req.Texts) == 0 {
			return apierr.BadRequest("'texts' should have one text at least.", nil)
		}
		if MaxBatchSize < len(req.Texts) {
			return apierr.BadRequest(
				"too many texts. send "+strconv.Itoa(MaxBatchSize)+" texts at most at once.", nil,
			)
		}
		for _, t := range req.Texts {
			if err := checkText(t, maxLength); err != nil {
				return err
			}
		}

		ctx := c.Request().Context()
		corrected := pipeline.CorrectAll(ctx, req.Texts, concurrency)

		results := make([]apicorrections.Result, 0, len(req.Texts))
		records := make([]kdb.NewCorrection, 0, len(req.Texts))
		for nth, original := range req.Texts {
			results = append(results, apicorrections.Result{Original: original, Corrected: corrected[nth]})
			if strings.TrimSpace(original) == "" {
				continue
			}
			records = append(records, kdb.NewCorrection{
				UserId:        &user.Id,
				OriginalText:  original,
				CorrectedText: corrected[nth],
			})
		}
		if 0 < len(records) {
			if _, err := corrections.CreateMany(ctx, records); err != nil {
				return apierr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusOK, apicorrections.BatchResult{Results: results})
	}
}

func record(ctx context.Context, corrections kdb.CorrectionInterface, userId int64, original, corrected string) error {
	if strings.TrimSpace(original) == "" {
		return nil
	}
	_, err := corrections.Create(ctx, kdb.NewCorrection{
		UserId:        &userId,
		OriginalText:  original,
		CorrectedText: corrected,
	})
	return err
}
