package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apicorrections "github.com/opst/grammarfab/pkg/api/types/corrections"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
	apisystem "github.com/opst/grammarfab/pkg/api/types/system"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/export"
)

// Scope decides which corrections a request can see.
//
// Own is for users (only their own corrections), All is for admins.
type Scope func(c echo.Context) (kdb.CorrectionQuery, *kdb.User, error)

// Own limits corrections to ones of the current user.
func Own(c echo.Context) (kdb.CorrectionQuery, *kdb.User, error) {
	user, err := currentUser(c)
	if err != nil {
		return kdb.CorrectionQuery{}, nil, err
	}
	return kdb.CorrectionQuery{UserId: &user.Id}, &user, nil
}

// All does not limit corrections.
func All(c echo.Context) (kdb.CorrectionQuery, *kdb.User, error) {
	return kdb.CorrectionQuery{}, nil, nil
}

func listCorrections(ctx context.Context, c echo.Context, corrections kdb.CorrectionInterface, query kdb.CorrectionQuery, page kdb.Page) error {
	items, err := corrections.Find(ctx, query, page)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	total, err := corrections.Count(ctx, query)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	return c.JSON(http.StatusOK, apicorrections.CorrectionList{
		Corrections: apicorrections.ComposeCorrections(items),
		Total:       total,
		Page:        page.Page,
		PerPage:     page.PerPage,
	})
}

// ListCorrectionsHandler lists corrections in scope, newest first.
func ListCorrectionsHandler(corrections kdb.CorrectionInterface, scoped Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		query, _, err := scoped(c)
		if err != nil {
			return err
		}
		page, err := pageQuery(c)
		if err != nil {
			return err
		}
		return listCorrections(c.Request().Context(), c, corrections, query, page)
	}
}

// SearchCorrectionsHandler lists corrections in scope
// whose original or corrected text contains query parameter "query".
func SearchCorrectionsHandler(corrections kdb.CorrectionInterface, scoped Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		query, _, err := scoped(c)
		if err != nil {
			return err
		}
		text := c.QueryParam("query")
		if strings.TrimSpace(text) == "" {
			return apierr.BadRequest("query parameter 'query' is required.", nil)
		}
		query.Text = text

		page, err := pageQuery(c)
		if err != nil {
			return err
		}
		return listCorrections(c.Request().Context(), c, corrections, query, page)
	}
}

// DateRangeCorrectionsHandler lists corrections in scope created
// from "start_date" to "end_date" (both inclusive, YYYY-MM-DD, UTC).
func DateRangeCorrectionsHandler(corrections kdb.CorrectionInterface, scoped Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		query, _, err := scoped(c)
		if err != nil {
			return err
		}
		window, err := dateRangeQuery(c, "start_date", "end_date", true)
		if err != nil {
			return err
		}
		query.Since, query.Until = window.Since, window.Until

		page, err := pageQuery(c)
		if err != nil {
			return err
		}
		return listCorrections(c.Request().Context(), c, corrections, query, page)
	}
}

// RecentCorrectionsHandler responds the latest corrections in scope.
//
// Query parameter "limit" is from 1 to maxLimit, default = def.
func RecentCorrectionsHandler(corrections kdb.CorrectionInterface, scoped Scope, def, maxLimit int) echo.HandlerFunc {
	return func(c echo.Context) error {
		query, _, err := scoped(c)
		if err != nil {
			return err
		}
		limit, err := intQuery(c, "limit", def, 1, maxLimit)
		if err != nil {
			return err
		}
		items, err := corrections.Find(c.Request().Context(), query, kdb.FirstPage(limit))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apicorrections.ComposeCorrections(items))
	}
}

// ExportCorrectionsHandler responds corrections in scope as an xlsx workbook.
//
// "start_date" and "end_date" are optional.
func ExportCorrectionsHandler(corrections kdb.CorrectionInterface, scoped Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		query, _, err := scoped(c)
		if err != nil {
			return err
		}
		window, err := dateRangeQuery(c, "start_date", "end_date", false)
		if err != nil {
			return err
		}
		query.Since, query.Until = window.Since, window.Until

		items, err := export.Collect(c.Request().Context(), corrections, query)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := c.Response()
		resp.Header().Set(echo.HeaderContentType, export.ContentType)
		resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="corrections.xlsx"`)
		resp.WriteHeader(http.StatusOK)
		return export.WriteXLSX(resp, items)
	}
}

// getInScope gets a correction, and checks it can be seen in the scope.
func getInScope(c echo.Context, corrections kdb.CorrectionInterface, scoped Scope, param string) (kdb.Correction, error) {
	_, user, err := scoped(c)
	if err != nil {
		return kdb.Correction{}, err
	}
	id, err := idParam(c, param)
	if err != nil {
		return kdb.Correction{}, err
	}

	item, err := corrections.Get(c.Request().Context(), id)
	if err != nil {
		return kdb.Correction{}, dbError(err)
	}
	if user != nil && !item.OwnedBy(user.Id) {
		return kdb.Correction{}, apierr.Forbidden("you can access only your own corrections.")
	}
	return item, nil
}

// GetCorrectionHandler responds a correction.
//
// A correction out of scope is 403 Forbidden.
func GetCorrectionHandler(corrections kdb.CorrectionInterface, scoped Scope, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		item, err := getInScope(c, corrections, scoped, param)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, apicorrections.ComposeCorrection(item))
	}
}

// DeleteCorrectionHandler deletes a correction.
//
// A correction out of scope is 403 Forbidden.
func DeleteCorrectionHandler(corrections kdb.CorrectionInterface, scoped Scope, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		item, err := getInScope(c, corrections, scoped, param)
		if err != nil {
			return err
		}
		if err := corrections.Delete(c.Request().Context(), item.Id); err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apisystem.Message{Message: "Correction deleted successfully"})
	}
}
