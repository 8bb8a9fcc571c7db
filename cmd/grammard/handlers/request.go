package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
	"github.com/opst/grammarfab/pkg/auth"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/utils/rfctime"
)

// bindJSON decodes the request body as JSON into v.
//
// Unknown fields are rejected.
func bindJSON(c echo.Context, v any) error {
	req := c.Request()
	if mt, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType)); err != nil || mt != echo.MIMEApplicationJSON {
		return apierr.BadRequest(
			"unexpected content type. it should be application/json", err,
		)
	}

	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apierr.BadRequest("can not understand the requested json", err)
	}
	return nil
}

// checkText rejects text longer than maxLength (in characters).
func checkText(text string, maxLength int) error {
	if 0 < maxLength && maxLength < utf8.RuneCountInString(text) {
		return apierr.BadRequest(
			"text is too long. it should be "+strconv.Itoa(maxLength)+" characters at most.", nil,
		)
	}
	return nil
}

// intQuery reads query parameter as an integer in [min, max].
//
// When the parameter is missing, def is returned.
func intQuery(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || max < v {
		return 0, apierr.BadRequest(
			"query parameter '"+name+"' should be an integer from "+strconv.Itoa(min)+" to "+strconv.Itoa(max)+".", err,
		)
	}
	return v, nil
}

// pageQuery reads "page" (1-origin) and "per_page" query parameters.
func pageQuery(c echo.Context) (kdb.Page, error) {
	page, err := intQuery(c, "page", 1, 1, int(^uint32(0)>>1))
	if err != nil {
		return kdb.Page{}, err
	}
	perPage, err := intQuery(c, "per_page", kdb.DefaultPerPage, 1, kdb.MaxPerPage)
	if err != nil {
		return kdb.Page{}, err
	}
	return kdb.Page{Page: page, PerPage: perPage}, nil
}

// idParam reads path parameter as a positive id.
//
// Ids which can never exist are treated as missing.
func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.NotFound()
	}
	return id, nil
}

// dateRangeQuery reads a date range from query parameters.
//
// Both dates are inclusive, in YYYY-MM-DD.
// When required is false, missing parameters make the range open.
func dateRangeQuery(c echo.Context, startName, endName string, required bool) (kdb.CorrectionQuery, error) {
	q := kdb.CorrectionQuery{}
	rawStart, rawEnd := c.QueryParam(startName), c.QueryParam(endName)
	if required && (rawStart == "" || rawEnd == "") {
		return q, apierr.BadRequest(
			"query parameters '"+startName+"' and '"+endName+"' are required. Use YYYY-MM-DD.", nil,
		)
	}

	var start, end *rfctime.Date
	if rawStart != "" {
		d, err := rfctime.ParseDate(rawStart)
		if err != nil {
			return q, apierr.BadRequest("invalid date format. Use YYYY-MM-DD", err)
		}
		start = &d
	}
	if rawEnd != "" {
		d, err := rfctime.ParseDate(rawEnd)
		if err != nil {
			return q, apierr.BadRequest("invalid date format. Use YYYY-MM-DD", err)
		}
		end = &d
	}

	switch {
	case start != nil && end != nil:
		since, until, err := rfctime.DayRange(*start, *end)
		if err != nil {
			return q, apierr.BadRequest("'"+endName+"' should not be before '"+startName+"'.", err)
		}
		q.Since, q.Until = &since, &until
	case start != nil:
		since := start.Start()
		q.Since = &since
	case end != nil:
		until := end.End()
		q.Until = &until
	}
	return q, nil
}

// currentUser is the user authenticated by middleware.
func currentUser(c echo.Context) (kdb.User, error) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return kdb.User{}, apierr.Unauthorized("login to use this api.", nil)
	}
	return user, nil
}

// dbError converts errors from database into responses.
func dbError(err error) error {
	switch {
	case errors.Is(err, kdb.ErrMissing):
		return apierr.NotFound()
	case errors.Is(err, kdb.ErrConflict):
		return apierr.New(http.StatusConflict, "it conflicts with existing one", err)
	default:
		return apierr.InternalServerError(err)
	}
}
