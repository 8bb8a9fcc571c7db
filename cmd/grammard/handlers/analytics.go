package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apianalytics "github.com/opst/grammarfab/pkg/api/types/analytics"
	apicorrections "github.com/opst/grammarfab/pkg/api/types/corrections"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/utils/rfctime"
)

// StatsHandler responds statistics of the whole service. (admin)
//
// "today" is the UTC day including now().
func StatsHandler(analytics kdb.AnalyticsInterface, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		today := rfctime.Today(now())
		stats, err := analytics.Stats(c.Request().Context(), today.Start(), today.End())
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apianalytics.ComposeStats(stats))
	}
}

// MyStatsHandler responds statistics of the current user.
func MyStatsHandler(corrections kdb.CorrectionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		total, err := corrections.Count(c.Request().Context(), kdb.CorrectionQuery{UserId: &user.Id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apianalytics.MyStats{
			UserId:           user.Id,
			Email:            user.Email,
			FullName:         user.FullName,
			TotalCorrections: total,
			MemberSince:      rfctime.RFC3339(user.CreatedAt),
		})
	}
}

// MyCorrectionCountHandler responds the number of corrections of the current user.
func MyCorrectionCountHandler(corrections kdb.CorrectionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		total, err := corrections.Count(c.Request().Context(), kdb.CorrectionQuery{UserId: &user.Id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apianalytics.CorrectionCount{UserId: user.Id, TotalCorrections: total})
	}
}

// UserCorrectionsHandler responds the latest corrections of a user specified by uuid. (admin)
func UserCorrectionsHandler(users kdb.UserInterface, corrections kdb.CorrectionInterface, param string, def, maxLimit int) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, err := intQuery(c, "limit", def, 1, maxLimit)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		user, err := users.GetByUUID(ctx, c.Param(param))
		if err != nil {
			return dbError(err)
		}
		items, err := corrections.Find(ctx, kdb.CorrectionQuery{UserId: &user.Id}, kdb.FirstPage(limit))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apicorrections.ComposeCorrections(items))
	}
}

// UserCorrectionCountHandler responds the number of corrections of a user specified by uuid. (admin)
func UserCorrectionCountHandler(users kdb.UserInterface, corrections kdb.CorrectionInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		user, err := users.GetByUUID(ctx, c.Param(param))
		if err != nil {
			return dbError(err)
		}
		total, err := corrections.Count(ctx, kdb.CorrectionQuery{UserId: &user.Id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apianalytics.UserCorrectionCount{UserUUID: user.UUID, TotalCorrections: total})
	}
}
