package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
	apisystem "github.com/opst/grammarfab/pkg/api/types/system"
)

// InfoHandler tells what this api is.
func InfoHandler(version string) echo.HandlerFunc {
	info := apisystem.Info{
		Name:    "grammarfab",
		Version: version,
		Status:  "running",
		Endpoints: map[string]string{
			"grammar_correction":  "/api/correct",
			"user_management":     "/api/users",
			"database_operations": "/api/corrections",
			"analytics":           "/api/analytics",
			"system":              "/api/health",
		},
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, info)
	}
}

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports health of the server.
//
// When database is not reachable, it responds 503.
//
// # Args
//
// - db: database to be checked
//
// - provider: name of model provider
//
// - modelLoaded: true if the model is ready to refine corrections
func HealthHandler(db Pinger, provider string, modelLoaded bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return apierr.ServiceUnavailable("database is not reachable. retry later.", err)
		}
		return c.JSON(http.StatusOK, apisystem.Health{
			Status:        "healthy",
			ModelProvider: provider,
			ModelLoaded:   modelLoaded,
		})
	}
}
