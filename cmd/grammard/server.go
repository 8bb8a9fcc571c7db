package main

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/grammarfab/cmd/grammard/handlers"
	"github.com/opst/grammarfab/pkg/auth"
	"github.com/opst/grammarfab/pkg/buildtime"
	configs "github.com/opst/grammarfab/pkg/configs/server"
	"github.com/opst/grammarfab/pkg/correction"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/echoutil"
	"github.com/opst/grammarfab/pkg/ratelimit"
)

const (
	recentLimit, recentMaxLimit              = 10, 50
	userCorrectionsLimit, userCorrectionsMax = 50, 100
)

// newServer builds echo with all api routes.
//
// # Args
//
// - conf: server config
//
// - db: database
//
// - pipeline: grammar corrector
//
// - limits: rate limiters for correction and login apis. nil means no limit.
func newServer(
	conf *configs.ServerConfig,
	db kdb.Database,
	pipeline *correction.Pipeline,
	limits *ratelimit.Store,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.HTTPErrorHandler = echoutil.ErrorHandler(e)
	e.Use(echoutil.LogHandlerFunc)
	e.Use(middleware.Recover())

	authConf := conf.Auth()
	tokens := auth.NewTokens(
		authConf.Secret(), authConf.Issuer(), authConf.Audience(), authConf.TokenTTL(),
	)
	login := auth.NewAuthenticator(tokens, db.Users(), db.Revocations()).Authenticate()
	admin := auth.RequireAdmin()
	limited := ratelimit.Middleware(limits, auth.RateLimitKey)

	maxLength := conf.Server().MaxTextLength()
	minPassword := authConf.MinPasswordLength()

	api := e.Group("/api")
	{
		api.GET("", handlers.InfoHandler(buildtime.Version()))
		api.GET("/health", handlers.HealthHandler(
			db, conf.Correction().Model().Provider(), pipeline.Inferencer() != nil,
		))
	}

	{
		api.POST("/correct", handlers.CorrectHandler(pipeline, db.Corrections(), maxLength), login, limited)
		api.POST("/correct/anonymous", handlers.AnonymousCorrectHandler(pipeline, maxLength), limited)
		api.POST(
			"/correct/batch",
			handlers.BatchCorrectHandler(pipeline, db.Corrections(), maxLength, conf.Server().BatchLimit()),
			login, limited,
		)
	}

	{
		userId := "userId"
		users := api.Group("/users")
		users.POST("/register", handlers.RegisterHandler(db.Users(), tokens, minPassword), limited)
		users.POST("/login", handlers.LoginHandler(db.Users(), db.Corrections(), tokens), limited)
		users.POST("/logout", handlers.LogoutHandler(db.Revocations()), login)

		users.GET("/me", handlers.GetMeHandler(db.Corrections()), login)
		users.PUT("/me", handlers.UpdateMeHandler(db.Users(), db.Corrections()), login)
		changeMine := handlers.ChangeMyPasswordHandler(db.Users(), minPassword)
		users.PUT("/me/password", changeMine, login)
		users.PUT("/me/change-password", changeMine, login)

		users.GET("", handlers.ListUsersHandler(db.Users(), db.Corrections()), login, admin)
		users.GET("/:userId", handlers.GetUserHandler(db.Users(), db.Corrections(), userId), login, admin)
		users.PUT("/:userId", handlers.UpdateUserHandler(db.Users(), db.Corrections(), userId), login, admin)
		users.DELETE("/:userId", handlers.DeleteUserHandler(db.Users(), userId), login, admin)
		reset := handlers.ResetPasswordHandler(db.Users(), minPassword, userId)
		users.PUT("/:userId/password", reset, login, admin)
		users.PUT("/:userId/change-password", reset, login, admin)
	}

	{
		correctionId := "correctionId"
		corrections := api.Group("/corrections", login)
		corrections.GET("", handlers.ListCorrectionsHandler(db.Corrections(), handlers.Own))
		corrections.GET("/recent", handlers.RecentCorrectionsHandler(db.Corrections(), handlers.Own, recentLimit, recentMaxLimit))
		corrections.GET("/search", handlers.SearchCorrectionsHandler(db.Corrections(), handlers.Own))
		corrections.GET("/date-range", handlers.DateRangeCorrectionsHandler(db.Corrections(), handlers.Own))
		corrections.GET("/export", handlers.ExportCorrectionsHandler(db.Corrections(), handlers.Own))
		corrections.GET("/:correctionId", handlers.GetCorrectionHandler(db.Corrections(), handlers.Own, correctionId))
		corrections.DELETE("/:correctionId", handlers.DeleteCorrectionHandler(db.Corrections(), handlers.Own, correctionId))

		list := handlers.ListCorrectionsHandler(db.Corrections(), handlers.All)
		search := handlers.SearchCorrectionsHandler(db.Corrections(), handlers.All)
		get := handlers.GetCorrectionHandler(db.Corrections(), handlers.All, correctionId)
		del := handlers.DeleteCorrectionHandler(db.Corrections(), handlers.All, correctionId)
		for _, g := range []*echo.Group{
			api.Group("/admin/corrections", login, admin),
			corrections.Group("/admin", admin),
		} {
			g.GET("", list)
			g.GET("/all", list)
			g.GET("/search", search)
			g.GET("/:correctionId", get)
			g.DELETE("/:correctionId", del)
		}
	}

	{
		userUuid := "userUuid"
		analytics := api.Group("/analytics", login)
		analytics.GET("/stats", handlers.StatsHandler(db.Analytics(), time.Now), admin)
		analytics.GET("/my-stats", handlers.MyStatsHandler(db.Corrections()))
		analytics.GET("/my-corrections", handlers.RecentCorrectionsHandler(
			db.Corrections(), handlers.Own, userCorrectionsLimit, userCorrectionsMax,
		))
		analytics.GET("/my-correction-count", handlers.MyCorrectionCountHandler(db.Corrections()))
		analytics.GET(
			"/admin/users/:userUuid/corrections",
			handlers.UserCorrectionsHandler(db.Users(), db.Corrections(), userUuid, userCorrectionsLimit, userCorrectionsMax),
			admin,
		)
		analytics.GET(
			"/admin/users/:userUuid/correction-count",
			handlers.UserCorrectionCountHandler(db.Users(), db.Corrections(), userUuid),
			admin,
		)
	}

	return e
}
