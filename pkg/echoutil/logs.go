// Package echoutil is a set of helpers to build echo servers.
package echoutil

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request and its response with latency.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		meth := c.Request().Method
		path := c.Request().URL
		BEGIN := time.Now()
		c.Logger().Infof(
			"< request @[%s] %s %s from %s", BEGIN, meth, path, c.RealIP(),
		)

		var err error

		defer func() {
			END := time.Now()
			status := c.Response().Status
			herr := new(echo.HTTPError)
			if errors.As(err, &herr) {
				status = herr.Code
			}
			c.Logger().Infof(
				"> response @[%s] status = %d (for request @[%s] %s %s) in %v / error = %+v",
				END, status, BEGIN, meth, path, END.Sub(BEGIN), err,
			)
		}()

		err = next(c)
		return err
	}
}

// ParseLevel converts loglevel name into gommon log level.
//
// "" means "warn". ok is false if the name is unknown.
func ParseLevel(loglevel string) (lvl log.Lvl, ok bool) {
	switch strings.ToLower(loglevel) {
	case "debug":
		return log.DEBUG, true
	case "info":
		return log.INFO, true
	case "warn", "":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	default:
		return log.WARN, false
	}
}

// SetLevel sets level of e.Logger by name (debug|info|warn|error|off).
//
// Unknown names fall back to warn.
func SetLevel(e *echo.Echo, loglevel string) {
	lvl, ok := ParseLevel(loglevel)
	e.Logger.SetLevel(lvl)
	if !ok {
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
	}
}

// ErrorHandler responds errors in the default way, and logs them.
//
// Client errors (4xx) are logged as warn, others as error.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(err, c)

		herr := new(echo.HTTPError)
		if errors.As(err, &herr) && herr.Code < 500 {
			e.Logger.Warnf("%s %s: %v", c.Request().Method, c.Request().URL, err)
			return
		}
		e.Logger.Errorf("%s %s: %v", c.Request().Method, c.Request().URL, err)
	}
}
