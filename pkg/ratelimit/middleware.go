package ratelimit

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
)

// KeyFunc tells who sends the request.
type KeyFunc func(c echo.Context) string

// RealIPKey identifies clients by their IP address.
func RealIPKey(c echo.Context) string {
	return "ip:" + c.RealIP()
}

// Middleware rejects requests over the rate with 429 Too Many Requests.
//
// When store is nil, requests are not limited.
//
// # Args
//
// - store: limiters
//
// - keys: KeyFunc. If nil, RealIPKey is used.
func Middleware(store *Store, keys KeyFunc) echo.MiddlewareFunc {
	if keys == nil {
		keys = RealIPKey
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if store == nil {
			return next
		}
		return func(c echo.Context) error {
			allowed, retryAfter := store.Allow(keys(c))
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return apierr.TooManyRequests()
			}
			return next(c)
		}
	}
}
