package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
	kdb "github.com/opst/grammarfab/pkg/db"
)

const (
	contextKeyUser   = "grammarfab.auth.user"
	contextKeyClaims = "grammarfab.auth.claims"
)

// Authenticator is an echo middleware factory which authenticates requests.
type Authenticator struct {
	tokens      *Tokens
	users       kdb.UserInterface
	revocations kdb.RevocationInterface
}

func NewAuthenticator(tokens *Tokens, users kdb.UserInterface, revocations kdb.RevocationInterface) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, revocations: revocations}
}

func (a *Authenticator) Tokens() *Tokens {
	return a.tokens
}

func unauthorized(c echo.Context, advice string, err error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return apierr.Unauthorized(advice, err)
}

// bearer extracts token from "Authorization: Bearer <token>".
func bearer(req *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(req.Header.Get(echo.HeaderAuthorization)), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate requires a valid access token.
//
// The token should be well-signed, not expired, not revoked,
// and its user should exist. Otherwise 401 Unauthorized.
//
// Use CurrentUser and CurrentClaims in handlers after this.
func (a *Authenticator) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearer(c.Request())
			if !ok {
				return unauthorized(c, "set header 'Authorization: Bearer <access token>'. Login to get a token.", nil)
			}

			claims, err := a.tokens.Verify(token)
			if err != nil {
				return unauthorized(c, "login again to get a new token.", err)
			}

			ctx := c.Request().Context()
			revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				return apierr.InternalServerError(err)
			}
			if revoked {
				return unauthorized(c, "the token has been revoked. login again.", nil)
			}

			user, err := a.users.GetByUUID(ctx, claims.Subject)
			if errors.Is(err, kdb.ErrMissing) {
				return unauthorized(c, "the user does not exist anymore.", err)
			} else if err != nil {
				return apierr.InternalServerError(err)
			}

			SetCurrent(c, user, claims)
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin users with 403 Forbidden.
//
// Put this after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return unauthorized(c, "login as an admin user.", nil)
			}
			if !user.IsAdmin() {
				return apierr.Forbidden("this operation is for admin users only.")
			}
			return next(c)
		}
	}
}

// SetCurrent stores the authenticated user and claims into c.
func SetCurrent(c echo.Context, user kdb.User, claims *Claims) {
	c.Set(contextKeyUser, user)
	if claims != nil {
		c.Set(contextKeyClaims, claims)
	}
}

// CurrentUser returns the user authenticated by Authenticate.
func CurrentUser(c echo.Context) (kdb.User, bool) {
	user, ok := c.Get(contextKeyUser).(kdb.User)
	return user, ok
}

// CurrentClaims returns claims of the token authenticated by Authenticate.
func CurrentClaims(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(contextKeyClaims).(*Claims)
	return claims, ok
}

// RateLimitKey identifies authenticated users by their id, others by IP address.
func RateLimitKey(c echo.Context) string {
	if user, ok := CurrentUser(c); ok {
		return "user:" + strconv.FormatInt(user.Id, 10)
	}
	return "ip:" + c.RealIP()
}
