package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/grammarfab/pkg/api/types/errors"
	apisystem "github.com/opst/grammarfab/pkg/api/types/system"
	apiusers "github.com/opst/grammarfab/pkg/api/types/users"
	"github.com/opst/grammarfab/pkg/auth"
	kdb "github.com/opst/grammarfab/pkg/db"
)

func composeUser(ctx context.Context, corrections kdb.CorrectionInterface, user kdb.User) (apiusers.User, error) {
	total, err := corrections.Count(ctx, kdb.CorrectionQuery{UserId: &user.Id})
	if err != nil {
		return apiusers.User{}, err
	}
	return apiusers.ComposeUser(user, total), nil
}

func authResponse(c echo.Context, status int, tokens *auth.Tokens, user apiusers.User, record kdb.User) error {
	token, err := tokens.Issue(record)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	return c.JSON(status, apiusers.AuthResponse{
		AccessToken: token.Value,
		TokenType:   apiusers.TokenType,
		ExpiresIn:   int64(tokens.TTL().Seconds()),
		User:        user,
	})
}

// RegisterHandler registers a new user and logs them in.
//
// Registered users are always role "user".
func RegisterHandler(users kdb.UserInterface, tokens *auth.Tokens, minPasswordLength int) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apiusers.Register)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if !auth.ValidEmail(req.Email) {
			return apierr.BadRequest("'email' should be an email address.", nil)
		}
		if strings.TrimSpace(req.FullName) == "" {
			return apierr.BadRequest("'full_name' is required.", nil)
		}
		if err := auth.ValidatePassword(req.Password, minPasswordLength); err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		ctx := c.Request().Context()
		user, err := users.Create(ctx, kdb.NewUser{
			Email:          req.Email,
			FullName:       strings.TrimSpace(req.FullName),
			HashedPassword: hashed,
			Role:           kdb.RoleUser,
		})
		if errors.Is(err, kdb.ErrConflict) {
			return apierr.Conflict("email already registered", apierr.WithAdvice("login, or use another email."))
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return authResponse(c, http.StatusCreated, tokens, apiusers.ComposeUser(user, 0), user)
	}
}

// LoginHandler logs a user in with email and password.
func LoginHandler(users kdb.UserInterface, corrections kdb.CorrectionInterface, tokens *auth.Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apiusers.Login)
		if err := bindJSON(c, req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		user, err := users.GetByEmail(ctx, req.Email)
		if errors.Is(err, kdb.ErrMissing) {
			return apierr.Unauthorized("incorrect email or password.", nil)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		if !auth.CheckPassword(user.HashedPassword, req.Password) {
			return apierr.Unauthorized("incorrect email or password.", nil)
		}

		resp, err := composeUser(ctx, corrections, user)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return authResponse(c, http.StatusOK, tokens, resp, user)
	}
}

// LogoutHandler revokes the token presented with the request.
func LogoutHandler(revocations kdb.RevocationInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		claims, ok := auth.CurrentClaims(c)
		if !ok || claims.ExpiresAt == nil {
			return c.JSON(http.StatusOK, apiusers.LoggedOut{Message: "Successfully logged out", TokenRevoked: false})
		}

		if err := revocations.Revoke(c.Request().Context(), claims.ID, user.Id, claims.ExpiresAt.Time); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiusers.LoggedOut{Message: "Successfully logged out", TokenRevoked: true})
	}
}

// GetMeHandler responds the profile of the current user.
func GetMeHandler(corrections kdb.CorrectionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		resp, err := composeUser(c.Request().Context(), corrections, user)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// userChange validates update request.
//
// When allowRole is false, role in the request is ignored.
func userChange(req *apiusers.Update, allowRole bool) (kdb.UserChange, error) {
	change := kdb.UserChange{}
	if req.Email != nil {
		if !auth.ValidEmail(*req.Email) {
			return change, apierr.BadRequest("'email' should be an email address.", nil)
		}
		change.Email = req.Email
	}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return change, apierr.BadRequest("'full_name' should not be empty.", nil)
		}
		change.FullName = &name
	}
	if allowRole && req.Role != nil {
		role := kdb.Role(*req.Role)
		if !role.Valid() {
			return change, apierr.BadRequest("'role' should be one of 'user' or 'admin'.", nil)
		}
		change.Role = &role
	}
	return change, nil
}

func updateUser(c echo.Context, users kdb.UserInterface, corrections kdb.CorrectionInterface, id int64, allowRole bool) error {
	req := new(apiusers.Update)
	if err := bindJSON(c, req); err != nil {
		return err
	}
	change, err := userChange(req, allowRole)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var user kdb.User
	if change.Empty() {
		user, err = users.Get(ctx, id)
	} else {
		user, err = users.Update(ctx, id, change)
	}
	if errors.Is(err, kdb.ErrConflict) {
		return apierr.Conflict("email already registered", apierr.WithAdvice("use another email."))
	} else if err != nil {
		return dbError(err)
	}

	resp, err := composeUser(ctx, corrections, user)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateMeHandler updates the profile of the current user.
//
// Users can not change their own role.
func UpdateMeHandler(users kdb.UserInterface, corrections kdb.CorrectionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		return updateUser(c, users, corrections, user.Id, false)
	}
}

func setPassword(ctx context.Context, users kdb.UserInterface, id int64, password string, minPasswordLength int) error {
	if err := auth.ValidatePassword(password, minPasswordLength); err != nil {
		return apierr.BadRequest(err.Error(), err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	if err := users.SetPassword(ctx, id, hashed); err != nil {
		return dbError(err)
	}
	return nil
}

// ChangeMyPasswordHandler changes password of the current user.
//
// The current password is required.
func ChangeMyPasswordHandler(users kdb.UserInterface, minPasswordLength int) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		req := new(apiusers.ChangePassword)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if !auth.CheckPassword(user.HashedPassword, req.CurrentPassword) {
			return apierr.BadRequest("current password is incorrect.", nil)
		}
		if err := setPassword(c.Request().Context(), users, user.Id, req.NewPassword, minPasswordLength); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, apisystem.Message{Message: "Password changed successfully"})
	}
}

// ListUsersHandler lists users page by page. (admin)
func ListUsersHandler(users kdb.UserInterface, corrections kdb.CorrectionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := pageQuery(c)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		list, err := users.List(ctx, page)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		total, err := users.Count(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := apiusers.UserList{
			Users:   make([]apiusers.User, 0, len(list)),
			Total:   total,
			Page:    page.Page,
			PerPage: page.PerPage,
		}
		for _, u := range list {
			r, err := composeUser(ctx, corrections, u)
			if err != nil {
				return apierr.InternalServerError(err)
			}
			resp.Users = append(resp.Users, r)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler responds a user. (admin)
func GetUserHandler(users kdb.UserInterface, corrections kdb.CorrectionInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, param)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		user, err := users.Get(ctx, id)
		if err != nil {
			return dbError(err)
		}
		resp, err := composeUser(ctx, corrections, user)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// UpdateUserHandler updates a user, including role. (admin)
func UpdateUserHandler(users kdb.UserInterface, corrections kdb.CorrectionInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, param)
		if err != nil {
			return err
		}
		return updateUser(c, users, corrections, id, true)
	}
}

// ResetPasswordHandler sets password of a user without the current one. (admin)
func ResetPasswordHandler(users kdb.UserInterface, minPasswordLength int, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, param)
		if err != nil {
			return err
		}
		req := new(apiusers.ResetPassword)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if err := setPassword(c.Request().Context(), users, id, req.NewPassword, minPasswordLength); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, apisystem.Message{Message: "Password changed successfully"})
	}
}

// DeleteUserHandler deletes a user.
//
// Their corrections are kept without owner, and their revocations go away. (admin)
func DeleteUserHandler(users kdb.UserInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, param)
		if err != nil {
			return err
		}
		if err := users.Delete(c.Request().Context(), id); err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apisystem.Message{Message: "User deleted successfully"})
	}
}
