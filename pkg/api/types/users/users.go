package users

import (
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/utils/rfctime"
)

// TokenType is the value of "token_type" in AuthResponse.
const TokenType = "bearer"

type User struct {
	Id               int64           `json:"id"`
	UUID             string          `json:"uuid"`
	Email            string          `json:"email"`
	FullName         string          `json:"full_name"`
	Role             string          `json:"role"`
	CreatedAt        rfctime.RFC3339 `json:"created_at"`
	UpdatedAt        rfctime.RFC3339 `json:"updated_at"`
	TotalCorrections int             `json:"total_corrections"`
}

func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == nil && o == nil
	}
	return u.Id == o.Id &&
		u.UUID == o.UUID &&
		u.Email == o.Email &&
		u.FullName == o.FullName &&
		u.Role == o.Role &&
		u.CreatedAt.Equal(&o.CreatedAt) &&
		u.UpdatedAt.Equal(&o.UpdatedAt) &&
		u.TotalCorrections == o.TotalCorrections
}

// ComposeUser converts a user record into its representation.
//
// Hashed password never goes out.
func ComposeUser(u kdb.User, totalCorrections int) User {
	return User{
		Id:               u.Id,
		UUID:             u.UUID,
		Email:            u.Email,
		FullName:         u.FullName,
		Role:             string(u.Role),
		CreatedAt:        rfctime.RFC3339(u.CreatedAt),
		UpdatedAt:        rfctime.RFC3339(u.UpdatedAt),
		TotalCorrections: totalCorrections,
	}
}

type UserList struct {
	Users   []User `json:"users"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// Register is a request body of user registration.
//
// Role is accepted for compatibility, but ignored.
type Register struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Update is a partial update of a user. Absent fields are kept.
type Update struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type ChangePassword struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ResetPassword is a request body of password reset by admin.
//
// CurrentPassword is accepted for compatibility with ChangePassword, but ignored.
type ResetPassword struct {
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	// lifetime of the token, in seconds.
	ExpiresIn int64 `json:"expires_in"`

	User User `json:"user"`
}

// LoggedOut is a response of logout.
type LoggedOut struct {
	Message string `json:"message"`

	// true when the presented token is revoked.
	TokenRevoked bool `json:"token_revoked"`
}
