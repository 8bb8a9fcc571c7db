package db

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	Id             int64
	UUID           string
	Email          string
	FullName       string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NewUser is a user to be registered.
type NewUser struct {
	Email          string
	FullName       string
	HashedPassword string
	Role           Role
}

// UserChange is a partial update of a user. nil fields are kept as is.
type UserChange struct {
	Email    *string
	FullName *string
	Role     *Role
}

// Empty reports that the change updates nothing.
func (c UserChange) Empty() bool {
	return c.Email == nil && c.FullName == nil && c.Role == nil
}

type UserInterface interface {
	// Create registers a new user.
	//
	// # Returns
	//
	// - User: created user, with id, uuid and timestamps.
	//
	// - error: ErrConflict when the email is used already.
	Create(ctx context.Context, user NewUser) (User, error)

	// Get returns a user by id. ErrMissing when not found.
	Get(ctx context.Context, id int64) (User, error)

	// GetByEmail returns a user by email. ErrMissing when not found.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByUUID returns a user by uuid. ErrMissing when not found.
	GetByUUID(ctx context.Context, uuid string) (User, error)

	// Update changes a user partially, and returns the updated one.
	//
	// # Returns
	//
	// - error: ErrMissing when the user is not found.
	// ErrConflict when the new email is used by another user.
	Update(ctx context.Context, id int64, change UserChange) (User, error)

	// SetPassword replaces the password hash. ErrMissing when not found.
	SetPassword(ctx context.Context, id int64, hashedPassword string) error

	// Delete removes a user.
	//
	// Corrections of the user are kept without owner,
	// and revocations for the user are removed together.
	//
	// ErrMissing when not found.
	Delete(ctx context.Context, id int64) error

	// List returns users in the page, ordered by id.
	List(ctx context.Context, page Page) ([]User, error)

	// Count returns the number of users.
	Count(ctx context.Context) (int, error)
}
