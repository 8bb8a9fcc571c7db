package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	kdb "github.com/opst/grammarfab/pkg/db"
	kpgerr "github.com/opst/grammarfab/pkg/db/postgres/errors"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	xe "github.com/opst/grammarfab/pkg/errors"
)

type userPG struct {
	pool kpool.Pool
	uuid func() string
}

var _ kdb.UserInterface = &userPG{}

type Option func(*userPG) *userPG

// WithUUIDGenerator replaces the generator of user uuid.
func WithUUIDGenerator(gen func() string) Option {
	return func(u *userPG) *userPG {
		u.uuid = gen
		return u
	}
}

func New(pool kpool.Pool, options ...Option) kdb.UserInterface {
	u := &userPG{
		pool: pool,
		uuid: func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		u = opt(u)
	}
	return u
}

const columns = `"id", "uuid"::text, "email", "full_name", "hashed_password", "role", "created_at", "updated_at"`

func scan(row pgx.Row) (kdb.User, error) {
	var u kdb.User
	var role string
	if err := row.Scan(
		&u.Id, &u.UUID, &u.Email, &u.FullName, &u.HashedPassword, &role, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return kdb.User{}, err
	}
	u.Role = kdb.Role(role)
	return u, nil
}

func (u *userPG) Create(ctx context.Context, user kdb.NewUser) (kdb.User, error) {
	role := user.Role
	if role == "" {
		role = kdb.RoleUser
	}

	created, err := scan(u.pool.QueryRow(
		ctx,
		`
		INSERT INTO "users" ("uuid", "email", "full_name", "hashed_password", "role")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+columns,
		u.uuid(), user.Email, user.FullName, user.HashedPassword, string(role),
	))
	if err != nil {
		return kdb.User{}, xe.Wrap(kpgerr.AsConflict(err))
	}
	return created, nil
}

func (u *userPG) getBy(ctx context.Context, column string, value any, identity string) (kdb.User, error) {
	found, err := scan(u.pool.QueryRow(
		ctx,
		`SELECT `+columns+` FROM "users" WHERE `+column+` = $1`,
		value,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.User{}, xe.Wrap(kpgerr.Missing{Table: "users", Identity: identity})
	}
	if err != nil {
		return kdb.User{}, xe.Wrap(err)
	}
	return found, nil
}

func (u *userPG) Get(ctx context.Context, id int64) (kdb.User, error) {
	return u.getBy(ctx, `"id"`, id, fmt.Sprintf("id=%d", id))
}

func (u *userPG) GetByEmail(ctx context.Context, email string) (kdb.User, error) {
	return u.getBy(ctx, `"email"`, email, "email="+email)
}

func (u *userPG) GetByUUID(ctx context.Context, id string) (kdb.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		// not a uuid never matches, and postgres rejects it to be cast.
		return kdb.User{}, xe.Wrap(kpgerr.Missing{Table: "users", Identity: "uuid=" + id})
	}
	return u.getBy(ctx, `"uuid"`, id, "uuid="+id)
}

func (u *userPG) Update(ctx context.Context, id int64, change kdb.UserChange) (kdb.User, error) {
	if change.Empty() {
		return u.Get(ctx, id)
	}

	sets := []string{}
	args := []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+` = $`+strconv.Itoa(len(args)))
	}
	if change.Email != nil {
		set(`"email"`, *change.Email)
	}
	if change.FullName != nil {
		set(`"full_name"`, *change.FullName)
	}
	if change.Role != nil {
		set(`"role"`, string(*change.Role))
	}
	sets = append(sets, `"updated_at" = now()`)

	updated, err := scan(u.pool.QueryRow(
		ctx,
		`UPDATE "users" SET `+strings.Join(sets, ", ")+` WHERE "id" = $1 RETURNING `+columns,
		args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.User{}, xe.Wrap(kpgerr.Missing{Table: "users", Identity: fmt.Sprintf("id=%d", id)})
	}
	if err != nil {
		return kdb.User{}, xe.Wrap(kpgerr.AsConflict(err))
	}
	return updated, nil
}

func (u *userPG) SetPassword(ctx context.Context, id int64, hashedPassword string) error {
	tag, err := u.pool.Exec(
		ctx,
		`UPDATE "users" SET "hashed_password" = $2, "updated_at" = now() WHERE "id" = $1`,
		id, hashedPassword,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(kpgerr.Missing{Table: "users", Identity: fmt.Sprintf("id=%d", id)})
	}
	return nil
}

func (u *userPG) Delete(ctx context.Context, id int64) error {
	tag, err := u.pool.Exec(ctx, `DELETE FROM "users" WHERE "id" = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(kpgerr.Missing{Table: "users", Identity: fmt.Sprintf("id=%d", id)})
	}
	return nil
}

func (u *userPG) List(ctx context.Context, page kdb.Page) ([]kdb.User, error) {
	rows, err := u.pool.Query(
		ctx,
		`SELECT `+columns+` FROM "users" ORDER BY "id" LIMIT $1 OFFSET $2`,
		page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	users := []kdb.User{}
	for rows.Next() {
		user, err := scan(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return users, nil
}

func (u *userPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := u.pool.QueryRow(ctx, `SELECT count(*) FROM "users"`).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}
