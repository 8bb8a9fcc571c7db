package revocation

import (
	"context"
	"time"

	kdb "github.com/opst/grammarfab/pkg/db"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	xe "github.com/opst/grammarfab/pkg/errors"
)

type revocationPG struct {
	pool kpool.Pool
}

var _ kdb.RevocationInterface = &revocationPG{}

func New(pool kpool.Pool) kdb.RevocationInterface {
	return &revocationPG{pool: pool}
}

func (r *revocationPG) Revoke(ctx context.Context, jti string, userId int64, expiresAt time.Time) error {
	if _, err := r.pool.Exec(
		ctx,
		`
		INSERT INTO "token_revocation" ("jti", "user_id", "expires_at")
		VALUES ($1, $2, $3)
		ON CONFLICT ("jti") DO NOTHING
		`,
		jti, userId, expiresAt,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (r *revocationPG) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	if err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM "token_revocation" WHERE "jti" = $1)`,
		jti,
	).Scan(&revoked); err != nil {
		return false, xe.Wrap(err)
	}
	return revoked, nil
}

func (r *revocationPG) Sweep(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(
		ctx, `DELETE FROM "token_revocation" WHERE "expires_at" <= $1`, now,
	)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	return int(tag.RowsAffected()), nil
}
