package analytics

import (
	"context"
	"time"

	kdb "github.com/opst/grammarfab/pkg/db"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	xe "github.com/opst/grammarfab/pkg/errors"
)

type analyticsPG struct {
	pool kpool.Pool
}

var _ kdb.AnalyticsInterface = &analyticsPG{}

func New(pool kpool.Pool) kdb.AnalyticsInterface {
	return &analyticsPG{pool: pool}
}

func (a *analyticsPG) Stats(ctx context.Context, dayStart, dayEnd time.Time) (kdb.Stats, error) {
	var s kdb.Stats
	if err := a.pool.QueryRow(
		ctx,
		`
		SELECT
			(SELECT count(*) FROM "grammar_correction"),
			(SELECT count(*) FROM "users"),
			(SELECT count(*) FROM "grammar_correction" WHERE $1 <= "created_at" AND "created_at" < $2),
			(SELECT count(*) FROM "users" WHERE $1 <= "created_at" AND "created_at" < $2)
		`,
		dayStart, dayEnd,
	).Scan(&s.TotalCorrections, &s.TotalUsers, &s.CorrectionsToday, &s.UsersToday); err != nil {
		return kdb.Stats{}, xe.Wrap(err)
	}
	return s, nil
}
