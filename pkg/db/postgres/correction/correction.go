package correction

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kdb "github.com/opst/grammarfab/pkg/db"
	kpgerr "github.com/opst/grammarfab/pkg/db/postgres/errors"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	xe "github.com/opst/grammarfab/pkg/errors"
)

type correctionPG struct {
	pool kpool.Pool
}

var _ kdb.CorrectionInterface = &correctionPG{}

func New(pool kpool.Pool) kdb.CorrectionInterface {
	return &correctionPG{pool: pool}
}

const columns = `"id", "user_id", "original_text", "corrected_text", "created_at", "updated_at"`

func scan(row pgx.Row) (kdb.Correction, error) {
	var c kdb.Correction
	var userId pgtype.Int8
	if err := row.Scan(
		&c.Id, &userId, &c.OriginalText, &c.CorrectedText, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return kdb.Correction{}, err
	}
	if userId.Status == pgtype.Present {
		id := userId.Int
		c.UserId = &id
	}
	return c, nil
}

func (c *correctionPG) Create(ctx context.Context, correction kdb.NewCorrection) (kdb.Correction, error) {
	created, err := insert(ctx, c.pool, correction)
	if err != nil {
		return kdb.Correction{}, xe.Wrap(err)
	}
	return created, nil
}

func (c *correctionPG) CreateMany(ctx context.Context, corrections []kdb.NewCorrection) ([]kdb.Correction, error) {
	if len(corrections) == 0 {
		return []kdb.Correction{}, nil
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	created := make([]kdb.Correction, 0, len(corrections))
	for nth, nc := range corrections {
		cr, err := insert(ctx, tx, nc)
		if err != nil {
			return nil, xe.WrapWithNote(fmt.Sprintf("#%d", nth), err)
		}
		created = append(created, cr)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return created, nil
}

func insert(ctx context.Context, q kpool.Queryer, correction kdb.NewCorrection) (kdb.Correction, error) {
	userId := pgtype.Int8{Status: pgtype.Null}
	if correction.UserId != nil {
		userId = pgtype.Int8{Int: *correction.UserId, Status: pgtype.Present}
	}

	return scan(q.QueryRow(
		ctx,
		`
		INSERT INTO "grammar_correction" ("user_id", "original_text", "corrected_text")
		VALUES ($1, $2, $3)
		RETURNING `+columns,
		userId, correction.OriginalText, correction.CorrectedText,
	))
}

func (c *correctionPG) Get(ctx context.Context, id int64) (kdb.Correction, error) {
	found, err := scan(c.pool.QueryRow(
		ctx,
		`SELECT `+columns+` FROM "grammar_correction" WHERE "id" = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.Correction{}, xe.Wrap(kpgerr.Missing{
			Table: "grammar_correction", Identity: fmt.Sprintf("id=%d", id),
		})
	}
	if err != nil {
		return kdb.Correction{}, xe.Wrap(err)
	}
	return found, nil
}

// where builds WHERE clause for query.
//
// It returns "" when query has no conditions.
func where(query kdb.CorrectionQuery, args []any) (string, []any) {
	conds := []string{}
	cond := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, "$"+strconv.Itoa(len(args))))
	}

	if query.UserId != nil {
		cond(`"user_id" = %s`, *query.UserId)
	}
	if query.Text != "" {
		args = append(args, query.Text)
		p := "$" + strconv.Itoa(len(args))
		conds = append(conds, fmt.Sprintf(
			`(0 < strpos("original_text", %s) OR 0 < strpos("corrected_text", %s))`, p, p,
		))
	}
	if query.Since != nil {
		cond(`%s <= "created_at"`, *query.Since)
	}
	if query.Until != nil {
		cond(`"created_at" < %s`, *query.Until)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (c *correctionPG) Find(ctx context.Context, query kdb.CorrectionQuery, page kdb.Page) ([]kdb.Correction, error) {
	args := []any{page.Limit(), page.Offset()}
	clause, args := where(query, args)

	rows, err := c.pool.Query(
		ctx,
		`SELECT `+columns+` FROM "grammar_correction"`+clause+
			` ORDER BY "created_at" DESC, "id" DESC LIMIT $1 OFFSET $2`,
		args...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	found := []kdb.Correction{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		found = append(found, item)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return found, nil
}

func (c *correctionPG) Count(ctx context.Context, query kdb.CorrectionQuery) (int, error) {
	clause, args := where(query, nil)

	var n int
	if err := c.pool.QueryRow(
		ctx, `SELECT count(*) FROM "grammar_correction"`+clause, args...,
	).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}

func (c *correctionPG) Delete(ctx context.Context, id int64) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM "grammar_correction" WHERE "id" = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(kpgerr.Missing{
			Table: "grammar_correction", Identity: fmt.Sprintf("id=%d", id),
		})
	}
	return nil
}
