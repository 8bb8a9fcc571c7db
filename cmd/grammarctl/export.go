package main

import (
	"errors"
	"fmt"

	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/export"
	kio "github.com/opst/grammarfab/pkg/io"
	"github.com/opst/grammarfab/pkg/utils/rfctime"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCommand(s *session) *cobra.Command {
	var out, userUUID, startDate, endDate string

	cmd := &cobra.Command{
		Use:   "export --out FILE",
		Short: "write corrections into a xlsx workbook",
		Long: `write corrections into a xlsx workbook.

By default, all corrections of all users are written.
Use --user to export corrections of a user, and --start-date/--end-date (YYYY-MM-DD, inclusive) to limit the period.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			query, err := periodQuery(startDate, endDate)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, _, err := s.database(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if userUUID != "" {
				user, err := db.Users().GetByUUID(ctx, userUUID)
				if errors.Is(err, kdb.ErrMissing) {
					return fmt.Errorf("user %s is not found", userUUID)
				} else if err != nil {
					return err
				}
				query.UserId = &user.Id
			}

			corrections, err := export.Collect(ctx, db.Corrections(), query)
			if err != nil {
				return err
			}

			f, err := kio.CreateAll(out, 0o644, 0o755)
			if err != nil {
				return err
			}
			if err := export.WriteXLSX(f, corrections); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			s.logger.Info(
				"corrections are exported",
				zap.String("out", out), zap.Int("count", len(corrections)),
			)
			fmt.Fprintln(cmd.OutOrStdout(), len(corrections))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "", "path to the workbook to be written")
	flags.StringVar(&userUUID, "user", "", "uuid of the user whose corrections are exported")
	flags.StringVar(&startDate, "start-date", "", "first day of the period, YYYY-MM-DD")
	flags.StringVar(&endDate, "end-date", "", "last day of the period, YYYY-MM-DD")
	return cmd
}

// periodQuery builds a query for days from start to end, both inclusive.
// Empty start or end makes the period open.
func periodQuery(start, end string) (kdb.CorrectionQuery, error) {
	q := kdb.CorrectionQuery{}

	var first, last *rfctime.Date
	if start != "" {
		d, err := rfctime.ParseDate(start)
		if err != nil {
			return q, fmt.Errorf("--start-date: %w", err)
		}
		first = &d
	}
	if end != "" {
		d, err := rfctime.ParseDate(end)
		if err != nil {
			return q, fmt.Errorf("--end-date: %w", err)
		}
		last = &d
	}

	switch {
	case first != nil && last != nil:
		since, until, err := rfctime.DayRange(*first, *last)
		if err != nil {
			return q, fmt.Errorf("--end-date should not be before --start-date: %w", err)
		}
		q.Since, q.Until = &since, &until
	case first != nil:
		since := first.Start()
		q.Since = &since
	case last != nil:
		until := last.End()
		q.Until = &until
	}
	return q, nil
}
