package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTokensCommand(s *session) *cobra.Command {
	tokens := &cobra.Command{
		Use:   "tokens",
		Short: "manage access tokens",
	}

	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "forget revocations of tokens expired already",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, _, err := s.database(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.Revocations().Sweep(ctx, s.env.now())
			if err != nil {
				return err
			}
			s.logger.Info("revocations are swept", zap.Int("count", n))
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	tokens.AddCommand(sweep)
	return tokens
}
