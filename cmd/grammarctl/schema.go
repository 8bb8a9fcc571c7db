package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSchemaCommand(s *session) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "manage database schema",
	}

	upgrade := &cobra.Command{
		Use:   "upgrade",
		Short: "apply schema versions newer than the database has",
		Long: `Apply schema versions newer than the database has.

Schema versions are read from "schemaRepository" in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, conf, err := s.database(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			if conf.SchemaRepository() == "" {
				return fmt.Errorf("schemaRepository is not configured in %s", s.configPath)
			}

			before, err := db.Schema().Version(ctx)
			if err != nil {
				return err
			}
			if err := db.Schema().Upgrade(ctx); err != nil {
				return err
			}
			after, err := db.Schema().Version(ctx)
			if err != nil {
				return err
			}

			s.logger.Info("schema is upgraded", zap.Int("from", before), zap.Int("to", after))
			fmt.Fprintln(cmd.OutOrStdout(), after)
			return nil
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "print schema version of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, _, err := s.database(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := db.Schema().Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	schema.AddCommand(upgrade, version)
	return schema
}
