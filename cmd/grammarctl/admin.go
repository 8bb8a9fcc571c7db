package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opst/grammarfab/pkg/auth"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const envAdminPassword = "GRAMMARFAB_ADMIN_PASSWORD"

func newAdminCommand(s *session) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "manage admin users",
	}

	var email, name, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "register an admin user",
		Long: `Register an admin user.

The password is read from --password, or $` + envAdminPassword + ` when the flag is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = s.env.getenv(envAdminPassword)
			}
			name = strings.TrimSpace(name)
			switch {
			case !auth.ValidEmail(email):
				return fmt.Errorf("--email should be an email address: %q", email)
			case name == "":
				return errors.New("--name is required")
			case password == "":
				return errors.New("--password (or $" + envAdminPassword + ") is required")
			}

			ctx := cmd.Context()
			db, conf, err := s.database(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := auth.ValidatePassword(password, conf.Auth().MinPasswordLength()); err != nil {
				return err
			}
			hashed, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			user, err := db.Users().Create(ctx, kdb.NewUser{
				Email:          email,
				FullName:       name,
				HashedPassword: hashed,
				Role:           kdb.RoleAdmin,
			})
			if errors.Is(err, kdb.ErrConflict) {
				return fmt.Errorf("%s is registered already", email)
			} else if err != nil {
				return err
			}

			s.logger.Info("admin user is created", zap.Int64("id", user.Id), zap.String("email", user.Email))
			fmt.Fprintln(cmd.OutOrStdout(), user.UUID)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "email of the admin user")
	create.Flags().StringVar(&name, "name", "", "full name of the admin user")
	create.Flags().StringVar(&password, "password", "", "password of the admin user. default: $"+envAdminPassword)
	create.MarkFlagRequired("email")
	create.MarkFlagRequired("name")

	admin.AddCommand(create)
	return admin
}
