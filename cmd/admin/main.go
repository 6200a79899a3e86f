package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hillview-school/school-cms/internal/admins"
	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/db"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/migrate"
)

// accountService is the part of admins.Service the CLI drives.
type accountService interface {
	Create(ctx context.Context, req admins.CreateRequest) (*admins.Credentials, error)
	ResetPassword(ctx context.Context, email, password string) (*admins.Credentials, error)
}

type openFunc func(ctx context.Context) (accountService, func(), error)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(openService).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Manage school CMS administrator accounts",
		SilenceUsage:  true,
	}
	root.AddCommand(newCreateCmd(open), newResetPasswordCmd(open))
	return root
}

func newCreateCmd(open openFunc) *cobra.Command {
	var req admins.CreateRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator; a password is generated when none is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			creds, err := svc.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			printCredentials(cmd.OutOrStdout(), "created", creds)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newResetPasswordCmd(open openFunc) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password and reactivate the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			creds, err := svc.ResetPassword(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			printCredentials(cmd.OutOrStdout(), "password reset for", creds)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func printCredentials(w io.Writer, verb string, creds *admins.Credentials) {
	fmt.Fprintf(w, "%s admin %d <%s>\n", verb, creds.Admin.ID, creds.Admin.Email)
	if creds.Password != "" {
		fmt.Fprintf(w, "generated password: %s\n", creds.Password)
	}
}

func openService(ctx context.Context) (accountService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "admin-cli",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      "console",
		Output:      os.Stderr,
	})

	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		closeFn()
		return nil, nil, err
	}

	svc, err := admins.NewService(admins.ServiceParams{
		Repo:     admins.NewRepository(client.DB()),
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}
