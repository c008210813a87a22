package main

import (
	"fmt"

	"backend-workhub/internal/admin"
	"backend-workhub/internal/auth"
	"backend-workhub/internal/config"

	"github.com/spf13/cobra"
)

func newSeedAdminCmd(e env) *cobra.Command {
	var req admin.CreateRequest
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account",
		Long:  "seed-admin creates the first admin so the HTTP API can be used; every later admin can be created through it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(e, func(cfg config.Config, s store) error {
				hasher := auth.NewService(cfg.JWTSecret, s, cfg.BcryptCost)
				created, err := admin.NewService(s, hasher).Create(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("seed admin: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %s <%s>\n", created.Role, created.ID, created.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "login password, at least 6 characters")
	cmd.Flags().StringVar(&req.Role, "role", admin.RoleSuperAdmin, "admin or superAdmin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
