package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newConfigCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := e.loadConfig()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, kv := range [][2]string{
				{"SERVER_PORT", cfg.ServerPort},
				{"POSTGRES_URL", cfg.PostgresURL},
				{"REDIS_ADDR", cfg.RedisAddr},
				{"REDIS_PASSWORD", mask(cfg.RedisPassword)},
				{"JWT_SECRET", mask(cfg.JWTSecret)},
				{"BCRYPT_COST", fmt.Sprint(cfg.BcryptCost)},
				{"TRACKER_TIMEZONE", cfg.TrackerTimezone},
				{"TRACKER_HOURS_POLICY", cfg.TrackerHoursPolicy},
			} {
				fmt.Fprintf(w, "%s\t%s\n", kv[0], kv[1])
			}
			return w.Flush()
		},
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
