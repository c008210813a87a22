package main

import (
	"backend-workhub/internal/config"
	"backend-workhub/internal/db"

	"github.com/spf13/cobra"
)

// store is the subset of *pgxpool.Pool the commands need.
type store interface {
	db.Querier
	Close()
}

type env struct {
	loadConfig func() config.Config
	connect    func(config.Config) (store, error)
}

func defaultEnv() env {
	return env{
		loadConfig: config.Load,
		connect: func(cfg config.Config) (store, error) {
			pool, err := db.ConnectPostgres(cfg)
			if err != nil {
				return nil, err
			}
			return pool, nil
		},
	}
}

func newRootCmd(e env) *cobra.Command {
	root := &cobra.Command{
		Use:           "workhubctl",
		Short:         "Operate a workhub deployment",
		Long:          "workhubctl applies the database schema, seeds admin accounts and inspects tracker data.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(e),
		newSeedAdminCmd(e),
		newSessionsCmd(e),
		newConfigCmd(e),
	)
	return root
}

// withStore opens the record store for one command run.
func withStore(e env, fn func(config.Config, store) error) error {
	cfg := e.loadConfig()
	s, err := e.connect(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cfg, s)
}
