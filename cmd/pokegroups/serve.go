package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pokegroups/pokegroups-api/app/pokesync"
	"github.com/pokegroups/pokegroups-api/app/server"
	"github.com/pokegroups/pokegroups-api/models"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "run",
		Short:   "Run the HTTP API",
		Long: `Run the HTTP API.

When SYNC_SCHEDULE is set, the full sync pipeline (types, pokemon, links)
also runs on that cron schedule inside the server process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if migrate {
				if err := runMigrations(a); err != nil {
					return err
				}
			}

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}

			srv := server.New(a.cfg.Server.Addr(), server.NewRouter(server.NewDependencies(db, a.log)), a.log)

			if spec := a.cfg.Sync.Schedule; spec != "" {
				pipeline := pokesync.NewPipeline(a.pokeAPI(), db, a.cfg.PokeAPI.PageSize, a.log)
				err := srv.Schedule(spec, func(ctx context.Context) {
					if _, err := pipeline.Run(ctx); err != nil {
						a.log.WithError(err).Error("scheduled sync failed")
					}
				})
				if err != nil {
					return fmt.Errorf("invalid sync schedule: %w", err)
				}
				a.log.WithField("schedule", spec).Info("scheduled sync enabled")
			}

			srv.Start()

			select {
			case <-ctx.Done():
			case err := <-srv.Err():
				return err
			}
			return srv.Shutdown(shutdownTimeout)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runMigrations(a *app) error {
	m, err := models.NewMigrator(a.cfg.Database.DSN(), a.log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
