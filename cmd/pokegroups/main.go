package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pokegroups/pokegroups-api/app/logging"
	"github.com/pokegroups/pokegroups-api/app/pokeapi"
	"github.com/pokegroups/pokegroups-api/config"
	"github.com/pokegroups/pokegroups-api/models"
)

// app carries what every command needs once the root command has run.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func (a *app) openDB(ctx context.Context) (*gorm.DB, error) {
	return models.Open(ctx, a.cfg.Database.DSN(), a.log)
}

func (a *app) pokeAPI() *pokeapi.Client {
	return pokeapi.NewClient(pokeapi.Config{
		BaseURL:           a.cfg.PokeAPI.BaseURL,
		Timeout:           a.cfg.PokeAPI.Timeout,
		RequestsPerSecond: a.cfg.PokeAPI.RequestsPerSecond,
	})
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pokegroups",
		Short:         "Pokémon type group API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: "run", Title: "Running:"},
		&cobra.Group{ID: "data", Title: "Data management:"},
	)
	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSyncCmd(a),
		newCreateUserCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
