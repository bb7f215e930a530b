package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pokegroups/pokegroups-api/app/pokesync"
)

func newSyncCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "data",
		Short:   "Copy reference data from PokeAPI",
		Long: `Copy reference data from PokeAPI into the database.

Run "types" first, then "pokemon", then "links"; "all" runs the three in
that order and stops at the first failing job.`,
	}

	withPipeline := func(cmd *cobra.Command, fn func(ctx context.Context, p *pokesync.Pipeline) error) error {
		ctx := cmd.Context()
		db, err := a.openDB(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, pokesync.NewPipeline(a.pokeAPI(), db, a.cfg.PokeAPI.PageSize, a.log))
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "types",
			Short: "Create a type group for every PokeAPI type",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPipeline(cmd, func(ctx context.Context, p *pokesync.Pipeline) error {
					res, err := p.Types.Run(ctx)
					if err != nil {
						return err
					}
					printTypes(cmd, res)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "pokemon",
			Short: "Create or refresh every Pokémon",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPipeline(cmd, func(ctx context.Context, p *pokesync.Pipeline) error {
					res, err := p.Pokemon.Run(ctx)
					if res != nil {
						printPokemon(cmd, res)
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "links",
			Short: "Reconcile Pokémon types with PokeAPI",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPipeline(cmd, func(ctx context.Context, p *pokesync.Pipeline) error {
					res, err := p.Links.Run(ctx)
					if res != nil {
						printLinks(cmd, res)
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "Run types, pokemon and links in order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPipeline(cmd, func(ctx context.Context, p *pokesync.Pipeline) error {
					res, err := p.Run(ctx)
					if res.Types != nil {
						printTypes(cmd, res.Types)
					}
					if res.Pokemon != nil {
						printPokemon(cmd, res.Pokemon)
					}
					if res.Links != nil {
						printLinks(cmd, res.Links)
					}
					return err
				})
			},
		},
	)
	return cmd
}

func printTypes(cmd *cobra.Command, res *pokesync.TypesResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Types sync: %d visited, %d created.\n", res.Visited, res.Created)
}

func printPokemon(cmd *cobra.Command, res *pokesync.PokemonResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Pokemon sync: %d created, %d updated.\n", res.Created, res.Updated)
	printErrors(cmd, res.Errors)
}

func printLinks(cmd *cobra.Command, res *pokesync.LinksResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Links sync: %d created, %d deleted.\n", res.Created, res.Deleted)
	printErrors(cmd, res.Errors)
}

func printErrors(cmd *cobra.Command, errs []string) {
	if len(errs) == 0 {
		return
	}
	cmd.PrintErrf("%d skipped:\n  %s\n", len(errs), strings.Join(errs, "\n  "))
}
