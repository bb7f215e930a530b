package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pokegroups/pokegroups-api/app/accounts"
	"github.com/pokegroups/pokegroups-api/models"
)

func newCreateUserCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:     "createuser <username>",
		GroupID: "data",
		Short:   "Create an API user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				return errors.New("--password must not be empty")
			}

			hash, err := accounts.HashPassword(password)
			if err != nil {
				return err
			}

			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}

			user, err := models.NewUsersRepository(db).Create(cmd.Context(), username, hash)
			if errors.Is(err, models.ErrAlreadyExists) {
				return fmt.Errorf("user %q already exists", username)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d).\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password of the new user")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
