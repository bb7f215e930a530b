package models_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokegroups/pokegroups-api/models"
	"github.com/pokegroups/pokegroups-api/models/modelstest"
)

func pokemonNames(list []models.Pokemon) []string {
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}

func TestPokemonRepository_ListVisible(t *testing.T) {
	db := modelstest.NewDB(t)
	seed := modelstest.SeedPokedex(t, db)
	repo := models.NewPokemonRepository(db)
	ctx := context.Background()

	t.Run("only pokemon of subscribed types", func(t *testing.T) {
		list, err := repo.ListVisible(ctx, seed.Ash.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"charmander", "squirtle"}, pokemonNames(list))
		assert.Equal(t, []string{"fire"}, list[0].TypeNames())
		assert.Equal(t, []string{"water"}, list[1].TypeNames())
	})

	t.Run("empty without subscriptions", func(t *testing.T) {
		list, err := repo.ListVisible(ctx, seed.Misty.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("no duplicates and all types shown", func(t *testing.T) {
		// charmander becomes fire+grass+water: matched twice through ash's
		// subscriptions, and grass is shown although ash does not follow it.
		require.NoError(t, db.Create(&models.PokemonType{PokemonID: seed.Charmander.ID, TypeGroupID: seed.Water.ID}).Error)
		require.NoError(t, db.Create(&models.PokemonType{PokemonID: seed.Charmander.ID, TypeGroupID: seed.Grass.ID}).Error)

		list, err := repo.ListVisible(ctx, seed.Ash.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "charmander", list[0].Name)
		assert.ElementsMatch(t, []string{"fire", "water", "grass"}, list[0].TypeNames())
	})
}

func TestPokemonRepository_GetVisible(t *testing.T) {
	db := modelstest.NewDB(t)
	seed := modelstest.SeedPokedex(t, db)
	repo := models.NewPokemonRepository(db)
	ctx := context.Background()

	testCases := []struct {
		name        string
		identifier  string
		expectedErr error
		expected    string
	}{
		{name: "By number", identifier: "4", expected: "charmander"},
		{name: "By name ignoring case", identifier: "Squirtle", expected: "squirtle"},
		{name: "Not subscribed by number", identifier: "1", expectedErr: models.ErrPokemonNotFound},
		{name: "Not subscribed by name", identifier: "bulbasaur", expectedErr: models.ErrPokemonNotFound},
		{name: "Unknown name", identifier: "missingno", expectedErr: models.ErrPokemonNotFound},
		{name: "Unknown number", identifier: "9999", expectedErr: models.ErrPokemonNotFound},
		{name: "Number out of range", identifier: "99999999999999999999", expectedErr: models.ErrPokemonNotFound},
		{name: "Zero", identifier: "0", expectedErr: models.ErrPokemonNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			p, err := repo.GetVisible(ctx, seed.Ash.ID, models.ParseIdentifier(tc.identifier))

			// Assert
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p.Name)
			assert.NotEmpty(t, p.TypeNames())
		})
	}
}

func TestPokemonRepository_Upsert(t *testing.T) {
	db := modelstest.NewDB(t)
	repo := models.NewPokemonRepository(db)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, &models.Pokemon{
		Number: 25,
		Name:   "pikachu",
		Height: decimal.RequireFromString("0.4"),
		Weight: decimal.RequireFromString("6.0"),
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, &models.Pokemon{
		Number: 25,
		Name:   "pikachu-renamed",
		Height: decimal.RequireFromString("0.5"),
		Weight: decimal.RequireFromString("6.0"),
	})
	require.NoError(t, err)
	assert.False(t, created)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "pikachu-renamed", all[0].Name)
	assert.True(t, all[0].Height.Equal(decimal.RequireFromString("0.5")))
}

func TestPokemonRepository_Upsert_NameTakenByOtherNumber(t *testing.T) {
	db := modelstest.NewDB(t)
	repo := models.NewPokemonRepository(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &models.Pokemon{Number: 1, Name: "bulbasaur"})
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, &models.Pokemon{Number: 2, Name: "bulbasaur"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}
