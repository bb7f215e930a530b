// Package pokesync copies reference data from PokeAPI into the local store.
//
// Three jobs run in a fixed order: types, then pokemon, then the links between
// them. Every job is idempotent; running it twice against unchanged remote
// data writes nothing the second time.
package pokesync

import (
	"context"
	"time"

	"github.com/pokegroups/pokegroups-api/app/metrics"
	"github.com/pokegroups/pokegroups-api/app/pokeapi"
	"github.com/pokegroups/pokegroups-api/models"
)

// Source is the part of the PokeAPI client the jobs need.
type Source interface {
	ListTypes(ctx context.Context) ([]string, error)
	ListPokemon(ctx context.Context, offset, limit int) (*pokeapi.Page, error)
	GetPokemon(ctx context.Context, name string) (*pokeapi.PokemonDetail, error)
}

var _ Source = (*pokeapi.Client)(nil)

type TypeGroupStore interface {
	GetOrCreate(ctx context.Context, name string) (*models.TypeGroup, bool, error)
	IDsByNames(ctx context.Context, names []string) (map[string]uint, error)
}

type PokemonStore interface {
	All(ctx context.Context) ([]models.Pokemon, error)
	Upsert(ctx context.Context, p *models.Pokemon) (bool, error)
}

type LinkStore interface {
	TypeIDs(ctx context.Context, pokemonID uint) ([]uint, error)
	Apply(ctx context.Context, pokemonID uint, remove, add []uint) (int64, int64, error)
}

func observe(job string, start time.Time, err error) {
	metrics.RecordSyncRun(job, time.Since(start), err == nil)
}
