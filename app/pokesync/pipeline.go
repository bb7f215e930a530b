package pokesync

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pokegroups/pokegroups-api/models"
)

type PipelineResult struct {
	Types   *TypesResult
	Pokemon *PokemonResult
	Links   *LinksResult
}

// Pipeline runs the three jobs in dependency order.
type Pipeline struct {
	Types   *TypesSyncer
	Pokemon *PokemonSyncer
	Links   *LinksSyncer
}

// NewPipeline wires the jobs to repositories over db.
func NewPipeline(source Source, db *gorm.DB, pageSize int, log logrus.FieldLogger) *Pipeline {
	groups := models.NewTypeGroupsRepository(db)
	pokemon := models.NewPokemonRepository(db)
	links := models.NewPokemonTypesRepository(db)

	return &Pipeline{
		Types:   NewTypesSyncer(source, groups, log),
		Pokemon: NewPokemonSyncer(source, pokemon, pageSize, log),
		Links:   NewLinksSyncer(source, pokemon, groups, links, log),
	}
}

// Run stops at the first job that fails; later jobs depend on its output.
func (p *Pipeline) Run(ctx context.Context) (*PipelineResult, error) {
	var (
		out PipelineResult
		err error
	)

	if out.Types, err = p.Types.Run(ctx); err != nil {
		return &out, err
	}
	if out.Pokemon, err = p.Pokemon.Run(ctx); err != nil {
		return &out, err
	}
	if out.Links, err = p.Links.Run(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}
