package pokesync

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pokegroups/pokegroups-api/app/metrics"
	"github.com/pokegroups/pokegroups-api/models"
)

const (
	jobPokemon = "pokemon"

	DefaultPageSize = 100
)

type PokemonResult struct {
	Created int
	Updated int
	Errors  []string
}

// PokemonSyncer walks the paginated Pokémon list and upserts every entry by
// its PokeAPI id, which is stored as the Pokémon number.
type PokemonSyncer struct {
	source   Source
	pokemon  PokemonStore
	pageSize int
	log      logrus.FieldLogger
}

func NewPokemonSyncer(source Source, pokemon PokemonStore, pageSize int, log logrus.FieldLogger) *PokemonSyncer {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PokemonSyncer{
		source:   source,
		pokemon:  pokemon,
		pageSize: pageSize,
		log:      log.WithField("job", jobPokemon),
	}
}

// Run pages through the list until a page is empty or has no next link.
// Detail failures skip that entry only. A failed list page ends the run with
// an error; the result still carries what was written before it.
func (s *PokemonSyncer) Run(ctx context.Context) (res *PokemonResult, err error) {
	start := time.Now()
	defer func() { observe(jobPokemon, start, err) }()

	s.log.Info("starting pokemon sync")
	res = &PokemonResult{Errors: []string{}}
	defer func() {
		metrics.AddSyncRows(jobPokemon, "created", res.Created)
		metrics.AddSyncRows(jobPokemon, "updated", res.Updated)
	}()

	offset := 0
	for {
		page, err := s.source.ListPokemon(ctx, offset, s.pageSize)
		if err != nil {
			return res, fmt.Errorf("failed to fetch pokemon list at offset %d: %w", offset, err)
		}
		if len(page.Names) == 0 {
			break
		}

		for _, name := range page.Names {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if err := s.syncOne(ctx, name, res); err != nil {
				msg := fmt.Sprintf("pokemon %q: %v", name, err)
				res.Errors = append(res.Errors, msg)
				metrics.IncSyncItemError(jobPokemon)
				s.log.WithError(err).WithField("pokemon", name).Warn("skipping pokemon")
			}
		}

		if !page.HasNext() {
			break
		}
		offset += len(page.Names)
	}

	s.log.WithFields(logrus.Fields{
		"created": res.Created,
		"updated": res.Updated,
		"errors":  len(res.Errors),
	}).Info("pokemon sync finished")
	return res, nil
}

func (s *PokemonSyncer) syncOne(ctx context.Context, name string, res *PokemonResult) error {
	if name == "" {
		return fmt.Errorf("list entry without a name")
	}

	detail, err := s.source.GetPokemon(ctx, name)
	if err != nil {
		return err
	}

	created, err := s.pokemon.Upsert(ctx, &models.Pokemon{
		Number: uint(detail.ID),
		Name:   name,
		Height: decimal.New(int64(detail.Height), -1),
		Weight: decimal.New(int64(detail.Weight), -1),
	})
	if err != nil {
		return err
	}

	if created {
		res.Created++
	} else {
		res.Updated++
	}
	s.log.WithFields(logrus.Fields{"number": detail.ID, "pokemon": name}).Debug("pokemon stored")
	return nil
}
