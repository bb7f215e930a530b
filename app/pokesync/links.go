package pokesync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pokegroups/pokegroups-api/app/metrics"
	"github.com/pokegroups/pokegroups-api/models"
)

const jobLinks = "links"

type LinksResult struct {
	Created int
	Deleted int
	Errors  []string
}

// LinksSyncer reconciles the types of each stored Pokémon with what PokeAPI
// currently reports. Remote type names without a local type group are ignored.
type LinksSyncer struct {
	source  Source
	pokemon PokemonStore
	groups  TypeGroupStore
	links   LinkStore
	log     logrus.FieldLogger
}

func NewLinksSyncer(source Source, pokemon PokemonStore, groups TypeGroupStore, links LinkStore, log logrus.FieldLogger) *LinksSyncer {
	return &LinksSyncer{
		source:  source,
		pokemon: pokemon,
		groups:  groups,
		links:   links,
		log:     log.WithField("job", jobLinks),
	}
}

func (s *LinksSyncer) Run(ctx context.Context) (res *LinksResult, err error) {
	start := time.Now()
	defer func() { observe(jobLinks, start, err) }()

	s.log.Info("starting links sync")

	all, err := s.pokemon.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pokemon: %w", err)
	}

	res = &LinksResult{Errors: []string{}}
	for i := range all {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		p := &all[i]
		if err := s.reconcile(ctx, p, res); err != nil {
			msg := fmt.Sprintf("pokemon %d/%s: %v", p.Number, p.Name, err)
			res.Errors = append(res.Errors, msg)
			metrics.IncSyncItemError(jobLinks)
			s.log.WithError(err).WithField("pokemon", p.Name).Warn("skipping pokemon")
		}
	}
	metrics.AddSyncRows(jobLinks, "created", res.Created)
	metrics.AddSyncRows(jobLinks, "deleted", res.Deleted)

	s.log.WithFields(logrus.Fields{
		"created": res.Created,
		"deleted": res.Deleted,
		"errors":  len(res.Errors),
	}).Info("links sync finished")
	return res, nil
}

// reconcile makes the stored links of p equal the remote types that exist
// locally. Deletions and creations are applied in one transaction.
func (s *LinksSyncer) reconcile(ctx context.Context, p *models.Pokemon, res *LinksResult) error {
	detail, err := s.source.GetPokemon(ctx, p.Name)
	if err != nil {
		return err
	}

	known, err := s.groups.IDsByNames(ctx, detail.Types)
	if err != nil {
		return err
	}
	desired := NewIDSet()
	for _, id := range known {
		desired.Add(id)
	}

	currentIDs, err := s.links.TypeIDs(ctx, p.ID)
	if err != nil {
		return err
	}
	current := NewIDSet(currentIDs...)

	toDelete := current.Minus(desired)
	toCreate := desired.Minus(current)
	if len(toDelete) == 0 && len(toCreate) == 0 {
		return nil
	}

	deleted, created, err := s.links.Apply(ctx, p.ID, toDelete.Slice(), toCreate.Slice())
	if err != nil {
		return err
	}
	res.Deleted += int(deleted)
	res.Created += int(created)

	s.log.WithFields(logrus.Fields{
		"pokemon": p.Name,
		"added":   created,
		"removed": deleted,
	}).Debug("links updated")
	return nil
}
