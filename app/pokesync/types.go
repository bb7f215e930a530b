package pokesync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pokegroups/pokegroups-api/app/metrics"
)

const jobTypes = "types"

type TypesResult struct {
	Visited int
	Created int
}

// TypesSyncer makes sure a type group exists for every type PokeAPI lists.
type TypesSyncer struct {
	source Source
	groups TypeGroupStore
	log    logrus.FieldLogger
}

func NewTypesSyncer(source Source, groups TypeGroupStore, log logrus.FieldLogger) *TypesSyncer {
	return &TypesSyncer{
		source: source,
		groups: groups,
		log:    log.WithField("job", jobTypes),
	}
}

// Run fetches the type list once. A failed fetch aborts the job before any
// write. Unnamed entries are skipped and not counted as visited.
func (s *TypesSyncer) Run(ctx context.Context) (res *TypesResult, err error) {
	start := time.Now()
	defer func() { observe(jobTypes, start, err) }()

	s.log.Info("starting types sync")

	names, err := s.source.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch type list: %w", err)
	}

	res = &TypesResult{}
	for _, name := range names {
		if name == "" {
			continue
		}
		res.Visited++

		_, created, err := s.groups.GetOrCreate(ctx, name)
		if err != nil {
			return res, fmt.Errorf("failed to store type %q: %w", name, err)
		}
		if created {
			res.Created++
			s.log.WithField("type", name).Debug("type created")
		}
	}
	metrics.AddSyncRows(jobTypes, "created", res.Created)

	s.log.WithFields(logrus.Fields{
		"visited": res.Visited,
		"created": res.Created,
	}).Info("types sync finished")
	return res, nil
}
