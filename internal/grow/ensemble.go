package grow

import (
	"context"
	"sync"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/morph"
	"github.com/san-kum/biomorph/internal/strategy"
)

// Ensemble runs several independent generations with consecutive seeds.
// Each run gets its own generator and graph; the shared strategy is safe
// because strategies hold only configuration.
type Ensemble struct {
	settings  morph.Settings
	zone      geom.AABB
	strat     strategy.Strategy
	numRuns   int
	seedStart int64
	opts      []Option
}

func NewEnsemble(settings morph.Settings, zone geom.AABB, strat strategy.Strategy,
	numRuns int, seedStart int64, opts ...Option) *Ensemble {
	return &Ensemble{
		settings:  settings,
		zone:      zone,
		strat:     strat,
		numRuns:   numRuns,
		seedStart: seedStart,
		opts:      opts,
	}
}

func (e *Ensemble) Run(ctx context.Context, params morph.Parameters) ([]*graph.Snapshot, error) {
	snaps := make([]*graph.Snapshot, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// the ensemble owns seeding, so its seed goes last
			opts := append(append([]Option{}, e.opts...), WithSeed(e.seedStart+int64(idx)))
			gen := New(e.settings, e.zone, e.strat, opts...)
			snaps[idx], errs[idx] = gen.Run(ctx, params)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return snaps, nil
}
