package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gaslaw/internal/engine"
)

// Ensemble runs independent copies of a scenario with consecutive seeds.
// Each run owns its engine, so runs proceed in parallel.
type Ensemble struct {
	build     func(seed int64) (*engine.Engine, error)
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

// NewEnsemble takes a builder for engines and an optional factory for fresh
// metrics per run.
func NewEnsemble(build func(seed int64) (*engine.Engine, error), metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

// RunSeed is the seed of run i. Zero is skipped since it means "seed from
// the clock" to the engine.
func RunSeed(start int64, i int) int64 {
	seed := start + int64(i)
	if start <= 0 && seed >= 0 {
		seed++
	}
	return seed
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			eng, err := e.build(RunSeed(e.seedStart, i))
			if err != nil {
				return err
			}
			s := New(eng)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			results[i], err = s.Run(ctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
