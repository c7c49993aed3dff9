// Package detect implements the six fraud signal detectors and the
// aggregation of their flags into per-provider findings.
package detect

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// Detector is one fraud signal. Detectors are read-only over the shared
// tables, never depend on each other's output, and may run concurrently.
type Detector interface {
	Signal() model.SignalType
	Detect(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, error)
}

// Engine runs all detectors over the shared tables with bounded
// parallelism and merges their flags in canonical signal order.
type Engine struct {
	detectors []Detector
	parallel  int
}

// NewEngine builds the engine with all six detectors.
func NewEngine(th config.Thresholds, parallel int) *Engine {
	if parallel < 1 {
		parallel = 1
	}
	return &Engine{
		parallel: parallel,
		detectors: []Detector{
			&ExcludedBilling{},
			&BillingOutlier{T: th},
			&RapidEscalation{T: th},
			&WorkforceImpossibility{T: th},
			&SharedOfficial{T: th},
			&GeographicImplausibility{T: th},
		},
	}
}

// Run executes every detector, each accumulating into its own result
// slot, then merges once. A detector failure is isolated: it is logged,
// tallied as zero flags, and the remaining detectors still complete.
func (e *Engine) Run(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, map[model.SignalType]int) {
	results := make([][]model.Flag, len(e.detectors))

	sem := make(chan struct{}, e.parallel)
	var wg sync.WaitGroup

	for i, d := range e.detectors {
		wg.Add(1)
		go func(idx int, det Detector) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			start := time.Now()
			flags, err := det.Detect(ctx, t, log)
			if err != nil {
				log.Warn().Err(err).Str("signal", string(det.Signal())).Msg("detector failed, continuing without its flags")
				return
			}
			log.Info().
				Str("signal", string(det.Signal())).
				Int("flags", len(flags)).
				Dur("duration", time.Since(start)).
				Msg("detector complete")
			results[idx] = flags
		}(i, d)
	}
	wg.Wait()

	tallies := make(map[model.SignalType]int, len(e.detectors))
	var merged []model.Flag
	for i, d := range e.detectors {
		tallies[d.Signal()] = len(results[i])
		merged = append(merged, results[i]...)
	}
	return merged, tallies
}

// monthStart returns the first day of a "YYYY-MM" key as a UTC date.
// Month keys are produced by the loader and always parse.
func monthStart(month string) time.Time {
	ts, _ := time.Parse("2006-01", month)
	return ts
}
