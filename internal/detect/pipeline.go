package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Result is the output of one detection pass.
type Result struct {
	Tables   *dataset.Tables
	Findings []model.Finding
	Tallies  map[model.SignalType]int
	Summary  model.RunSummary
}

// Run executes the detection pipeline: load -> detect -> aggregate.
// Report writing and optional persistence are the caller's phases.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, pf dataset.ProgressFactory) (*Result, error) {
	totalStart := time.Now()

	log.Info().Str("data_dir", cfg.DataDir).Msg("loading normalized tables")
	loadStart := time.Now()
	tables, err := dataset.LoadTables(ctx, log, cfg.DataDir, pf)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	loadDur := time.Since(loadStart)

	log.Info().Int("parallel", cfg.Parallel).Msg("running fraud signal detection")
	detectStart := time.Now()
	engine := NewEngine(cfg.Thresholds, cfg.Parallel)
	flags, tallies := engine.Run(ctx, tables, log)
	if err := ctx.Err(); err != nil {
		return nil, &PipelineError{Phase: "detect", Err: err}
	}
	findings := BuildFindings(flags, tables)
	detectDur := time.Since(detectStart)

	summary := model.RunSummary{
		DataDir:          cfg.DataDir,
		OutputPath:       cfg.OutputPath,
		ProvidersScanned: tables.ProvidersScanned(),
		ProvidersFlagged: len(findings),
		TotalFlags:       len(flags),
		SignalTallies:    tallies,
		RowsRead:         tables.RowsRead,
		DurationLoad:     loadDur,
		DurationDetect:   detectDur,
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Int64("providers_scanned", summary.ProvidersScanned).
		Int("providers_flagged", summary.ProvidersFlagged).
		Int("total_flags", summary.TotalFlags).
		Dur("duration", summary.DurationTotal).
		Msg("detection pass complete")

	return &Result{
		Tables:   tables,
		Findings: findings,
		Tallies:  tallies,
		Summary:  summary,
	}, nil
}
