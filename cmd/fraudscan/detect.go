package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/db"
	"github.com/gyeh/fraudscan/internal/detect"
	"github.com/gyeh/fraudscan/internal/exitcode"
	"github.com/gyeh/fraudscan/internal/logging"
	"github.com/gyeh/fraudscan/internal/progress"
	"github.com/gyeh/fraudscan/internal/report"
	"github.com/gyeh/fraudscan/internal/store"
)

var noProgress bool

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run all fraud signals and write the JSON report",
	RunE:  runDetect,
}

func init() {
	f := detectCmd.Flags()
	f.StringVar(&cfg.DataDir, "data-dir", "data", "Directory containing claims.parquet, providers.parquet, exclusions.parquet")
	f.StringVar(&cfg.OutputPath, "output", "fraud_signals.json", "Report output path")
	f.IntVar(&cfg.Parallel, "parallel", runtime.NumCPU(), "Max signals detected concurrently")
	f.BoolVar(&noProgress, "no-progress", false, "Disable the scan progress bar")
	f.BoolVar(&cfg.NoGPU, "no-gpu", false, "Accepted for legacy pipeline compatibility; no effect")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()
	start := time.Now()

	if err := loadThresholds(); err != nil {
		log.Error().Err(err).Msg("threshold config invalid")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	runID := uuid.New()
	log = logging.WithRun(log, runID.String())

	// Persistence is optional: no DSN means report-only mode.
	var st *store.Store
	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		st = store.New(pool)
		if err := st.BeginRun(ctx, runID, start, report.Version, cfg.DataDir); err != nil {
			log.Error().Err(err).Msg("recording run failed")
			os.Exit(exitcode.CopyError)
		}
	}

	var pf dataset.ProgressFactory = progress.NopManager{}
	var mgr *progress.Manager
	if !noProgress && cfg.LogFormat == "text" {
		mgr = progress.NewManager()
		pf = mgr
	}

	result, err := detect.Run(ctx, log, &cfg, pf)
	if mgr != nil {
		mgr.Wait()
	}
	if err != nil {
		if pe, ok := err.(*detect.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("detection failed")
			switch pe.Phase {
			case "load":
				os.Exit(exitcode.ValidationError)
			default:
				os.Exit(exitcode.DetectError)
			}
		}
		log.Error().Err(err).Msg("detection failed")
		os.Exit(exitcode.DetectError)
	}

	reportStart := time.Now()
	result.Summary.RunID = runID.String()
	rep := report.Build(result.Findings, result.Tallies, &result.Summary, time.Now())
	if err := rep.WriteFile(cfg.OutputPath); err != nil {
		log.Error().Err(err).Msg("writing report failed")
		os.Exit(exitcode.DetectError)
	}
	result.Summary.DurationReport = time.Since(reportStart)
	result.Summary.DurationTotal = time.Since(start)

	if st != nil {
		if _, err := st.SaveFindings(ctx, log, runID, result.Findings); err != nil {
			log.Error().Err(err).Msg("persisting findings failed")
			os.Exit(exitcode.CopyError)
		}
		if err := st.FinishRun(ctx, runID, time.Now(), &result.Summary); err != nil {
			log.Error().Err(err).Msg("finishing run failed")
			os.Exit(exitcode.CopyError)
		}
	}

	fmt.Printf("Report written to %s\n", cfg.OutputPath)
	fmt.Printf("  Providers scanned: %d\n", result.Summary.ProvidersScanned)
	fmt.Printf("  Providers flagged: %d\n", result.Summary.ProvidersFlagged)
	fmt.Printf("  Total flags:       %d (%.1fs)\n", result.Summary.TotalFlags, result.Summary.DurationTotal.Seconds())
	return nil
}
