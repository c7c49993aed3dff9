package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cobra"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/exitcode"
	"github.com/gyeh/fraudscan/internal/logging"
	"github.com/gyeh/fraudscan/internal/model"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run dataset validation and stats (no detection, no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.DataDir, "data-dir", "data", "Directory containing the three Parquet tables")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := loadThresholds(); err != nil {
		log.Error().Err(err).Msg("threshold config invalid")
		os.Exit(exitcode.UsageError)
	}

	fmt.Println("=== fraudscan plan ===")
	fmt.Printf("Data dir: %s\n\n", cfg.DataDir)

	claimRows, err := planClaims(filepath.Join(cfg.DataDir, dataset.ClaimsFile))
	if err != nil {
		log.Error().Err(err).Msg("claims table validation failed")
		os.Exit(exitcode.ValidationError)
	}

	providerRows, err := planTable[model.ProviderRow](
		filepath.Join(cfg.DataDir, dataset.ProvidersFile), "providers", dataset.ValidateProvidersSchema)
	if err != nil {
		log.Error().Err(err).Msg("providers table validation failed")
		os.Exit(exitcode.ValidationError)
	}

	exclusionRows, err := planTable[model.ExclusionRow](
		filepath.Join(cfg.DataDir, dataset.ExclusionsFile), "exclusions", dataset.ValidateExclusionsSchema)
	if err != nil {
		log.Error().Err(err).Msg("exclusions table validation failed")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Printf("\nTotal rows: %d claims, %d providers, %d exclusions\n",
		claimRows, providerRows, exclusionRows)
	fmt.Println("Schema validation: OK")
	return nil
}

func planTable[T any](path, name string, validate func(*parquet.Schema) error) (int64, error) {
	reader, err := dataset.Open[T](path)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	if err := validate(reader.Schema()); err != nil {
		return 0, err
	}

	numRows := reader.NumRows()
	fmt.Printf("%-12s %10d rows  (%s)\n", name+":", numRows, path)
	return numRows, nil
}

// planClaims validates the claims table and samples rows to report the
// observed month range.
func planClaims(path string) (int64, error) {
	reader, err := dataset.Open[model.ClaimRow](path)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	if err := dataset.ValidateClaimsSchema(reader.Schema()); err != nil {
		return 0, err
	}

	numRows := reader.NumRows()
	fmt.Printf("%-12s %10d rows  (%s)\n", "claims:", numRows, path)

	sampleSize := int64(1000)
	if sampleSize > numRows {
		sampleSize = numRows
	}

	buf := make([]model.ClaimRow, 256)
	var sampled int64
	var minMonth, maxMonth string
	npis := make(map[string]struct{})

	for sampled < sampleSize {
		n, readErr := reader.Read(buf)
		for i := 0; i < n && sampled < sampleSize; i++ {
			sampled++
			npis[buf[i].NPI] = struct{}{}
			month := fmt.Sprintf("%04d-%02d", buf[i].Year, buf[i].Month)
			if minMonth == "" || month < minMonth {
				minMonth = month
			}
			if month > maxMonth {
				maxMonth = month
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, fmt.Errorf("read sample rows: %w", readErr)
		}
	}

	if sampled > 0 {
		fmt.Printf("             sampled %d rows: %d distinct NPIs, months %s..%s\n",
			sampled, len(npis), minMonth, maxMonth)
	}
	return numRows, nil
}
