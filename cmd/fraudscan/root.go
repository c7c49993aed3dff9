package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/fraudscan/internal/config"
)

var cfg config.Config

// thresholdsPath is the optional YAML override file for signal cutoffs.
var thresholdsPath string

var rootCmd = &cobra.Command{
	Use:   "fraudscan",
	Short: "Medicaid provider fraud signal detection engine",
	Long: "Scans normalized Medicaid claims, provider registry, and exclusion list Parquet files\n" +
		"for six billing fraud signals and emits a fraud_signals.json referral report.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("FRAUD_DB_URL"), "Postgres connection string for findings persistence (or set FRAUD_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&thresholdsPath, "config", "", "YAML file overriding detection thresholds")
}

// loadThresholds resolves the effective thresholds before a command runs.
func loadThresholds() error {
	if thresholdsPath == "" {
		cfg.Thresholds = config.Defaults()
		return nil
	}
	t, err := config.LoadThresholds(thresholdsPath)
	if err != nil {
		return err
	}
	cfg.Thresholds = t
	return nil
}
