// Package report assembles the fraud_signals.json output from detection
// findings: provider entries, signal counts, overpayment rollups, and the
// False Claims Act relevance block for investigator referral.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gyeh/fraudscan/internal/model"
)

// Version is the tool version stamped into every report.
const Version = "1.0.0"

// SignalCounts tallies flags per signal type, in canonical order.
type SignalCounts struct {
	ExcludedProvider         int `json:"excluded_provider"`
	BillingOutlier           int `json:"billing_outlier"`
	RapidEscalation          int `json:"rapid_escalation"`
	WorkforceImpossibility   int `json:"workforce_impossibility"`
	SharedOfficial           int `json:"shared_official"`
	GeographicImplausibility int `json:"geographic_implausibility"`
}

// ProviderEntry is one flagged provider in the report, with registry
// metadata, lifetime billing totals, all raised flags, and FCA guidance.
type ProviderEntry struct {
	NPI                       string        `json:"npi"`
	ProviderName              string        `json:"provider_name"`
	EntityType                string        `json:"entity_type"`
	TaxonomyCode              string        `json:"taxonomy_code"`
	State                     string        `json:"state"`
	EnumerationDate           string        `json:"enumeration_date"`
	TotalPaidAllTime          model.Cents   `json:"total_paid_all_time"`
	TotalClaimsAllTime        int64         `json:"total_claims_all_time"`
	TotalBeneficiariesAllTime int64         `json:"total_unique_beneficiaries_all_time"`
	Signals                   []model.Flag  `json:"signals"`
	EstimatedOverpaymentUSD   model.Cents   `json:"estimated_overpayment_usd"`
	FCARelevance              *FCARelevance `json:"fca_relevance"`
}

// Report is the complete fraud_signals.json document.
type Report struct {
	GeneratedAt           string          `json:"generated_at"`
	ToolVersion           string          `json:"tool_version"`
	RunID                 string          `json:"run_id"`
	TotalProvidersScanned int64           `json:"total_providers_scanned"`
	TotalProvidersFlagged int             `json:"total_providers_flagged"`
	SignalCounts          SignalCounts    `json:"signal_counts"`
	FlaggedProviders      []ProviderEntry `json:"flagged_providers"`
}

// Build assembles the report from findings already sorted by NPI. The
// timestamp is passed in so a run's output is otherwise byte-reproducible.
func Build(findings []model.Finding, tallies map[model.SignalType]int, summary *model.RunSummary, now time.Time) *Report {
	entries := make([]ProviderEntry, 0, len(findings))
	for i := range findings {
		entries = append(entries, buildProviderEntry(&findings[i]))
	}
	return &Report{
		GeneratedAt:           now.UTC().Format(time.RFC3339),
		ToolVersion:           Version,
		RunID:                 summary.RunID,
		TotalProvidersScanned: summary.ProvidersScanned,
		TotalProvidersFlagged: len(entries),
		SignalCounts: SignalCounts{
			ExcludedProvider:         tallies[model.SignalExcludedProvider],
			BillingOutlier:           tallies[model.SignalBillingOutlier],
			RapidEscalation:          tallies[model.SignalRapidEscalation],
			WorkforceImpossibility:   tallies[model.SignalWorkforceImpossibility],
			SharedOfficial:           tallies[model.SignalSharedOfficial],
			GeographicImplausibility: tallies[model.SignalGeographicImplausibility],
		},
		FlaggedProviders: entries,
	}
}

func buildProviderEntry(f *model.Finding) ProviderEntry {
	return ProviderEntry{
		NPI:                       f.NPI,
		ProviderName:              f.ProviderName,
		EntityType:                f.EntityType,
		TaxonomyCode:              f.TaxonomyCode,
		State:                     f.State,
		EnumerationDate:           f.EnumerationDate,
		TotalPaidAllTime:          f.LifetimePaid,
		TotalClaimsAllTime:        f.LifetimeClaims,
		TotalBeneficiariesAllTime: f.LifetimeBenes,
		Signals:                   f.Flags,
		EstimatedOverpaymentUSD:   f.EstimatedOverpayment,
		FCARelevance:              buildFCARelevance(f),
	}
}

// Encode renders the report as indented JSON with a trailing newline.
func (r *Report) Encode() ([]byte, error) {
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(buf, '\n'), nil
}

// WriteFile encodes the report and writes it to path atomically enough
// for a batch tool: full encode first, single write after.
func (r *Report) WriteFile(path string) error {
	buf, err := r.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
