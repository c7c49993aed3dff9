package detect

import (
	"context"
	"testing"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

func newOrg(tb *dataset.Tables, npi, name string, months ...dataset.MonthTotals) {
	tb.Providers[npi] = dataset.Provider{
		NPI:        npi,
		EntityType: model.EntityOrganization,
		Name:       name,
	}
	addMonths(tb, npi, months...)
}

func TestWorkforce_RateAtCutoffNotFlagged(t *testing.T) {
	tb := newTables()
	// 1056 claims / 176 hours = exactly 6.0 claims per hour.
	newOrg(tb, "4000000001", "AT CAPACITY LLC", month("2023-03", 5_280_000, 1056, 400))

	flags, err := (&WorkforceImpossibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 at exactly 6.0 claims/hour", len(flags))
	}
}

func TestWorkforce_AboveCutoffFlaggedWithOverpayment(t *testing.T) {
	tb := newTables()
	// One claim beyond capacity still produces a positive overpayment.
	newOrg(tb, "4000000002", "OVER CAPACITY LLC", month("2023-03", 1_057_000, 1057, 400))

	flags, err := (&WorkforceImpossibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	f := flags[0]
	if f.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", f.Severity)
	}
	// Excess of 1 claim at 1000 cents per claim.
	if !f.Overpayment.Computed || f.Overpayment.Cents != 1000 {
		t.Errorf("overpayment = %+v, want computed 1000 cents", f.Overpayment)
	}
	if got := f.Evidence["implied_claims_per_hour"]; got != 6.01 {
		t.Errorf("implied_claims_per_hour = %v, want 6.01", got)
	}
	if got := f.Evidence["monthly_claim_capacity"]; got != int64(1056) {
		t.Errorf("monthly_claim_capacity = %v, want 1056", got)
	}
}

func TestWorkforce_PeakMonthDrivesEvidence(t *testing.T) {
	tb := newTables()
	newOrg(tb, "4000000003", "SPIKE LLC",
		month("2023-01", 100000, 300, 100),
		month("2023-02", 2_000_000, 2000, 300),
		month("2023-03", 120000, 350, 110),
	)

	flags, err := (&WorkforceImpossibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	if got := flags[0].Evidence["peak_month"]; got != "2023-02" {
		t.Errorf("peak_month = %v, want 2023-02", got)
	}
	if got := flags[0].Evidence["claims_count"]; got != int64(2000) {
		t.Errorf("claims_count = %v, want 2000", got)
	}
}

func TestWorkforce_IndividualsNeverFlagged(t *testing.T) {
	tb := newTables()
	tb.Providers["4000000004"] = dataset.Provider{NPI: "4000000004", EntityType: model.EntityIndividual}
	addMonths(tb, "4000000004", month("2023-02", 2_000_000, 5000, 300))

	flags, err := (&WorkforceImpossibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 for individual provider", len(flags))
	}
}
