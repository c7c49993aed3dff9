package detect

import (
	"context"
	"testing"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

func hhMonth(ym string, claims, benes int64, codes ...string) dataset.HomeHealthMonth {
	return dataset.HomeHealthMonth{Month: ym, Claims: claims, Benes: benes, Codes: codes}
}

func TestGeographic_ClaimsAtMinimumNotFlagged(t *testing.T) {
	tb := newTables()
	// Exactly 100 claims never qualifies, no matter the ratio.
	tb.HomeHealth["6000000001"] = []dataset.HomeHealthMonth{
		hhMonth("2023-05", 100, 1, "T1019"),
	}

	flags, err := (&GeographicImplausibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 at exactly 100 claims", len(flags))
	}
}

func TestGeographic_LowRatioMedium(t *testing.T) {
	tb := newTables()
	tb.Providers["6000000002"] = dataset.Provider{
		NPI:        "6000000002",
		EntityType: model.EntityOrganization,
		State:      "LA",
	}
	// 10 / 101 = 0.099: just under the flag cutoff, above the high one.
	tb.HomeHealth["6000000002"] = []dataset.HomeHealthMonth{
		hhMonth("2023-05", 101, 10, "T1019"),
	}
	addMonths(tb, "6000000002", month("2023-05", 500000, 101, 10))

	flags, err := (&GeographicImplausibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	f := flags[0]
	if f.Severity != model.SeverityMedium {
		t.Errorf("severity = %s, want medium", f.Severity)
	}
	if f.Overpayment.Computed {
		t.Error("geographic overpayment must be the forensic review sentinel")
	}
	if got := f.Evidence["state"]; got != "LA" {
		t.Errorf("state = %v, want LA", got)
	}
	if got := f.Evidence["ratio"]; got != 0.099 {
		t.Errorf("ratio = %v, want 0.099", got)
	}
}

func TestGeographic_VeryLowRatioHigh(t *testing.T) {
	tb := newTables()
	// 5 / 101 = 0.0495 < 0.05.
	tb.HomeHealth["6000000003"] = []dataset.HomeHealthMonth{
		hhMonth("2023-05", 101, 5, "T1019", "S9122"),
	}

	flags, err := (&GeographicImplausibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	if flags[0].Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", flags[0].Severity)
	}
}

func TestGeographic_RatioAtCutoffNotFlagged(t *testing.T) {
	tb := newTables()
	// 20 / 200 = exactly 0.1.
	tb.HomeHealth["6000000004"] = []dataset.HomeHealthMonth{
		hhMonth("2023-05", 200, 20, "T1019"),
	}

	flags, err := (&GeographicImplausibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 at exactly the ratio cutoff", len(flags))
	}
}

func TestGeographic_WorstMonthCarriesEvidence(t *testing.T) {
	tb := newTables()
	tb.HomeHealth["6000000005"] = []dataset.HomeHealthMonth{
		hhMonth("2023-03", 150, 12, "T1019"), // 0.08
		hhMonth("2023-04", 300, 12, "T1019"), // 0.04, the worst
		hhMonth("2023-05", 120, 11, "T1019"), // ~0.0917
	}

	flags, err := (&GeographicImplausibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1 flag covering all months", len(flags))
	}
	f := flags[0]
	if got := f.Evidence["month"]; got != "2023-04" {
		t.Errorf("month = %v, want worst month 2023-04", got)
	}
	if got := f.Evidence["months_flagged"]; got != 3 {
		t.Errorf("months_flagged = %v, want 3", got)
	}
	if f.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high from the worst month", f.Severity)
	}
}

func TestGeographic_ZeroBeneficiariesSkipped(t *testing.T) {
	tb := newTables()
	tb.HomeHealth["6000000006"] = []dataset.HomeHealthMonth{
		hhMonth("2023-05", 500, 0, "T1019"),
	}

	flags, err := (&GeographicImplausibility{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 with zero beneficiaries", len(flags))
	}
}
