package detect

import (
	"context"
	"testing"
	"time"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

func newProvider(tb *dataset.Tables, npi string, enumerated time.Time, months ...dataset.MonthTotals) {
	tb.Providers[npi] = dataset.Provider{
		NPI:             npi,
		EntityType:      model.EntityIndividual,
		EnumerationDate: &enumerated,
	}
	addMonths(tb, npi, months...)
}

func TestRapidEscalation_AvgAtCutoffNotFlagged(t *testing.T) {
	tb := newTables()
	// Growth is exactly 200% every month; the rolling average never
	// strictly exceeds the cutoff.
	newProvider(tb, "3000000001", date(2023, 1, 1),
		month("2023-01", 100, 5, 4),
		month("2023-02", 300, 5, 4),
		month("2023-03", 900, 5, 4),
		month("2023-04", 2700, 5, 4),
	)

	flags, err := (&RapidEscalation{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 at exactly 200%%", len(flags))
	}
}

func TestRapidEscalation_AboveCutoffMedium(t *testing.T) {
	tb := newTables()
	newProvider(tb, "3000000002", date(2023, 1, 1),
		month("2023-01", 100, 5, 4),
		month("2023-02", 300, 5, 4),
		month("2023-03", 900, 5, 4),
		month("2023-04", 2710, 5, 4),
	)

	flags, err := (&RapidEscalation{T: testThresholds()}).Detect(context.Background(), tb, testLog)
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
	// Only the last month's underlying growth crossed 200%.
	if got := f.Evidence["months_over_threshold"]; got != 1 {
		t.Errorf("months_over_threshold = %v, want 1", got)
	}
	if !f.Overpayment.Computed || f.Overpayment.Cents != 2710 {
		t.Errorf("overpayment = %+v, want computed 2710 cents", f.Overpayment)
	}
}

func TestRapidEscalation_SteepRampIsHigh(t *testing.T) {
	tb := newTables()
	// 600% growth every month: rolling average 600 > 500.
	newProvider(tb, "3000000003", date(2023, 1, 1),
		month("2023-01", 100, 5, 4),
		month("2023-02", 700, 5, 4),
		month("2023-03", 4900, 5, 4),
		month("2023-04", 34300, 5, 4),
	)

	flags, err := (&RapidEscalation{T: testThresholds()}).Detect(context.Background(), tb, testLog)
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
	if f.Overpayment.Cents != 700+4900+34300 {
		t.Errorf("overpayment = %v, want 39900", f.Overpayment.Cents)
	}
	if got := f.Evidence["peak_growth_rate"]; got != 600.0 {
		t.Errorf("peak_growth_rate = %v, want 600", got)
	}
}

func TestRapidEscalation_EstablishedProviderSkipped(t *testing.T) {
	tb := newTables()
	// Enumerated 36 months before first claim activity: outside the
	// new-provider window regardless of growth.
	newProvider(tb, "3000000004", date(2020, 1, 1),
		month("2023-01", 100, 5, 4),
		month("2023-02", 700, 5, 4),
		month("2023-03", 4900, 5, 4),
		month("2023-04", 34300, 5, 4),
	)

	flags, err := (&RapidEscalation{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 for established provider", len(flags))
	}
}

func TestRapidEscalation_GapExactlyAtWindowEligible(t *testing.T) {
	tb := newTables()
	// 24 whole months between enumeration and first billing month stays
	// inside the window.
	newProvider(tb, "3000000005", date(2021, 1, 15),
		month("2023-01", 100, 5, 4),
		month("2023-02", 700, 5, 4),
		month("2023-03", 4900, 5, 4),
		month("2023-04", 34300, 5, 4),
	)

	flags, err := (&RapidEscalation{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
}

func TestRapidEscalation_NoEnumerationDateSkipped(t *testing.T) {
	tb := newTables()
	tb.Providers["3000000006"] = dataset.Provider{NPI: "3000000006", EntityType: model.EntityIndividual}
	addMonths(tb, "3000000006",
		month("2023-01", 100, 5, 4),
		month("2023-02", 700, 5, 4),
		month("2023-03", 4900, 5, 4),
		month("2023-04", 34300, 5, 4),
	)

	flags, err := (&RapidEscalation{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 without enumeration date", len(flags))
	}
}

func TestRapidEscalation_ZeroMonthBreaksGrowth(t *testing.T) {
	tb := newTables()
	// A zero-paid month makes the following growth undefined, so no
	// three consecutive growths exist.
	newProvider(tb, "3000000007", date(2023, 1, 1),
		month("2023-01", 100, 5, 4),
		month("2023-02", 0, 0, 0),
		month("2023-03", 4900, 5, 4),
		month("2023-04", 34300, 5, 4),
	)

	flags, err := (&RapidEscalation{T: testThresholds()}).Detect(context.Background(), tb, testLog)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flags) != 0 {
		t.Fatalf("got %d flags, want 0 with undefined growth in the window", len(flags))
	}
}
