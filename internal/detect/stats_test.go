package detect

import (
	"math"
	"testing"

	"github.com/gyeh/fraudscan/internal/model"
)

func TestPercentileLinear_Interpolates(t *testing.T) {
	sorted := []model.Cents{10, 20, 30, 40}

	if got := PercentileLinear(sorted, 0.5); got != 25 {
		t.Errorf("p50 = %g, want 25", got)
	}
	if got := PercentileLinear(sorted, 0); got != 10 {
		t.Errorf("p0 = %g, want 10", got)
	}
	if got := PercentileLinear(sorted, 1); got != 40 {
		t.Errorf("p100 = %g, want 40", got)
	}

	// h = 0.99 * 3 = 2.97: between the 3rd and 4th order statistics.
	want := 30 + 0.97*10
	if got := PercentileLinear(sorted, 0.99); math.Abs(got-want) > 1e-9 {
		t.Errorf("p99 = %g, want %g", got, want)
	}
}

func TestPercentileLinear_Degenerate(t *testing.T) {
	if got := PercentileLinear(nil, 0.5); !math.IsNaN(got) {
		t.Errorf("empty input = %g, want NaN", got)
	}
	if got := PercentileLinear([]model.Cents{77}, 0.99); got != 77 {
		t.Errorf("single element = %g, want 77", got)
	}
}

func TestMedian_EvenOdd(t *testing.T) {
	if got := Median([]model.Cents{10, 20, 30}); got != 20 {
		t.Errorf("odd median = %g, want 20", got)
	}
	if got := Median([]model.Cents{10, 20, 30, 40}); got != 25 {
		t.Errorf("even median = %g, want 25", got)
	}
}

func TestRoundTo(t *testing.T) {
	if got := roundTo(5.0049, 2); got != 5.0 {
		t.Errorf("roundTo(5.0049, 2) = %g, want 5", got)
	}
	if got := roundTo(0.04995, 4); got != 0.05 {
		t.Errorf("roundTo(0.04995, 4) = %g, want 0.05", got)
	}
}

func TestClampCents(t *testing.T) {
	if got, neg := clampCents(-1); got != 0 || !neg {
		t.Errorf("clampCents(-1) = %d, %v; want 0, true", got, neg)
	}
	if got, neg := clampCents(149.6); got != 150 || neg {
		t.Errorf("clampCents(149.6) = %d, %v; want 150, false", got, neg)
	}
}

func TestUSDToCents(t *testing.T) {
	if got := usdToCents(1_000_000); got != 100_000_000 {
		t.Errorf("usdToCents(1e6) = %d, want 100000000", got)
	}
}
