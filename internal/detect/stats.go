package detect

import (
	"math"

	"github.com/gyeh/fraudscan/internal/model"
)

// PercentileLinear computes the q-th percentile (0..1) of sorted ascending
// cent values using linear interpolation between order statistics, the
// same rank-based method the methodology pins the outlier threshold to.
// The result is in fractional cents.
func PercentileLinear(sorted []model.Cents, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return float64(sorted[0])
	}
	h := q * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return float64(sorted[n-1])
	}
	frac := h - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}

// Median is the 50th percentile of sorted ascending cent values.
func Median(sorted []model.Cents) float64 {
	return PercentileLinear(sorted, 0.5)
}

// roundTo rounds v to the given number of decimal places, for evidence
// fields that mirror the report schema's fixed precision.
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// usdToCents converts a dollar threshold to integer cents.
func usdToCents(usd float64) model.Cents {
	return model.Cents(math.Round(usd * 100))
}

// clampCents floors a fractional-cent amount at zero and rounds to cents.
// Returns true when the input was negative, which indicates a logic or
// data error the caller should surface as a warning.
func clampCents(v float64) (model.Cents, bool) {
	if v < 0 {
		return 0, true
	}
	return model.Cents(math.Round(v)), false
}
