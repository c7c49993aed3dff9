package detect

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// RapidEscalation flags the bust-out pattern: a newly enumerated provider
// whose month-over-month billing growth spikes inside its first year of
// claim activity.
type RapidEscalation struct {
	T config.Thresholds
}

func (d *RapidEscalation) Signal() model.SignalType { return model.SignalRapidEscalation }

func (d *RapidEscalation) Detect(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, error) {
	var flags []model.Flag
	for _, npi := range t.BilledNPIs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, ok := t.Providers[npi]
		if !ok || p.EnumerationDate == nil {
			continue
		}
		months := t.Monthly[npi]

		// Eligible only when first claim activity starts within the
		// new-provider window after enumeration.
		first := monthStart(months[0].Month)
		enum := *p.EnumerationDate
		gap := (first.Year()-enum.Year())*12 + int(first.Month()-enum.Month())
		if gap < 0 || gap > d.T.NewProviderMonths {
			continue
		}

		// First N claim-bearing months in chronological order; gaps in
		// billing do not reset the window.
		window := months
		if len(window) > d.T.EscalationWindow {
			window = window[:d.T.EscalationWindow]
		}

		growth := make([]float64, len(window))
		defined := make([]bool, len(window))
		for i := 1; i < len(window); i++ {
			prev := window[i-1].Paid
			if prev <= 0 {
				continue // growth from a zero month is undefined
			}
			growth[i] = float64(window[i].Paid-prev) / float64(prev) * 100
			defined[i] = true
		}

		// Trailing 3-month rolling average, defined only when all three
		// underlying growth rates exist.
		var peak float64
		var peakSet bool
		for i := 2; i < len(window); i++ {
			if !defined[i] || !defined[i-1] || !defined[i-2] {
				continue
			}
			avg := (growth[i] + growth[i-1] + growth[i-2]) / 3
			if !peakSet || avg > peak {
				peak = avg
				peakSet = true
			}
		}
		if !peakSet || peak <= d.T.EscalationGrowthPct {
			continue
		}

		// Overpayment counts months whose underlying month-over-month
		// growth crossed the threshold, not the rolling average.
		var paidDuringGrowth model.Cents
		var growthMonths int
		progression := make(map[string]model.Cents, len(window))
		for i, m := range window {
			progression[m.Month] = m.Paid
			if defined[i] && growth[i] > d.T.EscalationGrowthPct {
				paidDuringGrowth += m.Paid
				growthMonths++
			}
		}

		severity := model.SeverityMedium
		if peak > d.T.EscalationHighPct {
			severity = model.SeverityHigh
		}

		flags = append(flags, model.Flag{
			Signal:   model.SignalRapidEscalation,
			NPI:      npi,
			Severity: severity,
			Evidence: model.Evidence{
				"enumeration_date":       enum.Format("2006-01-02"),
				"first_billing_month":    months[0].Month,
				"monthly_progression":    progression,
				"peak_growth_rate":       roundTo(peak, 1),
				"payments_during_growth": paidDuringGrowth,
				"months_over_threshold":  growthMonths,
			},
			Overpayment: model.ComputedOverpayment(paidDuringGrowth),
		})
	}
	return flags, nil
}
