package detect

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// WorkforceImpossibility flags organizations whose peak-month claim count
// implies a claims-per-business-hour rate no real workforce delivers.
type WorkforceImpossibility struct {
	T config.Thresholds
}

func (d *WorkforceImpossibility) Signal() model.SignalType { return model.SignalWorkforceImpossibility }

func (d *WorkforceImpossibility) Detect(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, error) {
	var flags []model.Flag
	for _, npi := range t.BilledNPIs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, ok := t.Providers[npi]
		if !ok || p.EntityType != model.EntityOrganization {
			continue
		}

		// Peak claim-count month; earliest month wins a tie.
		var peak dataset.MonthTotals
		for _, m := range t.Monthly[npi] {
			if m.Claims > peak.Claims {
				peak = m
			}
		}
		if peak.Claims <= 0 {
			continue
		}

		rate := float64(peak.Claims) / float64(d.T.BusinessHours)
		if rate <= d.T.MaxClaimsPerHour {
			continue
		}

		// Overpayment: claims beyond monthly capacity, valued at the
		// peak month's average payment per claim.
		capacity := float64(d.T.BusinessHours) * d.T.MaxClaimsPerHour
		perClaim := float64(peak.Paid) / float64(peak.Claims)
		over, neg := clampCents((float64(peak.Claims) - capacity) * perClaim)
		if neg {
			log.Warn().Str("npi", npi).Msg("negative workforce overpayment clamped to zero")
		}

		flags = append(flags, model.Flag{
			Signal:   model.SignalWorkforceImpossibility,
			NPI:      npi,
			Severity: model.SeverityHigh,
			Evidence: model.Evidence{
				"peak_month":              peak.Month,
				"claims_count":            peak.Claims,
				"implied_claims_per_hour": roundTo(rate, 2),
				"peak_month_paid":         peak.Paid,
				"monthly_claim_capacity":  int64(capacity),
			},
			Overpayment: model.ComputedOverpayment(over),
		})
	}
	return flags, nil
}
