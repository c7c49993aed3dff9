package detect

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// GeographicImplausibility flags home health providers whose monthly
// unique-beneficiary-to-claim ratio is too low to reflect real home
// visits: many claims repeatedly billed against very few patients.
type GeographicImplausibility struct {
	T config.Thresholds
}

func (d *GeographicImplausibility) Signal() model.SignalType {
	return model.SignalGeographicImplausibility
}

func (d *GeographicImplausibility) Detect(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, error) {
	npis := make([]string, 0, len(t.HomeHealth))
	for npi := range t.HomeHealth {
		npis = append(npis, npi)
	}
	sort.Strings(npis)

	var flags []model.Flag
	for _, npi := range npis {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Worst (lowest-ratio) qualifying month carries the evidence;
		// iterating chronologically makes the earliest month win ties.
		var worst dataset.HomeHealthMonth
		var worstRatio float64
		var matched int
		for _, m := range t.HomeHealth[npi] {
			if m.Claims <= d.T.HomeHealthMinClaims || m.Benes <= 0 {
				continue
			}
			ratio := float64(m.Benes) / float64(m.Claims)
			if ratio >= d.T.HomeHealthRatio {
				continue
			}
			matched++
			if matched == 1 || ratio < worstRatio {
				worst = m
				worstRatio = ratio
			}
		}
		if matched == 0 {
			continue
		}

		severity := model.SeverityMedium
		if worstRatio < d.T.HomeHealthHighRatio {
			severity = model.SeverityHigh
		}

		state := ""
		if p, ok := t.Providers[npi]; ok {
			state = p.State
		}

		flags = append(flags, model.Flag{
			Signal:   model.SignalGeographicImplausibility,
			NPI:      npi,
			Severity: severity,
			Evidence: model.Evidence{
				"state":                state,
				"month":                worst.Month,
				"claims":               worst.Claims,
				"unique_beneficiaries": worst.Benes,
				"ratio":                roundTo(worstRatio, 4),
				"flagged_codes":        worst.Codes,
				"months_flagged":       matched,
			},
			Overpayment: model.NotComputed(),
		})
	}
	return flags, nil
}
