package detect

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// ExcludedBilling flags providers that kept billing while excluded.
// There is no minimum dollar or volume threshold: a single claim-month
// inside an active exclusion interval triggers a critical flag.
type ExcludedBilling struct{}

func (d *ExcludedBilling) Signal() model.SignalType { return model.SignalExcludedProvider }

func (d *ExcludedBilling) Detect(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, error) {
	npis := make([]string, 0, len(t.Exclusions))
	for npi := range t.Exclusions {
		npis = append(npis, npi)
	}
	sort.Strings(npis)

	var flags []model.Flag
	for _, npi := range npis {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		months, ok := t.Monthly[npi]
		if !ok {
			continue
		}
		excls := t.Exclusions[npi]

		var paid model.Cents
		var claims int64
		var first, last string
		var matched int
		for _, m := range months {
			if !excludedAsOf(excls, m.Month) {
				continue
			}
			if matched == 0 {
				first = m.Month
			}
			last = m.Month
			matched++
			paid += m.Paid
			claims += m.Claims
		}
		if matched == 0 {
			continue
		}

		flags = append(flags, model.Flag{
			Signal:   model.SignalExcludedProvider,
			NPI:      npi,
			Severity: model.SeverityCritical,
			Evidence: model.Evidence{
				"exclusion_date":          excls[0].Exclusion.Format("2006-01-02"),
				"exclusion_type":          excls[0].Type,
				"post_exclusion_paid":     paid,
				"post_exclusion_claims":   claims,
				"post_exclusion_months":   matched,
				"first_post_excl_billing": first,
				"last_post_excl_billing":  last,
			},
			Overpayment: model.ComputedOverpayment(paid),
		})
	}
	return flags, nil
}

// excludedAsOf reports whether any exclusion interval is active on the
// first day of the claim month: exclusion_date <= D and (no reinstatement
// or reinstatement_date > D).
func excludedAsOf(excls []dataset.Exclusion, month string) bool {
	d := monthStart(month)
	for _, e := range excls {
		if e.Exclusion.After(d) {
			continue
		}
		if e.Reinstatement == nil || e.Reinstatement.After(d) {
			return true
		}
	}
	return false
}
