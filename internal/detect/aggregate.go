package detect

import (
	"sort"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// BuildFindings groups flags by NPI into one Finding per flagged provider,
// enriched with registry metadata and lifetime billing totals. Providers
// with zero flags produce nothing. A provider legitimately carries flags
// of several signal types at once; nothing is suppressed or prioritized.
func BuildFindings(flags []model.Flag, t *dataset.Tables) []model.Finding {
	byNPI := make(map[string][]model.Flag)
	for _, f := range flags {
		byNPI[f.NPI] = append(byNPI[f.NPI], f)
	}

	npis := make([]string, 0, len(byNPI))
	for npi := range byNPI {
		npis = append(npis, npi)
	}
	sort.Strings(npis)

	findings := make([]model.Finding, 0, len(npis))
	for _, npi := range npis {
		npiFlags := byNPI[npi]
		sort.SliceStable(npiFlags, func(i, j int) bool {
			return npiFlags[i].Signal.Ordinal() < npiFlags[j].Signal.Ordinal()
		})

		f := model.Finding{
			NPI:          npi,
			ProviderName: "Unknown",
			EntityType:   "unknown",
			Flags:        npiFlags,
		}
		if p, ok := t.Providers[npi]; ok {
			if p.Name != "" {
				f.ProviderName = p.Name
			}
			f.EntityType = p.EntityType
			f.TaxonomyCode = p.TaxonomyCode
			f.State = p.State
			f.EnumerationDate = p.EnumerationRaw
		}
		life := t.Lifetime[npi]
		f.LifetimePaid = life.Paid
		f.LifetimeClaims = life.Claims
		f.LifetimeBenes = life.Benes

		// Sum only flags that computed a dollar amount; the forensic
		// review sentinel never contributes zero to the rollup.
		for _, fl := range npiFlags {
			if fl.Overpayment.Computed {
				f.EstimatedOverpayment += fl.Overpayment.Cents
			}
		}
		findings = append(findings, f)
	}
	return findings
}
