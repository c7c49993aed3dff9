package detect

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// SharedOfficial flags shell networks: one authorized official controlling
// enough organization NPIs whose combined billing crosses the network
// threshold. Grouping is an exact-match equivalence class on the
// normalized official name; no transitive or fuzzy identity resolution is
// attempted, a known limitation of the method.
type SharedOfficial struct {
	T config.Thresholds
}

func (d *SharedOfficial) Signal() model.SignalType { return model.SignalSharedOfficial }

func (d *SharedOfficial) Detect(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, error) {
	groups := make(map[string][]string)
	npis := make([]string, 0, len(t.Providers))
	for npi := range t.Providers {
		npis = append(npis, npi)
	}
	sort.Strings(npis)
	for _, npi := range npis {
		p := t.Providers[npi]
		if p.EntityType != model.EntityOrganization || p.OfficialName == "" {
			continue
		}
		groups[p.OfficialName] = append(groups[p.OfficialName], npi)
	}

	officials := make([]string, 0, len(groups))
	for name := range groups {
		officials = append(officials, name)
	}
	sort.Strings(officials)

	combinedFloor := usdToCents(d.T.NetworkCombinedUSD)
	highFloor := usdToCents(d.T.NetworkHighUSD)

	var flags []model.Flag
	for _, official := range officials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		members := groups[official]
		if len(members) < d.T.NetworkMinNPIs {
			continue
		}

		var combined model.Cents
		perNPI := make(map[string]model.Cents)
		for _, npi := range members {
			if paid := t.Lifetime[npi].Paid; paid > 0 {
				perNPI[npi] = paid
				combined += paid
			}
		}
		if combined <= combinedFloor {
			continue
		}

		severity := model.SeverityMedium
		if combined > highFloor {
			severity = model.SeverityHigh
		}

		// The group raises one logical flag, surfaced on every member NPI
		// with shared evidence. The combined overpayment cannot be
		// apportioned to individual NPIs without claim-level review.
		evidence := model.Evidence{
			"official_name":  official,
			"npi_count":      len(members),
			"member_npis":    members,
			"per_npi_totals": perNPI,
			"combined_total": combined,
		}
		for _, npi := range members {
			flags = append(flags, model.Flag{
				Signal:      model.SignalSharedOfficial,
				NPI:         npi,
				Severity:    severity,
				Evidence:    evidence,
				Overpayment: model.NotComputed(),
			})
		}
	}
	return flags, nil
}
