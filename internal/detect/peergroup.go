package detect

import (
	"sort"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// PeerStats holds the percentile statistics for one (taxonomy, state)
// cohort. Thresholds are fractional cents from linear interpolation.
type PeerStats struct {
	Taxonomy string
	State    string
	Members  int
	P99      float64
	Median   float64
}

// BuildPeerGroups partitions billing providers into (taxonomy, state)
// cohorts and computes lifetime-paid percentile stats for cohorts of at
// least minSize members. Smaller cohorts are excluded entirely: their
// members get no entry and can never be evaluated as outliers. Providers
// with an empty taxonomy code or state have no clinical cohort and are
// likewise excluded.
func BuildPeerGroups(t *dataset.Tables, minSize int) map[string]*PeerStats {
	type group struct {
		stats PeerStats
		paid  []model.Cents
		npis  []string
	}
	groups := make(map[string]*group)

	for _, npi := range t.BilledNPIs() {
		p, ok := t.Providers[npi]
		if !ok || p.TaxonomyCode == "" || p.State == "" {
			continue
		}
		key := p.TaxonomyCode + "\x00" + p.State
		g := groups[key]
		if g == nil {
			g = &group{stats: PeerStats{Taxonomy: p.TaxonomyCode, State: p.State}}
			groups[key] = g
		}
		g.paid = append(g.paid, t.Lifetime[npi].Paid)
		g.npis = append(g.npis, npi)
	}

	byNPI := make(map[string]*PeerStats)
	for _, g := range groups {
		if len(g.npis) < minSize {
			continue
		}
		sort.Slice(g.paid, func(i, j int) bool { return g.paid[i] < g.paid[j] })
		g.stats.Members = len(g.npis)
		g.stats.P99 = PercentileLinear(g.paid, 0.99)
		g.stats.Median = Median(g.paid)
		for _, npi := range g.npis {
			byNPI[npi] = &g.stats
		}
	}
	return byNPI
}
