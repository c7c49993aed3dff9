package dataset

import (
	"sort"
	"time"

	"github.com/gyeh/fraudscan/internal/model"
)

// MonthTotals is the per-(NPI, year-month) claim aggregate after the
// streaming reduce. Month is "YYYY-MM", which sorts chronologically.
type MonthTotals struct {
	Month  string
	Paid   model.Cents
	Claims int64
	Benes  int64
}

// HomeHealthMonth is the per-(NPI, year-month) aggregate restricted to
// home health HCPCS codes.
type HomeHealthMonth struct {
	Month  string
	Claims int64
	Benes  int64
	Codes  []string
}

// Lifetime is a provider's all-time billing totals.
type Lifetime struct {
	Paid   model.Cents
	Claims int64
	Benes  int64
}

// Provider is the registry view the detectors consume.
type Provider struct {
	NPI             string
	EntityType      string
	Name            string
	TaxonomyCode    string
	State           string
	EnumerationRaw  string
	EnumerationDate *time.Time
	OfficialName    string
}

// Exclusion is one parsed exclusion interval.
type Exclusion struct {
	Exclusion     time.Time
	Reinstatement *time.Time
	Type          string
}

// Tables is the shared read-only input the six detectors operate over.
// It holds only post-reduction state: per-provider and per-provider-month
// aggregates, never claim-level rows.
type Tables struct {
	Providers  map[string]Provider
	Exclusions map[string][]Exclusion

	// Monthly and HomeHealth are sorted chronologically per NPI.
	Monthly    map[string][]MonthTotals
	HomeHealth map[string][]HomeHealthMonth

	Lifetime map[string]Lifetime

	RowsRead int64
}

// ProvidersScanned counts the distinct valid NPIs seen in the claims table.
func (t *Tables) ProvidersScanned() int64 {
	return int64(len(t.Lifetime))
}

// BilledNPIs returns the NPIs with at least one claim, sorted.
func (t *Tables) BilledNPIs() []string {
	npis := make([]string, 0, len(t.Lifetime))
	for npi := range t.Lifetime {
		npis = append(npis, npi)
	}
	sort.Strings(npis)
	return npis
}
