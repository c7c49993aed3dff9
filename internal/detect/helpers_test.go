package detect

import (
	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

var testLog = zerolog.Nop()

func testThresholds() config.Thresholds { return config.Defaults() }

func newTables() *dataset.Tables {
	return &dataset.Tables{
		Providers:  make(map[string]dataset.Provider),
		Exclusions: make(map[string][]dataset.Exclusion),
		Monthly:    make(map[string][]dataset.MonthTotals),
		HomeHealth: make(map[string][]dataset.HomeHealthMonth),
		Lifetime:   make(map[string]dataset.Lifetime),
	}
}

// addMonths installs a provider's monthly aggregates (already sorted by
// caller) and derives its lifetime totals the way the loader does.
func addMonths(t *dataset.Tables, npi string, months ...dataset.MonthTotals) {
	t.Monthly[npi] = months
	life := t.Lifetime[npi]
	for _, m := range months {
		life.Paid += m.Paid
		life.Claims += m.Claims
		life.Benes += m.Benes
	}
	t.Lifetime[npi] = life
}

func month(ym string, paid model.Cents, claims, benes int64) dataset.MonthTotals {
	return dataset.MonthTotals{Month: ym, Paid: paid, Claims: claims, Benes: benes}
}
