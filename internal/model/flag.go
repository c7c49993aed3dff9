package model

// Evidence is the signal-specific key/value detail attached to a flag.
// encoding/json renders map keys sorted, which keeps reports reproducible.
type Evidence map[string]any

// Flag is a single fraud signal raised against one provider.
type Flag struct {
	Signal      SignalType  `json:"signal_type"`
	NPI         string      `json:"-"`
	Severity    Severity    `json:"severity"`
	Evidence    Evidence    `json:"evidence"`
	Overpayment Overpayment `json:"estimated_overpayment_usd"`
}

// Finding groups all flags raised against a single provider, enriched
// with registry metadata and lifetime billing totals. One Finding per
// flagged NPI; providers with zero flags produce no Finding.
type Finding struct {
	NPI             string
	ProviderName    string
	EntityType      string
	TaxonomyCode    string
	State           string
	EnumerationDate string

	LifetimePaid   Cents
	LifetimeClaims int64
	LifetimeBenes  int64

	Flags []Flag

	// EstimatedOverpayment sums the computed flag overpayments only;
	// not-computed sentinels are skipped, never counted as zero dollars
	// of evidence.
	EstimatedOverpayment Cents
}

// MaxSeverity returns the strongest severity carried by the finding's flags.
func (f *Finding) MaxSeverity() Severity {
	var best Severity
	for _, fl := range f.Flags {
		if fl.Severity.Rank() > best.Rank() {
			best = fl.Severity
		}
	}
	return best
}
