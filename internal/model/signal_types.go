package model

// SignalType identifies one of the six fraud detection signals.
type SignalType string

const (
	SignalExcludedProvider         SignalType = "excluded_provider"
	SignalBillingOutlier           SignalType = "billing_outlier"
	SignalRapidEscalation          SignalType = "rapid_escalation"
	SignalWorkforceImpossibility   SignalType = "workforce_impossibility"
	SignalSharedOfficial           SignalType = "shared_official"
	SignalGeographicImplausibility SignalType = "geographic_implausibility"
)

// AllSignalTypes lists the signal types in canonical (report) order.
var AllSignalTypes = []SignalType{
	SignalExcludedProvider,
	SignalBillingOutlier,
	SignalRapidEscalation,
	SignalWorkforceImpossibility,
	SignalSharedOfficial,
	SignalGeographicImplausibility,
}

// Ordinal returns the 1-based position of the signal in canonical order,
// or 0 for an unknown signal type.
func (s SignalType) Ordinal() int {
	for i, st := range AllSignalTypes {
		if st == s {
			return i + 1
		}
	}
	return 0
}

// Severity classifies how strongly a flag supports a fraud referral.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities: critical > high > medium.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	}
	return 0
}
