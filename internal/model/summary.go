package model

import "time"

// RunSummary captures metrics from a single detection run.
type RunSummary struct {
	RunID            string
	DataDir          string
	OutputPath       string
	ProvidersScanned int64
	ProvidersFlagged int
	TotalFlags       int
	SignalTallies    map[SignalType]int
	RowsRead         int64
	DurationLoad     time.Duration
	DurationDetect   time.Duration
	DurationReport   time.Duration
	DurationTotal    time.Duration
}
