package detect

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/config"
	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// BillingOutlier flags providers whose lifetime paid exceeds the 99th
// percentile of their (taxonomy, state) peer cohort.
type BillingOutlier struct {
	T config.Thresholds
}

func (d *BillingOutlier) Signal() model.SignalType { return model.SignalBillingOutlier }

func (d *BillingOutlier) Detect(ctx context.Context, t *dataset.Tables, log zerolog.Logger) ([]model.Flag, error) {
	peers := BuildPeerGroups(t, d.T.PeerGroupMinSize)

	var flags []model.Flag
	for _, npi := range t.BilledNPIs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats, ok := peers[npi]
		if !ok {
			continue
		}
		total := float64(t.Lifetime[npi].Paid)
		if total <= stats.P99 {
			continue
		}
		if stats.Median <= 0 {
			// A cohort whose median spend is zero gives no usable ratio.
			log.Warn().Str("npi", npi).Str("taxonomy", stats.Taxonomy).Str("state", stats.State).
				Msg("skipping outlier check for zero-median peer group")
			continue
		}
		ratio := total / stats.Median

		// Ratio exactly at the cutoff stays medium; only strictly above
		// is high.
		severity := model.SeverityMedium
		if ratio > d.T.OutlierHighRatio {
			severity = model.SeverityHigh
		}

		over, neg := clampCents(total - stats.P99)
		if neg {
			log.Warn().Str("npi", npi).Msg("negative outlier overpayment clamped to zero")
		}

		flags = append(flags, model.Flag{
			Signal:   model.SignalBillingOutlier,
			NPI:      npi,
			Severity: severity,
			Evidence: model.Evidence{
				"total_paid":           t.Lifetime[npi].Paid,
				"peer_median":          model.Cents(math.Round(stats.Median)),
				"p99_threshold":        model.Cents(math.Round(stats.P99)),
				"ratio_to_peer_median": roundTo(ratio, 2),
				"taxonomy":             stats.Taxonomy,
				"state":                stats.State,
				"peer_count":           stats.Members,
			},
			Overpayment: model.ComputedOverpayment(over),
		})
	}
	return flags, nil
}
