package normalize

import (
	"math"

	"github.com/gyeh/fraudscan/internal/model"
)

// DollarsToCents converts a float64 dollar amount from Parquet into
// integer cents. Uses math.Round to avoid truncation bias.
func DollarsToCents(v float64) model.Cents {
	return model.Cents(math.Round(v * 100))
}
