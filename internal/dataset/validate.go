package dataset

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Required column sets per table. The engine assumes upstream ingestion
// produced the canonical schemas; a missing required column is a fatal
// contract violation, not something to guess around.
var (
	claimsRequired     = []string{"npi", "year", "month", "total_paid", "claim_count", "unique_beneficiary_count"}
	providersRequired  = []string{"npi", "entity_type"}
	exclusionsRequired = []string{"npi", "exclusion_date"}
)

// ValidateClaimsSchema checks the claims table schema.
func ValidateClaimsSchema(schema *parquet.Schema) error {
	return requireColumns(schema, "claims", claimsRequired)
}

// ValidateProvidersSchema checks the provider registry schema.
func ValidateProvidersSchema(schema *parquet.Schema) error {
	return requireColumns(schema, "providers", providersRequired)
}

// ValidateExclusionsSchema checks the exclusion table schema.
func ValidateExclusionsSchema(schema *parquet.Schema) error {
	return requireColumns(schema, "exclusions", exclusionsRequired)
}

func requireColumns(schema *parquet.Schema, table string, required []string) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range required {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s table missing required columns: %s", table, strings.Join(missing, ", "))
	}
	return nil
}
