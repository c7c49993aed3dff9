package model

// The three normalized input tables. Upstream ingestion owns raw-file
// parsing and column mapping; these structs mirror the canonical Parquet
// schemas the engine consumes. Money fields are float64 dollars matching
// the Parquet representation and get converted to integer cents during
// the streaming load.

// ClaimRow is one (NPI, year-month) claim aggregate, optionally split by
// HCPCS code when the source retains procedure-level granularity.
type ClaimRow struct {
	NPI        string  `parquet:"npi"`
	Year       int32   `parquet:"year"`
	Month      int32   `parquet:"month"`
	TotalPaid  float64 `parquet:"total_paid"`
	ClaimCount int64   `parquet:"claim_count"`
	BeneCount  int64   `parquet:"unique_beneficiary_count"`
	HCPCSCode  *string `parquet:"hcpcs_code,optional"`
}

// ProviderRow is one NPPES registry record.
type ProviderRow struct {
	NPI              string  `parquet:"npi"`
	EntityType       string  `parquet:"entity_type"`
	OrganizationName *string `parquet:"organization_name,optional"`
	LastName         *string `parquet:"last_name,optional"`
	FirstName        *string `parquet:"first_name,optional"`
	TaxonomyCode     *string `parquet:"taxonomy_code,optional"`
	State            *string `parquet:"state,optional"`
	EnumerationDate  *string `parquet:"enumeration_date,optional"`

	AuthorizedOfficialLastName  *string `parquet:"authorized_official_last_name,optional"`
	AuthorizedOfficialFirstName *string `parquet:"authorized_official_first_name,optional"`
}

// Entity type values in the normalized provider table.
const (
	EntityIndividual   = "individual"
	EntityOrganization = "organization"
)

// ExclusionRow is one OIG LEIE exclusion record.
type ExclusionRow struct {
	NPI               string  `parquet:"npi"`
	ExclusionDate     string  `parquet:"exclusion_date"`
	ReinstatementDate *string `parquet:"reinstatement_date,optional"`
	ExclusionType     *string `parquet:"exclusion_type,optional"`
}
