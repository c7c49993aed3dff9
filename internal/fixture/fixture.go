// Package fixture builds small synthetic datasets with known billing
// patterns, one per fraud signal, plus a clean peer cohort. Used by the
// mkfixture command and the package tests.
package fixture

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/model"
)

// Dataset is an in-memory rendition of the three input tables.
type Dataset struct {
	Claims     []model.ClaimRow
	Providers  []model.ProviderRow
	Exclusions []model.ExclusionRow
}

// Well-known NPIs for the embedded fraud patterns, so tests can assert
// on specific providers.
const (
	NPIOutlier      = "1000000013"
	NPIExcluded     = "1000000020"
	NPIEscalation   = "1000000030"
	NPIWorkforce    = "1000000040"
	NPIHomeHealth   = "1000000060"
	OfficialNetwork = "SMITH, JOHN"
)

// NetworkNPIs are the organization NPIs controlled by the shared
// authorized official.
var NetworkNPIs = []string{
	"1000000050", "1000000051", "1000000052", "1000000053", "1000000054",
}

const (
	cohortTaxonomy = "207R00000X" // internal medicine
	cohortState    = "OH"
	hhTaxonomy     = "251E00000X" // home health agency
)

func strPtr(s string) *string { return &s }

// Generate builds the synthetic dataset. The seed only jitters the clean
// cohort's amounts; the fraud patterns are fixed.
func Generate(seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	d := &Dataset{}

	d.addCleanCohort(rng)
	d.addOutlier()
	d.addExcluded()
	d.addEscalation()
	d.addWorkforce()
	d.addNetwork()
	d.addHomeHealth()

	return d
}

func (d *Dataset) addIndividual(npi, last, first, taxonomy, state, enumerated string) {
	d.Providers = append(d.Providers, model.ProviderRow{
		NPI:             npi,
		EntityType:      model.EntityIndividual,
		LastName:        strPtr(last),
		FirstName:       strPtr(first),
		TaxonomyCode:    strPtr(taxonomy),
		State:           strPtr(state),
		EnumerationDate: strPtr(enumerated),
	})
}

func (d *Dataset) addOrganization(npi, name, taxonomy, state, enumerated, officialLast, officialFirst string) {
	d.Providers = append(d.Providers, model.ProviderRow{
		NPI:                         npi,
		EntityType:                  model.EntityOrganization,
		OrganizationName:            strPtr(name),
		TaxonomyCode:                strPtr(taxonomy),
		State:                       strPtr(state),
		EnumerationDate:             strPtr(enumerated),
		AuthorizedOfficialLastName:  strPtr(officialLast),
		AuthorizedOfficialFirstName: strPtr(officialFirst),
	})
}

func (d *Dataset) addClaim(npi string, year, month int, paid float64, claims, benes int64) {
	d.Claims = append(d.Claims, model.ClaimRow{
		NPI:        npi,
		Year:       int32(year),
		Month:      int32(month),
		TotalPaid:  paid,
		ClaimCount: claims,
		BeneCount:  benes,
	})
}

// addCleanCohort creates twelve internists billing steady modest volume
// through 2023, anchoring the peer group for the outlier signal.
func (d *Dataset) addCleanCohort(rng *rand.Rand) {
	for i := 1; i <= 12; i++ {
		npi := fmt.Sprintf("10000000%02d", i)
		d.addIndividual(npi, fmt.Sprintf("DOE%02d", i), "JANE", cohortTaxonomy, cohortState, "2015-06-01")
		for m := 1; m <= 12; m++ {
			paid := 9000 + rng.Float64()*2000
			d.addClaim(npi, 2023, m, paid, 80, 60)
		}
	}
}

// addOutlier bills the same cohort at several times the peer median.
func (d *Dataset) addOutlier() {
	d.addIndividual(NPIOutlier, "VOLUME", "VICTOR", cohortTaxonomy, cohortState, "2014-03-15")
	for m := 1; m <= 12; m++ {
		d.addClaim(NPIOutlier, 2023, m, 60000, 90, 70)
	}
}

// addExcluded bills every month of H1 2023 after a December 2022
// exclusion with no reinstatement: six post-exclusion months at $1,000.
func (d *Dataset) addExcluded() {
	d.addIndividual(NPIExcluded, "BARRED", "BILL", cohortTaxonomy, "PA", "2010-01-20")
	for m := 1; m <= 6; m++ {
		d.addClaim(NPIExcluded, 2023, m, 1000, 10, 8)
	}
	d.Exclusions = append(d.Exclusions, model.ExclusionRow{
		NPI:           NPIExcluded,
		ExclusionDate: "2022-12-01",
		ExclusionType: strPtr("1128b4"),
	})
}

// addEscalation enumerates in January 2023 and ramps billing far past
// the sustained-growth cutoff within the first year.
func (d *Dataset) addEscalation() {
	d.addIndividual(NPIEscalation, "ROCKET", "RITA", cohortTaxonomy, "FL", "2023-01-02")
	ramp := []float64{1000, 1500, 6000, 40000, 95000, 110000, 120000, 125000}
	for i, paid := range ramp {
		d.addClaim(NPIEscalation, 2023, 2+i, paid, 50, 40)
	}
}

// addWorkforce gives an organization a peak month far beyond plausible
// staff capacity.
func (d *Dataset) addWorkforce() {
	d.addOrganization(NPIWorkforce, "BUSY CLINIC LLC", "261QM1300X", "TX", "2018-09-10", "MANAGER", "MIKE")
	d.addClaim(NPIWorkforce, 2023, 3, 150000, 400, 200)
	d.addClaim(NPIWorkforce, 2023, 4, 900000, 2000, 300)
	d.addClaim(NPIWorkforce, 2023, 5, 140000, 380, 190)
}

// addNetwork creates five organizations under one authorized official
// with combined billing past the high-severity cutoff.
func (d *Dataset) addNetwork() {
	for i, npi := range NetworkNPIs {
		d.addOrganization(npi, fmt.Sprintf("SMITH HOLDINGS %d LLC", i+1), "261QM1300X", "NV", "2019-04-01", "SMITH", "JOHN")
		for m := 1; m <= 12; m++ {
			d.addClaim(npi, 2023, m, 101000, 60, 45)
		}
	}
}

// addHomeHealth bills personal care codes with a beneficiary ratio low
// enough for high severity.
func (d *Dataset) addHomeHealth() {
	d.addOrganization(NPIHomeHealth, "COMFORT HOME CARE", hhTaxonomy, "LA", "2017-11-05", "CARTER", "CAROL")
	code := "T1019"
	d.Claims = append(d.Claims, model.ClaimRow{
		NPI:        NPIHomeHealth,
		Year:       2023,
		Month:      5,
		TotalPaid:  45000,
		ClaimCount: 500,
		BeneCount:  20,
		HCPCSCode:  &code,
	})
	d.Claims = append(d.Claims, model.ClaimRow{
		NPI:        NPIHomeHealth,
		Year:       2023,
		Month:      6,
		TotalPaid:  12000,
		ClaimCount: 90,
		BeneCount:  70,
		HCPCSCode:  &code,
	})
}

// WriteDir writes the three Parquet tables into dir.
func (d *Dataset) WriteDir(dir string) error {
	if err := writeTable(filepath.Join(dir, dataset.ClaimsFile), d.Claims); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(dir, dataset.ProvidersFile), d.Providers); err != nil {
		return err
	}
	return writeTable(filepath.Join(dir, dataset.ExclusionsFile), d.Exclusions)
}

func writeTable[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	writer := goparquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
