package dataset_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/dataset"
	"github.com/gyeh/fraudscan/internal/fixture"
	"github.com/gyeh/fraudscan/internal/model"
	"github.com/gyeh/fraudscan/internal/progress"
)

var testLog = zerolog.Nop()

func loadFixture(t *testing.T) *dataset.Tables {
	t.Helper()
	dir := t.TempDir()
	if err := fixture.Generate(1).WriteDir(dir); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	tables, err := dataset.LoadTables(context.Background(), testLog, dir, progress.NopManager{})
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	return tables
}

func TestLoadTables_FixtureRoundTrip(t *testing.T) {
	tables := loadFixture(t)

	if len(tables.Providers) != 22 {
		t.Errorf("providers = %d, want 22", len(tables.Providers))
	}
	if got := tables.ProvidersScanned(); got != 22 {
		t.Errorf("providers scanned = %d, want 22", got)
	}
	if len(tables.Exclusions) != 1 {
		t.Errorf("excluded NPIs = %d, want 1", len(tables.Exclusions))
	}

	// Monthly sequences come out sorted chronologically.
	for npi, months := range tables.Monthly {
		if !sort.SliceIsSorted(months, func(i, j int) bool { return months[i].Month < months[j].Month }) {
			t.Errorf("months for %s not sorted", npi)
		}
	}

	// The home health provider has its claim months reduced under the
	// billed code.
	hh := tables.HomeHealth[fixture.NPIHomeHealth]
	if len(hh) != 2 {
		t.Fatalf("home health months = %d, want 2", len(hh))
	}
	if hh[0].Month != "2023-05" || hh[0].Claims != 500 || hh[0].Benes != 20 {
		t.Errorf("unexpected first home health month: %+v", hh[0])
	}
	if len(hh[0].Codes) != 1 || hh[0].Codes[0] != "T1019" {
		t.Errorf("codes = %v, want [T1019]", hh[0].Codes)
	}

	// Dollars convert to cents during the load.
	life := tables.Lifetime[fixture.NPIExcluded]
	if life.Paid != 600000 {
		t.Errorf("excluded provider lifetime paid = %d cents, want 600000", life.Paid)
	}
	if life.Claims != 60 {
		t.Errorf("excluded provider lifetime claims = %d, want 60", life.Claims)
	}
}

func TestLoadTables_SkipsUnusableRows(t *testing.T) {
	dir := t.TempDir()
	d := &fixture.Dataset{}
	d.Claims = []model.ClaimRow{
		{NPI: "1234567890", Year: 2023, Month: 1, TotalPaid: 100, ClaimCount: 5, BeneCount: 4},
		{NPI: "0000000000", Year: 2023, Month: 1, TotalPaid: 900, ClaimCount: 5, BeneCount: 4}, // placeholder NPI
		{NPI: "1234567890", Year: 2023, Month: 13, TotalPaid: 900, ClaimCount: 5, BeneCount: 4}, // impossible month
		{NPI: "42", Year: 2023, Month: 2, TotalPaid: 50, ClaimCount: 1, BeneCount: 1},           // short NPI, zero-padded
	}
	d.Providers = []model.ProviderRow{
		{NPI: "1234567890", EntityType: model.EntityIndividual},
	}
	d.Exclusions = []model.ExclusionRow{
		{NPI: "1234567890", ExclusionDate: "not-a-date"}, // dateless, dropped
	}
	if err := d.WriteDir(dir); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	tables, err := dataset.LoadTables(context.Background(), testLog, dir, progress.NopManager{})
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}

	if tables.RowsRead != 4 {
		t.Errorf("rows read = %d, want 4", tables.RowsRead)
	}
	if got := tables.ProvidersScanned(); got != 2 {
		t.Errorf("providers scanned = %d, want 2 (bad rows skipped, short NPI padded)", got)
	}
	if _, ok := tables.Lifetime["0000000042"]; !ok {
		t.Error("short NPI should be zero-padded to 0000000042")
	}
	if tables.Lifetime["1234567890"].Paid != 10000 {
		t.Errorf("paid = %d, want 10000 cents from the single valid row", tables.Lifetime["1234567890"].Paid)
	}
	if len(tables.Exclusions) != 0 {
		t.Errorf("dateless exclusion should be dropped, got %v", tables.Exclusions)
	}
}

func TestLoadTables_MissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := dataset.LoadTables(context.Background(), testLog, dir, progress.NopManager{}); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}

func TestReaderSchema_ReflectsFileColumns(t *testing.T) {
	dir := t.TempDir()

	type truncatedRow struct {
		NPI  string `parquet:"npi"`
		Year int32  `parquet:"year"`
	}
	path := filepath.Join(dir, dataset.ClaimsFile)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w := goparquet.NewGenericWriter[truncatedRow](f)
	if _, err := w.Write([]truncatedRow{{NPI: "1234567890", Year: 2023}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	f.Close()

	// Opened with the full claim record type, the reader must still report
	// the two columns actually present in the file.
	reader, err := dataset.Open[model.ClaimRow](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	fields := reader.Schema().Fields()
	if len(fields) != 2 {
		names := make([]string, len(fields))
		for i, fld := range fields {
			names[i] = fld.Name()
		}
		t.Fatalf("file schema fields = %v, want [npi year]", names)
	}

	err = dataset.ValidateClaimsSchema(reader.Schema())
	if err == nil {
		t.Fatal("expected validation error for file missing claim columns")
	}
	if !strings.Contains(err.Error(), "total_paid") {
		t.Errorf("error should name the missing columns, got %q", err)
	}
}

func TestLoadTables_SchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := fixture.Generate(1).WriteDir(dir); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	// Overwrite the claims table with a file missing required columns.
	type truncatedRow struct {
		NPI  string `parquet:"npi"`
		Year int32  `parquet:"year"`
	}
	path := filepath.Join(dir, dataset.ClaimsFile)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w := goparquet.NewGenericWriter[truncatedRow](f)
	if _, err := w.Write([]truncatedRow{{NPI: "1234567890", Year: 2023}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	f.Close()

	if _, err := dataset.LoadTables(context.Background(), testLog, dir, progress.NopManager{}); err == nil {
		t.Fatal("expected schema validation error for truncated claims table")
	}
}
