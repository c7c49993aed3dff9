package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/model"
	"github.com/gyeh/fraudscan/internal/normalize"
	"github.com/gyeh/fraudscan/internal/progress"
)

const readBatchSize = 1024

// ProgressFactory creates per-table scan trackers. Satisfied by
// progress.Manager and progress.NopManager.
type ProgressFactory interface {
	NewTracker(name string, total int64) progress.Tracker
}

// LoadTables streams the three normalized Parquet tables from dataDir and
// reduces them to the per-provider aggregates in Tables. Claims are never
// materialized row-wise; each table is a single bounded-memory pass.
func LoadTables(ctx context.Context, log zerolog.Logger, dataDir string, pf ProgressFactory) (*Tables, error) {
	start := time.Now()

	t := &Tables{
		Providers:  make(map[string]Provider),
		Exclusions: make(map[string][]Exclusion),
		Monthly:    make(map[string][]MonthTotals),
		HomeHealth: make(map[string][]HomeHealthMonth),
		Lifetime:   make(map[string]Lifetime),
	}

	if err := loadProviders(ctx, log, filepath.Join(dataDir, ProvidersFile), pf, t); err != nil {
		return nil, fmt.Errorf("load providers: %w", err)
	}
	if err := loadExclusions(ctx, log, filepath.Join(dataDir, ExclusionsFile), pf, t); err != nil {
		return nil, fmt.Errorf("load exclusions: %w", err)
	}
	if err := loadClaims(ctx, log, filepath.Join(dataDir, ClaimsFile), pf, t); err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}

	log.Info().
		Int("providers", len(t.Providers)).
		Int("excluded_npis", len(t.Exclusions)).
		Int64("claim_rows", t.RowsRead).
		Int64("billing_npis", t.ProvidersScanned()).
		Dur("duration", time.Since(start)).
		Msg("tables loaded")

	return t, nil
}

func loadProviders(ctx context.Context, log zerolog.Logger, path string, pf ProgressFactory, t *Tables) error {
	reader, err := Open[model.ProviderRow](path)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := ValidateProvidersSchema(reader.Schema()); err != nil {
		return err
	}

	tracker := pf.NewTracker("providers", reader.NumRows())
	defer tracker.Done()

	buf := make([]model.ProviderRow, readBatchSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			row := &buf[i]
			npi := normalize.NPI(row.NPI)
			if !normalize.ValidNPI(npi) {
				continue
			}

			p := Provider{
				NPI:             npi,
				EntityType:      strings.ToLower(strings.TrimSpace(row.EntityType)),
				TaxonomyCode:    deref(row.TaxonomyCode),
				State:           deref(row.State),
				EnumerationRaw:  deref(row.EnumerationDate),
				EnumerationDate: normalize.ParseOptionalDate(row.EnumerationDate),
			}
			if p.EntityType == model.EntityOrganization {
				p.Name = deref(row.OrganizationName)
				p.OfficialName = normalize.OfficialName(row.AuthorizedOfficialLastName, row.AuthorizedOfficialFirstName)
			} else {
				p.Name = strings.TrimSpace(deref(row.LastName) + " " + deref(row.FirstName))
			}
			t.Providers[npi] = p
		}
		tracker.Add(int64(n))
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

func loadExclusions(ctx context.Context, log zerolog.Logger, path string, pf ProgressFactory, t *Tables) error {
	reader, err := Open[model.ExclusionRow](path)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := ValidateExclusionsSchema(reader.Schema()); err != nil {
		return err
	}

	tracker := pf.NewTracker("exclusions", reader.NumRows())
	defer tracker.Done()

	var skipped int64
	buf := make([]model.ExclusionRow, readBatchSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			row := &buf[i]
			npi := normalize.NPI(row.NPI)
			if !normalize.ValidNPI(npi) {
				skipped++
				continue
			}
			excl := normalize.ParseDate(row.ExclusionDate)
			if excl == nil {
				// An exclusion without a date cannot match any claim-month.
				skipped++
				continue
			}
			t.Exclusions[npi] = append(t.Exclusions[npi], Exclusion{
				Exclusion:     *excl,
				Reinstatement: normalize.ParseOptionalDate(row.ReinstatementDate),
				Type:          deref(row.ExclusionType),
			})
		}
		tracker.Add(int64(n))
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	for npi := range t.Exclusions {
		recs := t.Exclusions[npi]
		sort.Slice(recs, func(i, j int) bool { return recs[i].Exclusion.Before(recs[j].Exclusion) })
	}
	if skipped > 0 {
		log.Warn().Int64("skipped", skipped).Msg("exclusion records without usable NPI or date")
	}
	return nil
}

type hhAgg struct {
	claims int64
	benes  int64
	codes  map[string]bool
}

func loadClaims(ctx context.Context, log zerolog.Logger, path string, pf ProgressFactory, t *Tables) error {
	reader, err := Open[model.ClaimRow](path)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := ValidateClaimsSchema(reader.Schema()); err != nil {
		return err
	}

	tracker := pf.NewTracker("claims", reader.NumRows())
	defer tracker.Done()

	monthly := make(map[string]map[string]*MonthTotals)
	hh := make(map[string]map[string]*hhAgg)
	var skipped int64

	buf := make([]model.ClaimRow, readBatchSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			row := &buf[i]
			t.RowsRead++

			npi := normalize.NPI(row.NPI)
			if !normalize.ValidNPI(npi) || row.Month < 1 || row.Month > 12 {
				skipped++
				continue
			}
			month := fmt.Sprintf("%04d-%02d", row.Year, row.Month)
			paid := normalize.DollarsToCents(row.TotalPaid)

			life := t.Lifetime[npi]
			life.Paid += paid
			life.Claims += row.ClaimCount
			life.Benes += row.BeneCount
			t.Lifetime[npi] = life

			byMonth := monthly[npi]
			if byMonth == nil {
				byMonth = make(map[string]*MonthTotals)
				monthly[npi] = byMonth
			}
			mt := byMonth[month]
			if mt == nil {
				mt = &MonthTotals{Month: month}
				byMonth[month] = mt
			}
			mt.Paid += paid
			mt.Claims += row.ClaimCount
			mt.Benes += row.BeneCount

			if row.HCPCSCode != nil && model.IsHomeHealthCode(*row.HCPCSCode) {
				byHH := hh[npi]
				if byHH == nil {
					byHH = make(map[string]*hhAgg)
					hh[npi] = byHH
				}
				agg := byHH[month]
				if agg == nil {
					agg = &hhAgg{codes: make(map[string]bool)}
					byHH[month] = agg
				}
				agg.claims += row.ClaimCount
				agg.benes += row.BeneCount
				agg.codes[*row.HCPCSCode] = true
			}
		}
		tracker.Add(int64(n))
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	// Materialize sorted per-NPI month sequences.
	for npi, byMonth := range monthly {
		months := make([]MonthTotals, 0, len(byMonth))
		for _, mt := range byMonth {
			months = append(months, *mt)
		}
		sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
		t.Monthly[npi] = months
	}
	for npi, byMonth := range hh {
		months := make([]HomeHealthMonth, 0, len(byMonth))
		for month, agg := range byMonth {
			codes := make([]string, 0, len(agg.codes))
			for c := range agg.codes {
				codes = append(codes, c)
			}
			sort.Strings(codes)
			months = append(months, HomeHealthMonth{Month: month, Claims: agg.claims, Benes: agg.benes, Codes: codes})
		}
		sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
		t.HomeHealth[npi] = months
	}

	if skipped > 0 {
		log.Warn().Int64("skipped", skipped).Msg("claim rows without usable NPI or month")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
