// Package store persists detection runs and findings to Postgres. The
// JSON report is the primary output; the store is an optional audit
// trail enabled by --dsn so investigators can query flag history across
// runs.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/fraudscan/internal/db"
	"github.com/gyeh/fraudscan/internal/model"
	embedsql "github.com/gyeh/fraudscan/internal/sql"
)

// Store writes run history and findings through a shared pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// BeginRun records the start of a detection run.
func (s *Store) BeginRun(ctx context.Context, runID uuid.UUID, startedAt time.Time, version, dataDir string) error {
	if _, err := s.pool.Exec(ctx, embedsql.InsertRun, runID, startedAt, version, dataDir); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the run complete with its final metrics.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, finishedAt time.Time, sum *model.RunSummary) error {
	_, err := s.pool.Exec(ctx, embedsql.FinishRun,
		runID, finishedAt,
		sum.ProvidersScanned, sum.ProvidersFlagged, sum.TotalFlags, sum.RowsRead,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// flagRow is one finding_flags row streamed through COPY.
type flagRow struct {
	runID       uuid.UUID
	npi         string
	signal      model.SignalType
	severity    model.Severity
	evidence    []byte
	overpayment *int64
}

func (r *flagRow) CopyValues() []any {
	return []any{r.runID, r.npi, string(r.signal), string(r.severity), r.evidence, r.overpayment}
}

var flagColumns = []string{"run_id", "npi", "signal_type", "severity", "evidence", "overpayment_cents"}

// SaveFindings batches the per-provider findings and COPY-loads their
// flags. Returns the number of flag rows written.
func (s *Store) SaveFindings(ctx context.Context, log zerolog.Logger, runID uuid.UUID, findings []model.Finding) (int64, error) {
	start := time.Now()

	batch := &pgx.Batch{}
	for i := range findings {
		f := &findings[i]
		batch.Queue(embedsql.InsertFinding,
			runID, f.NPI, f.ProviderName, f.EntityType, f.TaxonomyCode, f.State,
			f.EnumerationDate, int64(f.LifetimePaid), f.LifetimeClaims, f.LifetimeBenes,
			string(f.MaxSeverity()), int64(f.EstimatedOverpayment),
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert findings: %w", err)
	}

	// The producer selects on copyCtx so that a COPY aborted server-side
	// unblocks it; otherwise it could sit on a full channel forever while
	// we wait on errCh below.
	copyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan *flagRow, 256)
	errCh := make(chan error, 1)

	// Producer goroutine: findings → flag rows → channel
	go func() {
		defer close(ch)
		for i := range findings {
			f := &findings[i]
			for _, fl := range f.Flags {
				evidence, err := json.Marshal(fl.Evidence)
				if err != nil {
					errCh <- fmt.Errorf("marshal evidence npi=%s signal=%s: %w", f.NPI, fl.Signal, err)
					return
				}
				row := &flagRow{
					runID:    runID,
					npi:      f.NPI,
					signal:   fl.Signal,
					severity: fl.Severity,
					evidence: evidence,
				}
				if fl.Overpayment.Computed {
					cents := int64(fl.Overpayment.Cents)
					row.overpayment = &cents
				}
				select {
				case ch <- row:
				case <-copyCtx.Done():
					errCh <- copyCtx.Err()
					return
				}
			}
		}
		errCh <- nil
	}()

	source := db.NewChannelSource(ch)
	rowsCopied, copyErr := s.pool.CopyFrom(copyCtx,
		pgx.Identifier{"finding_flags"},
		flagColumns,
		source,
	)

	cancel()
	prodErr := <-errCh
	if copyErr != nil {
		return 0, fmt.Errorf("flag copy: %w", copyErr)
	}
	if prodErr != nil {
		return 0, fmt.Errorf("flag producer: %w", prodErr)
	}

	log.Info().
		Int("findings", len(findings)).
		Int64("flags_copied", rowsCopied).
		Str("duration", time.Since(start).String()).
		Msg("findings persisted")

	return rowsCopied, nil
}
