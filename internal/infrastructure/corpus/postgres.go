package corpus

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

// PostgresStore loads the corpus from a patents table at construction and
// serves the snapshot from memory.  The corpus is read-only at runtime,
// so there is no per-request querying; a corpus change means restarting
// with a fresh store and rebuilding the index.
type PostgresStore struct {
	*MemoryStore
}

// NewPostgresStore reads the full corpus from the pool.  Rows without
// claim text are skipped the same way the CSV loader skips them.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger logging.Logger) (*PostgresStore, error) {
	rows, err := pool.Query(ctx, `
		SELECT application_number, title, applicant, application_date,
		       country_code, product_group, claim_text, claim_keys
		FROM patents
		ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to query patents table")
	}
	defer rows.Close()

	var (
		records []patent.Record
		skipped int
	)
	for rows.Next() {
		var (
			id, title, applicant, date  string
			country, group, claim       string
			claimKeys                   []string
		)
		if err := rows.Scan(&id, &title, &applicant, &date, &country, &group, &claim, &claimKeys); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to scan patent row")
		}
		if claim == "" {
			skipped++
			continue
		}
		if country == "" {
			country = "KR"
		}
		records = append(records, patent.Record{
			ID:              id,
			Title:           title,
			Applicant:       applicant,
			ApplicationYear: patent.ParseApplicationYear(date),
			CountryCode:     country,
			ProductGroup:    group,
			ClaimText:       claim,
			ClaimKeys:       claimKeys,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to read patents table")
	}
	if skipped > 0 {
		logger.Warn("skipped corpus rows without claim text", logging.Int("skipped", skipped))
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeCorpusEmpty, "patents table contains no usable records")
	}

	mem, err := NewMemoryStore(records)
	if err != nil {
		return nil, err
	}
	logger.Info("corpus loaded from postgres",
		logging.Int("records", mem.Count()),
		logging.String("content_hash", mem.ContentHash()[:12]))
	return &PostgresStore{MemoryStore: mem}, nil
}

var _ patent.Store = (*PostgresStore)(nil)
