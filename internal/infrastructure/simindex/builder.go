package simindex

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/embedding"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/prometheus"
	"github.com/rephind/rephind/pkg/errors"
)

const (
	// buildBatchSize is the number of combined texts sent to the encoder
	// per batch during an index build.
	buildBatchSize = 64

	// buildConcurrency caps concurrent encode batches.
	buildConcurrency = 4
)

// Builder constructs a fresh BruteIndex from the corpus.  The build is
// fully staged: the live index is untouched until the new one is complete.
type Builder struct {
	store   patent.Store
	encoder embedding.Encoder
	logger  logging.Logger
	metrics *prometheus.Metrics
}

// NewBuilder wires a builder over the corpus store and encoder.  metrics
// may be nil.
func NewBuilder(store patent.Store, encoder embedding.Encoder, logger logging.Logger, metrics *prometheus.Metrics) *Builder {
	return &Builder{store: store, encoder: encoder, logger: logger.Named("index.builder"), metrics: metrics}
}

// Build embeds every corpus record's combined text and assembles the
// index.  Batches run concurrently; results land at fixed offsets so the
// index preserves corpus insertion order regardless of completion order.
func (b *Builder) Build(ctx context.Context) (*BruteIndex, error) {
	start := time.Now()

	records, err := b.store.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIndexBuildFailed, "failed to load corpus for index build")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeCorpusEmpty, "corpus has no records to index")
	}

	ids := make([]string, len(records))
	texts := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
		texts[i] = r.CombinedText()
	}

	vectors := make([][]float32, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(buildConcurrency)
	for off := 0; off < len(texts); off += buildBatchSize {
		off := off
		end := off + buildBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		g.Go(func() error {
			vecs, err := b.encoder.EncodeBatch(gctx, texts[off:end])
			if err != nil {
				if b.metrics != nil {
					b.metrics.EncodeErrors.Inc()
				}
				return errors.Wrap(err, errors.ErrCodeIndexBuildFailed, "failed to encode corpus batch").
					WithDetail(fmt.Sprintf("offset=%d", off))
			}
			copy(vectors[off:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx, err := NewBruteIndex(ids, vectors, b.store.ContentHash())
	if err != nil {
		return nil, err
	}
	if b.metrics != nil {
		b.metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	}
	b.logger.Info("index built",
		logging.Int("records", idx.Size()),
		logging.Int("dimension", idx.Dimension()),
		logging.Duration("elapsed", time.Since(start)))
	return idx, nil
}
