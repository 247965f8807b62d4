package simindex

import (
	"context"

	chromem "github.com/philippgille/chromem-go"

	"github.com/rephind/rephind/pkg/errors"
)

// ChromemIndex serves similarity queries from an embedded chromem-go
// collection.  It is an alternative to BruteIndex for deployments that
// want the index persisted and queried by the vector store itself rather
// than snapshotted by hand.
type ChromemIndex struct {
	collection *chromem.Collection
	size       int
	corpusHash string
}

// chromem collections need an embedding func; vectors arrive precomputed,
// so the func must never run.
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New(errors.ErrCodeInternal, "index stores precomputed embeddings only")
}

// NewChromemIndex fills a collection with the given ids and vectors.
// persistPath may be empty for a purely in-memory index.
func NewChromemIndex(ctx context.Context, ids []string, vectors [][]float32, corpusHash, persistPath string) (*ChromemIndex, error) {
	if len(ids) != len(vectors) {
		return nil, errors.Newf(errors.ErrCodeIndexBuildFailed,
			"id/vector count mismatch: %d ids, %d vectors", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeIndexBuildFailed, "cannot build an empty index")
	}

	var (
		db  *chromem.DB
		err error
	)
	if persistPath != "" {
		db, err = chromem.NewPersistentDB(persistPath, false)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeIndexBuildFailed, "failed to open chromem store")
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection("patents", map[string]string{"corpus_hash": corpusHash}, noEmbedding)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIndexBuildFailed, "failed to create chromem collection")
	}

	docs := make([]chromem.Document, len(ids))
	for i := range ids {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Embedding: Normalize(vectors[i]),
		}
	}
	if err := collection.AddDocuments(ctx, docs, 1); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIndexBuildFailed, "failed to add documents to chromem collection")
	}

	return &ChromemIndex{collection: collection, size: len(ids), corpusHash: corpusHash}, nil
}

// Search queries the collection and maps cosine similarities to the
// 0..100 score scale.
func (idx *ChromemIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if k <= 0 || k > idx.size {
		k = idx.size
	}
	q := Normalize(append([]float32(nil), query...))
	results, err := idx.collection.QueryEmbedding(ctx, q, k, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "chromem query failed")
	}
	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{ID: r.ID, Score: ScoreFromCosine(float64(r.Similarity))}
	}
	return hits, nil
}

// Size returns the number of indexed vectors.
func (idx *ChromemIndex) Size() int { return idx.size }

// CorpusHash returns the content hash of the corpus the index was built
// against.
func (idx *ChromemIndex) CorpusHash() string { return idx.corpusHash }

var _ Searcher = (*ChromemIndex)(nil)
