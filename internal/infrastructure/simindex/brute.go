package simindex

import (
	"context"
	"sort"

	"github.com/rephind/rephind/pkg/errors"
)

// BruteIndex holds unit-normalized corpus embeddings in insertion order
// and answers queries by exhaustive dot-product scan.  It is immutable
// after construction and safe for concurrent queries.
type BruteIndex struct {
	ids        []string
	vectors    [][]float32
	dim        int
	corpusHash string
}

// NewBruteIndex builds an index over ids and their embedding vectors.
// Vectors are normalized in place; ids and vectors must be parallel.
func NewBruteIndex(ids []string, vectors [][]float32, corpusHash string) (*BruteIndex, error) {
	if len(ids) != len(vectors) {
		return nil, errors.Newf(errors.ErrCodeIndexBuildFailed,
			"id/vector count mismatch: %d ids, %d vectors", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeIndexBuildFailed, "cannot build an empty index")
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.Newf(errors.ErrCodeIndexBuildFailed,
				"vector %d has dimension %d, expected %d", i, len(v), dim)
		}
		Normalize(v)
	}
	return &BruteIndex{ids: ids, vectors: vectors, dim: dim, corpusHash: corpusHash}, nil
}

// Search scans every indexed vector and returns the top k hits ordered by
// descending score.  Equal scores keep corpus insertion order.
func (idx *BruteIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != idx.dim {
		return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
			"query dimension %d, index dimension %d", len(query), idx.dim)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || k > len(idx.ids) {
		k = len(idx.ids)
	}

	q := Normalize(append([]float32(nil), query...))
	hits := make([]Hit, len(idx.ids))
	for i, v := range idx.vectors {
		hits[i] = Hit{ID: idx.ids[i], Score: ScoreFromCosine(Dot(q, v))}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	return hits[:k], nil
}

// Size returns the number of indexed vectors.
func (idx *BruteIndex) Size() int { return len(idx.ids) }

// IDs returns the indexed ids in insertion order.  The returned slice
// must not be mutated.
func (idx *BruteIndex) IDs() []string { return idx.ids }

// Vectors returns the normalized embedding vectors parallel to IDs.  The
// returned slices must not be mutated.
func (idx *BruteIndex) Vectors() [][]float32 { return idx.vectors }

// Dimension returns the embedding width of the index.
func (idx *BruteIndex) Dimension() int { return idx.dim }

// CorpusHash returns the content hash of the corpus the index was built
// against.
func (idx *BruteIndex) CorpusHash() string { return idx.corpusHash }

var _ Searcher = (*BruteIndex)(nil)
