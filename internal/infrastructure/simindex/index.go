// Package simindex implements the patent similarity index: an exhaustive
// cosine scan over unit-normalized corpus embeddings, with a gob snapshot
// keyed by the corpus content hash, plus an embedded chromem-go backend
// as an alternative store.
package simindex

import (
	"context"
	"math"
)

// Hit is one retrieval result: a corpus record identifier and its
// similarity score on the 0..100 scale.
type Hit struct {
	ID    string  `json:"patent_id"`
	Score float64 `json:"score"`
}

// Searcher is the query-side contract of a built index.
type Searcher interface {
	// Search returns the k nearest corpus entries for the query vector,
	// ordered by descending score with stable corpus order on ties.
	// k above the corpus size returns everything ranked.
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)

	// Size returns the number of indexed vectors.
	Size() int
}

// ScoreFromCosine maps a cosine similarity in [-1, 1] to the reported
// 0..100 scale.  Out-of-range cosines from float error are clamped.
func ScoreFromCosine(cos float64) float64 {
	score := (cos + 1) / 2 * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Normalize scales v to unit length in place and returns it.  The zero
// vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// Dot computes the inner product of two equal-length vectors in float64
// to keep the accumulation stable across large dimensions.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
