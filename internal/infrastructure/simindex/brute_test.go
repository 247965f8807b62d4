package simindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rephind/rephind/pkg/errors"
)

func TestScoreFromCosine(t *testing.T) {
	assert.Equal(t, 100.0, ScoreFromCosine(1))
	assert.Equal(t, 50.0, ScoreFromCosine(0))
	assert.Equal(t, 0.0, ScoreFromCosine(-1))
	assert.Equal(t, 100.0, ScoreFromCosine(1.0000001), "float error is clamped")
	assert.Equal(t, 0.0, ScoreFromCosine(-1.0000001))
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestBruteIndexSearchRanking(t *testing.T) {
	idx, err := NewBruteIndex(
		[]string{"a", "b", "c"},
		[][]float32{
			{1, 0},
			{0, 1},
			{0.7071, 0.7071},
		},
		"hash",
	)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "a", hits[0].ID)
	assert.InDelta(t, 100, hits[0].Score, 1e-6)
	assert.Equal(t, "c", hits[1].ID)
	assert.InDelta(t, ScoreFromCosine(0.7071), hits[1].Score, 1e-3)
	assert.Equal(t, "b", hits[2].ID)
	assert.InDelta(t, 50, hits[2].Score, 1e-6)
}

func TestBruteIndexTiesKeepCorpusOrder(t *testing.T) {
	// Two identical vectors tie exactly; insertion order must hold.
	idx, err := NewBruteIndex(
		[]string{"first", "second", "other"},
		[][]float32{
			{0, 1},
			{0, 1},
			{1, 0},
		},
		"hash",
	)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{0, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, "first", hits[0].ID)
	assert.Equal(t, "second", hits[1].ID)
	assert.Equal(t, hits[0].Score, hits[1].Score)
}

func TestBruteIndexKLargerThanCorpus(t *testing.T) {
	idx, err := NewBruteIndex(
		[]string{"a", "b"},
		[][]float32{{1, 0}, {0, 1}},
		"hash",
	)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 2, "k above corpus size returns the whole ranked corpus")

	hits, err = idx.Search(context.Background(), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestBruteIndexDimensionMismatch(t *testing.T) {
	idx, err := NewBruteIndex([]string{"a"}, [][]float32{{1, 0}}, "hash")
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDimensionMismatch, errors.GetCode(err))
}

func TestNewBruteIndexErrors(t *testing.T) {
	_, err := NewBruteIndex([]string{"a"}, nil, "hash")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexBuildFailed, errors.GetCode(err))

	_, err = NewBruteIndex(nil, nil, "hash")
	require.Error(t, err)

	_, err = NewBruteIndex([]string{"a", "b"}, [][]float32{{1, 0}, {1, 0, 0}}, "hash")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexBuildFailed, errors.GetCode(err))
}

func TestBruteIndexQueryNotMutated(t *testing.T) {
	idx, err := NewBruteIndex([]string{"a"}, [][]float32{{1, 0}}, "hash")
	require.NoError(t, err)

	query := []float32{3, 4}
	_, err = idx.Search(context.Background(), query, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, query)
}
