package simindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rephind/rephind/pkg/errors"
)

func testIndex(t *testing.T) *BruteIndex {
	t.Helper()
	idx, err := NewBruteIndex(
		[]string{"a", "b", "c"},
		[][]float32{{1, 0}, {0, 1}, {0.5, 0.5}},
		"corpus-hash-1",
	)
	require.NoError(t, err)
	return idx
}

func TestSnapshotRoundTrip(t *testing.T) {
	idx := testIndex(t)
	path := filepath.Join(t.TempDir(), "index.snapshot")

	require.NoError(t, SaveSnapshot(idx, path))

	loaded, err := LoadSnapshot(path, "corpus-hash-1")
	require.NoError(t, err)
	assert.Equal(t, idx.Size(), loaded.Size())
	assert.Equal(t, idx.Dimension(), loaded.Dimension())
	assert.Equal(t, idx.CorpusHash(), loaded.CorpusHash())

	// The loaded index answers queries identically.
	want, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSnapshotHashMismatch(t *testing.T) {
	idx := testIndex(t)
	path := filepath.Join(t.TempDir(), "index.snapshot")
	require.NoError(t, SaveSnapshot(idx, path))

	_, err := LoadSnapshot(path, "different-corpus-hash")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSnapshotHashMismatch, errors.GetCode(err))
}

func TestLoadSnapshotCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.snapshot")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))

	_, err := LoadSnapshot(path, "corpus-hash-1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSnapshotCorrupt, errors.GetCode(err))
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent"), "corpus-hash-1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSnapshotCorrupt, errors.GetCode(err))
}
