package simindex

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/rephind/rephind/pkg/errors"
)

const (
	snapshotMagic   = "rephind-index"
	snapshotVersion = 1
)

// snapshotFile is the gob-encoded on-disk form of a built index.
type snapshotFile struct {
	Magic      string
	Version    int
	CorpusHash string
	Dim        int
	IDs        []string
	Vectors    [][]float32
}

// SaveSnapshot writes the index to path atomically: the file is written
// next to its destination and renamed into place.
func SaveSnapshot(idx *BruteIndex, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create snapshot directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create snapshot temp file")
	}
	defer os.Remove(tmp.Name())

	enc := gob.NewEncoder(tmp)
	err = enc.Encode(snapshotFile{
		Magic:      snapshotMagic,
		Version:    snapshotVersion,
		CorpusHash: idx.corpusHash,
		Dim:        idx.dim,
		IDs:        idx.ids,
		Vectors:    idx.vectors,
	})
	if err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode index snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to close snapshot temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to move snapshot into place")
	}
	return nil
}

// LoadSnapshot reads an index snapshot and verifies it against the
// current corpus content hash.  A snapshot built from different corpus
// content is rejected with ErrCodeSnapshotHashMismatch, which callers
// treat as "rebuild required".
func LoadSnapshot(path, wantCorpusHash string) (*BruteIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotCorrupt, "failed to open index snapshot").
			WithDetail("path=" + path)
	}
	defer f.Close()

	var snap snapshotFile
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotCorrupt, "failed to decode index snapshot").
			WithDetail("path=" + path)
	}
	if snap.Magic != snapshotMagic || snap.Version != snapshotVersion {
		return nil, errors.Newf(errors.ErrCodeSnapshotCorrupt,
			"unrecognized snapshot format (magic %q, version %d)", snap.Magic, snap.Version)
	}
	if snap.CorpusHash != wantCorpusHash {
		return nil, errors.New(errors.ErrCodeSnapshotHashMismatch, "snapshot corpus hash does not match loaded corpus").
			WithDetail("snapshot=" + snap.CorpusHash + " corpus=" + wantCorpusHash)
	}
	if len(snap.IDs) != len(snap.Vectors) {
		return nil, errors.Newf(errors.ErrCodeSnapshotCorrupt,
			"snapshot has %d ids but %d vectors", len(snap.IDs), len(snap.Vectors))
	}
	for i, v := range snap.Vectors {
		if len(v) != snap.Dim {
			return nil, errors.Newf(errors.ErrCodeSnapshotCorrupt,
				"snapshot vector %d has dimension %d, expected %d", i, len(v), snap.Dim)
		}
	}
	return &BruteIndex{
		ids:        snap.IDs,
		vectors:    snap.Vectors,
		dim:        snap.Dim,
		corpusHash: snap.CorpusHash,
	}, nil
}
