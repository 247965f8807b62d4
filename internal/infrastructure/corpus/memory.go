// Package corpus provides the patent.Store implementations: an in-memory
// snapshot, a CSV file loader and a PostgreSQL loader.  All of them load
// the full record set once and are immutable afterwards.
package corpus

import (
	"context"

	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/pkg/errors"
)

// MemoryStore serves a fixed record slice.  It backs both loaders and is
// used directly in tests.
type MemoryStore struct {
	records []patent.Record
	byID    map[string]int
	hash    string
}

// NewMemoryStore builds a store over the given records.  Records that fail
// validation are rejected; the caller decides whether to skip or abort.
func NewMemoryStore(records []patent.Record) (*MemoryStore, error) {
	byID := make(map[string]int, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[r.ID]; dup {
			return nil, errors.New(errors.ErrCodeValidation, "duplicate patent id in corpus").
				WithDetail("id=" + r.ID)
		}
		byID[r.ID] = i
	}
	return &MemoryStore{
		records: records,
		byID:    byID,
		hash:    patent.ContentHash(records),
	}, nil
}

// GetAll returns every record in insertion order.
func (s *MemoryStore) GetAll(_ context.Context) ([]patent.Record, error) {
	return s.records, nil
}

// GetByID returns the record with the given identifier.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*patent.Record, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodePatentNotFound, "patent not found").
			WithDetail("id=" + id)
	}
	return &s.records[i], nil
}

// Count returns the number of records.
func (s *MemoryStore) Count() int { return len(s.records) }

// ContentHash returns the corpus fingerprint.
func (s *MemoryStore) ContentHash() string { return s.hash }
