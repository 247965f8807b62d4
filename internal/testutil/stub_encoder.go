// Package testutil provides shared test doubles: a deterministic stub
// encoder and canned corpus records.
package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/rephind/rephind/pkg/errors"
)

// StubEncoder is a deterministic Encoder test double.  Fixed vectors can
// be registered per text; unregistered texts get a stable pseudo-random
// vector derived from a hash of the text, so distinct texts produce
// distinct directions and repeated calls are identical.
type StubEncoder struct {
	Dim     int
	Fixed   map[string][]float32
	Calls   int
	FailErr error
}

// NewStubEncoder builds a stub with the given dimension.
func NewStubEncoder(dim int) *StubEncoder {
	return &StubEncoder{Dim: dim, Fixed: make(map[string][]float32)}
}

// Set registers a fixed vector for a text.
func (s *StubEncoder) Set(text string, vec []float32) {
	s.Fixed[text] = vec
}

// Encode returns the registered or derived vector for text.
func (s *StubEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch returns one vector per text.
func (s *StubEncoder) EncodeBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.Calls++
	if s.FailErr != nil {
		return nil, s.FailErr
	}
	if len(texts) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyQueryText, "no texts to encode")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, errors.New(errors.ErrCodeEmptyQueryText, "empty text")
		}
		if v, ok := s.Fixed[t]; ok {
			out[i] = v
			continue
		}
		out[i] = derivedVector(t, s.Dim)
	}
	return out, nil
}

// Dimension returns the configured width.
func (s *StubEncoder) Dimension() int { return s.Dim }

// Close is a no-op.
func (s *StubEncoder) Close() error { return nil }

func derivedVector(text string, dim int) []float32 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)
	seed := sum[:]
	for i := range vec {
		if len(seed) < 4 {
			next := sha256.Sum256(seed)
			seed = next[:]
		}
		bits := binary.BigEndian.Uint32(seed[:4])
		seed = seed[4:]
		// Map to [-1, 1).
		vec[i] = float32(int32(bits)) / float32(1<<31)
	}
	return vec
}
