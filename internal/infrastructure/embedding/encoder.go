// Package embedding provides the text-to-vector encoders behind the
// similarity index: a local ONNX backend and a remote OpenAI backend
// behind one Encoder interface.
package embedding

import (
	"context"
	"strings"

	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

// Encoder turns text into fixed-dimension embedding vectors.  Vectors are
// returned as produced by the model; unit normalization happens at the
// index layer so every backend is treated uniformly.
type Encoder interface {
	// Encode embeds a single text.  Empty or whitespace-only text is
	// rejected before the model is invoked.
	Encode(ctx context.Context, text string) ([]float32, error)

	// EncodeBatch embeds texts in order.  The result always has one
	// vector per input text.
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding width of the backing model.
	Dimension() int

	// Close releases model resources.
	Close() error
}

// Supported backend names.
const (
	BackendFastEmbed = "fastembed"
	BackendOpenAI    = "openai"
)

// Config selects and parameterises the encoder backend.
type Config struct {
	// Backend is one of BackendFastEmbed or BackendOpenAI.
	Backend string `mapstructure:"backend"`

	// Model names the embedding model.  Defaults per backend.
	Model string `mapstructure:"model"`

	// CacheDir is where the local backend stores downloaded model files.
	CacheDir string `mapstructure:"cache_dir"`

	// MaxLength caps the input token length for the local backend.
	MaxLength int `mapstructure:"max_length"`

	// APIKey authenticates the remote backend.
	APIKey string `mapstructure:"api_key"`

	// BaseURL overrides the remote backend endpoint.
	BaseURL string `mapstructure:"base_url"`
}

// New constructs the encoder selected by cfg.Backend.
func New(cfg Config, logger logging.Logger) (Encoder, error) {
	switch cfg.Backend {
	case BackendFastEmbed, "":
		return NewFastEmbedEncoder(cfg, logger)
	case BackendOpenAI:
		return NewOpenAIEncoder(cfg, logger)
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedBackend, "unsupported embedding backend").
			WithDetail("backend=" + cfg.Backend)
	}
}

// validateTexts rejects empty input and empty members before any model
// work happens.
func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return errors.New(errors.ErrCodeEmptyQueryText, "no texts to encode")
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return errors.Newf(errors.ErrCodeEmptyQueryText, "text at position %d is empty", i)
		}
	}
	return nil
}
