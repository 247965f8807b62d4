package embedding

import (
	"context"
	"path/filepath"

	fastembed "github.com/anush008/fastembed-go"

	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

// DefaultLocalModel is the symmetric sentence-transformer the corpus
// embeddings were produced with.  Query and document texts go through the
// same encoding path, so changing the model invalidates every stored
// snapshot.
const DefaultLocalModel = "sentence-transformers/all-MiniLM-L6-v2"

const defaultMaxLength = 512

// localModels maps accepted model names to fastembed constants and their
// embedding widths.
var localModels = map[string]struct {
	model fastembed.EmbeddingModel
	dim   int
}{
	DefaultLocalModel:         {fastembed.AllMiniLML6V2, 384},
	"fast-all-MiniLM-L6-v2":   {fastembed.AllMiniLML6V2, 384},
	"BAAI/bge-small-en-v1.5":  {fastembed.BGESmallENV15, 384},
	"BAAI/bge-base-en-v1.5":   {fastembed.BGEBaseENV15, 768},
}

// FastEmbedEncoder runs a local ONNX sentence-embedding model in-process.
type FastEmbedEncoder struct {
	model     *fastembed.FlagEmbedding
	modelName string
	dim       int
	logger    logging.Logger
}

// NewFastEmbedEncoder loads the local model, downloading it into the
// cache directory on first use.
func NewFastEmbedEncoder(cfg Config, logger logging.Logger) (*FastEmbedEncoder, error) {
	name := cfg.Model
	if name == "" {
		name = DefaultLocalModel
	}
	spec, ok := localModels[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedBackend, "unsupported local embedding model").
			WithDetail("model=" + name)
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(".", "model_cache")
	}
	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = defaultMaxLength
	}

	showProgress := false
	model, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                spec.model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEncoderNotLoaded, "failed to initialize local embedding model").
			WithDetail("model=" + name)
	}

	logger.Info("local embedding model loaded",
		logging.String("model", name),
		logging.Int("dimension", spec.dim))
	return &FastEmbedEncoder{
		model:     model,
		modelName: name,
		dim:       spec.dim,
		logger:    logger,
	}, nil
}

// Encode embeds a single text.
func (e *FastEmbedEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch embeds texts in order.  The model is symmetric, so corpus
// documents and queries share this path.
func (e *FastEmbedEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vecs, err := e.model.Embed(texts, 32)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEncodeFailed, "local embedding failed")
	}
	if len(vecs) != len(texts) {
		return nil, errors.Newf(errors.ErrCodeEncodeFailed,
			"model returned %d vectors for %d texts", len(vecs), len(texts))
	}
	for _, v := range vecs {
		if len(v) != e.dim {
			return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
				"model returned dimension %d, expected %d", len(v), e.dim)
		}
	}
	return vecs, nil
}

// Dimension returns the embedding width.
func (e *FastEmbedEncoder) Dimension() int { return e.dim }

// Close releases the ONNX session.
func (e *FastEmbedEncoder) Close() error {
	return e.model.Destroy()
}

var _ Encoder = (*FastEmbedEncoder)(nil)
