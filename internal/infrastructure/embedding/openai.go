package embedding

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

// DefaultRemoteModel is the OpenAI embedding model used when none is
// configured.
const DefaultRemoteModel = string(openai.SmallEmbedding3)

// remoteModelDims maps OpenAI embedding models to their widths.
var remoteModelDims = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

// OpenAIEncoder embeds text through the OpenAI embeddings API.
type OpenAIEncoder struct {
	client *openai.Client
	model  string
	dim    int
	logger logging.Logger
}

// NewOpenAIEncoder builds an encoder over the OpenAI API.  The API key is
// required; BaseURL supports compatible self-hosted endpoints.
func NewOpenAIEncoder(cfg Config, logger logging.Logger) (*OpenAIEncoder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeEncoderNotLoaded, "openai backend requires an api key")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultRemoteModel
	}
	dim, ok := remoteModelDims[model]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedBackend, "unsupported openai embedding model").
			WithDetail("model=" + model)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	logger.Info("openai embedding backend configured", logging.String("model", model))
	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		dim:    dim,
		logger: logger,
	}, nil
}

// Encode embeds a single text.
func (e *OpenAIEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch embeds texts in order through one API call.
func (e *OpenAIEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEncodeFailed, "openai embedding request failed")
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.Newf(errors.ErrCodeEncodeFailed,
			"openai returned %d vectors for %d texts", len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, errors.Newf(errors.ErrCodeEncodeFailed, "openai returned out-of-range index %d", d.Index)
		}
		if len(d.Embedding) != e.dim {
			return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
				"openai returned dimension %d, expected %d", len(d.Embedding), e.dim)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

// Dimension returns the embedding width.
func (e *OpenAIEncoder) Dimension() int { return e.dim }

// Close is a no-op; the HTTP client holds no resources to release.
func (e *OpenAIEncoder) Close() error { return nil }

var _ Encoder = (*OpenAIEncoder)(nil)
