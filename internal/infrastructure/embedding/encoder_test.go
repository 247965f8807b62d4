package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

func TestValidateTexts(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		wantErr bool
	}{
		{"nil", nil, true},
		{"empty slice", []string{}, true},
		{"empty member", []string{"강판", ""}, true},
		{"whitespace member", []string{"강판", "   "}, true},
		{"valid", []string{"강판", "청구항"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTexts(tt.texts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeEmptyQueryText, errors.GetCode(err))
				assert.True(t, errors.IsInvalidParam(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewUnsupportedBackend(t *testing.T) {
	_, err := New(Config{Backend: "tensorflow"}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedBackend, errors.GetCode(err))
}

func TestNewOpenAIEncoderRequiresKey(t *testing.T) {
	_, err := NewOpenAIEncoder(Config{Backend: BackendOpenAI}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEncoderNotLoaded, errors.GetCode(err))
}

func TestNewOpenAIEncoderUnknownModel(t *testing.T) {
	_, err := NewOpenAIEncoder(Config{
		Backend: BackendOpenAI,
		APIKey:  "sk-test",
		Model:   "unknown-model",
	}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedBackend, errors.GetCode(err))
}

func TestNewOpenAIEncoderDimension(t *testing.T) {
	enc, err := NewOpenAIEncoder(Config{
		Backend: BackendOpenAI,
		APIKey:  "sk-test",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 1536, enc.Dimension())
	assert.NoError(t, enc.Close())
}

func TestNewFastEmbedEncoderUnknownModel(t *testing.T) {
	_, err := NewFastEmbedEncoder(Config{Model: "no-such-model"}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedBackend, errors.GetCode(err))
}
