package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodePatentNotFound, "patent not found")
	assert.Equal(t, "[CORP_001] patent not found", err.Error())

	withDetail := err.WithDetail("id=KR1020190001234")
	assert.Equal(t, "[CORP_001] patent not found: id=KR1020190001234", withDetail.Error())
	// The original is not mutated.
	assert.Empty(t, err.Detail)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "should be nil"))

	cause := stderrors.New("disk full")
	err := Wrap(cause, ErrCodeCorpusLoadFailed, "failed to read corpus")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeCorpusLoadFailed, err.Code)
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_PreservesCodeForUnknown(t *testing.T) {
	inner := New(ErrCodeEmptyQueryText, "empty query")
	outer := Wrap(inner, CodeUnknown, "search failed")
	assert.Equal(t, ErrCodeEmptyQueryText, outer.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeIndexNotBuilt, "index not built")
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsCode(wrapped, ErrCodeIndexNotBuilt))
	assert.False(t, IsCode(wrapped, ErrCodeInternal))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodePatentNotFound, "x")))
	assert.True(t, IsNotFound(NotFound("x")))
	assert.False(t, IsNotFound(Internal("x")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestIsInvalidParam(t *testing.T) {
	assert.True(t, IsInvalidParam(InvalidParam("x")))
	assert.True(t, IsInvalidParam(New(ErrCodeEmptyQueryText, "x")))
	assert.False(t, IsInvalidParam(NotFound("x")))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(New(ErrCodeEncoderNotLoaded, "x")))
	assert.True(t, IsUnavailable(New(ErrCodeIndexNotBuilt, "x")))
	assert.False(t, IsUnavailable(InvalidParam("x")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeEncodeFailed, GetCode(New(ErrCodeEncodeFailed, "x")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeEmptyQueryText, http.StatusBadRequest},
		{ErrCodePatentNotFound, http.StatusNotFound},
		{ErrCodeEncoderNotLoaded, http.StatusServiceUnavailable},
		{ErrCodeIndexNotBuilt, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("NO_SUCH_CODE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), string(tt.code))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("plain")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
}
