package errors

import "net/http"

// ErrorCode is a string identifier for a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by all modules.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeExternalService    ErrorCode = "COMMON_009"
	ErrCodeNotImplemented     ErrorCode = "COMMON_010"
)

// Corpus store error codes.
const (
	ErrCodePatentNotFound   ErrorCode = "CORP_001"
	ErrCodeCorpusLoadFailed ErrorCode = "CORP_002"
	ErrCodeCorpusEmpty      ErrorCode = "CORP_003"
)

// Embedding encoder error codes.
const (
	ErrCodeEncoderNotLoaded   ErrorCode = "EMB_001"
	ErrCodeEmptyQueryText     ErrorCode = "EMB_002"
	ErrCodeEncodeFailed       ErrorCode = "EMB_003"
	ErrCodeDimensionMismatch  ErrorCode = "EMB_004"
	ErrCodeUnsupportedBackend ErrorCode = "EMB_005"
)

// Similarity index error codes.
const (
	ErrCodeIndexNotBuilt        ErrorCode = "IDX_001"
	ErrCodeIndexBuildFailed     ErrorCode = "IDX_002"
	ErrCodeSnapshotCorrupt      ErrorCode = "IDX_003"
	ErrCodeSnapshotHashMismatch ErrorCode = "IDX_004"
)

// Claim comparison error codes.  Attribute extraction itself never
// errors, so it carries no codes of its own.
const (
	ErrCodeComparisonFailed ErrorCode = "CMP_001"
	ErrCodeClaimTextMissing ErrorCode = "CMP_002"
)

// Document ingestion error codes.
const (
	ErrCodePDFParseFailed ErrorCode = "DOC_001"
	ErrCodeClaimNotFound  ErrorCode = "DOC_002"
	ErrCodeSummaryFailed  ErrorCode = "DOC_003"
)

// Aliases kept short for the most common call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeUnavailable  = ErrCodeServiceUnavailable
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// httpStatusByCode maps every error code to the HTTP status its category
// surfaces as.  Codes absent from the map default to 500.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeInternal:             http.StatusInternalServerError,
	ErrCodeBadRequest:           http.StatusBadRequest,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeConflict:             http.StatusConflict,
	ErrCodeServiceUnavailable:   http.StatusServiceUnavailable,
	ErrCodeTimeout:              http.StatusGatewayTimeout,
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeSerialization:        http.StatusInternalServerError,
	ErrCodeExternalService:      http.StatusBadGateway,
	ErrCodeNotImplemented:       http.StatusNotImplemented,
	ErrCodePatentNotFound:       http.StatusNotFound,
	ErrCodeCorpusLoadFailed:     http.StatusInternalServerError,
	ErrCodeCorpusEmpty:          http.StatusInternalServerError,
	ErrCodeEncoderNotLoaded:     http.StatusServiceUnavailable,
	ErrCodeEmptyQueryText:       http.StatusBadRequest,
	ErrCodeEncodeFailed:         http.StatusInternalServerError,
	ErrCodeDimensionMismatch:    http.StatusInternalServerError,
	ErrCodeUnsupportedBackend:   http.StatusInternalServerError,
	ErrCodeIndexNotBuilt:        http.StatusServiceUnavailable,
	ErrCodeIndexBuildFailed:     http.StatusInternalServerError,
	ErrCodeSnapshotCorrupt:      http.StatusInternalServerError,
	ErrCodeSnapshotHashMismatch: http.StatusInternalServerError,
	ErrCodeComparisonFailed:     http.StatusInternalServerError,
	ErrCodeClaimTextMissing:     http.StatusBadRequest,
	ErrCodePDFParseFailed:       http.StatusBadRequest,
	ErrCodeClaimNotFound:        http.StatusUnprocessableEntity,
	ErrCodeSummaryFailed:        http.StatusBadGateway,
}

// HTTPStatus returns the HTTP status code associated with c.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := httpStatusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
