package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rephind/rephind/internal/application/compare"
	"github.com/rephind/rephind/internal/application/search"
	"github.com/rephind/rephind/internal/application/summary"
	"github.com/rephind/rephind/internal/domain/claim"
	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/corpus"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/prometheus"
	"github.com/rephind/rephind/internal/infrastructure/simindex"
	"github.com/rephind/rephind/internal/interfaces/http/handlers"
	"github.com/rephind/rephind/internal/testutil"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store, err := corpus.NewMemoryStore([]patent.Record{
		{ID: "KR1", Title: "고강도 강판", Applicant: "포스코", ApplicationYear: 2019,
			CountryCode: "KR", ProductGroup: "Mart강", ClaimText: "C : 0.1 ~ 0.2 %를 포함하는 강판"},
		{ID: "KR2", Title: "핫스탬핑 부재", Applicant: "현대제철", ApplicationYear: 2020,
			CountryCode: "KR", ProductGroup: "HPF강", ClaimText: "핫스탬핑용 강판"},
	})
	require.NoError(t, err)

	enc := testutil.NewStubEncoder(8)
	mgr := simindex.NewManager(simindex.NewBuilder(store, enc, logging.NewNopLogger(), nil), "", logging.NewNopLogger())
	require.NoError(t, mgr.Ensure(context.Background()))

	logger := logging.NewNopLogger()
	searchSvc := search.NewService(store, enc, mgr, search.Options{}, logger, nil)
	compareSvc := compare.NewService(store, enc, claim.NewExtractor(), logger, nil)

	patentHandler := handlers.NewPatentHandler(
		searchSvc, compareSvc, summary.NewStaticSummarizer(), store, 1<<20, logger)

	return NewRouter(RouterConfig{
		PatentHandler: patentHandler,
		HealthHandler: handlers.NewHealthHandler(mgr.Ready),
		Logger:        logger,
		Metrics:       prometheus.NewMetrics(),
		Mode:          gin.TestMode,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rephind_")
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/patents/search",
		gin.H{"claim_text": "핫스탬핑용 강판 부재", "top_k": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SimilarPatents []search.Result `json:"similar_patents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.SimilarPatents, 2)
	for _, r := range resp.SimilarPatents {
		assert.NotEmpty(t, r.PatentID)
		assert.NotEmpty(t, r.ClaimText)
	}

	echoed := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, echoed)
}

func TestSearchEndpointRejectsEmptyQuery(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/patents/search", gin.H{"claim_text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EMB_002", resp.Code)
}

func TestGetClaimEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/patents/KR1/claim", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "C : 0.1 ~ 0.2 %")

	w = doJSON(t, router, http.MethodGet, "/api/v1/patents/NOPE/claim", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompareEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/patents/compare",
		gin.H{"claim_text": "HPF강용 강판으로서 C : 0.15 ~ 0.25 %", "patent_id": "KR1"})
	require.Equal(t, http.StatusOK, w.Code)

	var cmp compare.Comparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	assert.Equal(t, "KR1", cmp.CandidateID)
	assert.NotEmpty(t, cmp.Rows)
	assert.Equal(t, claim.ClassMatchAntagonistic, cmp.Aggregates.Classification)
}

func TestCompareEndpointErrors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/patents/compare",
		gin.H{"claim_text": "강판", "patent_id": "NOPE"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/patents/compare",
		gin.H{"claim_text": "강판"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummarizeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/patents/summarize",
		gin.H{"patent_id": "KR1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Technical Field")

	w = doJSON(t, router, http.MethodPost, "/api/v1/patents/summarize",
		gin.H{"patent_id": "NOPE"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/corpus/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats search.CorpusStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalPatents)
	assert.Equal(t, 2, stats.Countries["KR"])
}

func TestUploadEndpointRejectsNonPDF(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "claims.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Claim 1: not a pdf"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PDF")
}

func TestUploadEndpointRejectsBrokenPDF(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "claims.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte(strings.Repeat("x", 64)))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
