package prometheus

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersWithoutPanic(t *testing.T) {
	m := NewMetrics()
	require.NotNil(t, m)

	// Two independent instances must not collide: each owns its registry.
	m2 := NewMetrics()
	require.NotNil(t, m2)
}

func TestMetrics_HandlerServesEngineMetrics(t *testing.T) {
	m := NewMetrics()
	m.SearchDuration.WithLabelValues("ok").Observe(0.05)
	m.SearchResultCount.Observe(10)
	m.IndexSize.Set(42)
	m.ExtractionsTotal.Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "rephind_search_duration_seconds"))
	assert.True(t, strings.Contains(body, "rephind_index_vectors 42"))
	assert.True(t, strings.Contains(body, "rephind_claim_extractions_total 1"))
}
