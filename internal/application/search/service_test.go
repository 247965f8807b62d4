package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rephind/rephind/internal/domain/claim"
	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/corpus"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/simindex"
	"github.com/rephind/rephind/internal/testutil"
	"github.com/rephind/rephind/pkg/errors"
)

func corpusRecords() []patent.Record {
	return []patent.Record{
		{ID: "KR1", Title: "고강도 강판", Applicant: "포스코", ApplicationYear: 2019,
			CountryCode: "KR", ProductGroup: "Mart강", ClaimText: "C : 0.1 ~ 0.2 %인 강판"},
		{ID: "KR2", Title: "핫스탬핑 부재", Applicant: "현대제철", ApplicationYear: 2020,
			CountryCode: "KR", ProductGroup: "HPF강", ClaimText: "핫스탬핑용 강판"},
		{ID: "US1", Title: "Coated steel sheet", Applicant: "Nippon Steel", ApplicationYear: 2021,
			CountryCode: "US", ProductGroup: "", ClaimText: "A steel sheet with a zinc coating"},
	}
}

// newTestService builds a service over a three-record corpus with fixed
// orthogonal-ish embeddings so rankings are fully controlled.
func newTestService(t *testing.T) (*Service, *testutil.StubEncoder) {
	return newTestServiceOpts(t, Options{})
}

func newTestServiceOpts(t *testing.T, opts Options) (*Service, *testutil.StubEncoder) {
	t.Helper()

	store, err := corpus.NewMemoryStore(corpusRecords())
	require.NoError(t, err)

	enc := testutil.NewStubEncoder(4)
	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	enc.Set(all[0].CombinedText(), []float32{1, 0, 0, 0})
	enc.Set(all[1].CombinedText(), []float32{0, 1, 0, 0})
	enc.Set(all[2].CombinedText(), []float32{0, 0, 1, 0})

	mgr := simindex.NewManager(simindex.NewBuilder(store, enc, logging.NewNopLogger(), nil), "", logging.NewNopLogger())
	require.NoError(t, mgr.Ensure(context.Background()))

	return NewService(store, enc, mgr, opts, logging.NewNopLogger(), nil), enc
}

func TestSearchEmptyQueryRejectedBeforeEncoder(t *testing.T) {
	svc, enc := newTestService(t)
	calls := enc.Calls

	_, err := svc.Search(context.Background(), Request{QueryText: "   "})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEmptyQueryText, errors.GetCode(err))
	assert.True(t, errors.IsInvalidParam(err))
	assert.Equal(t, calls, enc.Calls, "encoder must not run for empty input")
}

func TestSearchRanksAndJoins(t *testing.T) {
	svc, enc := newTestService(t)
	enc.Set("도금층이 있는 강판", []float32{0.1, 0.1, 1, 0})

	results, err := svc.Search(context.Background(), Request{QueryText: "도금층이 있는 강판", TopK: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "US1", results[0].PatentID)
	assert.Equal(t, "Coated steel sheet", results[0].Title)
	assert.Equal(t, "Nippon Steel", results[0].Applicant)
	assert.Equal(t, 2021, results[0].ApplicationYear)
	assert.Equal(t, "A steel sheet with a zinc coating", results[0].ClaimText)
	assert.GreaterOrEqual(t, results[0].SimilarityScore, results[1].SimilarityScore)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.SimilarityScore, 0.0)
		assert.LessOrEqual(t, r.SimilarityScore, 100.0)
	}
}

func TestSearchDefaultTopK(t *testing.T) {
	svc, enc := newTestService(t)
	enc.Set("강판", []float32{1, 1, 1, 0})

	results, err := svc.Search(context.Background(), Request{QueryText: "강판"})
	require.NoError(t, err)
	assert.Len(t, results, 3, "default k exceeds corpus size so the whole corpus returns")
}

func TestSearchFilters(t *testing.T) {
	svc, enc := newTestService(t)
	enc.Set("강판 전체", []float32{1, 1, 1, 0})

	t.Run("country", func(t *testing.T) {
		results, err := svc.Search(context.Background(), Request{
			QueryText: "강판 전체",
			Filters:   Filters{CountryCode: "US"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "US1", results[0].PatentID)
	})

	t.Run("year range", func(t *testing.T) {
		results, err := svc.Search(context.Background(), Request{
			QueryText: "강판 전체",
			Filters:   Filters{YearFrom: 2020, YearTo: 2020},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "KR2", results[0].PatentID)
	})

	t.Run("applicant substring", func(t *testing.T) {
		results, err := svc.Search(context.Background(), Request{
			QueryText: "강판 전체",
			Filters:   Filters{Applicant: "포스코"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "KR1", results[0].PatentID)
	})

	t.Run("min score", func(t *testing.T) {
		results, err := svc.Search(context.Background(), Request{
			QueryText: "강판 전체",
			Filters:   Filters{MinScore: 101},
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearchConfiguredDefaultTopK(t *testing.T) {
	svc, enc := newTestServiceOpts(t, Options{DefaultTopK: 1})
	enc.Set("강판", []float32{1, 1, 1, 0})

	results, err := svc.Search(context.Background(), Request{QueryText: "강판"})
	require.NoError(t, err)
	assert.Len(t, results, 1, "configured default top_k must cut the result list")
}

func TestSearchConfiguredCacheTTL(t *testing.T) {
	svc, enc := newTestServiceOpts(t, Options{CacheTTL: time.Nanosecond})
	enc.Set("만료 확인용 강판", []float32{1, 0, 0, 0})

	_, err := svc.Search(context.Background(), Request{QueryText: "만료 확인용 강판", TopK: 3})
	require.NoError(t, err)

	calls := enc.Calls
	_, err = svc.Search(context.Background(), Request{QueryText: "만료 확인용 강판", TopK: 3})
	require.NoError(t, err)
	assert.Greater(t, enc.Calls, calls, "expired cache entry must re-encode")
}

func TestSearchCachesResults(t *testing.T) {
	svc, enc := newTestService(t)
	enc.Set("캐시 확인용 강판", []float32{1, 0, 0, 0})

	first, err := svc.Search(context.Background(), Request{QueryText: "캐시 확인용 강판", TopK: 3})
	require.NoError(t, err)

	calls := enc.Calls
	second, err := svc.Search(context.Background(), Request{QueryText: "캐시 확인용 강판", TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, enc.Calls, "cache hit must not re-encode")

	// A different top_k is a different cache entry.
	_, err = svc.Search(context.Background(), Request{QueryText: "캐시 확인용 강판", TopK: 1})
	require.NoError(t, err)
	assert.Greater(t, enc.Calls, calls)
}

func TestSearchAntagonisticPenalty(t *testing.T) {
	svc, enc := newTestService(t)

	// The query names HPF강; KR1 carries product group Mart강 and must be
	// pushed far down despite an identical embedding direction.
	enc.Set("HPF강 후보 질의", []float32{1, 0, 0, 0})

	results, err := svc.Search(context.Background(), Request{QueryText: "HPF강 후보 질의", TopK: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)

	var mart, coated Result
	for _, r := range results {
		switch r.PatentID {
		case "KR1":
			mart = r
		case "US1":
			coated = r
		}
	}
	// KR1's raw cosine is 1.0 (score 100), yet the antagonistic penalty
	// must leave it near 15.
	assert.InDelta(t, 15, mart.SimilarityScore, 0.5)
	// The unclassified record keeps its base score.
	assert.Greater(t, coated.SimilarityScore, mart.SimilarityScore)
}

func TestAdjustScore(t *testing.T) {
	tests := []struct {
		name       string
		base       float64
		queryClass string
		candGroup  string
		want       float64
	}{
		{"unclassified query", 80, claim.Unclassified, "Mart강", 80},
		{"ungrouped candidate", 80, claim.ClassHPF, "", 80},
		{"identical boost", 80, claim.ClassDP, "DP강", 100},
		{"antagonistic penalty", 100, claim.ClassHPF, "Mart강", 15},
		{"clamped at 100", 90, claim.ClassDP, "DP강", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AdjustScore(tt.base, tt.queryClass, tt.candGroup), 1e-9)
		})
	}
}

func TestAdjustScoreMonotonic(t *testing.T) {
	lo := AdjustScore(40, claim.ClassHPF, "Mart강")
	hi := AdjustScore(90, claim.ClassHPF, "Mart강")
	assert.Less(t, lo, hi)
}

func TestTermOverlapBonus(t *testing.T) {
	tests := []struct {
		name  string
		query string
		cand  string
		want  float64
	}{
		{"no shared terms", "도금층이 있는 강판", "표면 품질이 우수한 강판", 0},
		{"one shared term", "마르텐사이트 조직의 강판", "마르텐사이트를 포함하는 부재", 0.02},
		{"three shared terms",
			"마르텐사이트 베이나이트 조직과 인장강도 평가",
			"마르텐사이트 조직과 베이나이트를 포함하고 인장강도가 우수한 강판", 0.06},
		{"capped at ten percent",
			"마르텐사이트 베이나이트 오스테나이트 페라이트 인장강도 항복강도",
			"마르텐사이트 베이나이트 오스테나이트 페라이트 인장강도 항복강도", 0.10},
		{"term on one side only", "마르텐사이트 조직", "표면 품질이 우수한 강판", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TermOverlapBonus(tt.query, tt.cand), 1e-9)
		})
	}
}

func TestSearchTermBonusLiftsSharedVocabulary(t *testing.T) {
	store, err := corpus.NewMemoryStore([]patent.Record{
		{ID: "KR10", Title: "조직 제어 강판", CountryCode: "KR", ApplicationYear: 2020,
			ClaimText: "마르텐사이트 조직과 베이나이트를 포함하고 인장강도가 우수한 강판"},
		{ID: "KR11", Title: "일반 강판", CountryCode: "KR", ApplicationYear: 2020,
			ClaimText: "표면 품질이 우수한 강판"},
	})
	require.NoError(t, err)

	enc := testutil.NewStubEncoder(4)
	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	enc.Set(all[0].CombinedText(), []float32{1, 0, 0, 0})
	enc.Set(all[1].CombinedText(), []float32{0, 1, 0, 0})

	mgr := simindex.NewManager(simindex.NewBuilder(store, enc, logging.NewNopLogger(), nil), "", logging.NewNopLogger())
	require.NoError(t, mgr.Ensure(context.Background()))
	svc := NewService(store, enc, mgr, Options{}, logging.NewNopLogger(), nil)

	// Equidistant embeddings, so only the three shared technical terms
	// separate the two candidates.
	query := "마르텐사이트 베이나이트 조직과 인장강도 평가"
	enc.Set(query, []float32{1, 1, 0, 0})

	results, err := svc.Search(context.Background(), Request{QueryText: query, TopK: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "KR10", results[0].PatentID)
	assert.Equal(t, "KR11", results[1].PatentID)
	assert.InDelta(t, results[1].SimilarityScore*1.06, results[0].SimilarityScore, 1e-6)
}

func TestGetClaimText(t *testing.T) {
	svc, _ := newTestService(t)

	text, err := svc.GetClaimText(context.Background(), "KR2")
	require.NoError(t, err)
	assert.Equal(t, "핫스탬핑용 강판", text)

	_, err = svc.GetClaimText(context.Background(), "KR999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.GetClaimText(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidParam(err))
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalPatents)
	assert.Equal(t, map[string]int{"KR": 2, "US": 1}, stats.Countries)
	assert.Equal(t, map[string]int{"Mart강": 1, "HPF강": 1}, stats.ProductGroups)
	assert.Equal(t, 1, stats.YearDistribution[2019])
	assert.NotEmpty(t, stats.TopApplicants)
	assert.Positive(t, stats.AvgClaimLength)
}
