// Package search implements the query-time retrieval pipeline: validate,
// encode, scan the similarity index and join the hits back to corpus
// records, with classification-aware score adjustment and a short-lived
// result cache.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rephind/rephind/internal/domain/claim"
	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/embedding"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/prometheus"
	"github.com/rephind/rephind/internal/infrastructure/simindex"
	"github.com/rephind/rephind/pkg/errors"
)

// DefaultTopK is the result count when neither the request nor the
// service options specify one.
const DefaultTopK = 10

const (
	defaultCacheTTL = 5 * time.Minute
	cacheSweep      = 10 * time.Minute
	maxTopK         = 1000
)

// Options carries the tunable service settings from configuration.
// Zero values fall back to the package defaults.
type Options struct {
	DefaultTopK int
	CacheTTL    time.Duration
}

// Filters narrows search results after ranking.
type Filters struct {
	// CountryCode keeps only records filed in this jurisdiction.
	CountryCode string `json:"country_code,omitempty"`

	// YearFrom/YearTo bound the application year inclusively; zero means
	// unbounded on that side.
	YearFrom int `json:"year_from,omitempty"`
	YearTo   int `json:"year_to,omitempty"`

	// Applicant keeps records whose applicant contains this substring.
	Applicant string `json:"applicant,omitempty"`

	// MinScore drops results scoring below this threshold.
	MinScore float64 `json:"min_score,omitempty"`
}

func (f Filters) allows(r *patent.Record, score float64) bool {
	if f.CountryCode != "" && !strings.EqualFold(r.CountryCode, f.CountryCode) {
		return false
	}
	if f.YearFrom != 0 && r.ApplicationYear < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && r.ApplicationYear > f.YearTo {
		return false
	}
	if f.Applicant != "" && !strings.Contains(r.Applicant, f.Applicant) {
		return false
	}
	if score < f.MinScore {
		return false
	}
	return true
}

// Request is one search call.
type Request struct {
	QueryText string  `json:"claim_text"`
	TopK      int     `json:"top_k,omitempty"`
	Filters   Filters `json:"filters,omitempty"`
}

// Result is one ranked hit joined with its corpus record.
type Result struct {
	PatentID        string  `json:"patent_id"`
	Title           string  `json:"title"`
	Applicant       string  `json:"applicant"`
	ApplicationYear int     `json:"application_year"`
	CountryCode     string  `json:"country_code"`
	ProductGroup    string  `json:"product_group,omitempty"`
	ClaimText       string  `json:"claim_text"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Service runs the retrieval pipeline.  It holds no per-query state; the
// corpus and the live index are read-only behind their owners.
type Service struct {
	store       patent.Store
	encoder     embedding.Encoder
	index       *simindex.Manager
	cache       *gocache.Cache
	defaultTopK int
	logger      logging.Logger
	metrics     *prometheus.Metrics
}

// NewService wires the retrieval pipeline.  metrics may be nil.
func NewService(
	store patent.Store,
	encoder embedding.Encoder,
	index *simindex.Manager,
	opts Options,
	logger logging.Logger,
	metrics *prometheus.Metrics,
) *Service {
	topK := opts.DefaultTopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		store:       store,
		encoder:     encoder,
		index:       index,
		cache:       gocache.New(ttl, cacheSweep),
		defaultTopK: topK,
		logger:      logger.Named("search"),
		metrics:     metrics,
	}
}

// Search validates, encodes and ranks.  The empty query is rejected
// before the encoder or index is touched.
func (s *Service) Search(ctx context.Context, req Request) ([]Result, error) {
	start := time.Now()

	if strings.TrimSpace(req.QueryText) == "" {
		return nil, errors.New(errors.ErrCodeEmptyQueryText, "query claim text is empty")
	}
	k := req.TopK
	if k <= 0 {
		k = s.defaultTopK
	}
	if k > maxTopK {
		k = maxTopK
	}

	key := cacheKey(req.QueryText, k, req.Filters)
	if cached, ok := s.cache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.SearchCacheHits.Inc()
		}
		return cached.([]Result), nil
	}
	if s.metrics != nil {
		s.metrics.SearchCacheMisses.Inc()
	}

	idx, err := s.index.Current()
	if err != nil {
		s.observeSearch(start, "unavailable", 0)
		return nil, err
	}

	encodeStart := time.Now()
	vec, err := s.encoder.Encode(ctx, req.QueryText)
	if err != nil {
		if s.metrics != nil {
			s.metrics.EncodeErrors.Inc()
		}
		s.observeSearch(start, "encode_error", 0)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.EncodeDuration.Observe(time.Since(encodeStart).Seconds())
	}

	// Rank the full corpus, then adjust, filter and cut.  The scan is
	// O(N) either way and filters apply to adjusted scores.
	hits, err := idx.Search(ctx, vec, idx.Size())
	if err != nil {
		s.observeSearch(start, "index_error", 0)
		return nil, err
	}

	queryClass := claim.ClassifyText(req.QueryText)
	results := make([]Result, 0, k)
	for _, hit := range hits {
		rec, err := s.store.GetByID(ctx, hit.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "index returned an id missing from the corpus")
		}
		score := AdjustScore(hit.Score, queryClass, rec.ProductGroup)
		score = clampScore(score * (1 + TermOverlapBonus(req.QueryText, rec.ClaimText)))
		if !req.Filters.allows(rec, score) {
			continue
		}
		results = append(results, Result{
			PatentID:        rec.ID,
			Title:           rec.Title,
			Applicant:       rec.Applicant,
			ApplicationYear: rec.ApplicationYear,
			CountryCode:     rec.CountryCode,
			ProductGroup:    rec.ProductGroup,
			ClaimText:       rec.ClaimText,
			SimilarityScore: score,
		})
	}

	// Adjustment can reorder relative to raw index order; re-sort and
	// keep corpus order on ties.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].SimilarityScore > results[b].SimilarityScore
	})
	if len(results) > k {
		results = results[:k]
	}

	s.cache.Set(key, results, gocache.DefaultExpiration)
	s.observeSearch(start, "ok", len(results))
	s.logger.Debug("search served",
		logging.Int("results", len(results)),
		logging.Int("top_k", k),
		logging.Duration("elapsed", time.Since(start)))
	return results, nil
}

// GetClaimText returns the claim body for a corpus record.
func (s *Service) GetClaimText(ctx context.Context, patentID string) (string, error) {
	if strings.TrimSpace(patentID) == "" {
		return "", errors.New(errors.ErrCodeBadRequest, "patent id is empty")
	}
	rec, err := s.store.GetByID(ctx, patentID)
	if err != nil {
		return "", err
	}
	return rec.ClaimText, nil
}

func (s *Service) observeSearch(start time.Time, outcome string, results int) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if outcome == "ok" {
		s.metrics.SearchResultCount.Observe(float64(results))
	}
}

func cacheKey(query string, k int, f Filters) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%d|%d|%s|%g",
		query, k, f.CountryCode, f.YearFrom, f.YearTo, f.Applicant, f.MinScore)))
	return hex.EncodeToString(sum[:])
}

// Score adjustment factors by classification similarity band.
const (
	boostIdentical   = 1.25
	boostRelated     = 1.15
	boostWeak        = 1.05
	penaltyLow       = 0.95
	penaltyMismatch  = 0.75
	penaltyAntagonal = 0.15
)

// AdjustScore applies the classification boost/penalty to a base
// similarity score.  When either side is unclassified the base score is
// returned unchanged.  The result is clamped to [0,100] and is monotonic
// in the base score for any fixed class pair.
func AdjustScore(base float64, queryClass, candidateClass string) float64 {
	if queryClass == claim.Unclassified || candidateClass == "" || candidateClass == claim.Unclassified {
		return base
	}
	sim := claim.ClassSimilarity(queryClass, candidateClass)
	var factor float64
	switch {
	case sim >= 0.9:
		factor = boostIdentical
	case sim >= 0.7:
		factor = boostRelated
	case sim >= 0.5:
		factor = boostWeak
	case sim >= 0.3:
		factor = penaltyLow
	case sim >= 0.1:
		factor = penaltyMismatch
	default:
		factor = penaltyAntagonal
	}
	return clampScore(base * factor)
}

// technicalTerms is the shared vocabulary scanned for the content bonus:
// phases, mechanical properties, alloying elements and heat-treatment
// steps as they appear in Korean claim prose.
var technicalTerms = []string{
	"마르텐사이트", "베이나이트", "오스테나이트", "페라이트",
	"인장강도", "항복강도", "연신율", "굽힘",
	"탄소", "망간", "실리콘", "크롬", "몰리브덴",
	"열처리", "냉각", "가열", "템퍼링",
}

const (
	termBonusPerMatch = 0.02
	termBonusCap      = 0.10
)

// TermOverlapBonus returns the multiplicative score bonus for technical
// terms appearing in both texts: 2% per shared term, capped at 10%.
func TermOverlapBonus(queryText, claimText string) float64 {
	query := strings.ToLower(queryText)
	cand := strings.ToLower(claimText)
	shared := 0
	for _, term := range technicalTerms {
		if strings.Contains(query, term) && strings.Contains(cand, term) {
			shared++
		}
	}
	bonus := float64(shared) * termBonusPerMatch
	if bonus > termBonusCap {
		return termBonusCap
	}
	return bonus
}

func clampScore(score float64) float64 {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
