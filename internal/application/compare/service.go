// Package compare builds the side-by-side claim comparison table: every
// canonical attribute field of the query and candidate claims with
// per-field match percentages and per-category aggregates.
package compare

import (
	"context"
	"strings"

	"github.com/rephind/rephind/internal/domain/claim"
	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/embedding"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/prometheus"
	"github.com/rephind/rephind/internal/infrastructure/simindex"
	"github.com/rephind/rephind/pkg/errors"
)

// absentValue renders a side with no extracted value.
const absentValue = "-"

// Row is one line of the comparison table.  MatchPercent is nil when the
// field could not be compared (at least one side absent).
type Row struct {
	Category       claim.Category `json:"category"`
	Field          string         `json:"field"`
	QueryValue     string         `json:"query_value"`
	CandidateValue string         `json:"candidate_value"`
	MatchPercent   *float64       `json:"match_percent,omitempty"`
}

// Aggregates carries the per-category rollup percentages.
type Aggregates struct {
	Composition    float64 `json:"composition"`
	Microstructure float64 `json:"microstructure"`
	Property       float64 `json:"property"`
	Classification float64 `json:"classification"`
}

// Comparison is the full result of one compare call.
type Comparison struct {
	CandidateID             string     `json:"candidate_id"`
	QueryClassification     string     `json:"query_classification"`
	CandidateClassification string     `json:"candidate_classification"`
	OverallScore            float64    `json:"overall_score"`
	Rows                    []Row      `json:"rows"`
	Aggregates              Aggregates `json:"aggregates"`
}

// Aggregate fallback fractions of the overall similarity score, used for
// a category in which no field pair was numerically comparable.
const (
	compositionFallbackFraction    = 0.8
	microstructureFallbackFraction = 0.9
	propertyFallbackFraction       = 0.85
)

// Service runs comparisons against corpus candidates.
type Service struct {
	store     patent.Store
	encoder   embedding.Encoder
	extractor *claim.Extractor
	logger    logging.Logger
	metrics   *prometheus.Metrics
}

// NewService wires the comparison engine.  metrics may be nil.
func NewService(
	store patent.Store,
	encoder embedding.Encoder,
	extractor *claim.Extractor,
	logger logging.Logger,
	metrics *prometheus.Metrics,
) *Service {
	return &Service{
		store:     store,
		encoder:   encoder,
		extractor: extractor,
		logger:    logger.Named("compare"),
		metrics:   metrics,
	}
}

// Compare extracts attributes from the query text and the candidate's
// claim, scores the pair and renders the table.  Unknown candidate ids
// return NotFound; unparseable claim prose never errors, it just leaves
// fields absent.
func (s *Service) Compare(ctx context.Context, queryText, candidateID string) (*Comparison, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, errors.New(errors.ErrCodeClaimTextMissing, "query claim text is empty")
	}
	rec, err := s.store.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	queryAttrs := s.extract(queryText, nil)
	candAttrs := s.extract(rec.ClaimText, rec.ClaimKeys)
	// A curated product group is a stronger classification signal than
	// keyword scanning of the candidate claim.
	if rec.ProductGroup != "" {
		candAttrs.Classification = rec.ProductGroup
	}

	overall, err := s.similarity(ctx, queryText, rec)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		CandidateID:             rec.ID,
		QueryClassification:     queryAttrs.Classification,
		CandidateClassification: candAttrs.Classification,
		OverallScore:            overall,
	}
	cmp.Rows = buildRows(queryAttrs, candAttrs)
	cmp.Aggregates = aggregate(cmp.Rows, overall)

	if s.metrics != nil {
		s.metrics.ComparisonsTotal.Inc()
	}
	s.logger.Debug("comparison built",
		logging.String("candidate_id", rec.ID),
		logging.Int("rows", len(cmp.Rows)),
		logging.Float64("overall", overall))
	return cmp, nil
}

func (s *Service) extract(text string, hints []string) claim.Attributes {
	attrs := s.extractor.Extract(text, hints)
	if s.metrics != nil {
		s.metrics.ExtractionsTotal.Inc()
		s.metrics.ExtractedKeys.Observe(float64(attrs.Len()))
	}
	return attrs
}

// similarity computes the retrieval similarity between the query text and
// the candidate's embedded combined text.
func (s *Service) similarity(ctx context.Context, queryText string, rec *patent.Record) (float64, error) {
	vecs, err := s.encoder.EncodeBatch(ctx, []string{queryText, rec.CombinedText()})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeComparisonFailed, "failed to embed comparison pair")
	}
	q := simindex.Normalize(vecs[0])
	c := simindex.Normalize(vecs[1])
	return simindex.ScoreFromCosine(simindex.Dot(q, c)), nil
}

// buildRows renders every canonical schema field exactly once, in schema
// order, with the classification row last.
func buildRows(query, cand claim.Attributes) []Row {
	keys := make([]string, 0, len(claim.ElementKeys)+len(claim.MicrostructureKeys)+len(claim.PropertyKeys))
	keys = append(keys, claim.ElementKeys...)
	keys = append(keys, claim.MicrostructureKeys...)
	keys = append(keys, claim.PropertyKeys...)

	rows := make([]Row, 0, len(keys)+1)
	for _, key := range keys {
		qv, qok := query.Get(key)
		cv, cok := cand.Get(key)
		row := Row{
			Category:       claim.CategoryOf(key),
			Field:          key,
			QueryValue:     absentValue,
			CandidateValue: absentValue,
		}
		if qok {
			row.QueryValue = qv.String()
		}
		if cok {
			row.CandidateValue = cv.String()
		}
		if qok && cok {
			pct := qv.MatchPercent(cv)
			row.MatchPercent = &pct
		}
		rows = append(rows, row)
	}

	classPct := claim.ClassMatchPercent(query.Classification, cand.Classification)
	rows = append(rows, Row{
		Category:       claim.CategoryClassification,
		Field:          claim.KeySteelClassification,
		QueryValue:     query.Classification,
		CandidateValue: cand.Classification,
		MatchPercent:   &classPct,
	})
	return rows
}

// aggregate rolls rows up per category: the mean of computed match
// percentages, or the documented fixed fraction of the overall score for
// a category with no comparable pair.
func aggregate(rows []Row, overall float64) Aggregates {
	sums := make(map[claim.Category]float64)
	counts := make(map[claim.Category]int)
	var classification float64
	for _, r := range rows {
		if r.MatchPercent == nil {
			continue
		}
		if r.Category == claim.CategoryClassification {
			classification = *r.MatchPercent
			continue
		}
		sums[r.Category] += *r.MatchPercent
		counts[r.Category]++
	}

	category := func(c claim.Category, fallbackFraction float64) float64 {
		if counts[c] > 0 {
			return clamp(sums[c] / float64(counts[c]))
		}
		return clamp(fallbackFraction * overall)
	}
	return Aggregates{
		Composition:    category(claim.CategoryComposition, compositionFallbackFraction),
		Microstructure: category(claim.CategoryMicrostructure, microstructureFallbackFraction),
		Property:       category(claim.CategoryProperty, propertyFallbackFraction),
		Classification: classification,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
