package search

import (
	"context"
	"sort"
)

// ApplicantCount is one entry of the top-applicant ranking.
type ApplicantCount struct {
	Applicant string `json:"applicant"`
	Count     int    `json:"count"`
}

// CorpusStats summarizes the loaded corpus.
type CorpusStats struct {
	TotalPatents     int              `json:"total_patents"`
	Countries        map[string]int   `json:"countries"`
	ProductGroups    map[string]int   `json:"product_groups"`
	YearDistribution map[int]int      `json:"year_distribution"`
	TopApplicants    []ApplicantCount `json:"top_applicants"`
	AvgClaimLength   float64          `json:"avg_claim_length"`
}

const topApplicantCount = 10

// Stats aggregates corpus-wide counts for the statistics endpoint.
func (s *Service) Stats(ctx context.Context) (*CorpusStats, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &CorpusStats{
		TotalPatents:     len(records),
		Countries:        make(map[string]int),
		ProductGroups:    make(map[string]int),
		YearDistribution: make(map[int]int),
	}
	applicants := make(map[string]int)
	var totalClaimLen int
	for _, r := range records {
		stats.Countries[r.CountryCode]++
		if r.ProductGroup != "" {
			stats.ProductGroups[r.ProductGroup]++
		}
		stats.YearDistribution[r.ApplicationYear]++
		if r.Applicant != "" {
			applicants[r.Applicant]++
		}
		totalClaimLen += len([]rune(r.ClaimText))
	}
	if len(records) > 0 {
		stats.AvgClaimLength = float64(totalClaimLen) / float64(len(records))
	}

	for a, n := range applicants {
		stats.TopApplicants = append(stats.TopApplicants, ApplicantCount{Applicant: a, Count: n})
	}
	sort.Slice(stats.TopApplicants, func(i, j int) bool {
		if stats.TopApplicants[i].Count != stats.TopApplicants[j].Count {
			return stats.TopApplicants[i].Count > stats.TopApplicants[j].Count
		}
		return stats.TopApplicants[i].Applicant < stats.TopApplicants[j].Applicant
	})
	if len(stats.TopApplicants) > topApplicantCount {
		stats.TopApplicants = stats.TopApplicants[:topApplicantCount]
	}
	return stats, nil
}
