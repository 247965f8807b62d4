// Package patent defines the immutable patent corpus record and the store
// contract for loading it.  The corpus is read-only at runtime; all business
// rules that concern corpus records live here, while loading from CSV or
// Postgres is handled by infrastructure adapters.
package patent

import (
	"strconv"
	"strings"

	"github.com/rephind/rephind/pkg/errors"
)

// DefaultApplicationYear is assumed when a record carries no parseable
// application date.
const DefaultApplicationYear = 2020

// Record is a single immutable patent corpus entry, loaded once at
// corpus-build time and never mutated afterwards.
type Record struct {
	// ID uniquely identifies the record, typically the application number
	// (e.g. "KR1020190001234").
	ID string `json:"patent_id"`

	// Title is the invention title.
	Title string `json:"title"`

	// Applicant is the filing organisation.
	Applicant string `json:"applicant"`

	// ApplicationYear is the filing year extracted from the application
	// date; DefaultApplicationYear when the date was unparseable.
	ApplicationYear int `json:"application_year"`

	// CountryCode is the two-letter filing jurisdiction, e.g. "KR".
	CountryCode string `json:"country_code"`

	// ProductGroup is a coarse material/product category assigned upstream
	// (e.g. "Mart강", "HPF강").  May be empty.
	ProductGroup string `json:"product_group,omitempty"`

	// ClaimText is the body of claim 1, the legal scope definition and the
	// primary text source for embedding and attribute extraction.
	ClaimText string `json:"claim_text"`

	// ClaimKeys holds pre-parsed claim-key hints produced by an offline
	// process.  They are a lower-precedence extraction source and are
	// never authoritative.
	ClaimKeys []string `json:"claim_keys,omitempty"`
}

// Validate reports whether the record is usable as a corpus entry.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New(errors.ErrCodeValidation, "patent record requires an id")
	}
	if strings.TrimSpace(r.ClaimText) == "" {
		return errors.New(errors.ErrCodeValidation, "patent record requires claim text").
			WithDetail("id=" + r.ID)
	}
	return nil
}

// CombinedText returns the text that is embedded for this record: title,
// claim body, claim-key hints and product group concatenated with labeled
// sections.  The layout matches what the index was originally trained
// against and must stay stable across rebuilds, because the corpus content
// hash covers claim text but the embedding covers this combination.
func (r *Record) CombinedText() string {
	var sb strings.Builder
	sb.WriteString("제목: ")
	sb.WriteString(r.Title)
	sb.WriteString("\n청구항: ")
	sb.WriteString(r.ClaimText)
	sb.WriteString("\n키워드: ")
	sb.WriteString(strings.Join(r.ClaimKeys, " "))
	sb.WriteString("\n제품군: ")
	sb.WriteString(r.ProductGroup)
	return sb.String()
}

// ParseApplicationYear extracts the filing year from a date string in any of
// the corpus formats ("2019-03-01", "2019/03/01", "20190301", bare "2019").
// Unparseable input yields DefaultApplicationYear.
func ParseApplicationYear(date string) int {
	date = strings.TrimSpace(date)
	if date == "" {
		return DefaultApplicationYear
	}
	if i := strings.IndexAny(date, "-/."); i > 0 {
		date = date[:i]
	}
	if len(date) > 4 {
		date = date[:4]
	}
	year, err := strconv.Atoi(date)
	if err != nil || year < 1800 || year > 2200 {
		return DefaultApplicationYear
	}
	return year
}
