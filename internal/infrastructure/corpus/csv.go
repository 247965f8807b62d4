package corpus

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

// Corpus CSV column headers.  The corpus files carry Korean headers; the
// English aliases accept exported variants of the same data.
var csvColumns = map[string][]string{
	"id":            {"출원번호", "application_number", "patent_id"},
	"title":         {"발명의 명칭", "title"},
	"applicant":     {"출원인", "applicant"},
	"date":          {"출원일", "application_date"},
	"country":       {"국가코드", "country_code"},
	"product_group": {"제품군", "product_group"},
	"claim":         {"청구항1", "claim_1", "claim_text"},
	"claim_keys":    {"청구항 키", "claim_keys"},
}

// CSVStore loads the corpus from a CSV file once at construction.
type CSVStore struct {
	*MemoryStore
	path string
}

// NewCSVStore reads and validates the corpus file.  Rows with no claim
// text are skipped with a warning rather than failing the load, matching
// how the corpus files are curated; an empty result is an error because
// the service cannot serve without a corpus.
func NewCSVStore(path string, logger logging.Logger) (*CSVStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to open corpus file").
			WithDetail("path=" + path)
	}
	defer f.Close()

	records, skipped, err := readRecords(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCorpusLoadFailed, "failed to read corpus file").
			WithDetail("path=" + path)
	}
	if skipped > 0 {
		logger.Warn("skipped corpus rows without claim text",
			logging.Int("skipped", skipped), logging.String("path", path))
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeCorpusEmpty, "corpus file contains no usable records").
			WithDetail("path=" + path)
	}

	mem, err := NewMemoryStore(records)
	if err != nil {
		return nil, err
	}
	logger.Info("corpus loaded",
		logging.String("path", path),
		logging.Int("records", mem.Count()),
		logging.String("content_hash", mem.ContentHash()[:12]))
	return &CSVStore{MemoryStore: mem, path: path}, nil
}

// Path returns the corpus file path the store was loaded from.
func (s *CSVStore) Path() string { return s.path }

func readRecords(r io.Reader) ([]patent.Record, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	cols := resolveColumns(header)
	if _, ok := cols["claim"]; !ok {
		return nil, 0, fmt.Errorf("corpus header has no claim column")
	}

	var (
		records []patent.Record
		skipped int
		rowNum  int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row %d: %w", rowNum+2, err)
		}
		rowNum++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		claim := field("claim")
		if claim == "" {
			skipped++
			continue
		}

		id := field("id")
		if id == "" {
			id = fmt.Sprintf("PATENT_%04d", rowNum-1)
		}
		country := field("country")
		if country == "" {
			country = "KR"
		}

		records = append(records, patent.Record{
			ID:              id,
			Title:           field("title"),
			Applicant:       field("applicant"),
			ApplicationYear: patent.ParseApplicationYear(field("date")),
			CountryCode:     country,
			ProductGroup:    field("product_group"),
			ClaimText:       claim,
			ClaimKeys:       parseClaimKeys(field("claim_keys")),
		})
	}
	return records, skipped, nil
}

// resolveColumns maps logical column names to header indexes, accepting
// any known alias.
func resolveColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		for name, aliases := range csvColumns {
			if _, done := cols[name]; done {
				continue
			}
			for _, alias := range aliases {
				if strings.EqualFold(h, alias) {
					cols[name] = i
					break
				}
			}
		}
	}
	return cols
}

// parseClaimKeys decodes the claim-key column, a JSON string array.
// Malformed or empty values degrade to no hints.
func parseClaimKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil
	}
	out := keys[:0]
	for _, k := range keys {
		k = strings.TrimSpace(strings.Trim(k, `"`))
		if k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var _ patent.Store = (*CSVStore)(nil)
