// Package pdfext extracts patent claim text from uploaded PDF documents.
package pdfext

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rephind/rephind/pkg/errors"
)

// ExtractText pulls the plain text out of a PDF document.
func ExtractText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodePDFParseFailed, "failed to open PDF")
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodePDFParseFailed, "failed to extract page text").
				WithDetail(fmt.Sprintf("page=%d", i))
		}
		buf.WriteString(text)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", errors.New(errors.ErrCodePDFParseFailed, "PDF contains no extractable text")
	}
	return buf.String(), nil
}

// claimPatterns locate the first claim, tried in order.  Matching stops
// at claim 2 or the end of the document.
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)claim\s*1[.:]?\s*(.*?)(?:\n\s*(?:claim\s*2|2\.)|\z)`),
	regexp.MustCompile(`(?s)(?:【청구항\s*1】|청구항\s*1)[.:]?\s*(.*?)(?:\n\s*(?:【청구항\s*2】|청구항\s*2)|\z)`),
	regexp.MustCompile(`(?s)\n\s*1\.\s*(.*?)(?:\n\s*2\.|\z)`),
	regexp.MustCompile(`(?is)claims?\s*1[.:]?\s*(.*?)(?:\n\s*(?:claims?\s*2|2\.)|\z)`),
}

var reWhitespace = regexp.MustCompile(`\s+`)

// claim-ish words used by the paragraph fallback when no numbered claim
// is found.
var claimIndicators = []string{"comprising", "method", "system", "포함하는", "있어서"}

const minClaimParagraphLen = 50

// ExtractClaim locates the text of claim 1 in extracted document text.
// Numbered claim patterns are tried first; failing those, the first
// paragraph that reads like a claim is returned.
func ExtractClaim(text string) (string, error) {
	for _, re := range claimPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			claim := strings.TrimSpace(reWhitespace.ReplaceAllString(m[1], " "))
			if claim != "" {
				return claim, nil
			}
		}
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		p := strings.TrimSpace(paragraph)
		if len(p) < minClaimParagraphLen {
			continue
		}
		lower := strings.ToLower(p)
		for _, ind := range claimIndicators {
			if strings.Contains(lower, ind) {
				return reWhitespace.ReplaceAllString(p, " "), nil
			}
		}
	}
	return "", errors.New(errors.ErrCodeClaimNotFound, "no claim found in document text")
}

// ExtractClaimFromPDF combines text extraction and claim location.
func ExtractClaimFromPDF(content []byte) (string, error) {
	text, err := ExtractText(content)
	if err != nil {
		return "", err
	}
	return ExtractClaim(text)
}
