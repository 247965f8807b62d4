package claim

import (
	"strings"
)

// Extractor turns free-form claim text into structured Attributes using
// the package rule table.  It is stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor returns an Extractor over the canonical rule table.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the claim text and returns the attributes it finds.
// Extraction is pure: the same text and hints always yield the same
// result, and no error is ever returned for malformed expressions; a
// key whose expressions cannot be parsed is simply absent.
//
// hints carries pre-parsed claim-key strings from corpus metadata.  They
// are scanned with the same rule table as the claim text but at lower
// precedence: a hint can only fill a key the primary text left empty.
func (e *Extractor) Extract(text string, hints []string) Attributes {
	attrs := Attributes{Values: make(map[string]ValueRange)}

	for _, key := range canonicalKeyOrder() {
		for _, rule := range ruleTable[key] {
			if v, ok := rule.matches(text); ok {
				attrs.Values[key] = v
				break
			}
		}
	}
	attrs.Classification = ClassifyText(text)

	e.applyHints(&attrs, hints)
	return attrs
}

// applyHints scans each hint string in order, filling only keys that the
// primary text left empty.  Earlier hints outrank later ones.
func (e *Extractor) applyHints(attrs *Attributes, hints []string) {
	for _, hint := range hints {
		hint = strings.TrimSpace(hint)
		if hint == "" {
			continue
		}
		for _, key := range canonicalKeyOrder() {
			if _, ok := attrs.Values[key]; ok {
				continue
			}
			for _, rule := range ruleTable[key] {
				if v, ok := rule.matches(hint); ok {
					attrs.Values[key] = v
					break
				}
			}
		}
		if attrs.Classification == Unclassified {
			if c := ClassifyText(hint); c != Unclassified {
				attrs.Classification = c
			}
		}
	}
}

// canonicalOrder lists every rule-table key in schema order.
var canonicalOrder = func() []string {
	keys := make([]string, 0, len(ElementKeys)+len(MicrostructureKeys)+len(PropertyKeys))
	keys = append(keys, ElementKeys...)
	keys = append(keys, MicrostructureKeys...)
	keys = append(keys, PropertyKeys...)
	return keys
}()

func canonicalKeyOrder() []string { return canonicalOrder }
