// Package claim implements the claim attribute extractor: it converts
// unstructured bilingual (Korean/English) patent claim prose into a
// canonical schema of numeric ranges and a coarse steel classification.
// Extraction is a pure function of its input text; it never errors on
// malformed prose and degrades to partial results instead.
package claim

import (
	"fmt"
	"math"
	"strings"
)

// Comparator qualifies a single bound of a ValueRange.
type Comparator string

const (
	CmpGTE Comparator = ">=" // 이상
	CmpLTE Comparator = "<=" // 이하
	CmpGT  Comparator = ">"  // 초과
	CmpLT  Comparator = "<"  // 미만
)

// comparatorForQualifier maps the Korean bound qualifiers to comparators.
// Unknown qualifiers yield the inclusive form.
func comparatorForQualifier(q string, upper bool) Comparator {
	switch q {
	case "이상", "or more", "以上":
		return CmpGTE
	case "이하", "or less", "以下":
		return CmpLTE
	case "초과", "exceeding":
		return CmpGT
	case "미만", "less than":
		return CmpLT
	}
	if upper {
		return CmpLTE
	}
	return CmpGTE
}

// Unit tags the dimension of a ValueRange.
type Unit string

const (
	UnitMassPercent   Unit = "mass%"
	UnitMPa           Unit = "MPa"
	UnitMPaPercent    Unit = "MPa%"
	UnitDimensionless Unit = ""
)

// ValueRange is either a closed interval [Min, Max] or a single bound,
// with a comparator per present bound and a unit tag.  A nil Min or Max
// means that side is unbounded.  Absence of a key in Attributes means the
// text never mentioned it; a ValueRange with a zero-valued bound is a
// different, positive statement.
type ValueRange struct {
	Min    *float64   `json:"min,omitempty"`
	Max    *float64   `json:"max,omitempty"`
	MinCmp Comparator `json:"min_cmp,omitempty"`
	MaxCmp Comparator `json:"max_cmp,omitempty"`
	Unit   Unit       `json:"unit"`
}

// Interval constructs a closed range [min, max] with inclusive bounds.
func Interval(min, max float64, unit Unit) ValueRange {
	return ValueRange{Min: &min, Max: &max, MinCmp: CmpGTE, MaxCmp: CmpLTE, Unit: unit}
}

// LowerBound constructs a one-sided range bounded from below.
func LowerBound(min float64, cmp Comparator, unit Unit) ValueRange {
	return ValueRange{Min: &min, MinCmp: cmp, Unit: unit}
}

// UpperBound constructs a one-sided range bounded from above.
func UpperBound(max float64, cmp Comparator, unit Unit) ValueRange {
	return ValueRange{Max: &max, MaxCmp: cmp, Unit: unit}
}

// IsClosed reports whether both bounds are present.
func (v ValueRange) IsClosed() bool { return v.Min != nil && v.Max != nil }

// String renders the range for display, e.g. "0.15 ~ 0.40 mass%" or
// ">= 980 MPa".
func (v ValueRange) String() string {
	unit := string(v.Unit)
	if unit != "" {
		unit = " " + unit
	}
	switch {
	case v.IsClosed():
		return fmt.Sprintf("%s ~ %s%s", trimFloat(*v.Min), trimFloat(*v.Max), unit)
	case v.Min != nil:
		return fmt.Sprintf("%s %s%s", v.MinCmp, trimFloat(*v.Min), unit)
	case v.Max != nil:
		return fmt.Sprintf("%s %s%s", v.MaxCmp, trimFloat(*v.Max), unit)
	default:
		return "-"
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// halfLineOverlapPercent is the documented constant returned when two
// one-sided ranges point in opposite directions but their regions overlap;
// the overlap has no finite measure, so no ratio can be computed.
const halfLineOverlapPercent = 50.0

// MatchPercent computes a [0,100] similarity between two ranges of the
// same key using interval intersection over union.  One-sided bounds are
// compared by bound proximity.  Unit disagreement yields 0.
func (v ValueRange) MatchPercent(other ValueRange) float64 {
	if v.Unit != other.Unit {
		return 0
	}
	switch {
	case v.IsClosed() && other.IsClosed():
		return intervalIoU(*v.Min, *v.Max, *other.Min, *other.Max)
	case v.IsClosed() != other.IsClosed():
		closed, single := v, other
		if other.IsClosed() {
			closed, single = other, v
		}
		return boundInIntervalPercent(closed, single)
	default:
		return boundPairPercent(v, other)
	}
}

// intervalIoU is intersection-over-union of two closed intervals, as a
// percentage.  Two identical degenerate intervals score 100.
func intervalIoU(aMin, aMax, bMin, bMax float64) float64 {
	lo := math.Max(aMin, bMin)
	hi := math.Min(aMax, bMax)
	if hi < lo {
		return 0
	}
	uLo := math.Min(aMin, bMin)
	uHi := math.Max(aMax, bMax)
	if uHi == uLo {
		// Both degenerate at the same point.
		return 100
	}
	return (hi - lo) / (uHi - uLo) * 100
}

// boundInIntervalPercent scores a single bound against a closed interval
// as the fraction of the interval that satisfies the bound.
func boundInIntervalPercent(closed, single ValueRange) float64 {
	lo, hi := *closed.Min, *closed.Max
	if hi == lo {
		if satisfies(lo, single) {
			return 100
		}
		return 0
	}
	switch {
	case single.Min != nil:
		x := *single.Min
		if x <= lo {
			return 100
		}
		if x >= hi {
			return 0
		}
		return (hi - x) / (hi - lo) * 100
	case single.Max != nil:
		x := *single.Max
		if x >= hi {
			return 100
		}
		if x <= lo {
			return 0
		}
		return (x - lo) / (hi - lo) * 100
	default:
		return 0
	}
}

// boundPairPercent scores two one-sided ranges.  Same-direction bounds are
// compared by value ratio; opposite directions score the half-line
// constant when the regions intersect and 0 when they are disjoint.
func boundPairPercent(a, b ValueRange) float64 {
	switch {
	case a.Min != nil && b.Min != nil:
		return boundRatioPercent(*a.Min, *b.Min)
	case a.Max != nil && b.Max != nil:
		return boundRatioPercent(*a.Max, *b.Max)
	case a.Min != nil && b.Max != nil:
		if *a.Min <= *b.Max {
			return halfLineOverlapPercent
		}
		return 0
	case a.Max != nil && b.Min != nil:
		if *b.Min <= *a.Max {
			return halfLineOverlapPercent
		}
		return 0
	default:
		return 0
	}
}

func boundRatioPercent(x, y float64) float64 {
	if x == y {
		return 100
	}
	lo, hi := math.Min(x, y), math.Max(x, y)
	if hi == 0 {
		return 100
	}
	if lo < 0 {
		return 0
	}
	return lo / hi * 100
}

func satisfies(x float64, bound ValueRange) bool {
	if bound.Min != nil {
		switch bound.MinCmp {
		case CmpGT:
			if !(x > *bound.Min) {
				return false
			}
		default:
			if !(x >= *bound.Min) {
				return false
			}
		}
	}
	if bound.Max != nil {
		switch bound.MaxCmp {
		case CmpLT:
			if !(x < *bound.Max) {
				return false
			}
		default:
			if !(x <= *bound.Max) {
				return false
			}
		}
	}
	return true
}

// Category groups attribute keys for comparison rendering.
type Category string

const (
	CategoryComposition    Category = "composition"
	CategoryMicrostructure Category = "microstructure"
	CategoryProperty       Category = "property"
	CategoryClassification Category = "classification"
)

// ElementKeys lists the recognised alloying element symbols in canonical
// schema order.  Every comparison table renders exactly these composition
// rows.
var ElementKeys = []string{
	"C", "Si", "Mn", "P", "S", "Cr", "Mo", "Ti", "Nb", "V",
	"Cu", "Ni", "B", "N", "Al", "W", "Co", "Sn", "Sb", "Ca", "Mg", "Zr", "REM",
}

// MicrostructureKeys lists the canonical microstructure phase keys.
// Named variants precede their base phase so variant rules win first.
var MicrostructureKeys = []string{
	"tempered_martensite", "martensite",
	"lower_bainite", "bainite",
	"polygonal_ferrite", "ferrite",
	"retained_austenite", "austenite",
	"pearlite", "cementite",
}

// PropertyKeys lists the canonical mechanical property keys.
var PropertyKeys = []string{
	"tensile_strength", "yield_strength", "elongation", "strength_elongation_product",
}

// KeySteelClassification is the categorical classification attribute key.
const KeySteelClassification = "steel_classification"

// categoryByKey is derived from the canonical key lists.
var categoryByKey = func() map[string]Category {
	m := make(map[string]Category)
	for _, k := range ElementKeys {
		m[k] = CategoryComposition
	}
	for _, k := range MicrostructureKeys {
		m[k] = CategoryMicrostructure
	}
	for _, k := range PropertyKeys {
		m[k] = CategoryProperty
	}
	m[KeySteelClassification] = CategoryClassification
	return m
}()

// CategoryOf returns the category a canonical key belongs to, or the empty
// string for unknown keys.
func CategoryOf(key string) Category {
	return categoryByKey[key]
}

// Attributes is the result of one extraction run: numeric ranges keyed by
// canonical attribute key plus the steel classification, which is never
// empty (Unclassified at minimum).  A returned Attributes value is never
// mutated by the extractor afterwards.
type Attributes struct {
	Values         map[string]ValueRange `json:"values"`
	Classification string                `json:"steel_classification"`
}

// Get returns the range for key and whether the key was extracted.
func (a Attributes) Get(key string) (ValueRange, bool) {
	v, ok := a.Values[key]
	return v, ok
}

// Len returns the number of extracted numeric keys.
func (a Attributes) Len() int { return len(a.Values) }
