package claim

import (
	"regexp"
	"strings"
)

// Steel classification values.  The Korean names are the literal values
// used in the corpus product-group column, so classification output is
// directly comparable with corpus metadata.
const (
	ClassHPF          = "HPF강"
	ClassMart         = "Mart강"
	ClassDP           = "DP강"
	ClassTRIP         = "TRIP강"
	ClassCP           = "CP강"
	ClassTWIP         = "TWIP강"
	ClassFB           = "FB강"
	ClassIF           = "IF강"
	ClassHighTensile  = "고장력강"
	ClassUltraTensile = "초고장력강"
	ClassStainless    = "스테인리스강"
	ClassCarbon       = "탄소강"
	ClassAlloy        = "합금강"
	ClassCoated       = "도금강판"
	ClassColdRolled   = "냉연강판"
	ClassHotRolled    = "열연강판"

	// Unclassified is returned when no keyword matches.  Classification is
	// never empty.
	Unclassified = "unclassified"
)

// classKeywords pairs a classification with the keywords that imply it.
// The slice order is the scan priority: a hot-press-forming indicator
// outranks a martensitic indicator, which outranks the generic tensile
// grades, which outrank plain process/product words.  The first matching
// keyword wins.
var classKeywords = []struct {
	class    string
	keywords []string
}{
	{ClassHPF, []string{"hpf강", "hpf", "hot press forming", "핫프레스포밍", "핫스탬핑"}},
	{ClassMart, []string{"mart강", "마르텐사이트강", "martensitic steel", "마르텐사이트계"}},
	{ClassDP, []string{"dp강", "dual phase", "듀얼페이즈"}},
	{ClassTRIP, []string{"trip강", "trip", "transformation induced plasticity"}},
	{ClassCP, []string{"cp강", "complex phase", "복합조직강"}},
	{ClassTWIP, []string{"twip강", "twip", "twinning induced plasticity"}},
	{ClassFB, []string{"fb강", "ferrite bainite", "페라이트베이나이트"}},
	{ClassIF, []string{"if강", "interstitial free", "극저탄소강"}},
	{ClassUltraTensile, []string{"초고장력강", "ultra high tensile", "uhts", "초고강도"}},
	{ClassHighTensile, []string{"고장력강", "high tensile", "고인장강도", "고강도", "high strength"}},
	{ClassStainless, []string{"스테인리스강", "stainless steel", "스테인레스강", "스테인리스", "스테인레스", "stainless"}},
	{ClassCarbon, []string{"탄소강", "carbon steel"}},
	{ClassAlloy, []string{"합금강", "alloy steel"}},
	{ClassCoated, []string{"도금강판", "아연도금강판", "galvanized steel", "coated steel", "도금", "galvanized"}},
	{ClassColdRolled, []string{"냉연강판", "cold rolled steel", "냉연", "cold rolled"}},
	{ClassHotRolled, []string{"열연강판", "hot rolled steel", "열연", "hot rolled"}},
}

// reClassificationLabel matches the explicit labeled form
// "강종분류: HPF강" / "steel classification: HPF".
var reClassificationLabel = regexp.MustCompile(`(?i)(?:강종\s*분류|steel\s*classification)\s*[:：]\s*([^\s,;.]+)`)

// ClassifyText determines the coarse steel classification of claim text.
// An explicit labeled field wins; otherwise the keyword table is scanned
// in priority order.  No match yields Unclassified, never an empty string.
func ClassifyText(text string) string {
	if m := reClassificationLabel.FindStringSubmatch(text); m != nil {
		if label := normalizeClassLabel(m[1]); label != "" {
			return label
		}
	}

	lower := strings.ToLower(text)
	for _, entry := range classKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.class
			}
		}
	}
	return Unclassified
}

// normalizeClassLabel maps a free-form label value to a known class.
// Unknown labels fall through to keyword scanning by returning "".
func normalizeClassLabel(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return ""
	}
	for _, entry := range classKeywords {
		if strings.ToLower(entry.class) == lower {
			return entry.class
		}
		for _, kw := range entry.keywords {
			if kw == lower {
				return entry.class
			}
		}
	}
	return ""
}

// classSimilarity holds pairwise similarity in [0,1] between
// classifications.  Pairs are stored one-directionally; lookups check both
// orders.  The HPF/Mart pair is near zero: the two grades are produced by
// incompatible processes, so a query for one must not surface the other.
var classSimilarity = map[string]map[string]float64{
	ClassHPF: {
		ClassMart: 0.01, ClassDP: 0.3, ClassTRIP: 0.25, ClassCP: 0.35,
		ClassTWIP: 0.2, ClassFB: 0.4, ClassHighTensile: 0.6, ClassUltraTensile: 0.8,
		ClassStainless: 0.1, ClassCarbon: 0.2, ClassAlloy: 0.4,
	},
	ClassMart: {
		ClassDP: 0.4, ClassTRIP: 0.35, ClassCP: 0.5, ClassTWIP: 0.3,
		ClassFB: 0.6, ClassHighTensile: 0.7, ClassUltraTensile: 0.8,
		ClassStainless: 0.2, ClassCarbon: 0.3, ClassAlloy: 0.6,
	},
	ClassDP: {
		ClassTRIP: 0.7, ClassCP: 0.8, ClassTWIP: 0.6, ClassFB: 0.7,
		ClassHighTensile: 0.8, ClassUltraTensile: 0.7, ClassStainless: 0.1,
		ClassCarbon: 0.3, ClassAlloy: 0.5,
	},
	ClassTRIP: {
		ClassCP: 0.75, ClassTWIP: 0.8, ClassFB: 0.6, ClassHighTensile: 0.7,
		ClassUltraTensile: 0.6, ClassStainless: 0.1, ClassCarbon: 0.2, ClassAlloy: 0.4,
	},
	ClassHighTensile: {
		ClassCP: 0.8, ClassTWIP: 0.6, ClassFB: 0.7, ClassUltraTensile: 0.9,
		ClassStainless: 0.2, ClassCarbon: 0.5, ClassAlloy: 0.6,
	},
	ClassUltraTensile: {
		ClassCP: 0.7, ClassTWIP: 0.5, ClassFB: 0.6, ClassStainless: 0.1,
		ClassCarbon: 0.3, ClassAlloy: 0.5,
	},
}

// defaultClassSimilarity applies to class pairs absent from the matrix.
const defaultClassSimilarity = 0.1

// antagonisticThreshold separates "merely different" from "known
// incompatible" class pairs.
const antagonisticThreshold = 0.05

// ClassSimilarity returns the similarity in [0,1] between two
// classifications.  Identical classes score 1; unknown pairs score the
// default constant.
func ClassSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == Unclassified || b == Unclassified || a == "" || b == "" {
		return defaultClassSimilarity
	}
	if row, ok := classSimilarity[a]; ok {
		if s, ok := row[b]; ok {
			return s
		}
	}
	if row, ok := classSimilarity[b]; ok {
		if s, ok := row[a]; ok {
			return s
		}
	}
	return defaultClassSimilarity
}

// Antagonistic reports whether two classifications form a known
// incompatible pair, e.g. HPF강 and Mart강.
func Antagonistic(a, b string) bool {
	if a == b {
		return false
	}
	return ClassSimilarity(a, b) <= antagonisticThreshold
}

// relatedGroups lists product groups considered adjacent for retrieval
// score adjustment.
var relatedGroups = map[string][]string{
	ClassMart:         {ClassHighTensile, ClassHPF},
	ClassHPF:          {ClassHighTensile, ClassMart},
	ClassHighTensile:  {ClassMart, ClassHPF, ClassUltraTensile},
	ClassUltraTensile: {ClassHighTensile},
	ClassCoated:       {ClassColdRolled},
	ClassColdRolled:   {ClassCoated},
	ClassStainless:    {ClassAlloy},
	ClassAlloy:        {ClassStainless},
}

// Related reports whether two classifications belong to the same broad
// group without being identical.
func Related(a, b string) bool {
	for _, r := range relatedGroups[a] {
		if r == b {
			return true
		}
	}
	return false
}

// Classification match percentages for the comparison table.
const (
	ClassMatchExact        = 100.0
	ClassMatchRelated      = 75.0
	ClassMatchAntagonistic = 10.0
	ClassMatchBaseline     = 50.0
)

// ClassMatchPercent maps a pair of classifications to the fixed comparison
// constant for the classification row.
func ClassMatchPercent(a, b string) float64 {
	switch {
	case a == b:
		return ClassMatchExact
	case Antagonistic(a, b):
		return ClassMatchAntagonistic
	case Related(a, b):
		return ClassMatchRelated
	default:
		return ClassMatchBaseline
	}
}
