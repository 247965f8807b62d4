package claim

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is one entry of the ordered extraction table: a canonical attribute
// key, a compiled pattern, and an extraction function that converts the
// submatches into a ValueRange.  Rules for a key are evaluated most
// specific first; the first rule whose pattern matches AND whose extract
// function accepts the submatches wins for that key.  A failed numeric
// parse counts as "pattern did not match", never as an error.
type Rule struct {
	// Key is the canonical attribute key this rule fills.
	Key string

	// Pattern locates one candidate expression in the text.
	Pattern *regexp.Regexp

	// Extract converts the pattern's submatches to a ValueRange.  The
	// boolean result rejects matches with malformed numeric tokens.
	Extract func(m []string) (ValueRange, bool)

	// NotPrecededBy rejects a match when the text immediately before the
	// match site ends with any of these prefixes.  Used to keep base
	// phase rules ("martensite") from consuming variant mentions
	// ("tempered martensite").
	NotPrecededBy []string
}

// matches runs the rule against text and returns the extracted range.
func (r Rule) matches(text string) (ValueRange, bool) {
	locs := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	for _, loc := range locs {
		if r.rejectedByPrefix(text, loc[0]) {
			continue
		}
		m := submatchStrings(text, loc)
		if v, ok := r.Extract(m); ok {
			return v, true
		}
	}
	return ValueRange{}, false
}

func (r Rule) rejectedByPrefix(text string, start int) bool {
	head := text[:start]
	for _, p := range r.NotPrecededBy {
		if strings.HasSuffix(strings.TrimRight(head, " \t"), p) {
			return true
		}
	}
	return false
}

func submatchStrings(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// parseNum parses a numeric token, tolerating surrounding whitespace and a
// trailing comma from loose claim punctuation.
func parseNum(s string) (float64, bool) {
	s = strings.Trim(strings.TrimSpace(s), ",")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// num is the numeric token sub-pattern shared by all rules.
const num = `(\d+(?:\.\d+)?)`

// rangeSep matches the interval separators used in the corpus: tilde
// variants, "내지" and a spelled dash.
const rangeSep = `\s*(?:~|∼|내지|-)\s*`

// qual matches a bound qualifier in Korean or English.
const qual = `(이상|이하|초과|미만|or more|or less|exceeding|less than)`

// koreanElementNames maps element symbols to their Korean and English
// spellings used in "탄소(C): …" style compositions.
var koreanElementNames = map[string][]string{
	"C":   {"탄소", "carbon"},
	"Si":  {"실리콘", "규소", "silicon"},
	"Mn":  {"망간", "manganese"},
	"P":   {"인", "phosphorus"},
	"S":   {"황", "sulfur"},
	"Cr":  {"크롬", "chromium"},
	"Mo":  {"몰리브덴", "molybdenum"},
	"Ti":  {"티타늄", "티탄", "titanium"},
	"Nb":  {"니오븀", "니오브", "niobium"},
	"V":   {"바나듐", "vanadium"},
	"Cu":  {"구리", "copper"},
	"Ni":  {"니켈", "nickel"},
	"B":   {"붕소", "보론", "boron"},
	"N":   {"질소", "nitrogen"},
	"Al":  {"알루미늄", "aluminum", "aluminium"},
	"W":   {"텅스텐", "tungsten"},
	"Co":  {"코발트", "cobalt"},
	"Sn":  {"주석", "tin"},
	"Sb":  {"안티몬", "antimony"},
	"Ca":  {"칼슘", "calcium"},
	"Mg":  {"마그네슘", "magnesium"},
	"Zr":  {"지르코늄", "zirconium"},
	"REM": {"희토류", "rare earth"},
}

// microstructureNames maps canonical phase keys to their textual spellings.
// Variant keys list only variant-qualified spellings; the base keys carry
// NotPrecededBy guards instead.
var microstructureNames = map[string][]string{
	"tempered_martensite": {"템퍼드 마르텐사이트", "템퍼링된 마르텐사이트", "tempered martensite"},
	"martensite":          {"마르텐사이트", "마텐자이트", "martensite"},
	"lower_bainite":       {"하부 베이나이트", "lower bainite"},
	"bainite":             {"베이나이트", "bainite"},
	"polygonal_ferrite":   {"폴리고날 페라이트", "다각형 페라이트", "polygonal ferrite"},
	"ferrite":             {"페라이트", "ferrite"},
	"retained_austenite":  {"잔류 오스테나이트", "잔류오스테나이트", "retained austenite"},
	"austenite":           {"오스테나이트", "austenite"},
	"pearlite":            {"펄라이트", "pearlite"},
	"cementite":           {"세멘타이트", "시멘타이트", "cementite"},
}

// variantGuards keeps a base phase rule from matching inside a variant
// mention that a more specific key owns.
var variantGuards = map[string][]string{
	"martensite": {"템퍼드", "템퍼링된", "tempered", "Tempered"},
	"bainite":    {"하부", "lower", "Lower"},
	"ferrite":    {"폴리고날", "다각형", "polygonal", "Polygonal"},
	"austenite":  {"잔류", "retained", "Retained"},
}

// extractInterval builds a closed range from two numeric submatches.
func extractInterval(unit Unit) func(m []string) (ValueRange, bool) {
	return func(m []string) (ValueRange, bool) {
		lo, ok1 := parseNum(m[1])
		hi, ok2 := parseNum(m[2])
		if !ok1 || !ok2 || lo > hi {
			return ValueRange{}, false
		}
		return Interval(lo, hi, unit), true
	}
}

// extractQualifiedPair builds a closed range from "v1 이상 v2 이하" style
// double-qualified expressions, honoring each qualifier's comparator.
func extractQualifiedPair(unit Unit) func(m []string) (ValueRange, bool) {
	return func(m []string) (ValueRange, bool) {
		lo, ok1 := parseNum(m[1])
		hi, ok2 := parseNum(m[3])
		if !ok1 || !ok2 || lo > hi {
			return ValueRange{}, false
		}
		loPtr, hiPtr := lo, hi
		return ValueRange{
			Min:    &loPtr,
			Max:    &hiPtr,
			MinCmp: comparatorForQualifier(strings.ToLower(m[2]), false),
			MaxCmp: comparatorForQualifier(strings.ToLower(m[4]), true),
			Unit:   unit,
		}, true
	}
}

// extractSingleBound builds a one-sided range from a value plus qualifier.
func extractSingleBound(unit Unit) func(m []string) (ValueRange, bool) {
	return func(m []string) (ValueRange, bool) {
		v, ok := parseNum(m[1])
		if !ok {
			return ValueRange{}, false
		}
		cmp := comparatorForQualifier(strings.ToLower(m[2]), false)
		if cmp == CmpLTE || cmp == CmpLT {
			return UpperBound(v, cmp, unit), true
		}
		return LowerBound(v, cmp, unit), true
	}
}

// elementRules builds the ordered rule list for one element symbol, most
// specific form first:
//
//	(a) "탄소(C): 0.15~0.40%"            named, parenthesised symbol
//	(b) "C : 0.15 ~ 0.40 %"              symbol with interval
//	    "Mn : 1.0 % 이상 2.0 % 이하"      symbol with qualified pair
//	    "C : 0.4 % 이하"                  symbol with single bound
//	(c) "0.5% 이하의 Mn"                  value before name
func elementRules(symbol string) []Rule {
	sym := regexp.QuoteMeta(symbol)
	names := append([]string{}, koreanElementNames[symbol]...)
	namesAlt := ""
	if len(names) > 0 {
		namesAlt = `(?:` + strings.Join(escapeAll(names), "|") + `)`
	}

	var rules []Rule

	if namesAlt != "" {
		// (a) structured named forms.
		rules = append(rules,
			Rule{
				Key:     symbol,
				Pattern: regexp.MustCompile(`(?i)` + namesAlt + `\s*\(\s*` + sym + `\s*\)\s*[:：]?\s*` + num + rangeSep + num + `\s*%`),
				Extract: extractInterval(UnitMassPercent),
			},
			Rule{
				Key:     symbol,
				Pattern: regexp.MustCompile(`(?i)` + namesAlt + `\s*\(\s*` + sym + `\s*\)\s*[:：]?\s*` + num + `\s*%?\s*` + qual),
				Extract: extractSingleBound(UnitMassPercent),
			},
		)
	}

	// (b) symbol-colon forms.
	rules = append(rules,
		Rule{
			Key:     symbol,
			Pattern: regexp.MustCompile(`\b` + sym + `\s*[:：]\s*` + num + `\s*%?\s*` + qual + `\s*` + num + `\s*%?\s*` + qual),
			Extract: extractQualifiedPair(UnitMassPercent),
		},
		Rule{
			Key:     symbol,
			Pattern: regexp.MustCompile(`\b` + sym + `\s*[:：]\s*` + num + rangeSep + num + `\s*%`),
			Extract: extractInterval(UnitMassPercent),
		},
		Rule{
			Key:     symbol,
			Pattern: regexp.MustCompile(`\b` + sym + `\s*[:：]\s*` + num + `\s*%?\s*` + qual),
			Extract: extractSingleBound(UnitMassPercent),
		},
		// (c) value-before-name.
		Rule{
			Key:     symbol,
			Pattern: regexp.MustCompile(num + `\s*%\s*` + qual + `의?\s*` + sym + `\b`),
			Extract: extractSingleBound(UnitMassPercent),
		},
	)
	return rules
}

// microstructureRules builds the ordered rule list for one phase key:
// two-sided range first, then single threshold, then value-before-name.
// When both a range and a threshold pattern match the same text the range
// rule wins because it is evaluated first; this is an explicit tie-break.
func microstructureRules(key string) []Rule {
	names := microstructureNames[key]
	alt := `(?:` + strings.Join(escapeAll(names), "|") + `)`
	guards := variantGuards[key]

	return []Rule{
		{
			Key:           key,
			Pattern:       regexp.MustCompile(`(?i)` + alt + `[^\d%]{0,30}?` + num + `\s*%?` + rangeSep + num + `\s*%`),
			Extract:       extractInterval(UnitMassPercent),
			NotPrecededBy: guards,
		},
		{
			Key:           key,
			Pattern:       regexp.MustCompile(`(?i)` + alt + `[^\d%]{0,30}?` + num + `\s*%?\s*` + qual + `\s*` + num + `\s*%?\s*` + qual),
			Extract:       extractQualifiedPair(UnitMassPercent),
			NotPrecededBy: guards,
		},
		{
			Key:           key,
			Pattern:       regexp.MustCompile(`(?i)` + alt + `[^\d%]{0,30}?` + num + `\s*%\s*` + qual),
			Extract:       extractSingleBound(UnitMassPercent),
			NotPrecededBy: guards,
		},
		{
			Key:     key,
			Pattern: regexp.MustCompile(`(?i)` + num + `\s*%\s*` + qual + `의?\s*` + alt),
			Extract: extractSingleBound(UnitMassPercent),
		},
	}
}

// propertyNamePatterns maps property keys to name alternations.
var propertyNamePatterns = map[string]string{
	"tensile_strength":            `(?:인장\s*강도|tensile\s*strength|\bTS\b)`,
	"yield_strength":              `(?:항복\s*강도|yield\s*strength|\bYS\b)`,
	"elongation":                  `(?:연신율|연신|elongation|\bEL\b)`,
	"strength_elongation_product": `(?:TS\s*[x×*]\s*EL|강도[와과]?\s*연신율의?\s*곱|strength[- ]elongation\s*(?:product|balance))`,
}

// propertyUnits maps property keys to their unit tags.
var propertyUnits = map[string]Unit{
	"tensile_strength":            UnitMPa,
	"yield_strength":              UnitMPa,
	"elongation":                  UnitMassPercent,
	"strength_elongation_product": UnitMPaPercent,
}

// propertyUnitPatterns maps unit tags to the textual unit expressions.
var propertyUnitPatterns = map[Unit]string{
	UnitMPa:         `MPa`,
	UnitMassPercent: `%`,
	UnitMPaPercent:  `MPa[·\s]?%`,
}

// propertyRules builds the ordered rule list for one mechanical property:
// "property comparator value unit", the qualified pair, and the inverted
// "value unit comparator property" form.
func propertyRules(key string) []Rule {
	name := propertyNamePatterns[key]
	unit := propertyUnits[key]
	unitPat := propertyUnitPatterns[unit]

	return []Rule{
		{
			Key:     key,
			Pattern: regexp.MustCompile(`(?i)` + name + `[가는은이]?\s*[:：]?\s*` + num + `(?:\s*` + unitPat + `)?` + rangeSep + num + `\s*` + unitPat),
			Extract: extractInterval(unit),
		},
		{
			Key:     key,
			Pattern: regexp.MustCompile(`(?i)` + name + `[가는은이]?\s*[:：]?\s*` + num + `\s*` + unitPat + `\s*` + qual),
			Extract: extractSingleBound(unit),
		},
		{
			Key:     key,
			Pattern: regexp.MustCompile(`(?i)` + num + `\s*` + unitPat + `\s*` + qual + `의?\s*` + name),
			Extract: extractSingleBound(unit),
		},
	}
}

func escapeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = regexp.QuoteMeta(n)
	}
	return out
}

// ruleTable is the complete ordered extraction table, grouped per key with
// keys in canonical schema order.  Built once at package init; rules and
// their compiled patterns are immutable afterwards, which keeps extraction
// safe for concurrent use.
var ruleTable = func() map[string][]Rule {
	table := make(map[string][]Rule)
	for _, sym := range ElementKeys {
		table[sym] = elementRules(sym)
	}
	for _, key := range MicrostructureKeys {
		table[key] = microstructureRules(key)
	}
	for _, key := range PropertyKeys {
		table[key] = propertyRules(key)
	}
	return table
}()
