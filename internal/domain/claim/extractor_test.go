package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCompositionForms(t *testing.T) {
	ex := NewExtractor()

	text := "C : 0.15 ~ 0.40 %, Mn : 1.0 % 이상 2.0 % 이하, 인장 강도가 980 MPa 이상인 강판"
	attrs := ex.Extract(text, nil)

	c, ok := attrs.Get("C")
	require.True(t, ok, "C must be extracted")
	require.True(t, c.IsClosed())
	assert.Equal(t, 0.15, *c.Min)
	assert.Equal(t, 0.40, *c.Max)
	assert.Equal(t, UnitMassPercent, c.Unit)

	mn, ok := attrs.Get("Mn")
	require.True(t, ok, "Mn must be extracted")
	require.True(t, mn.IsClosed())
	assert.Equal(t, 1.0, *mn.Min)
	assert.Equal(t, 2.0, *mn.Max)
	assert.Equal(t, CmpGTE, mn.MinCmp)
	assert.Equal(t, CmpLTE, mn.MaxCmp)

	ts, ok := attrs.Get("tensile_strength")
	require.True(t, ok, "tensile_strength must be extracted")
	require.NotNil(t, ts.Min)
	assert.Nil(t, ts.Max)
	assert.Equal(t, 980.0, *ts.Min)
	assert.Equal(t, CmpGTE, ts.MinCmp)
	assert.Equal(t, UnitMPa, ts.Unit)
}

func TestExtractNamedElementForm(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("탄소(C): 0.05~0.12%, 실리콘(Si): 0.5% 이하", nil)

	c, ok := attrs.Get("C")
	require.True(t, ok)
	assert.Equal(t, 0.05, *c.Min)
	assert.Equal(t, 0.12, *c.Max)

	si, ok := attrs.Get("Si")
	require.True(t, ok)
	assert.Nil(t, si.Min)
	assert.Equal(t, 0.5, *si.Max)
	assert.Equal(t, CmpLTE, si.MaxCmp)
}

func TestExtractValueBeforeNameForm(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("0.5% 이하의 Mn 및 0.03% 미만의 P를 포함하는 강", nil)

	mn, ok := attrs.Get("Mn")
	require.True(t, ok)
	assert.Equal(t, 0.5, *mn.Max)
	assert.Equal(t, CmpLTE, mn.MaxCmp)

	p, ok := attrs.Get("P")
	require.True(t, ok)
	assert.Equal(t, 0.03, *p.Max)
	assert.Equal(t, CmpLT, p.MaxCmp)
}

func TestExtractStrictQualifiers(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("Cr : 0.5 % 초과 2.0 % 미만", nil)

	cr, ok := attrs.Get("Cr")
	require.True(t, ok)
	assert.Equal(t, CmpGT, cr.MinCmp)
	assert.Equal(t, CmpLT, cr.MaxCmp)
	assert.Equal(t, 0.5, *cr.Min)
	assert.Equal(t, 2.0, *cr.Max)
}

func TestExtractMicrostructure(t *testing.T) {
	ex := NewExtractor()

	text := "조직은 템퍼드 마르텐사이트 90% 이상, 잔류 오스테나이트 5~15%를 포함한다"
	attrs := ex.Extract(text, nil)

	tm, ok := attrs.Get("tempered_martensite")
	require.True(t, ok)
	assert.Equal(t, 90.0, *tm.Min)
	assert.Equal(t, CmpGTE, tm.MinCmp)

	ra, ok := attrs.Get("retained_austenite")
	require.True(t, ok)
	require.True(t, ra.IsClosed())
	assert.Equal(t, 5.0, *ra.Min)
	assert.Equal(t, 15.0, *ra.Max)

	_, ok = attrs.Get("martensite")
	assert.False(t, ok, "variant mention must not fill the base phase key")
	_, ok = attrs.Get("austenite")
	assert.False(t, ok, "variant mention must not fill the base phase key")
}

func TestExtractBasePhaseStillMatches(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("마르텐사이트 조직 80% 이상을 갖는 강판", nil)

	m, ok := attrs.Get("martensite")
	require.True(t, ok)
	assert.Equal(t, 80.0, *m.Min)
}

func TestExtractRangeWinsOverThreshold(t *testing.T) {
	ex := NewExtractor()

	// Both a range form and a threshold form could match; the range rule
	// is evaluated first and must win.
	attrs := ex.Extract("페라이트 분율 20~40% 이상", nil)

	f, ok := attrs.Get("ferrite")
	require.True(t, ok)
	require.True(t, f.IsClosed())
	assert.Equal(t, 20.0, *f.Min)
	assert.Equal(t, 40.0, *f.Max)
}

func TestExtractProperties(t *testing.T) {
	ex := NewExtractor()

	text := "항복강도 600 MPa 이상, 연신율 12 % 이상, 인장강도 980~1180 MPa"
	attrs := ex.Extract(text, nil)

	ys, ok := attrs.Get("yield_strength")
	require.True(t, ok)
	assert.Equal(t, 600.0, *ys.Min)
	assert.Equal(t, UnitMPa, ys.Unit)

	el, ok := attrs.Get("elongation")
	require.True(t, ok)
	assert.Equal(t, 12.0, *el.Min)

	ts, ok := attrs.Get("tensile_strength")
	require.True(t, ok)
	require.True(t, ts.IsClosed())
	assert.Equal(t, 980.0, *ts.Min)
	assert.Equal(t, 1180.0, *ts.Max)
}

func TestExtractMalformedNumbersAreSkipped(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("Mn : abc % 이상, Si : 0.5 % 이하", nil)

	_, ok := attrs.Get("Mn")
	assert.False(t, ok, "malformed numeric must be a no-match, not an error")

	si, ok := attrs.Get("Si")
	require.True(t, ok)
	assert.Equal(t, 0.5, *si.Max)
}

func TestExtractInvertedRangeRejected(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("C : 0.40 ~ 0.15 %", nil)

	_, ok := attrs.Get("C")
	assert.False(t, ok)
}

func TestExtractEmptyText(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("", nil)
	assert.Zero(t, attrs.Len())
	assert.Equal(t, Unclassified, attrs.Classification)
}

func TestExtractDeterministic(t *testing.T) {
	ex := NewExtractor()
	text := "C : 0.1 ~ 0.2 %, Mn : 1.5 % 이하, 핫스탬핑용 강판"

	first := ex.Extract(text, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ex.Extract(text, nil))
	}
}

func TestExtractHintsFillOnlyEmptyKeys(t *testing.T) {
	ex := NewExtractor()

	text := "C : 0.15 ~ 0.40 %"
	hints := []string{"C : 0.9 % 이하", "Si : 0.5 % 이하", "인장강도 980 MPa 이상"}
	attrs := ex.Extract(text, hints)

	c, ok := attrs.Get("C")
	require.True(t, ok)
	require.True(t, c.IsClosed(), "text extraction must win over the hint")
	assert.Equal(t, 0.15, *c.Min)

	si, ok := attrs.Get("Si")
	require.True(t, ok, "hint must fill the empty key")
	assert.Equal(t, 0.5, *si.Max)

	ts, ok := attrs.Get("tensile_strength")
	require.True(t, ok)
	assert.Equal(t, 980.0, *ts.Min)
}

func TestExtractEarlierHintWins(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("청구항 본문에 조성이 없는 경우",
		[]string{"Mn : 1.5 % 이하", "Mn : 2.5 % 이하"})

	mn, ok := attrs.Get("Mn")
	require.True(t, ok)
	assert.Equal(t, 1.5, *mn.Max)
}

func TestExtractHintClassification(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("별다른 강종 단서가 없는 청구항", []string{"강종분류: DP강"})
	assert.Equal(t, ClassDP, attrs.Classification)

	// Text-derived classification wins over the hint.
	attrs = ex.Extract("핫스탬핑용 강판", []string{"강종분류: DP강"})
	assert.Equal(t, ClassHPF, attrs.Classification)
}

func TestExtractClassification(t *testing.T) {
	ex := NewExtractor()

	attrs := ex.Extract("핫스탬핑용 강판으로서 C : 0.2 ~ 0.3 %", nil)
	assert.Equal(t, ClassHPF, attrs.Classification)
	assert.Equal(t, 1, attrs.Len())
}
