package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docreview/internal/segment"
)

func seg(n int, text string) segment.Segment {
	return segment.Segment{Source: segment.PageLocator(n), Text: text}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"제1조", "목적", "article", "2", "5억원"}, Tokenize("제1조(목적) Article 2: 5억원"))
	assert.Empty(t, Tokenize(" .,;: "))
}

func TestScoreNormalization(t *testing.T) {
	segs := []segment.Segment{
		seg(1, "본 계약은 당사자 간의 투자 조건을 정한다."),
		seg(2, "투자금액 500,000,000원 주당 발행가액 10,000원 발행주식수 50,000주"),
		seg(3, "서명"),
		seg(4, strings.Repeat("준거법은 대한민국 법으로 한다. ", 40)),
	}
	s := Score(segs)

	require.Len(t, s.Weights, 4)
	require.Len(t, s.Ranked, 4)
	var ones int
	for _, w := range s.Weights {
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
		if w == 1.0 {
			ones++
		}
	}
	assert.GreaterOrEqual(t, ones, 1)
	for i := 1; i < len(s.Ranked); i++ {
		assert.GreaterOrEqual(t, s.Ranked[i-1].Weight, s.Ranked[i].Weight)
	}
	assert.Greater(t, s.Weight(segment.PageLocator(2)), s.Weight(segment.PageLocator(1)), "numeric-heavy segment ranks above prose")
	assert.Zero(t, s.Weight(segment.PageLocator(99)))
}

func TestScoreDegenerate(t *testing.T) {
	s := Score([]segment.Segment{seg(1, "같은 문장"), seg(2, "같은 문장")})
	for _, w := range s.Weights {
		assert.Zero(t, w)
	}

	single := Score([]segment.Segment{seg(1, "투자금액: 5억원")})
	assert.Zero(t, single.Weight(segment.PageLocator(1)))

	empty := Score(nil)
	assert.Empty(t, empty.Ranked)
	assert.Zero(t, empty.Weight(segment.PageLocator(1)))
}

func TestHeadingAndPreview(t *testing.T) {
	tests := map[string]string{
		"제3조 (투자금액) 투자자는":   "제3조 (투자금액)",
		"제 12 조 비밀유지":       "제 12 조",
		"Article 7 Governing Law": "Article 7",
		"SECTION 4.2 Closing":     "SECTION 4.2",
		"본 계약은":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Heading(in), in)
	}

	s := Score([]segment.Segment{seg(1, strings.Repeat("가", 200)), seg(2, "제1조 (목적)\n본 계약은")})
	for _, r := range s.Ranked {
		if r.Source == segment.PageLocator(1) {
			assert.Equal(t, 121, len([]rune(r.Preview)))
		} else {
			assert.Equal(t, "제1조 (목적)", r.Heading)
			assert.Equal(t, "제1조 (목적) 본 계약은", r.Preview)
		}
	}
}
