package mask

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docreview/internal/fields"
	"github.com/joseph-ayodele/docreview/internal/scoring"
	"github.com/joseph-ayodele/docreview/internal/segment"
)

func extract(text string) fields.Fields {
	return fields.Extract([]segment.Segment{{Source: segment.TextLocator(), Text: text}}, scoring.Scores{})
}

func TestBuildAssignsPerCategoryCounters(t *testing.T) {
	a := extract("회사명: 주식회사 가나다\n투자금액: 5억원\n1주당 발행가액: 10,000원")
	b := extract("회사명: 주식회사 가나다\n투자금액: 6억원\n발행주식수: 50,000주")
	m := Build(a, b)

	tokens := m.Tokens()
	assert.Equal(t, "[COMPANY_1]", tokens["주식회사 가나다"])
	assert.Equal(t, "[COMPANY_1]", tokens["가나다"])
	assert.Equal(t, "[AMOUNT_1]", tokens["5억원"])
	assert.Equal(t, "[AMOUNT_2]", tokens["10,000원"])
	assert.Equal(t, "[AMOUNT_3]", tokens["6억원"])
	assert.Equal(t, "[COUNT_1]", tokens["50,000주"])
	assert.Equal(t, 6, m.Len())
}

func TestApplyKnownValuesLongestFirst(t *testing.T) {
	m := Build(extract("회사명: 주식회사 가나다\n투자금액: 5억원"))
	got := m.Apply("주식회사  가나다는 5억원을, 가나다 대표는 15억원을 요청했다.")
	assert.Equal(t, "[COMPANY_1]는 [AMOUNT_1]을, [COMPANY_1] 대표는 [AMOUNT]을 요청했다.", got)
}

func TestApplyLineMasks(t *testing.T) {
	got := Text("주소: 서울특별시 강남구 테헤란로 1\n대표이사: 홍길동\n기타: 유지")
	assert.Equal(t, "주소: [ADDRESS]\n대표이사: [PERSON]\n기타: 유지", got)
}

func TestApplyInlinePerson(t *testing.T) {
	got := Text("회사명: 가나다 대표이사: 홍길동 (서명)")
	assert.Equal(t, "회사명: 가나다 대표이사: [PERSON] (서명)", got)
}

func TestApplyStructuralPatterns(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"email", "연락처 kim@example.co.kr 로", "연락처 [EMAIL] 로"},
		{"phone", "전화 02-1234-5678", "전화 [PHONE]"},
		{"mobile", "휴대폰 010-1234-5678.", "휴대폰 [PHONE]."},
		{"rrn", "주민번호 900101-1234567", "주민번호 [RRN]"},
		{"brn", "사업자등록번호 123-45-67890", "사업자등록번호 [BRN]"},
		{"crn", "법인등록번호 110111-5234567", "법인등록번호 [CRN]"},
		{"account", "계좌 1002-345-678901", "계좌 [ACCOUNT]"},
		{"date", "2024년 3월 15일까지", "[DATE]까지"},
		{"dotted date", "납입일 2024. 3. 15.", "납입일 [DATE]."},
		{"amount", "금 500,000,000원을 납입", "[AMOUNT]을 납입"},
		{"scaled amount", "약 3억 정도", "약 [AMOUNT] 정도"},
		{"won sign", "₩10,000 지급", "[AMOUNT] 지급"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestApplyLeavesTokensAlone(t *testing.T) {
	in := "[COMPANY_12] [AMOUNT] [DATE_3]"
	assert.Equal(t, in, Text(in))
}

func TestApplyIdempotent(t *testing.T) {
	m := Build(
		extract("회사명: 주식회사 가나다\n투자자: 라마바 파트너스\n투자금액: 5억원\n납입일: 2024. 3. 15."),
		extract("회사명: (주)가나다\n투자금액: 5억 원\n발행주식수: 50,000주"),
	)
	inputs := []string{
		"",
		"평범한 문장",
		"주식회사 가나다와 라마바 파트너스는 2024. 3. 15.까지 5억원(50,000주)을 납입한다.",
		"주소: 서울 [COMPANY_1] 빌딩\n담당자: kim@example.com 010-1234-5678",
		"5억원 5억원 5억원",
		"[AMOUNT_1]원 금 1,000원 KRW 5,000 2024-03-15 123-45-67890",
		strings.Repeat("가나다 ", 10),
	}
	for _, in := range inputs {
		once := m.Apply(in)
		assert.Equal(t, once, m.Apply(once), in)
		assert.Equal(t, Text(in), Text(Text(in)), in)
	}
}

func TestApplyRepeatedValues(t *testing.T) {
	m := Build(extract("투자금액: 5억원"))
	assert.Equal(t, "[AMOUNT_1] [AMOUNT_1] [AMOUNT_1]", m.Apply("5억원 5억원 5억원"))
}

func TestNilMap(t *testing.T) {
	var m *Map
	require.Equal(t, 0, m.Len())
	assert.Empty(t, m.Tokens())
	assert.Equal(t, "[EMAIL]", m.Apply("a@b.io"))
}

func TestShortValuesSkipped(t *testing.T) {
	m := Build(fields.Fields{"share_count": {Name: "share_count", Type: fields.TypeCount, Value: "5", Normalized: int64(5)}})
	assert.Equal(t, 0, m.Len())
}
