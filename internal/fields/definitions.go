package fields

import (
	"regexp"

	"github.com/joseph-ayodele/docreview/constants"
)

type Type string

const (
	TypeCompany Type = "company"
	TypeAmount  Type = "amount"
	TypeCount   Type = "count"
	TypeDate    Type = "date"
	TypeText    Type = "text"
)

// Definition describes one extractable field. Every pattern carries a
// named group "value".
type Definition struct {
	Name     string
	Label    string
	Type     Type
	Severity constants.Severity
	Patterns []*regexp.Regexp
}

const (
	amountNum   = `[0-9](?:[0-9,.]*[0-9])?`
	amountUnit  = `(?:조|억|천만|백만|십만|만|천|백)`
	amountValue = `(?P<value>(?:금[ \t]*)?` + amountNum + `(?:[ \t]*` + amountUnit + `(?:[ \t]*` + amountNum + `[ \t]*` + amountUnit + `)*(?:[ \t]*` + amountNum + `[ \t]*원)?)?[ \t]*원?)`
	countValue  = `(?P<value>[0-9][0-9,]*[ \t]*주?)`
	dateValue   = `(?P<value>\d{4}[ \t]*[.\-/년][ \t]*\d{1,2}[ \t]*[.\-/월][ \t]*\d{1,2}[ \t]*일?)`
	lineValue   = `(?P<value>[^\s][^\r\n]*?)[ \t]*\r?$`
	companyName = `(?:주식회사|㈜|\(주\))[ \t]*[가-힣A-Za-z0-9&]+|[가-힣A-Za-z0-9&]+[ \t]*(?:주식회사|㈜|\(주\))`
	lawValue    = `(?P<value>(?:대한민국|한국|일본|영국|싱가포르|홍콩|미국[ \t]*(?:뉴욕주|델라웨어주|캘리포니아주)?|뉴욕주|델라웨어주)[ \t]*법)`
)

func p(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }

// Definitions is the fixed field table. Order is the comparison order.
var Definitions = []Definition{
	{
		Name: "company_name", Label: "회사명", Type: TypeCompany, Severity: constants.SeverityHigh,
		Patterns: []*regexp.Regexp{
			p(`(?m)(?:회사명|발행회사|대상회사|회[ \t]*사)[ \t]*:[ \t]*` + lineValue),
			p(`(?P<value>` + companyName + `)[ \t]*\(이하[ \t]*["“']?(?:회사|발행회사)`),
			p(`(?im)(?:company(?:[ \t]+name)?|issuer)[ \t]*:[ \t]*` + lineValue),
		},
	},
	{
		Name: "investor_name", Label: "투자자", Type: TypeCompany, Severity: constants.SeverityHigh,
		Patterns: []*regexp.Regexp{
			p(`(?m)(?:투자자|인수인)(?:명)?[ \t]*:[ \t]*` + lineValue),
			p(`(?P<value>` + companyName + `|[가-힣A-Za-z0-9&]+[ \t]*(?:투자조합|펀드|벤처투자|인베스트먼트|파트너스))[ \t]*\(이하[ \t]*["“']?(?:투자자|인수인)`),
			p(`(?im)(?:investors?|purchasers?)[ \t]*:[ \t]*` + lineValue),
		},
	},
	{
		Name: "investment_amount", Label: "투자금액", Type: TypeAmount, Severity: constants.SeverityHigh,
		Patterns: []*regexp.Regexp{
			p(`(?:총[ \t]*)?(?:투자금액|투자[ \t]*총액|인수대금|인수[ \t]*금액)[ \t]*:?[ \t]*(?:은|는)?[ \t]*` + amountValue),
			p(`(?i)(?:investment amount|aggregate purchase price|purchase price)[ \t]*:?[ \t]*(?:KRW|₩)?[ \t]*` + amountValue),
			p(amountValue + `[ \t]*(?:을|를)[ \t]*투자`),
		},
	},
	{
		Name: "price_per_share", Label: "주당 발행가액", Type: TypeAmount, Severity: constants.SeverityHigh,
		Patterns: []*regexp.Regexp{
			p(`(?:1[ \t]*)?주당[ \t]*(?:발행가액|발행가격|인수가액|인수가격|가액|가격)[ \t]*:?[ \t]*(?:은|는)?[ \t]*` + amountValue),
			p(`(?i)price per share[ \t]*:?[ \t]*(?:KRW|₩)?[ \t]*` + amountValue),
		},
	},
	{
		Name: "share_count", Label: "발행주식수", Type: TypeCount, Severity: constants.SeverityHigh,
		Patterns: []*regexp.Regexp{
			p(`(?:발행[ \t]*주식[ \t]*수|발행주식수|인수[ \t]*주식[ \t]*수|신주의?[ \t]*수|주식의?[ \t]*수)[ \t]*:?[ \t]*(?:은|는)?[ \t]*(?:보통주|우선주|전환우선주|상환전환우선주)?[ \t]*` + countValue),
			p(`(?i)(?:number of shares|shares to be issued)[ \t]*:?[ \t]*` + countValue),
		},
	},
	{
		Name: "pre_money_valuation", Label: "투자 전 기업가치", Type: TypeAmount, Severity: constants.SeverityMedium,
		Patterns: []*regexp.Regexp{
			p(`(?:투자[ \t]*전[ \t]*기업[ \t]*가치|기업[ \t]*가치[ \t]*\([ \t]*투자[ \t]*전[ \t]*\)|프리머니[ \t]*(?:밸류에이션)?)[ \t]*:?[ \t]*(?:은|는)?[ \t]*` + amountValue),
			p(`(?i)pre[- \t]?money(?:[ \t]+valuation)?[ \t]*:?[ \t]*(?:KRW|₩)?[ \t]*` + amountValue),
		},
	},
	{
		Name: "share_type", Label: "주식 종류", Type: TypeText, Severity: constants.SeverityMedium,
		Patterns: []*regexp.Regexp{
			p(`(?m)(?:인수[ \t]*)?(?:주식|증권)의?[ \t]*종류[ \t]*:[ \t]*` + lineValue),
			p(`(?im)(?:type|class) of (?:shares|securities)[ \t]*:[ \t]*` + lineValue),
			p(`(?P<value>상환전환우선주|전환상환우선주|전환우선주|상환우선주|보통주)`),
		},
	},
	{
		Name: "closing_date", Label: "납입일", Type: TypeDate, Severity: constants.SeverityMedium,
		Patterns: []*regexp.Regexp{
			p(`(?:납입일|납입기일|거래[ \t]*종결일|클로징[ \t]*일)[ \t]*:?[ \t]*(?:은|는)?[ \t]*` + dateValue),
			p(`(?i)closing date[ \t]*:?[ \t]*` + dateValue),
		},
	},
	{
		Name: "governing_law", Label: "준거법", Type: TypeText, Severity: constants.SeverityLow,
		Patterns: []*regexp.Regexp{
			p(`(?m)준거법[ \t]*:[ \t]*` + lineValue),
			p(lawValue + `(?:을|를)?[ \t]*준거법`),
			p(`(?im)governing law[ \t]*:[ \t]*` + lineValue),
		},
	},
}

// Lookup returns the definition named name.
func Lookup(name string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
