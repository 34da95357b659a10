package clauses

import "github.com/joseph-ayodele/docreview/constants"

// Definition is one named clause and the keywords that reveal it.
// Keywords are matched as lowercase substrings.
type Definition struct {
	ID       string
	Label    string
	Keywords []string
}

// Taxonomies maps a document type to its ordered clause list.
var Taxonomies = map[constants.DocType][]Definition{
	constants.DocTypeTermSheet: {
		{ID: "binding_effect", Label: "구속력", Keywords: []string{"구속력", "법적 구속력", "binding", "non-binding"}},
		{ID: "exclusivity", Label: "배타적 협상", Keywords: []string{"배타적 협상", "독점 협상", "배타적", "exclusivity", "no-shop"}},
		{ID: "conditions_precedent", Label: "선행조건", Keywords: []string{"선행조건", "선행 조건", "conditions precedent"}},
		{ID: "liquidation_preference", Label: "잔여재산 우선분배", Keywords: []string{"잔여재산", "우선분배", "liquidation preference"}},
		{ID: "conversion", Label: "전환 조건", Keywords: []string{"전환비율", "전환가액", "전환권", "conversion"}},
		{ID: "redemption", Label: "상환 조건", Keywords: []string{"상환권", "상환 조건", "상환청구", "redemption"}},
		{ID: "confidentiality", Label: "비밀유지", Keywords: []string{"비밀유지", "기밀유지", "confidential"}},
		{ID: "governing_law", Label: "준거법", Keywords: []string{"준거법", "governing law"}},
	},
	constants.DocTypeInvestmentAgreement: {
		{ID: "representations", Label: "진술 및 보장", Keywords: []string{"진술 및 보장", "진술과 보장", "진술·보장", "representations and warranties"}},
		{ID: "conditions_precedent", Label: "선행조건", Keywords: []string{"선행조건", "선행 조건", "거래종결의 조건", "conditions precedent"}},
		{ID: "covenants", Label: "확약", Keywords: []string{"확약", "준수사항", "covenants"}},
		{ID: "indemnification", Label: "손해배상", Keywords: []string{"손해배상", "면책", "indemnif"}},
		{ID: "termination", Label: "계약 해제·해지", Keywords: []string{"해제", "해지", "termination"}},
		{ID: "dispute_resolution", Label: "분쟁해결", Keywords: []string{"분쟁해결", "분쟁의 해결", "관할법원", "중재", "arbitration", "jurisdiction"}},
		{ID: "confidentiality", Label: "비밀유지", Keywords: []string{"비밀유지", "기밀유지", "confidential"}},
		{ID: "governing_law", Label: "준거법", Keywords: []string{"준거법", "governing law"}},
	},
}

// RequiredSeverity lists the clauses whose absence is reported, per
// document type, with the severity of the resulting review item.
var RequiredSeverity = map[constants.DocType]map[string]constants.Severity{
	constants.DocTypeTermSheet: {
		"binding_effect":  constants.SeverityMedium,
		"exclusivity":     constants.SeverityLow,
		"confidentiality": constants.SeverityLow,
		"governing_law":   constants.SeverityLow,
	},
	constants.DocTypeInvestmentAgreement: {
		"representations":      constants.SeverityHigh,
		"indemnification":      constants.SeverityHigh,
		"conditions_precedent": constants.SeverityMedium,
		"termination":          constants.SeverityMedium,
		"dispute_resolution":   constants.SeverityMedium,
		"confidentiality":      constants.SeverityLow,
		"governing_law":        constants.SeverityMedium,
	},
}

// Taxonomy returns the clause list for t; nil for an unknown or empty type.
func Taxonomy(t constants.DocType) []Definition {
	return Taxonomies[t]
}
