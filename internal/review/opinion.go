// Package review turns comparisons, clause checks and OCR flags into a
// severity-tagged opinion with open questions.
package review

import (
	"fmt"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/clauses"
	"github.com/joseph-ayodele/docreview/internal/compare"
)

type Item struct {
	Severity constants.Severity `json:"severity"`
	Issue    string             `json:"issue"`
	Detail   string             `json:"detail"`
	Action   string             `json:"action"`
}

type Opinion struct {
	Summary   []string `json:"summary"`
	Items     []Item   `json:"items"`
	Questions []string `json:"questions"`
}

// Side is what the synthesizer needs to know about one document.
type Side struct {
	Name     string
	DocType  constants.DocType
	Clauses  []clauses.Result
	OCRUsed  bool
	OCRError string
}

// Input is nil on a side that was not supplied or failed to load.
type Input struct {
	A, B        *Side
	Comparisons []compare.Result
}

const NoIssues = "중대한 이슈 없음"

// Synthesize applies the rule table in order. It holds no state of its own.
func Synthesize(in Input) Opinion {
	var b builder

	if in.A == nil && in.B == nil {
		b.add(constants.SeverityInfo, "검토 대상 문서 없음", "두 문서 모두 제공되지 않았습니다.", "비교할 문서 두 건을 제공하세요.")
		return b.opinion()
	}
	if in.A == nil || in.B == nil {
		missing := "A"
		if in.B == nil {
			missing = "B"
		}
		b.add(constants.SeverityInfo,
			fmt.Sprintf("문서 %s 누락", missing),
			fmt.Sprintf("문서 %s가 없어 항목 비교를 수행하지 않았습니다.", missing),
			fmt.Sprintf("문서 %s를 제공한 뒤 다시 검토하세요.", missing))
	} else {
		b.comparisons(in.Comparisons)
	}

	sides := []struct {
		tag  string
		side *Side
	}{{"A", in.A}, {"B", in.B}}
	for _, s := range sides {
		if s.side != nil {
			b.clauses(s.tag, s.side)
		}
	}
	for _, s := range sides {
		if s.side != nil {
			b.ocr(s.tag, s.side)
		}
	}
	return b.opinion()
}

type builder struct {
	items     []Item
	questions []string
}

func (b *builder) add(sev constants.Severity, issue, detail, action string) {
	b.items = append(b.items, Item{Severity: sev, Issue: issue, Detail: detail, Action: action})
}

func (b *builder) ask(q string) {
	b.questions = append(b.questions, q)
}

func (b *builder) comparisons(results []compare.Result) {
	for _, r := range results {
		if r.Status != constants.StatusMismatch {
			continue
		}
		sev := constants.SeverityMedium
		if r.Severity == constants.SeverityHigh {
			sev = constants.SeverityHigh
		}
		b.add(sev,
			fmt.Sprintf("%s 불일치", r.Label),
			fmt.Sprintf("문서 A: %s / 문서 B: %s", r.ValueA, r.ValueB),
			fmt.Sprintf("%s의 최종 값을 확인하고 두 문서를 일치시키세요.", r.Label))
		b.ask(fmt.Sprintf("%s의 정확한 값은 무엇입니까? (A: %s, B: %s)", r.Label, r.ValueA, r.ValueB))
	}
	for _, r := range results {
		if r.Status != constants.StatusMissing {
			continue
		}
		present, absent := "A", "B"
		if r.ValueA == "" {
			present, absent = "B", "A"
		}
		b.add(r.Severity,
			fmt.Sprintf("%s 누락", r.Label),
			fmt.Sprintf("%s 항목이 문서 %s에만 있습니다.", r.Label, present),
			fmt.Sprintf("문서 %s에 %s 항목을 보완할지 검토하세요.", absent, r.Label))
		b.ask(fmt.Sprintf("문서 %s에 %s 항목을 추가해야 합니까?", absent, r.Label))
	}
	for _, r := range results {
		if r.Status != constants.StatusNeedsReview {
			continue
		}
		b.add(constants.SeverityMedium,
			fmt.Sprintf("%s 해석 실패", r.Label),
			fmt.Sprintf("%s 값을 숫자로 해석하지 못했습니다. (A: %s, B: %s)", r.Label, r.ValueA, r.ValueB),
			"원문 표기를 직접 확인하세요.")
		b.ask(fmt.Sprintf("%s의 원문 표기를 그대로 알려주시겠습니까?", r.Label))
	}
}

func (b *builder) clauses(tag string, s *Side) {
	required := clauses.RequiredSeverity[s.DocType]
	if len(required) == 0 {
		return
	}
	for _, c := range s.Clauses {
		sev, ok := required[c.ID]
		if !ok || c.Present {
			continue
		}
		b.add(sev,
			fmt.Sprintf("문서 %s: %s 조항 미확인", tag, c.Label),
			fmt.Sprintf("문서 %s에서 %s 관련 문구를 찾지 못했습니다.", tag, c.Label),
			fmt.Sprintf("%s 조항의 포함 여부를 확인하세요.", c.Label))
		b.ask(fmt.Sprintf("문서 %s에 %s 조항이 포함되어 있습니까?", tag, c.Label))
	}
}

func (b *builder) ocr(tag string, s *Side) {
	switch {
	case s.OCRError != "":
		b.add(constants.SeverityMedium,
			fmt.Sprintf("문서 %s: OCR 실패", tag),
			fmt.Sprintf("OCR 처리에 실패하여 원본 텍스트만 사용했습니다: %s", s.OCRError),
			"스캔 품질을 확인하거나 텍스트 원본을 제공하세요.")
	case s.OCRUsed:
		b.add(constants.SeverityInfo,
			fmt.Sprintf("문서 %s: OCR 사용", tag),
			"일부 페이지를 OCR로 인식했습니다.",
			"인식된 값을 원본과 대조하여 수동으로 확인하세요.")
	}
}

func (b *builder) opinion() Opinion {
	op := Opinion{Items: b.items, Questions: b.questions}
	if op.Items == nil {
		op.Items = []Item{}
	}
	if len(op.Questions) > constants.MaxQuestions {
		op.Questions = op.Questions[:constants.MaxQuestions]
	}
	if op.Questions == nil {
		op.Questions = []string{}
	}
	op.Summary = Summarize(op.Items)
	return op
}

// Summarize counts items per severity in bucket order, skipping empty
// buckets.
func Summarize(items []Item) []string {
	if len(items) == 0 {
		return []string{NoIssues}
	}
	counts := map[constants.Severity]int{}
	for _, it := range items {
		counts[it.Severity]++
	}
	var out []string
	for _, sev := range constants.SeverityOrder {
		if n := counts[sev]; n > 0 {
			out = append(out, fmt.Sprintf("%s %d건", sev, n))
		}
	}
	return out
}

// Count returns the number of items at sev.
func (o Opinion) Count(sev constants.Severity) int {
	n := 0
	for _, it := range o.Items {
		if it.Severity == sev {
			n++
		}
	}
	return n
}
