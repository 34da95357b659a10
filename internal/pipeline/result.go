package pipeline

import (
	"strings"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/clauses"
	"github.com/joseph-ayodele/docreview/internal/compare"
	"github.com/joseph-ayodele/docreview/internal/fields"
	"github.com/joseph-ayodele/docreview/internal/llm"
	"github.com/joseph-ayodele/docreview/internal/mask"
	"github.com/joseph-ayodele/docreview/internal/review"
	"github.com/joseph-ayodele/docreview/internal/scoring"
)

// Result is the outcome of one review session. The replacement map stays
// on the value and is never serialized.
type Result struct {
	A           *DocumentResult   `json:"a"`
	B           *DocumentResult   `json:"b"`
	Comparisons []compare.Result  `json:"comparisons"`
	Opinion     review.Opinion    `json:"opinion"`
	Prose       *llm.Prose        `json:"prose,omitempty"`
	ProseError  string            `json:"prose_error,omitempty"`
	LoadErrors  map[string]string `json:"load_errors,omitempty"`
	IsMasked    bool              `json:"masked"`

	replacements *mask.Map
}

// Replacements exposes the session's value → token map for internal use.
func (r *Result) Replacements() map[string]string {
	return r.replacements.Tokens()
}

// HighCount is the number of high-severity opinion items.
func (r *Result) HighCount() int {
	return r.Opinion.Count(constants.SeverityHigh)
}

// Masked returns a copy with every free-text value passed through the
// session mask. Numeric normalized values are replaced by their token.
// Masking a masked result changes nothing.
func (r *Result) Masked() *Result {
	m := r.replacements
	apply := m.Apply
	out := &Result{
		A:            maskDocument(r.A, apply),
		B:            maskDocument(r.B, apply),
		Opinion:      maskOpinion(r.Opinion, apply),
		ProseError:   apply(r.ProseError),
		IsMasked:     true,
		replacements: m,
	}
	if r.Comparisons != nil {
		out.Comparisons = make([]compare.Result, len(r.Comparisons))
		for i, c := range r.Comparisons {
			c.ValueA = apply(c.ValueA)
			c.ValueB = apply(c.ValueB)
			c.Note = maskNote(c, apply)
			out.Comparisons[i] = c
		}
	}
	if r.LoadErrors != nil {
		out.LoadErrors = make(map[string]string, len(r.LoadErrors))
		for k, v := range r.LoadErrors {
			out.LoadErrors[k] = apply(v)
		}
	}
	if r.Prose != nil {
		p := llm.Prose{Text: apply(r.Prose.Text), Highlights: mapStrings(r.Prose.Highlights, apply)}
		out.Prose = &p
	}
	return out
}

// maskNote hides the absolute difference of a numeric mismatch.
func maskNote(c compare.Result, apply func(string) string) string {
	if c.Status != constants.StatusMismatch || c.Note == "" {
		return apply(c.Note)
	}
	def, ok := fields.Lookup(c.Field)
	if !ok {
		return apply(c.Note)
	}
	switch def.Type {
	case fields.TypeAmount:
		return "[AMOUNT]"
	case fields.TypeCount:
		return "[COUNT]"
	}
	return apply(c.Note)
}

func maskDocument(d *DocumentResult, apply func(string) string) *DocumentResult {
	if d == nil {
		return nil
	}
	out := *d
	out.Name = apply(d.Name)
	out.OCRError = apply(d.OCRError)
	out.Warnings = mapStrings(d.Warnings, apply)
	out.OCRPagesUsed = append([]int{}, d.OCRPagesUsed...)

	out.Fields = make(fields.Fields, len(d.Fields))
	for k, f := range d.Fields {
		f.Value = apply(f.Value)
		f.Snippet = apply(f.Snippet)
		switch n := f.Normalized.(type) {
		case string:
			f.Normalized = apply(n)
		case int64:
			f.Normalized = f.Value
		}
		out.Fields[k] = f
	}

	out.Clauses = make([]clauses.Result, len(d.Clauses))
	for i, c := range d.Clauses {
		c.Snippet = apply(c.Snippet)
		out.Clauses[i] = c
	}
	out.TopSegments = make([]scoring.Ranked, len(d.TopSegments))
	for i, s := range d.TopSegments {
		s.Preview = apply(s.Preview)
		s.Heading = apply(s.Heading)
		out.TopSegments[i] = s
	}
	return &out
}

func maskOpinion(op review.Opinion, apply func(string) string) review.Opinion {
	out := review.Opinion{
		Summary:   mapStrings(op.Summary, apply),
		Questions: mapStrings(op.Questions, apply),
		Items:     make([]review.Item, len(op.Items)),
	}
	for i, it := range op.Items {
		it.Issue = apply(it.Issue)
		it.Detail = apply(it.Detail)
		it.Action = apply(it.Action)
		out.Items[i] = it
	}
	return out
}

func mapStrings(in []string, fn func(string) string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fn(s)
	}
	return out
}

// Sides lists the present documents in A, B order.
func (r *Result) Sides() []*DocumentResult {
	var out []*DocumentResult
	for _, d := range []*DocumentResult{r.A, r.B} {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Label renders "A vs B" for logs and stores.
func (r *Result) Label() string {
	names := make([]string, 0, 2)
	for _, d := range r.Sides() {
		names = append(names, d.Name)
	}
	return strings.Join(names, " vs ")
}
