package pipeline

import (
	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/clauses"
	"github.com/joseph-ayodele/docreview/internal/fields"
	"github.com/joseph-ayodele/docreview/internal/loader"
	"github.com/joseph-ayodele/docreview/internal/review"
	"github.com/joseph-ayodele/docreview/internal/scoring"
)

const topSegments = 5

// DocumentResult is everything the review reports about one document.
type DocumentResult struct {
	Name         string            `json:"name"`
	Kind         constants.DocKind `json:"kind"`
	DocType      constants.DocType `json:"doc_type,omitempty"`
	PageCount    int               `json:"page_count"`
	Language     string            `json:"language,omitempty"`
	Fields       fields.Fields     `json:"fields"`
	Clauses      []clauses.Result  `json:"clauses"`
	TopSegments  []scoring.Ranked  `json:"top_segments"`
	OCRUsed      bool              `json:"ocr_used"`
	OCRError     string            `json:"ocr_error,omitempty"`
	OCRReason    string            `json:"ocr_reason,omitempty"`
	OCRPagesUsed []int             `json:"ocr_pages_used"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Analyze scores the merged segments once and feeds the same weights to
// the field extractor and the clause detector.
func Analyze(doc *loader.Document, docType constants.DocType) *DocumentResult {
	scores := scoring.Score(doc.Segments)
	top := scores.Ranked
	if len(top) > topSegments {
		top = top[:topSegments]
	}
	res := &DocumentResult{
		Name:         doc.Name,
		Kind:         doc.Kind,
		DocType:      docType,
		PageCount:    doc.PageCount,
		Language:     doc.Language,
		Fields:       fields.Extract(doc.Segments, scores),
		Clauses:      clauses.Detect(docType, doc.Segments, scores),
		TopSegments:  append([]scoring.Ranked{}, top...),
		OCRUsed:      doc.OCRUsed,
		OCRError:     doc.OCRError,
		OCRReason:    doc.OCRReason,
		OCRPagesUsed: append([]int{}, doc.OCRPages...),
		Warnings:     doc.Warnings,
	}
	if res.Clauses == nil {
		res.Clauses = []clauses.Result{}
	}
	return res
}

func (d *DocumentResult) side() *review.Side {
	if d == nil {
		return nil
	}
	return &review.Side{Name: d.Name, DocType: d.DocType, Clauses: d.Clauses, OCRUsed: d.OCRUsed, OCRError: d.OCRError}
}

func (d *DocumentResult) fieldMap() fields.Fields {
	if d == nil {
		return nil
	}
	return d.Fields
}
