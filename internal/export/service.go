package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docreview/internal/fields"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
)

const (
	SheetComparisons = "Comparisons"
	SheetFields      = "Fields"
	SheetClauses     = "Clauses"
	SheetOpinion     = "Opinion"
)

// Service renders review results as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReviewXLSX returns the workbook for res as bytes. An unmasked result is
// masked first; the workbook never carries raw values.
func (s *Service) ReviewXLSX(res *pipeline.Result) ([]byte, error) {
	start := time.Now()
	if !res.IsMasked {
		res = res.Masked()
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetComparisons); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	for _, name := range []string{SheetFields, SheetClauses, SheetOpinion} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("xlsx sheet %s: %w", name, err)
		}
	}

	rows := map[string]int{
		SheetComparisons: writeComparisons(f, res),
		SheetFields:      writeFields(f, res),
		SheetClauses:     writeClauses(f, res),
		SheetOpinion:     writeOpinion(f, res),
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"comparisons", rows[SheetComparisons],
		"fields", rows[SheetFields],
		"clauses", rows[SheetClauses],
		"items", rows[SheetOpinion],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// sheetWriter writes rows top-down, starting below the header.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, sheet string, headers ...string) *sheetWriter {
	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	w.write(toAny(headers)...)
	return w
}

func (w *sheetWriter) write(values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, w.row)
		_ = w.f.SetCellValue(w.sheet, cell, v)
	}
	w.row++
}

func (w *sheetWriter) widths(widths ...float64) {
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = w.f.SetColWidth(w.sheet, col, col, width)
	}
}

func (w *sheetWriter) rows() int { return w.row - 2 }

func writeComparisons(f *excelize.File, res *pipeline.Result) int {
	w := newSheet(f, SheetComparisons, "Field", "Label", "Severity", "Document A", "Document B", "Status", "Note")
	for _, c := range res.Comparisons {
		w.write(c.Field, c.Label, string(c.Severity), c.ValueA, c.ValueB, string(c.Status), c.Note)
	}
	w.widths(20, 16, 10, 28, 28, 14, 30)
	return w.rows()
}

func writeFields(f *excelize.File, res *pipeline.Result) int {
	w := newSheet(f, SheetFields, "Document", "Field", "Label", "Value", "Normalized", "Source", "Weight", "Snippet")
	for _, d := range res.Sides() {
		for _, def := range fields.Definitions {
			e, ok := d.Fields[def.Name]
			if !ok {
				continue
			}
			norm := ""
			if e.Normalized != nil {
				norm = fmt.Sprint(e.Normalized)
			}
			w.write(d.Name, e.Name, e.Label, e.Value, norm, e.Source.String(), e.Weight, truncate(e.Snippet, 200))
		}
	}
	w.widths(20, 20, 16, 28, 20, 10, 8, 80)
	return w.rows()
}

func writeClauses(f *excelize.File, res *pipeline.Result) int {
	w := newSheet(f, SheetClauses, "Document", "Clause", "Label", "Present", "Source", "Snippet")
	for _, d := range res.Sides() {
		for _, c := range d.Clauses {
			src := ""
			if c.Source != nil {
				src = c.Source.String()
			}
			w.write(d.Name, c.ID, c.Label, c.Present, src, truncate(c.Snippet, 200))
		}
	}
	w.widths(20, 24, 16, 8, 10, 80)
	return w.rows()
}

func writeOpinion(f *excelize.File, res *pipeline.Result) int {
	w := newSheet(f, SheetOpinion, "Severity", "Issue", "Detail", "Action")
	for _, it := range res.Opinion.Items {
		w.write(string(it.Severity), it.Issue, it.Detail, it.Action)
	}
	n := w.rows()

	w.row++
	w.write("Summary")
	for _, line := range res.Opinion.Summary {
		w.write(line)
	}
	if len(res.Opinion.Questions) > 0 {
		w.row++
		w.write("Questions")
		for _, q := range res.Opinion.Questions {
			w.write(q)
		}
	}
	if res.Prose != nil && res.Prose.Text != "" {
		w.row++
		w.write("Prose")
		w.write(res.Prose.Text)
	}
	w.widths(10, 40, 60, 50)
	return n
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
