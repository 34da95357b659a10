// Package compare reconciles the fields of two documents.
package compare

import (
	"strconv"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/fields"
)

const (
	minTolerance      = 1000
	relativeTolerance = 0.01

	NoteParseFailure = "parse failure"
	NoteOneSided     = "present in only one document"
)

// Result is the reconciliation of one field definition.
type Result struct {
	Field    string                  `json:"field"`
	Label    string                  `json:"label"`
	Severity constants.Severity      `json:"severity"`
	ValueA   string                  `json:"value_a"`
	ValueB   string                  `json:"value_b"`
	Status   constants.CompareStatus `json:"status"`
	Note     string                  `json:"note,omitempty"`
}

// Tolerance is max(1000, 1% of the larger value).
func Tolerance(a, b int64) int64 {
	hi := max(abs(a), abs(b))
	return max(int64(minTolerance), int64(float64(hi)*relativeTolerance))
}

// Compare produces exactly one result per definition, in definition order.
func Compare(a, b fields.Fields) []Result {
	return CompareWith(fields.Definitions, a, b)
}

func CompareWith(defs []fields.Definition, a, b fields.Fields) []Result {
	out := make([]Result, 0, len(defs))
	for _, def := range defs {
		out = append(out, compareOne(def, a, b))
	}
	return out
}

func compareOne(def fields.Definition, a, b fields.Fields) Result {
	fa, okA := a[def.Name]
	fb, okB := b[def.Name]
	res := Result{Field: def.Name, Label: def.Label, Severity: def.Severity, ValueA: fa.Value, ValueB: fb.Value}

	switch {
	case !okA && !okB:
		res.Status = constants.StatusNotApplicable
	case okA != okB:
		res.Status = constants.StatusMissing
		res.Note = NoteOneSided
	case def.Type == fields.TypeAmount || def.Type == fields.TypeCount:
		na, parsedA := fa.Number()
		nb, parsedB := fb.Number()
		if !parsedA || !parsedB {
			res.Status = constants.StatusNeedsReview
			res.Note = NoteParseFailure
			break
		}
		diff := abs(na - nb)
		if diff <= Tolerance(na, nb) {
			res.Status = constants.StatusMatch
		} else {
			res.Status = constants.StatusMismatch
			res.Note = strconv.FormatInt(diff, 10)
		}
	default:
		if fa.Key() == fb.Key() {
			res.Status = constants.StatusMatch
		} else {
			res.Status = constants.StatusMismatch
		}
	}
	return res
}

// Count tallies results by status.
func Count(results []Result) map[constants.CompareStatus]int {
	out := map[constants.CompareStatus]int{}
	for _, r := range results {
		out[r.Status]++
	}
	return out
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
