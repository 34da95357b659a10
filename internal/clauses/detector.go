// Package clauses reports which named clauses a document contains, using
// a per-document-type keyword taxonomy.
package clauses

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/scoring"
	"github.com/joseph-ayodele/docreview/internal/segment"
)

type Result struct {
	ID      string           `json:"id"`
	Label   string           `json:"label"`
	Present bool             `json:"present"`
	Source  *segment.Locator `json:"source,omitempty"`
	Snippet string           `json:"snippet"`
	Weight  float64          `json:"weight"`
}

// Detect runs the taxonomy for docType over segs. An empty or unknown
// document type yields no results.
func Detect(docType constants.DocType, segs []segment.Segment, scores scoring.Scores) []Result {
	return DetectWith(Taxonomy(docType), segs, scores)
}

// DetectWith reports one result per definition, in definition order. The
// first hit by segment order, then keyword order, wins.
func DetectWith(defs []Definition, segs []segment.Segment, scores scoring.Scores) []Result {
	if len(defs) == 0 {
		return nil
	}
	lowered := make([]string, len(segs))
	for i, s := range segs {
		lowered[i] = lower(s.Text)
	}

	out := make([]Result, 0, len(defs))
	for _, def := range defs {
		out = append(out, detectOne(def, segs, lowered, scores))
	}
	return out
}

func detectOne(def Definition, segs []segment.Segment, lowered []string, scores scoring.Scores) Result {
	res := Result{ID: def.ID, Label: def.Label}
	for i, s := range segs {
		for _, kw := range def.Keywords {
			kw = lower(kw)
			if kw == "" {
				continue
			}
			at := strings.Index(lowered[i], kw)
			if at < 0 {
				continue
			}
			start, end := originalRange(s.Text, lowered[i], at, len(kw))
			src := s.Source
			res.Present = true
			res.Source = &src
			res.Snippet = segment.Snippet(s.Text, start, end, constants.SnippetRadius)
			res.Weight = scores.Weight(s.Source)
			return res
		}
	}
	return res
}

// lower maps rune by rune so rune offsets line up with the original.
func lower(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// originalRange converts a byte range in lowered text to the matching byte
// range in orig. Byte widths can differ between a rune and its lowercase.
func originalRange(orig, lowered string, at, n int) (int, int) {
	if len(orig) == len(lowered) {
		return at, at + n
	}
	rs := utf8.RuneCountInString(lowered[:at])
	rn := utf8.RuneCountInString(lowered[at : at+n])
	runes := []rune(orig)
	start := len(string(runes[:rs]))
	return start, start + len(string(runes[rs:rs+rn]))
}

// Present returns the ids of the clauses found.
func Present(results []Result) []string {
	var ids []string
	for _, r := range results {
		if r.Present {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
