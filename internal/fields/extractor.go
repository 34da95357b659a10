// Package fields pulls normalized deal terms out of document segments with
// an ordered table of regular expressions.
package fields

import (
	"strings"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/scoring"
	"github.com/joseph-ayodele/docreview/internal/segment"
)

// Extracted is one field found in one document. Normalized holds an int64
// (amount, count), nil (unparseable amount or count) or a string.
type Extracted struct {
	Name       string          `json:"name"`
	Label      string          `json:"label"`
	Type       Type            `json:"type"`
	Value      string          `json:"value"`
	Normalized any             `json:"normalized"`
	Source     segment.Locator `json:"source"`
	Snippet    string          `json:"snippet"`
	Weight     float64         `json:"weight"`
}

// Number returns the parsed numeric value of an amount or count field.
func (e Extracted) Number() (int64, bool) {
	n, ok := e.Normalized.(int64)
	return n, ok
}

// Key is the string form used for equality of non-numeric fields.
func (e Extracted) Key() string {
	if s, ok := e.Normalized.(string); ok && s != "" {
		return s
	}
	return segment.Collapse(e.Value)
}

// Fields maps definition name to the extracted field. Absent means not found.
type Fields map[string]Extracted

// Extract runs the default definition table over segs.
func Extract(segs []segment.Segment, scores scoring.Scores) Fields {
	return ExtractWith(Definitions, segs, scores)
}

// ExtractWith tries each definition's patterns in order and, per pattern,
// each segment in order; the first match wins.
func ExtractWith(defs []Definition, segs []segment.Segment, scores scoring.Scores) Fields {
	out := Fields{}
	for _, def := range defs {
		if f, ok := extractOne(def, segs, scores); ok {
			out[def.Name] = f
		}
	}
	return out
}

func extractOne(def Definition, segs []segment.Segment, scores scoring.Scores) (Extracted, bool) {
	for _, re := range def.Patterns {
		g := re.SubexpIndex("value")
		if g < 0 {
			continue
		}
		for _, s := range segs {
			loc := re.FindStringSubmatchIndex(s.Text)
			if loc == nil || loc[2*g] < 0 {
				continue
			}
			value := strings.TrimSpace(s.Text[loc[2*g]:loc[2*g+1]])
			if value == "" {
				continue
			}
			return Extracted{
				Name:       def.Name,
				Label:      def.Label,
				Type:       def.Type,
				Value:      value,
				Normalized: normalize(def.Type, value),
				Source:     s.Source,
				Snippet:    segment.Snippet(s.Text, loc[0], loc[1], constants.SnippetRadius),
				Weight:     scores.Weight(s.Source),
			}, true
		}
	}
	return Extracted{}, false
}

func normalize(t Type, value string) any {
	switch t {
	case TypeCompany:
		return NormalizeCompany(value)
	case TypeAmount:
		if n := ParseAmount(value); n != nil {
			return *n
		}
		return nil
	case TypeCount:
		if n := ParseCount(value); n != nil {
			return *n
		}
		return nil
	}
	return segment.Collapse(value)
}
