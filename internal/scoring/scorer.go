// Package scoring weights segments by TF-IDF with small boosts for numeric
// density and length, normalized to [0,1] per document.
package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/docreview/internal/segment"
)

const (
	digitBoost   = 0.4
	lengthBoost  = 0.2
	lengthCap    = 800
	previewRunes = 120
)

var reHeading = regexp.MustCompile(`^\s*(제\s*\d+\s*조(?:\s*\([^)]*\))?|(?i:article)\s+\d+|(?i:section)\s+\d+(?:\.\d+)*)`)

type Ranked struct {
	Source  segment.Locator `json:"source"`
	Weight  float64         `json:"weight"`
	Heading string          `json:"heading,omitempty"`
	Preview string          `json:"preview"`
}

type Scores struct {
	Weights map[segment.Locator]float64
	Ranked  []Ranked
}

// Weight returns the weight for loc, 0 when unknown.
func (s Scores) Weight(loc segment.Locator) float64 {
	return s.Weights[loc]
}

// Tokenize splits text into lowercase runs of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Score weights segs. If every raw score is equal, every weight is 0.
func Score(segs []segment.Segment) Scores {
	out := Scores{Weights: make(map[segment.Locator]float64, len(segs))}
	if len(segs) == 0 {
		return out
	}

	tokens := make([][]string, len(segs))
	df := map[string]int{}
	for i, s := range segs {
		tokens[i] = Tokenize(s.Text)
		seen := map[string]bool{}
		for _, t := range tokens[i] {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}
	n := float64(len(segs))
	idf := func(t string) float64 { return math.Log((n+1)/(float64(df[t])+1)) + 1 }

	raw := make([]float64, len(segs))
	for i, s := range segs {
		raw[i] = tfidf(tokens[i], idf) + digitBoost*digitDensity(s.Text) + lengthBoost*math.Min(float64(utf8.RuneCountInString(s.Text))/lengthCap, 1)
	}

	lo, hi := raw[0], raw[0]
	for _, r := range raw[1:] {
		lo, hi = math.Min(lo, r), math.Max(hi, r)
	}
	scale := hi - lo
	if scale == 0 {
		scale = 1
	}

	for i, s := range segs {
		w := (raw[i] - lo) / scale
		out.Weights[s.Source] = w
		out.Ranked = append(out.Ranked, Ranked{
			Source:  s.Source,
			Weight:  w,
			Heading: Heading(s.Text),
			Preview: preview(s.Text),
		})
	}
	sort.SliceStable(out.Ranked, func(i, j int) bool {
		if out.Ranked[i].Weight != out.Ranked[j].Weight {
			return out.Ranked[i].Weight > out.Ranked[j].Weight
		}
		return out.Ranked[i].Source.Less(out.Ranked[j].Source)
	})
	return out
}

func tfidf(tokens []string, idf func(string) float64) float64 {
	if len(tokens) == 0 {
		return 0
	}
	counts := map[string]int{}
	for _, t := range tokens {
		counts[t]++
	}
	total := float64(len(tokens))
	var sum float64
	for t, c := range counts {
		sum += float64(c) / total * idf(t)
	}
	return sum / float64(len(counts))
}

func digitDensity(text string) float64 {
	var digits, runes int
	for _, r := range text {
		runes++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if runes == 0 {
		return 0
	}
	return float64(digits) / float64(runes)
}

// Heading returns the section marker a segment opens with, if any.
func Heading(text string) string {
	m := reHeading.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return segment.Collapse(m[1])
}

func preview(text string) string {
	text = segment.Collapse(text)
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes]) + "…"
}
